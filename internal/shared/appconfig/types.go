package appconfig

import (
	"time"

	"AncientWarfare/internal/combat/resolve"
	"AncientWarfare/internal/shared/logs"
)

type Config struct {
	Log        logs.Config      `yaml:"log" mapstructure:"log"`
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	GRPCServer GRPCServerConfig `yaml:"grpcserver" mapstructure:"grpcserver"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	Battle     BattleConfig     `yaml:"battle" mapstructure:"battle"`
	Combat     resolve.Settings `yaml:"combat" mapstructure:"combat"`
	Balance    BalanceConfig    `yaml:"balance" mapstructure:"balance"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
	// 为 0 时用 http 包的默认值
	ReadTimeout time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	IdleTimeout time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

type GRPCServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// 存储后端。
const (
	BackendMemory  = "memory"
	BackendMongoDB = "mongodb"
	BackendMySQL   = "mysql"
)

type StorageConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
	MaxPoolSize     uint64 `yaml:"max_pool_size" mapstructure:"max_pool_size"`
	AppName         string `yaml:"app_name" mapstructure:"app_name"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	ShowSQL  bool   `yaml:"show_sql" mapstructure:"show_sql"`
}

type BattleConfig struct {
	NodeID        int64         `yaml:"node_id" mapstructure:"node_id"`
	AskTimeout    time.Duration `yaml:"ask_timeout" mapstructure:"ask_timeout"`
	FlushInterval time.Duration `yaml:"flush_interval" mapstructure:"flush_interval"`
	// IdleTimeout 为 0 时战斗常驻内存
	IdleTimeout   time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

type BalanceConfig struct {
	Workers    int `yaml:"workers" mapstructure:"workers"`
	Iterations int `yaml:"iterations" mapstructure:"iterations"`
}
