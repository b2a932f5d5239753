// Package db 打开 gorm MySQL 连接，战斗快照的 mysql 仓储在它之上建表。
package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"AncientWarfare/internal/shared/appconfig"
	"AncientWarfare/internal/shared/logs"
	"AncientWarfare/modules/kit/errx"
)

const (
	slowQueryThreshold = 200 * time.Millisecond
	pingTimeout        = 3 * time.Second
	connMaxLifetime    = 30 * time.Minute
)

// DSN 拼接 go-sql-driver 格式的连接串，parseTime 让 DATETIME 直接解到 time.Time。
func DSN(cfg appconfig.MySQLConfig) string {
	charset := cfg.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, charset)
}

func gormConfig(cfg appconfig.MySQLConfig) *gorm.Config {
	level := logger.Warn
	if cfg.ShowSQL {
		level = logger.Info
	}
	return &gorm.Config{
		Logger: logs.NewGormLogger(level, slowQueryThreshold),
		// 快照按 id 单行写入，不需要 gorm 默认的事务包裹
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	}
}

// Open 建连接池并 ping 一次；任何一步失败都返回 ErrUnavailable。
func Open(cfg appconfig.MySQLConfig) (*gorm.DB, error) {
	if cfg.Host == "" || cfg.DBName == "" {
		return nil, errx.ErrReqParamERR.WithData("reason", "mysql host/dbname is empty")
	}
	gdb, err := gorm.Open(mysql.Open(DSN(cfg)), gormConfig(cfg))
	if err != nil {
		return nil, errx.ErrUnavailable.WithData("backend", "mysql").WithCause(err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, errx.ErrUnavailable.WithData("backend", "mysql").WithCause(err)
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, errx.ErrUnavailable.WithData("backend", "mysql").WithCause(err)
	}

	logs.Info("open db success",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.DBName),
	)
	return gdb, nil
}
