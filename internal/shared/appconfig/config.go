// Package appconfig 是战斗服务的类型化配置，文件格式见 configs/conf.yml。
package appconfig

import (
	"runtime"
	"sync/atomic"
	"time"

	"AncientWarfare/internal/shared/config"
	"AncientWarfare/internal/shared/logs"
)

var current atomic.Pointer[Config]

// Load 读取配置并开始监听。热更新刷新日志级别，平衡模拟每次读取最新的 combat/balance 段；
// 端口、存储后端与进行中战斗的引擎参数变更需要重启。
func Load(cfgName string) (*Config, error) {
	var raw Config
	_, err := config.Load(cfgName, &raw, func() {
		cp := raw
		cp.ApplyDefaults()
		current.Store(&cp)
		logs.SetLevel(cp.Log.Level)
	})
	if err != nil {
		return nil, err
	}
	cp := raw
	cp.ApplyDefaults()
	current.Store(&cp)
	return &cp, nil
}

// Current 返回最近一次加载的配置；未加载时返回默认值。
func Current() *Config {
	if c := current.Load(); c != nil {
		return c
	}
	c := &Config{}
	c.ApplyDefaults()
	return c
}

func (c *Config) ApplyDefaults() {
	if c.HTTPServer.Port == 0 {
		c.HTTPServer.Port = 8080
	}
	if c.GRPCServer.Port == 0 {
		c.GRPCServer.Port = 9090
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendMemory
	}
	if c.MongoDB.Database == "" {
		c.MongoDB.Database = "ancientwarfare"
	}
	if c.Battle.NodeID == 0 {
		c.Battle.NodeID = 1
	}
	if c.Battle.AskTimeout <= 0 {
		c.Battle.AskTimeout = 3 * time.Second
	}
	if c.Battle.FlushInterval <= 0 {
		c.Battle.FlushInterval = 500 * time.Millisecond
	}
	if c.Battle.IdleTimeout < 0 {
		c.Battle.IdleTimeout = 0
	}
	c.Combat = c.Combat.Normalize()
	if c.Balance.Workers <= 0 {
		c.Balance.Workers = runtime.NumCPU()
	}
	if c.Balance.Iterations <= 0 {
		c.Balance.Iterations = 200
	}
}
