package appconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sample = `
log:
  level: debug
httpserver:
  port: 18080
storage:
  backend: mysql
battle:
  ask_timeout: 5s
  flush_interval: 250ms
combat:
  break_ratio: 0.3
  max_turns: 12
`

func TestLoad_解析并填默认值(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.yml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTPServer.Port != 18080 || c.GRPCServer.Port != 9090 {
		t.Fatalf("端口不符: %+v %+v", c.HTTPServer, c.GRPCServer)
	}
	if c.Storage.Backend != BackendMySQL {
		t.Fatalf("期望 mysql, got=%s", c.Storage.Backend)
	}
	if c.Battle.AskTimeout != 5*time.Second || c.Battle.FlushInterval != 250*time.Millisecond {
		t.Fatalf("duration 解析失败: %+v", c.Battle)
	}
	if c.Combat.BreakRatio != 0.3 || c.Combat.MaxTurns != 12 || c.Combat.DamageScale <= 0 {
		t.Fatalf("combat 段不符: %+v", c.Combat)
	}
	if Current().HTTPServer.Port != 18080 {
		t.Fatalf("Current 应返回最近加载的配置")
	}
}

func TestLoad_文件不存在(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatalf("期望报错")
	}
}

func TestApplyDefaults(t *testing.T) {
	var c Config
	c.ApplyDefaults()
	if c.Storage.Backend != BackendMemory || c.Balance.Workers <= 0 || c.Combat.MaxTurns <= 0 {
		t.Fatalf("默认值不完整: %+v", c)
	}
}
