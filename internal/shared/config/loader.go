package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"AncientWarfare/internal/shared/logs"
)

// reloadMu 串行化热更新时的解码，读方自行通过 onChange 拿到新值。
var reloadMu sync.Mutex

func load(configPath string, out any, onChange func()) error {
	if !fileExist(configPath) {
		return fmt.Errorf("config file not exist, configPath=%v", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	if err := decode(v, out); err != nil {
		return err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		reloadMu.Lock()
		defer reloadMu.Unlock()
		if err := decode(v, out); err != nil {
			logs.Error("reload config failed", zap.String("file", e.Name), zap.Error(err))
			return
		}
		logs.Info("config reloaded", zap.String("file", e.Name), zap.String("op", e.Op.String()))
		if onChange != nil {
			onChange()
		}
	})
	v.WatchConfig()
	return nil
}

// Decode 从已读入的 viper 实例解码，便于测试直接构造 viper。
func Decode(v *viper.Viper, out any) error {
	return decode(v, out)
}

func decode(v *viper.Viper, out any) error {
	return v.Unmarshal(out, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
