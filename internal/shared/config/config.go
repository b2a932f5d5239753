package config

import (
	"os"
	"path/filepath"
)

// EnvConfigPath 指定配置文件路径的环境变量，优先级低于显式传入的路径。
const EnvConfigPath = "ANCIENTWAR_CONFIG"

const DefaultConfigRelPath = "configs/conf.yml"

// Load 把配置文件解码进 out 并开始监听变更，变更时重新解码并调用 onChange（可为 nil）。
//
// 查找顺序：
// 1) 传入 cfgName（相对/绝对路径）；
// 2) 环境变量 ANCIENTWAR_CONFIG；
// 3) 从当前目录开始向上查找 `configs/conf.yml`。
func Load(cfgName string, out any, onChange func()) (string, error) {
	path, err := Resolve(cfgName)
	if err != nil {
		return "", err
	}
	return path, load(path, out, onChange)
}

// MustLoad 同 Load，失败时 panic，进程启动阶段使用。
func MustLoad(cfgName string, out any, onChange func()) string {
	path, err := Load(cfgName, out, onChange)
	if err != nil {
		panic(err)
	}
	return path
}

// Resolve 返回最终使用的配置文件绝对路径。
func Resolve(cfgName string) (string, error) {
	if cfgName == "" {
		cfgName = os.Getenv(EnvConfigPath)
	}
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		if filepath.IsAbs(cfgName) {
			return cfgName, nil
		}
		return filepath.Join(curDir, cfgName), nil
	}
	return findConfigUpward(curDir)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, DefaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &NotFoundError{StartDir: startDir}
		}
		dir = parent
	}
}

type NotFoundError struct {
	StartDir string
}

func (e *NotFoundError) Error() string {
	return "config file not exist, searched " + DefaultConfigRelPath + " from: " + e.StartDir
}
