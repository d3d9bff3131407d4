// Package where resolves the directories and files watchroom keeps on disk.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/watchroom/watchroom/constant"
	"github.com/watchroom/watchroom/filesystem"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "WATCHROOM_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the configuration directory, honouring WATCHROOM_CONFIG_PATH first and the
// platform user config directory otherwise.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Watchroom))
}

// Cache resolves the persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Watchroom))
}

// Logs resolves the directory used for daily log files.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// History resolves the file holding recently joined rooms.
func History() string {
	return filepath.Join(Config(), "rooms.json")
}

// Temp resolves a volatile directory for player IPC sockets.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Watchroom))
}
