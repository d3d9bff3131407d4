// Package config registers watchroom's settings with viper and loads them from file and environment.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/watchroom/watchroom/constant"
	"github.com/watchroom/watchroom/filesystem"
	"github.com/watchroom/watchroom/where"
)

// EnvKeyReplacer maps configuration keys to environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup installs defaults and environment bindings, then reads watchroom.toml if present.
func Setup() error {
	viper.SetConfigName(constant.Watchroom)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Watchroom)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}

// Duration reads a duration-valued key, falling back to the registered default when the
// configured value does not parse.
func Duration(k string) time.Duration {
	if d, err := time.ParseDuration(viper.GetString(k)); err == nil && d > 0 {
		return d
	}

	if field, ok := Default[k]; ok {
		if s, ok := field.Value.(string); ok {
			if d, err := time.ParseDuration(s); err == nil {
				return d
			}
		}
	}

	return 0
}
