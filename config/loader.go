// Package config loads server configuration from a YAML file, environment
// variables, and defaults, grounded on the loader pattern used for
// viper-backed services elsewhere in this stack (nested keys bound to an
// env prefix, defaults applied after unmarshal, no CLI-flag handling here —
// that belongs to cmd/socketio-server).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/coresio/socketio"
	"github.com/coresio/socketio/internal/pointer"
)

// File mirrors the on-disk/env shape of socketio.Config. Duration fields are
// *time.Duration, filled from "5s" style strings by mapstructure's duration
// hook (nil when the key is unset), and CORS is a pointer so "unset" and "empty string" can be told
// apart when layering over DefaultConfig.
type File struct {
	Namespace         string         `mapstructure:"namespace"`
	CORS              *string        `mapstructure:"cors"`
	HeartbeatInterval *time.Duration `mapstructure:"heartbeat_interval"`
	SessionExpire     *time.Duration `mapstructure:"session_expire"`
	ListenAddr        string         `mapstructure:"listen_addr"`
}

// Init wires viper to read configFile (if non-empty), fall back to
// ./socketio.yaml, and accept SOCKETIO_-prefixed environment overrides for
// every key in File.
func Init(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("socketio")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("SOCKETIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	for _, key := range []string{"namespace", "cors", "heartbeat_interval", "session_expire", "listen_addr"} {
		_ = viper.BindEnv(key)
	}
}

// Load reads whatever Init configured and layers it over socketio.DefaultConfig.
func Load() (socketio.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return socketio.Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var f File
	if err := viper.Unmarshal(&f); err != nil {
		return socketio.Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg := socketio.DefaultConfig()
	if f.Namespace != "" {
		cfg.Namespace = f.Namespace
	}
	if f.CORS != nil {
		cfg.CORS = pointer.Deref(f.CORS)
	}
	if f.HeartbeatInterval != nil {
		cfg.HeartbeatInterval = *f.HeartbeatInterval
	}
	if f.SessionExpire != nil {
		cfg.SessionExpire = *f.SessionExpire
	}
	if f.ListenAddr != "" {
		cfg.ListenAddr = f.ListenAddr
	}
	return cfg, nil
}
