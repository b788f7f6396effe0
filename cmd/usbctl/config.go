package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/usbctl/internal/config"
)

type fileConfig struct {
	Name        string   `toml:"name"`
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`
	AuthToken   string   `toml:"auth_token"`
	Mode        struct {
		PermPath string `toml:"perm_path"`
		TmpPath  string `toml:"tmp_path"`
	} `toml:"mode"`
}

// loadConfig layers the file over built-in defaults; only keys actually
// present in the file override.
func loadConfig(path string) (config.Config, error) {
	cfg := config.Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config.Config{}, fmt.Errorf("load usbctl config: %w", err)
	}

	if meta.IsDefined("name") {
		if v := strings.TrimSpace(raw.Name); v != "" {
			cfg.Name = v
		}
	}
	if meta.IsDefined("addr") {
		if v := strings.TrimSpace(raw.Addr); v != "" {
			cfg.Addr = v
		}
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = raw.CorsOrigins
	}
	if meta.IsDefined("auth_token") {
		cfg.AuthToken = strings.TrimSpace(raw.AuthToken)
	}
	if meta.IsDefined("mode", "perm_path") {
		if v := strings.TrimSpace(raw.Mode.PermPath); v != "" {
			cfg.Mode.PermPath = v
		}
	}
	if meta.IsDefined("mode", "tmp_path") {
		if v := strings.TrimSpace(raw.Mode.TmpPath); v != "" {
			cfg.Mode.TmpPath = v
		}
	}

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
