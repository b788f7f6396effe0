package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ModeConfig names the two files backing USB mode persistence.
type ModeConfig struct {
	PermPath string `toml:"perm_path"`
	TmpPath  string `toml:"tmp_path"`
}

type Config struct {
	Name        string     `toml:"name"`
	Addr        string     `toml:"addr"`
	CorsOrigins []string   `toml:"cors_origins"`
	AuthToken   string     `toml:"auth_token"`
	Mode        ModeConfig `toml:"mode"`
}

// Default returns the device-layout defaults used when no config file is
// supplied.
func Default() Config {
	return Config{
		Name: "usbctl",
		Addr: ":9000",
		Mode: ModeConfig{
			PermPath: "/mnt/data/mode.cfg",
			TmpPath:  "/mnt/data/mode_tmp.cfg",
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()
	if err := loadToml(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("usbctl config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("usbctl config missing addr")
	}
	if strings.TrimSpace(cfg.Mode.PermPath) == "" {
		return fmt.Errorf("usbctl config missing mode.perm_path")
	}
	if strings.TrimSpace(cfg.Mode.TmpPath) == "" {
		return fmt.Errorf("usbctl config missing mode.tmp_path")
	}
	if cfg.Mode.PermPath == cfg.Mode.TmpPath {
		return fmt.Errorf("usbctl config mode paths must differ")
	}
	return nil
}
