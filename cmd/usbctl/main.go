package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danmuck/usbctl/internal/config"
	"github.com/danmuck/usbctl/internal/logging"
	"github.com/danmuck/usbctl/internal/observability"
	"github.com/danmuck/usbctl/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to usbctl TOML config")
	flag.Parse()

	logging.ConfigureRuntime()
	logger := observability.InitLogger("usbctl")

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "usbctl: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	srv := server.Appear(cfg)
	srv.RegisterRoutes()

	logger.Info().
		Str("addr", cfg.Addr).
		Str("perm_path", cfg.Mode.PermPath).
		Str("tmp_path", cfg.Mode.TmpPath).
		Msg("usbctl_listening")

	if err := srv.Run(); err != nil {
		logger.Fatal().Err(err).Msg("server_exit")
	}
}
