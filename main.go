package main

import (
	"fmt"
	"log/slog"
	"os"

	app "github.com/rocketscienceinc/tictactoe-coordinator/internal"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/config"
)

const (
	configPathEnv     = "CONFIG_PATH"
	defaultConfigPath = "config.yml"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "tictactoe-coordinator stopped: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := config.MustLoad(configPath())
	logger := newLogger(conf.LogLevel)

	if err := app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// configPath - CONFIG_PATH when set, config.yml in the working directory otherwise.
func configPath() string {
	if path, ok := os.LookupEnv(configPathEnv); ok && path != "" {
		return path
	}

	return defaultConfigPath
}

// newLogger - JSON logs to stdout; an unknown level falls back to info.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
