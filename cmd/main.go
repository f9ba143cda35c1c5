package main

import (
	"context"
	"os"

	"github.com/desertthunder/gamelists/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config, err := shared.LoadConfigOrDefault("config.toml")
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		config = shared.DefaultConfig()
	}

	if path := config.Log.File; path != "" {
		if fileLogger, err := shared.NewFileLogger(path); err != nil {
			logger.Warn("failed to open log file, logging to stderr", "path", path, "error", err)
		} else {
			logger = fileLogger
		}
	}

	if level, err := shared.ParseLogLevel(config.Log.Level); err != nil {
		logger.Warn("invalid log level, using info", "error", err)
	} else {
		shared.SetLogLevel(logger, level)
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})
	defer runner.Close()

	if err := runner.app().Run(context.Background(), os.Args); err != nil {
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
