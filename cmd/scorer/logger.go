package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"model-scoring-service/internal/config"
)

// initLogger configures the package logger. Output goes to cfg.Logger.File when set,
// keeping stdout free for score records.
func initLogger(cfg *config.Config) (func(), error) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if cfg.Logger.File == "" {
		log.SetOutput(os.Stderr)
		return func() {}, nil
	}
	f, err := os.OpenFile(cfg.Logger.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return func() { _ = f.Close() }, nil
}
