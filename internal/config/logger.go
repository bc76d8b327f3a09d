package config

import (
	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger from the logging configuration. An
// unknown level falls back to info rather than failing startup.
func NewLogger(cfg LoggingConfig) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}
