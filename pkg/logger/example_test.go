package logger_test

import (
	"errors"

	"github.com/wonny/roicalc/pkg/config"
	"github.com/wonny/roicalc/pkg/logger"
)

// Example_withFields demonstrates structured logging of a provider failure
func Example_withFields() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"symbol":   "SH600519",
		"provider": "xueqiu",
	}).WithError(errors.New("status 403")).Warn("dividend provider failed")
}
