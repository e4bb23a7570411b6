package linearmap

import (
	"sync"

	"github.com/Scusemua/go-utils/config"
	"github.com/Scusemua/go-utils/logger"
)

var (
	log     logger.Logger
	logOnce sync.Once
)

// getLogger returns the package logger, creating it on first use so that it picks up whatever
// config.LogLevel the program has set by then.
func getLogger() logger.Logger {
	logOnce.Do(func() {
		config.InitLogger(&log, "LinearMap ")
	})
	return log
}
