// Package logging builds the process wide lecho logger. Log output goes to
// STDOUT unless LOG_FILE_PATH points somewhere on disk.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/ziflex/lecho/v3"
)

func Logger(logFilePath string) *lecho.Logger {
	logger := lecho.New(
		os.Stdout,
		lecho.WithLevel(log.DEBUG),
		lecho.WithTimestamp(),
	)
	if logFilePath != "" {
		file, err := openLogFile(logFilePath)
		if err != nil {
			logger.Errorf("failed to create log file: %v", err)
			return logger
		}
		logger.SetOutput(file)
	}

	return logger
}

// openLogFile creates a fresh per-boot file by stamping the configured path
// with the start time, so restarts never append to an old log.
func openLogFile(path string) (*os.File, error) {
	stamp := time.Now().Format("2006-01-02_15-04-05")
	if extension := filepath.Ext(path); extension != "" {
		path = strings.TrimSuffix(path, extension) + "-" + stamp + extension
	} else {
		path = fmt.Sprintf("%s-%s", path, stamp)
	}

	return os.Create(path)
}
