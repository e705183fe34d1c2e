// Package logger holds the process-wide logrus logger.
package logger

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Init resets Log to the defaults used before configuration is loaded.
func Init() {
	Log.SetOutput(os.Stdout)
	Log.SetLevel(logrus.InfoLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// Configure applies the level ("debug", "info", ...) and format ("text" or
// "json") from configuration.
func Configure(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	Log.SetLevel(lvl)

	switch format {
	case "json":
		Log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	return nil
}
