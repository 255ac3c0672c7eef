package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Log = logrus.New()

// InitLogger initializes the logging setup using Logrus
func InitLogger() {
	file := LogFile
	if file == "" {
		file = "logs/app.log"
	}

	// Create log directory if not exists
	if dir := filepath.Dir(file); dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			os.MkdirAll(dir, 0755)
		}
	}

	// Set output to a log file with rotation (using lumberjack)
	rotated := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10,   // Megabytes before log is rotated
		MaxBackups: 3,    // Number of old logs to keep
		MaxAge:     28,   // Maximum number of days to retain old log files
		Compress:   true, // Compress backups
	}
	if IsProduction() {
		Log.Out = rotated
	} else {
		Log.Out = io.MultiWriter(os.Stdout, rotated)
	}

	Log.SetLevel(parseLevel(viper.GetString("LOG_LEVEL")))

	// Set log format to JSON
	Log.SetFormatter(&logrus.JSONFormatter{})

	Log.Info("Logger initialized")
}

func parseLevel(level string) logrus.Level {
	switch level {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
