package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func Get() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logg.SetLevel(level)
}

// LogError logs an error with module/function context so dashboards can group them.
func LogError(moduleName string, funcName string, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logg.WithFields(fields).Error(err.Error())
}
