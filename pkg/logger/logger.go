package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// InitLogger initializes the structured logger with proper configuration
func InitLogger(logLevel string, isDevelopment bool) *logrus.Logger {
	log := logrus.New()

	// Override with environment if not provided
	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			if isDevelopment {
				logLevel = "debug"
			} else {
				logLevel = "info"
			}
		}
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("Invalid LOG_LEVEL, using INFO")
	}

	// Set formatter based on environment
	if !isDevelopment || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	log.SetOutput(os.Stdout)

	// Store global logger reference
	Logger = log

	return log
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger("info", false)
	}
	return Logger
}

// WithComponent creates a logger with component context
func WithComponent(component string) *logrus.Entry {
	return GetLogger().WithField("component", component)
}

// WithOptimizationID creates a logger with optimization context
func WithOptimizationID(optimizationID string) *logrus.Entry {
	return GetLogger().WithField("optimization_id", optimizationID)
}

// WithOptimizationContext creates a logger with full optimization context
func WithOptimizationContext(optimizationID, contest string, lineupCount int) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"optimization_id": optimizationID,
		"contest":         contest,
		"lineup_count":    lineupCount,
	})
}

// WithRelaxationContext creates a logger with relaxation walk context
func WithRelaxationContext(optimizationID, position string, rank int) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"optimization_id": optimizationID,
		"position":        position,
		"rank":            rank,
	})
}

// WithCaptainContext creates a logger with showdown captain context
func WithCaptainContext(optimizationID, captainID string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"optimization_id": optimizationID,
		"captain_id":      captainID,
	})
}
