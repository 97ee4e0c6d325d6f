// Package logger provides a structured logging interface for the relay.
//
// It wraps zerolog with a small interface so that handlers, the upstream
// client and the relay service can log structured fields without depending
// on zerolog directly, and so tests can capture output with TestLogger.
//
// Basic Usage:
//
//	err := logger.Initialize(&cfg.Logging)
//	logger.WithField("username", "instagram").Info("Fetching profile")
//
//	log := logger.GetLogger().WithField("component", "relay")
//	log.ErrorWithFields("upstream request failed", map[string]interface{}{
//	    "status": 429,
//	    "url":    "https://i.instagram.com/api/v1/...",
//	})
package logger
