// Package logger provides structured logging for reststack using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logger:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&logger.Config{Level: "debug"}, "widgets").WithComponent("rest")
//	log.Info("call completed", logger.Fields("status", 200))
package logger
