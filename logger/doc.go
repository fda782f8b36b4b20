// Package logger provides structured logging for permkit using zerolog.
//
// It supports JSON and console output formats, log level configuration,
// and component-scoped loggers with structured fields. The permission
// engine logs every decision at debug level and every collaborator
// failure at error level through this package.
//
// # Usage
//
//	log := logger.NewDefault("authz")
//	log.Info("engine ready", logger.Fields("features", 12))
package logger
