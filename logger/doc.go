// Package logger provides structured logging for llmkit services
// using zerolog.
//
// It supports JSON and console output, level configuration, component
// tagging, and context-derived fields (trace, span, request ids).
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("gateway").WithComponent("completions")
//	log.Info("request served", logger.Fields("provider", name, "chunks", n))
package logger
