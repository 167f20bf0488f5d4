// Package logger provides structured logging on top of zerolog.
//
// Loggers are scoped per component and take fields as maps, so call sites
// read the same across the producer and consumer:
//
//	log := logger.WithComponent("kafka.producer")
//	log.Info("message delivered", logger.RecordFields(topic, partition, offset))
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"   # json | console | pretty
package logger
