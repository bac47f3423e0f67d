// Package log provides structured logging for dynakv, wrapping zerolog
// with a package-level Logger plus helpers for attaching component, region
// and operation context to child loggers.
//
// Call Init once at process start:
//
//	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})
//	log.WithComponent("coordinator").Info().Msg("write_batch started")
//	log.WithRegion(baseKey).Warn().Err(err).Msg("journal recovery failed")
package log
