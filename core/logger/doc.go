// Package logger provides slog attribute helpers for consistent structured
// logging across the security subsystem.
//
// Helpers return an empty slog.Attr for zero values (nil errors, empty IDs),
// which slog drops from output. This keeps call sites free of nil checks:
//
//	log.Warn("csrf validation failed",
//		logger.Event("csrf_failure"),
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.Reason("token mismatch"),
//		logger.Error(err),
//	)
package logger
