// Package logger builds *slog.Logger instances with functional options and
// provides attribute helpers that keep key names consistent across the
// validator packages.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithDevelopment("users-api"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.DebugContext(ctx, "validation failed",
//	    logger.Component("validator"),
//	    logger.Fields([]string{"email"}),
//	)
//
// Error and Errors return an empty attribute for nil errors, so they can be
// passed unconditionally.
package logger
