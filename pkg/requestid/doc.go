// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reuses a valid client supplied X-Request-ID header (letters,
// digits, "-" and "_", at most 128 characters) or generates a UUIDv4. The id
// is stored in the request context and echoed in the response header, and
// LoggerExtractor adds it to log records:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//
// Invalid ids are replaced silently; the package never returns errors.
package requestid
