package handler

import (
	"log/slog"
	"net/http"

	"github.com/tippingcanoe/validator"
	"github.com/tippingcanoe/validator/pkg/logger"
	"github.com/tippingcanoe/validator/pkg/requestid"
)

// ErrorInfo contains classified error information
type ErrorInfo struct {
	StatusCode int
	LogLevel   slog.Level
}

func isClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

// determineLogLevel maps HTTP status codes to log levels
func determineLogLevel(statusCode int) slog.Level {
	if isClientError(statusCode) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

func classifyError(err error) ErrorInfo {
	status := Status(err)
	return ErrorInfo{
		StatusCode: status,
		LogLevel:   determineLogLevel(status),
	}
}

func logError(log *slog.Logger, r *http.Request, err error, info ErrorInfo) {
	attrs := []slog.Attr{
		logger.RequestID(requestid.FromContext(r.Context())),
		logger.Error(err),
		logger.Group("http",
			slog.Int("status_code", info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		),
		logger.Component("error_handler"),
	}
	if verr, ok := validator.AsValidationError(err); ok {
		attrs = append(attrs, logger.Fields(verr.Messages().Fields()))
	}
	log.LogAttrs(r.Context(), info.LogLevel, "request error", attrs...)
}

// Error logs err and writes it as a JSON error response.
func Error(w http.ResponseWriter, r *http.Request, err error, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	info := classifyError(err)
	logError(log, r, err, info)

	if renderErr := JSONError(err).Render(w, r); renderErr != nil {
		log.ErrorContext(r.Context(), "failed to render error response",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(renderErr),
			logger.Event("render_error"),
		)
	}
}

// NewErrorHandler returns an ErrorHandler that renders errors with Error.
// Configure this once in main.go and pass it to every Wrap call.
func NewErrorHandler(log *slog.Logger) ErrorHandler {
	if log == nil {
		log = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request, err error) {
		Error(w, r, err, log)
	}
}

type failResponse struct {
	err error
	log *slog.Logger
}

func (f failResponse) Render(w http.ResponseWriter, r *http.Request) error {
	Error(w, r, f.err, f.log)
	return nil
}

// Fail returns a Response that logs err and renders it like Error.
func Fail(err error, log *slog.Logger) Response {
	return failResponse{err: err, log: log}
}
