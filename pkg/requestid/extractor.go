package requestid

import (
	"context"
	"log/slog"

	"github.com/tippingcanoe/validator/pkg/logger"
)

// LoggerExtractor adds the request id to every record logged with a context
// that carries one.
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id := FromContext(ctx)
		if id == "" {
			return slog.Attr{}, false
		}
		return logger.RequestID(id), true
	}
}
