package logger

import (
	"log/slog"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records err under "error", or returns an empty Attr for nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under "request_id".
// Empty ids produce an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Component records the component name under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Field records a single field name under "field".
func Field(name string) slog.Attr {
	return slog.String("field", name)
}

// Fields records a list of field names under "fields".
func Fields(names []string) slog.Attr {
	return slog.Any("fields", names)
}

// Rule records a rule tag under "rule".
func Rule(tag string) slog.Attr {
	return slog.String("rule", tag)
}

// Locale records the message locale under "locale".
func Locale(tag string) slog.Attr {
	return slog.String("locale", tag)
}

// Duration records a duration under "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
