package handler

import (
	"log/slog"
	"net/http"
)

// HandlerFunc handles a request and returns the Response to render.
//
//	h := handler.HandlerFunc(func(r *http.Request) handler.Response {
//		v := p.Make(r.Context(), rules)
//		if err := v.AssertValid(r.Context(), false); err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(v.Values(), handler.WithJSONStatus(http.StatusCreated))
//	})
type HandlerFunc func(r *http.Request) Response

// Response renders itself to an http.ResponseWriter.
// Implementations should set headers, status code, and write body.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// ErrorHandler handles errors from rendering or a nil response.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Decorator wraps a HandlerFunc to add cross-cutting functionality.
// The first decorator in the list is the outermost wrapper.
type Decorator func(HandlerFunc) HandlerFunc

// WrapOption configures the Wrap function.
type WrapOption func(*wrapConfig)

type wrapConfig struct {
	errorHandler ErrorHandler
	decorators   []Decorator
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(h ErrorHandler) WrapOption {
	return func(c *wrapConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithDecorators adds decorators to wrap the handler.
func WithDecorators(decorators ...Decorator) WrapOption {
	return func(c *wrapConfig) {
		c.decorators = append(c.decorators, decorators...)
	}
}

// Wrap converts a HandlerFunc to http.HandlerFunc.
//
//	r.Post("/users", handler.Wrap(createUser,
//		handler.WithErrorHandler(handler.NewErrorHandler(log)),
//	))
func Wrap(h HandlerFunc, opts ...WrapOption) http.HandlerFunc {
	cfg := &wrapConfig{
		errorHandler: NewErrorHandler(slog.Default()),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	// Reverse order so the first decorator is outermost
	final := h
	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		final = cfg.decorators[i](final)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		response := final(r)
		if response == nil {
			cfg.errorHandler(w, r, ErrNilResponse)
			return
		}
		if err := response.Render(w, r); err != nil {
			cfg.errorHandler(w, r, err)
		}
	}
}
