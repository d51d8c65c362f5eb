package provider

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tippingcanoe/validator"
	"github.com/tippingcanoe/validator/handler"
	"github.com/tippingcanoe/validator/pkg/i18n"
	"github.com/tippingcanoe/validator/pkg/logger"
	"github.com/tippingcanoe/validator/request"
)

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMaxMemory sets the multipart memory budget used by Middleware.
func WithMaxMemory(n int64) Option {
	return func(p *Provider) {
		p.parseOpts = append(p.parseOpts, request.WithMaxMemory(n))
	}
}

// WithMaxBodySize caps JSON and urlencoded bodies parsed by Middleware.
func WithMaxBodySize(n int64) Option {
	return func(p *Provider) {
		p.parseOpts = append(p.parseOpts, request.WithMaxBodySize(n))
	}
}

// WithAutoPopulate controls whether validators built by Make load their
// values from the request. Enabled by default.
func WithAutoPopulate(enabled bool) Option {
	return func(p *Provider) { p.autoPopulate = enabled }
}

// WithLocales sets the locales offered during Accept-Language negotiation.
// The first one is the fallback.
func WithLocales(locales ...string) Option {
	return func(p *Provider) {
		if len(locales) > 0 {
			p.locales = locales
		}
	}
}

// Provider wires a rule engine and the inbound request into every validator
// it builds.
type Provider struct {
	factory      validator.Factory
	log          *slog.Logger
	locales      []string
	parseOpts    []request.Option
	autoPopulate bool
}

// New creates a Provider for factory.
func New(factory validator.Factory, opts ...Option) *Provider {
	p := &Provider{
		factory:      factory,
		log:          slog.Default(),
		locales:      []string{i18n.DefaultLanguage},
		autoPopulate: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Middleware parses every request and stores it, together with the negotiated
// message locale, in the request context. Requests that cannot be parsed are
// answered with a JSON error and never reach next.
func (p *Provider) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := request.Parse(r, p.parseOpts...)
		if err != nil {
			handler.Error(w, r, err, p.log)
			return
		}

		locale := i18n.Negotiate(r.Header.Get("Accept-Language"), p.locales, p.locales[0])
		ctx := request.WithContext(r.Context(), req)
		ctx = i18n.WithLocale(ctx, locale)

		p.log.DebugContext(ctx, "request parsed",
			logger.Component("provider"),
			logger.Locale(locale),
			slog.Int("inputs", len(req.Inputs())),
			logger.Fields(req.FileKeys()),
		)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Make builds a validator for rules bound to the provider's factory and to
// the request stored in ctx, if any. opts are applied last and may override
// those defaults.
func (p *Provider) Make(ctx context.Context, rules validator.Rules, opts ...validator.Option) *validator.Base {
	base := []validator.Option{
		validator.WithFactory(p.factory),
		validator.WithLogger(p.log),
		validator.WithAutoPopulate(p.autoPopulate),
	}
	if req, ok := request.FromContext(ctx); ok {
		base = append(base, validator.WithRequest(req))
	}
	return validator.New(rules, append(base, opts...)...)
}

// Factory returns the rule engine.
func (p *Provider) Factory() validator.Factory {
	return p.factory
}
