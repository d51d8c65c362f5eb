package main

import (
	"context"
	_ "embed"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tippingcanoe/validator"
	"github.com/tippingcanoe/validator/handler"
	"github.com/tippingcanoe/validator/pkg/httpserver"
	"github.com/tippingcanoe/validator/pkg/requestid"
	"github.com/tippingcanoe/validator/provider"
)

//go:embed rules.yaml
var defaultRules []byte

// loadRules reads path, or the built-in rule sets when path is empty.
func loadRules(path string) (validator.RuleSets, error) {
	if path == "" {
		return validator.ParseRulesYAML(defaultRules)
	}
	return validator.LoadRulesFile(path)
}

type app struct {
	log      *slog.Logger
	provider *provider.Provider
	rules    validator.RuleSets
	users    *userStore
}

func newApp(log *slog.Logger, p *provider.Provider, rules validator.RuleSets) *app {
	return &app{
		log:      log,
		provider: p,
		rules:    rules,
		users:    newUserStore(),
	}
}

func (a *app) ready(context.Context) error {
	_, err := a.rulesFor("user")
	return err
}

func (a *app) routes(gatherer prometheus.Gatherer) http.Handler {
	wrap := func(h handler.HandlerFunc) http.HandlerFunc {
		return handler.Wrap(h, handler.WithErrorHandler(handler.NewErrorHandler(a.log)))
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.NotFound(wrap(func(*http.Request) handler.Response {
		return handler.Fail(handler.ErrNotFound, a.log)
	}))
	r.MethodNotAllowed(wrap(func(*http.Request) handler.Response {
		return handler.Fail(handler.ErrMethodNotAllowed, a.log)
	}))

	r.Get("/healthz", httpserver.HealthCheckHandler(a.log))
	r.Get("/readyz", httpserver.HealthCheckHandler(a.log, a.ready))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(a.provider.Middleware)
		r.Post("/users", wrap(a.createUser))
		r.Get("/users/{id}", wrap(a.getUser))
		r.Patch("/users/{id}", wrap(a.updateUser))
		r.Put("/users/{id}/avatar", wrap(a.uploadAvatar))
	})
	return r
}
