// Command server is an example user service whose endpoints validate their
// input with declarative rules.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tippingcanoe/validator/engine"
	"github.com/tippingcanoe/validator/pkg/config"
	"github.com/tippingcanoe/validator/pkg/httpserver"
	"github.com/tippingcanoe/validator/pkg/i18n"
	"github.com/tippingcanoe/validator/pkg/logger"
	"github.com/tippingcanoe/validator/pkg/requestid"
	"github.com/tippingcanoe/validator/provider"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(
		logger.WithLevelName(cfg.LogLevel),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
		logger.WithAttr(slog.String("service", "validator-example")),
	)
	logger.SetAsDefault(log)

	rules, err := loadRules(cfg.RulesFile)
	if err != nil {
		return err
	}

	catalog := i18n.NewCatalog()
	if cfg.MessagesFile != "" {
		if err := catalog.LoadFile(cfg.MessagesFile); err != nil {
			return fmt.Errorf("loading messages: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := engine.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	eng, err := engine.New(
		engine.WithCatalog(catalog),
		engine.WithLogger(log),
		engine.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	p := provider.New(eng,
		provider.WithLogger(log),
		provider.WithLocales(cfg.Locales...),
		provider.WithMaxMemory(cfg.MaxMemory),
		provider.WithMaxBodySize(cfg.MaxBodySize),
	)

	log.Info("starting",
		logger.Component("main"),
		slog.Int("rule_sets", len(rules)),
		slog.Any("locales", catalog.Locales()),
	)

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, newApp(log, p, rules).routes(reg))
}
