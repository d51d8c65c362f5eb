// Package httpserver runs an http.Handler with timeouts and graceful shutdown.
//
// Run blocks until the context is cancelled or the process receives SIGINT or
// SIGTERM, then drains in-flight requests within the shutdown timeout:
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg)
//
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.HealthCheckHandler(log))
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Listen errors are joined with ErrStart and shutdown errors with ErrShutdown.
package httpserver
