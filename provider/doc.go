// Package provider connects validators to HTTP services.
//
// A Provider owns the rule engine. Its Middleware parses each inbound request
// once, negotiates the message locale from Accept-Language and stores both in
// the request context. Make then returns validators that already know the
// engine and the request, so handlers only supply rules:
//
//	p := provider.New(engine.MustNew(), provider.WithLocales("en", "es"))
//	r := chi.NewRouter()
//	r.Use(p.Middleware)
//	r.Post("/users", func(w http.ResponseWriter, r *http.Request) {
//		v := p.Make(r.Context(), validator.Rules{"email": {"required|email"}})
//		if err := v.AssertValid(r.Context(), false); err != nil {
//			handler.Error(w, r, err, log)
//			return
//		}
//	})
package provider
