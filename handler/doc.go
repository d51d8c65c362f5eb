// Package handler renders HTTP responses for services built on the validator.
//
// Handlers return a Response instead of writing to the ResponseWriter
// directly, and Wrap turns them into http.HandlerFunc:
//
//	func createUser(r *http.Request) handler.Response {
//		v := p.Make(r.Context(), rules)
//		if err := v.AssertValid(r.Context(), false); err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(v.Values(), handler.WithJSONStatus(http.StatusCreated))
//	}
//
//	r.Post("/users", handler.Wrap(createUser))
//
// # Error Mapping
//
// JSONError and Error map errors to status codes:
//
//   - *validator.ValidationError renders 422 with code "validation_error",
//     the primary message and every field message under "details".
//   - request.ErrInvalidJSON and request.ErrInvalidForm render 400,
//     request.ErrUnsupportedMediaType 415 and request.ErrBodyTooLarge 413.
//   - HTTPError values render their own code and key.
//   - Anything else renders 500 without leaking the error text.
//
// Error also logs the failure: warn for 4xx and error for 5xx, tagged with
// the request id from pkg/requestid.
//
// Response bodies share one envelope:
//
//	{"error":{"code":"validation_error","message":"The email field is required.","details":{"email":["The email field is required."]}}}
package handler
