// Package validator provides a thin, declarative validation layer for HTTP
// applications.
//
// A Base holds a rule set (field name to rule expressions) and the values it
// is checked against. The actual checking is delegated to a Factory, normally
// the go-playground/validator adapter in the engine package; this package only
// orchestrates the call and shapes inputs and outputs.
//
// # Usage
//
//	eng := engine.MustNew()
//
//	v := validator.New(validator.Rules{
//		"email": {"required|email"},
//		"name":  {"required|max:255"},
//	}, validator.WithFactory(eng), validator.WithValues(validator.Values{
//		"email": "not-an-email",
//	}))
//
//	if err := v.AssertValid(ctx, false); err != nil {
//		if verr, ok := validator.AsValidationError(err); ok {
//			// verr.Primary() is the first message, verr.Messages() all of them
//		}
//	}
//
// # Partial validation
//
// Passing partial=true to Valid or AssertValid drops the rules of every field
// that is absent from the values, which suits PATCH-style updates. UseFields
// does the same narrowing with an explicit field list. Both mutate the
// validator; use Rules.Only to derive independent rule sets instead.
//
// # Ambient request
//
// WithRequest attaches the inbound request. With WithAutoPopulate(true) and no
// explicit values, all request values become the validator's values. Values
// hides the request's file fields and Files returns them. The provider package
// wires this up per HTTP request.
//
// # Error Handling
//
// A failed validation is not an application error. Valid returns false and
// AssertValid returns a *ValidationError; both match ErrValidationFailed with
// errors.Is. A non-nil error from Valid means the engine could not run
// (ErrNoFactory, ErrInvalidRule).
package validator
