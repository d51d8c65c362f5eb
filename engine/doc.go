// Package engine adapts github.com/go-playground/validator/v10 to the
// validator.Factory interface.
//
// Rule expressions use pipe syntax and are translated to go-playground tags
// before evaluation:
//
//	"required|email|max:255"  -> "required,email,max=255"
//	"in:draft,published"      -> "oneof=draft published"
//	"nullable|between:3,20"   -> "omitempty,min=3,max=20"
//
// Names without an alias are passed through, so every built-in go-playground
// tag (e164, uuid4, hexcolor, ...) is available, as are custom rules
// registered with WithValidation. Unknown names make Validate return
// validator.ErrInvalidRule instead of panicking.
//
// Messages are rendered with an i18n.Catalog in the locale found on the
// context (see i18n.WithLocale). Optional prometheus counters are recorded
// through WithMetrics.
package engine
