package validator

import (
	"context"
	"log/slog"

	"github.com/tippingcanoe/validator/pkg/logger"
)

// Factory checks values against rules. It returns the failure messages, which
// are empty when validation passes. A non-nil error means the engine itself
// could not run, for example because a rule expression is unknown.
type Factory interface {
	Validate(ctx context.Context, values Values, rules Rules) (*Messages, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(ctx context.Context, values Values, rules Rules) (*Messages, error)

func (f FactoryFunc) Validate(ctx context.Context, values Values, rules Rules) (*Messages, error) {
	return f(ctx, values, rules)
}

// Request is the inbound operation values are read from when none are given
// explicitly. All includes uploaded files; Files and FileKeys expose them
// separately.
type Request interface {
	All() Values
	Files() Values
	FileKeys() []string
}

// Option configures a Base.
type Option func(*Base)

// WithValues sets the values to validate. Empty values leave the validator
// free to auto-populate from the request.
func WithValues(values Values) Option {
	return func(b *Base) {
		if len(values) > 0 {
			b.values = values
		}
	}
}

// WithRequest sets the ambient request used for auto-population and for
// separating files from plain values.
func WithRequest(r Request) Option {
	return func(b *Base) { b.request = r }
}

// WithAutoPopulate enables loading all request values when no explicit
// values were given.
func WithAutoPopulate(enabled bool) Option {
	return func(b *Base) { b.autoPopulate = enabled }
}

// WithFactory sets the rule engine.
func WithFactory(f Factory) Option {
	return func(b *Base) { b.factory = f }
}

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(b *Base) {
		if l != nil {
			b.log = l
		}
	}
}

// Base holds a rule set and the values it is checked against.
// A Base is meant to be used by one request at a time.
type Base struct {
	rules        Rules
	values       Values
	errors       *Messages
	factory      Factory
	request      Request
	autoPopulate bool
	log          *slog.Logger
}

// New creates a validator for rules.
//
//	v := validator.New(validator.Rules{
//		"email": {"required|email"},
//		"name":  {"required|max:255"},
//	}, validator.WithFactory(engine.MustNew()), validator.WithValues(input))
//
//	ok, err := v.Valid(ctx, false)
func New(rules Rules, opts ...Option) *Base {
	b := &Base{
		rules: rules.Clone(),
		log:   slog.Default(),
	}
	if b.rules == nil {
		b.rules = make(Rules)
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.values == nil && b.autoPopulate && b.request != nil {
		b.values = b.request.All()
	}
	if b.values == nil {
		b.values = make(Values)
	}
	return b
}

// Valid reports whether the current values satisfy the rules. When partial is
// set, rules for fields absent from the values are dropped first.
// On failure the messages are kept and available through Errors.
func (b *Base) Valid(ctx context.Context, partial bool) (bool, error) {
	if partial {
		b.UseFields(b.values.Keys()...)
	}
	if b.factory == nil {
		return false, ErrNoFactory
	}

	msgs, err := b.factory.Validate(ctx, b.values, b.rules)
	if err != nil {
		b.log.ErrorContext(ctx, "rule engine failed",
			logger.Component("validator"),
			logger.Error(err),
		)
		return false, err
	}
	if msgs.IsEmpty() {
		return true, nil
	}

	b.errors = msgs
	b.log.DebugContext(ctx, "validation failed",
		logger.Component("validator"),
		logger.Fields(msgs.Fields()),
		slog.Bool("partial", partial),
	)
	return false, nil
}

// AssertValid works like Valid but reports failure as a *ValidationError.
func (b *Base) AssertValid(ctx context.Context, partial bool) error {
	ok, err := b.Valid(ctx, partial)
	if err != nil {
		return err
	}
	if !ok {
		return NewValidationError(b.errors)
	}
	return nil
}

// SetValues replaces the values wholesale.
func (b *Base) SetValues(values Values) {
	if values == nil {
		values = make(Values)
	}
	b.values = values
}

// Values returns every value except those whose keys are file fields of the
// ambient request.
func (b *Base) Values() Values {
	if b.request == nil {
		return b.values.Clone()
	}
	return b.values.Except(b.request.FileKeys()...)
}

// Files returns the uploaded files of the ambient request.
func (b *Base) Files() Values {
	if b.request == nil {
		return make(Values)
	}
	return b.request.Files()
}

// Get returns the value for key, or def when the key is absent.
func (b *Base) Get(key string, def any) any {
	if v, ok := b.values[key]; ok {
		return v
	}
	return def
}

// Lookup returns the value for key and whether it was present.
func (b *Base) Lookup(key string) (any, bool) {
	return b.values.Lookup(key)
}

func (b *Base) Has(key string) bool {
	return b.values.Has(key)
}

func (b *Base) Set(key string, val any) {
	b.values.Set(key, val)
}

func (b *Base) Unset(key string) {
	b.values.Delete(key)
}

// Only returns the values for the listed fields.
func (b *Base) Only(fields ...string) Values {
	return b.values.Only(fields...)
}

// UseFields restricts validation to the listed fields. Rules for every other
// field are discarded for the lifetime of the validator, so repeated calls
// narrow cumulatively.
func (b *Base) UseFields(fields ...string) {
	b.rules = b.rules.Only(fields...)
}

// Errors returns the messages of the most recent failed run, or nil.
func (b *Base) Errors() *Messages {
	return b.errors
}

// GetErrorsFor returns the messages for key, or def when none were recorded.
func (b *Base) GetErrorsFor(key string, def []string) []string {
	if !b.errors.Has(key) {
		return def
	}
	return b.errors.Get(key)
}

// Rules returns a copy of the active rules.
func (b *Base) Rules() Rules {
	return b.rules.Clone()
}
