package engine

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"time"

	playground "github.com/go-playground/validator/v10"

	"github.com/tippingcanoe/validator"
	"github.com/tippingcanoe/validator/pkg/i18n"
	"github.com/tippingcanoe/validator/pkg/logger"
)

// Option configures an Engine.
type Option func(*Engine)

// WithCatalog sets the message catalog. Nil catalogs are ignored.
func WithCatalog(c *i18n.Catalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.catalog = c
		}
	}
}

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMetrics records runs and failures in m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithValidation registers a custom rule under tag.
func WithValidation(tag string, fn playground.Func) Option {
	return func(e *Engine) {
		e.custom[tag] = fn
	}
}

// Engine checks values against rules using go-playground/validator.
// It is safe for concurrent use once constructed.
type Engine struct {
	validate *playground.Validate
	catalog  *i18n.Catalog
	metrics  *Metrics
	log      *slog.Logger
	custom   map[string]playground.Func
}

var _ validator.Factory = (*Engine)(nil)

// New creates an Engine.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		validate: playground.New(playground.WithRequiredStructEnabled()),
		log:      slog.Default(),
		custom:   make(map[string]playground.Func),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalog == nil {
		e.catalog = i18n.NewCatalog()
	}

	for tag, fn := range e.custom {
		if err := e.validate.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("registering rule %q: %w", tag, err)
		}
	}
	return e, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Engine {
	e, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Validate implements validator.Factory. Fields are reported in sorted order,
// one message per field for the first constraint that failed.
//
// Fields absent from values are only checked when one of their rules is a
// required variant. Nullable fields holding nil or "" are skipped. String
// values of numeric or integer fields are parsed first, so min, max and
// between compare numbers.
func (e *Engine) Validate(ctx context.Context, values validator.Values, rules validator.Rules) (*validator.Messages, error) {
	start := time.Now()
	msgs := validator.NewMessages()

	data := make(map[string]any, len(rules))
	tags := make(map[string]any, len(rules))
	for field, exprs := range rules {
		rule, err := translate(exprs)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", validator.ErrInvalidRule, field, err)
		}

		value, present := values[field]
		switch {
		case rule.tag == "":
			continue
		case !present && !rule.required:
			// Only required rules apply to absent fields.
			continue
		case rule.nullable && !rule.required && isBlank(value):
			continue
		}

		if present {
			data[field] = rule.number.coerce(value)
		}
		tags[field] = rule.tag
	}
	if len(tags) == 0 {
		e.metrics.observe(true)
		return msgs, nil
	}

	result, err := e.validateMap(ctx, data, tags)
	if err != nil {
		e.log.ErrorContext(ctx, "rule evaluation aborted",
			logger.Component("engine"),
			logger.Error(err),
		)
		return nil, err
	}

	locale := i18n.LocaleFromContext(ctx)
	for _, field := range slices.Sorted(maps.Keys(result)) {
		switch fe := result[field].(type) {
		case playground.ValidationErrors:
			for _, f := range fe {
				msgs.Add(field, e.message(locale, field, f))
				e.metrics.failure(f.Tag())
				e.log.DebugContext(ctx, "rule failed",
					logger.Component("engine"),
					logger.Field(field),
					logger.Rule(f.Tag()),
				)
			}
		case error:
			msgs.Add(field, fe.Error())
			e.metrics.failure("unknown")
		}
	}

	e.metrics.observe(msgs.IsEmpty())
	e.log.DebugContext(ctx, "rules evaluated",
		logger.Component("engine"),
		logger.Locale(locale),
		slog.Int("rules", len(tags)),
		slog.Int("failed", msgs.Len()),
		logger.Duration(time.Since(start)),
	)
	return msgs, nil
}

// validateMap runs go-playground, turning its panics on unknown tags into errors.
func (e *Engine) validateMap(ctx context.Context, data, rules map[string]any) (res map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", validator.ErrInvalidRule, r)
		}
	}()
	return e.validate.ValidateMapCtx(ctx, data, rules), nil
}

func (e *Engine) message(locale, field string, fe playground.FieldError) string {
	return e.catalog.Format(locale, i18n.Params{
		Tag:   fe.Tag(),
		Field: field,
		Param: fe.Param(),
		Kind:  kindOf(fe.Kind()),
		Value: fe.Value(),
	})
}

func kindOf(k reflect.Kind) i18n.Kind {
	switch k {
	case reflect.String:
		return i18n.KindString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return i18n.KindNumeric
	case reflect.Slice, reflect.Array, reflect.Map:
		return i18n.KindArray
	default:
		return i18n.KindOther
	}
}
