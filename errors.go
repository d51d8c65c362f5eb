package validator

import "errors"

var (
	// ErrValidationFailed matches every *ValidationError via errors.Is.
	ErrValidationFailed = errors.New("validation failed")

	// ErrNoFactory is returned when a validator is used without a rule engine.
	ErrNoFactory = errors.New("validator: no factory configured")

	// ErrInvalidRule is returned when the engine cannot interpret a rule expression.
	ErrInvalidRule = errors.New("validator: invalid rule")

	// ErrInvalidRulesFile is returned when a rules file cannot be read or parsed.
	ErrInvalidRulesFile = errors.New("validator: invalid rules file")
)

// ValidationError carries the per-field messages of a failed validation.
type ValidationError struct {
	messages *Messages
}

// NewValidationError wraps messages into an error.
func NewValidationError(messages *Messages) *ValidationError {
	if messages == nil {
		messages = NewMessages()
	}
	return &ValidationError{messages: messages}
}

// Messages returns the full field to messages mapping.
func (e *ValidationError) Messages() *Messages {
	return e.messages
}

// Primary returns the first message in document order, for contexts that
// can only show a single line.
func (e *ValidationError) Primary() string {
	all := e.messages.All()
	if len(all) == 0 {
		return ""
	}
	return all[0]
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if p := e.Primary(); p != "" {
		return p
	}
	return ErrValidationFailed.Error()
}

// Is makes errors.Is(err, ErrValidationFailed) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// AsValidationError extracts a *ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
