package validator

import (
	"bytes"
	"slices"

	"github.com/goccy/go-json"
)

// Messages collects human-readable failure messages per field.
// Fields keep the order in which they were first added.
type Messages struct {
	order  []string
	fields map[string][]string
}

// NewMessages returns an empty Messages.
func NewMessages() *Messages {
	return &Messages{fields: make(map[string][]string)}
}

// Add appends a message for field.
func (m *Messages) Add(field, message string) {
	if m.fields == nil {
		m.fields = make(map[string][]string)
	}
	if _, ok := m.fields[field]; !ok {
		m.order = append(m.order, field)
	}
	m.fields[field] = append(m.fields[field], message)
}

// Get returns all messages recorded for field.
func (m *Messages) Get(field string) []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.fields[field])
}

// First returns the first message for field, or "" if none.
func (m *Messages) First(field string) string {
	if m == nil || len(m.fields[field]) == 0 {
		return ""
	}
	return m.fields[field][0]
}

// Has reports whether field has at least one message.
func (m *Messages) Has(field string) bool {
	return m != nil && len(m.fields[field]) > 0
}

// Fields returns the field names in document order.
func (m *Messages) Fields() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.order)
}

// All flattens every message in document order.
func (m *Messages) All() []string {
	if m == nil {
		return nil
	}
	var out []string
	for _, f := range m.order {
		out = append(out, m.fields[f]...)
	}
	return out
}

// Map returns a copy of the messages as a plain map.
func (m *Messages) Map() map[string][]string {
	if m == nil {
		return nil
	}
	out := make(map[string][]string, len(m.fields))
	for f, msgs := range m.fields {
		out[f] = slices.Clone(msgs)
	}
	return out
}

// Len returns the number of fields with messages.
func (m *Messages) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

func (m *Messages) IsEmpty() bool {
	return m.Len() == 0
}

// MarshalJSON encodes the messages as an object of field to message list,
// with keys in document order.
func (m *Messages) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range m.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		msgs, err := json.Marshal(m.fields[field])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(msgs)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
