package validator

import (
	"maps"
	"slices"
)

// Values holds the input being validated, keyed by field name.
// Uploaded files live alongside plain inputs.
type Values map[string]any

// Lookup returns the value stored under key and whether it was present.
func (v Values) Lookup(key string) (any, bool) {
	val, ok := v[key]
	return val, ok
}

// Has reports whether key is present, even when its value is nil.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// Set stores val under key.
func (v Values) Set(key string, val any) {
	v[key] = val
}

// Delete removes key. Deleting a missing key is a no-op.
func (v Values) Delete(key string) {
	delete(v, key)
}

// Keys returns the field names in sorted order.
func (v Values) Keys() []string {
	return slices.Sorted(maps.Keys(v))
}

// Only returns a new Values containing just the requested keys that are present.
func (v Values) Only(keys ...string) Values {
	out := make(Values, len(keys))
	for _, k := range keys {
		if val, ok := v[k]; ok {
			out[k] = val
		}
	}
	return out
}

// Except returns a new Values without the given keys.
func (v Values) Except(keys ...string) Values {
	out := maps.Clone(v)
	if out == nil {
		out = make(Values)
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Clone returns a shallow copy.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	return maps.Clone(v)
}
