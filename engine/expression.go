package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// aliases maps pipe-syntax rule names to go-playground tags.
var aliases = map[string]string{
	"in":        "oneof",
	"alpha_num": "alphanum",
	"size":      "len",
	"integer":   "number",
	"nullable":  "omitempty",
	"sometimes": "omitempty",
}

type numberKind int

const (
	notNumber numberKind = iota
	floatNumber
	intNumber
)

// fieldRule is the translated form of one field's expressions.
type fieldRule struct {
	// tag is the go-playground tag string, without omitempty.
	tag string
	// nullable fields skip every check when the value is nil or "".
	nullable bool
	// required fields are checked even when absent from the values.
	required bool
	// number makes string values compare as numbers in size rules.
	number numberKind
}

// translate converts pipe-syntax expressions ("required|max:255") into a
// single go-playground tag string ("required,max=255").
func translate(exprs []string) (fieldRule, error) {
	var (
		rule fieldRule
		tags []string
	)

	for _, expr := range exprs {
		for part := range strings.SplitSeq(expr, "|") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}

			name, params, hasParams := strings.Cut(part, ":")
			name = strings.TrimSpace(name)
			if name == "" || strings.ContainsAny(name, ",= ") {
				return fieldRule{}, fmt.Errorf("malformed rule %q", part)
			}
			if alias, ok := aliases[name]; ok {
				name = alias
			}

			switch {
			case strings.HasPrefix(name, "required"):
				rule.required = true
			case name == "numeric" && rule.number == notNumber:
				rule.number = floatNumber
			case name == "number":
				rule.number = intNumber
			}

			switch {
			case name == "omitempty":
				rule.nullable = true
			case name == "between":
				lo, hi, ok := strings.Cut(params, ",")
				if !hasParams || !ok || strings.TrimSpace(lo) == "" || strings.TrimSpace(hi) == "" {
					return fieldRule{}, fmt.Errorf("rule %q needs two parameters", part)
				}
				tags = append(tags, "min="+strings.TrimSpace(lo), "max="+strings.TrimSpace(hi))
			case hasParams:
				if strings.TrimSpace(params) == "" {
					return fieldRule{}, fmt.Errorf("rule %q has an empty parameter", part)
				}
				tags = append(tags, name+"="+joinParams(params))
			default:
				tags = append(tags, name)
			}
		}
	}

	rule.tag = strings.Join(tags, ",")
	return rule, nil
}

// joinParams turns a comma separated list into the space separated form
// go-playground uses for list parameters.
func joinParams(params string) string {
	fields := strings.Split(params, ",")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return strings.Join(fields, " ")
}

// isBlank reports whether v counts as empty for nullable fields.
func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	}
	return false
}

// coerce parses numeric strings so size rules compare values, not lengths.
// Strings that do not parse are returned unchanged and fail the number check.
func (k numberKind) coerce(v any) any {
	if f, ok := v.(float64); ok && k == intNumber && f != math.Trunc(f) {
		// JSON numbers decode to float64; fractions must fail the integer check.
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s, ok := v.(string)
	if !ok {
		return v
	}
	s = strings.TrimSpace(s)

	switch k {
	case intNumber:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case floatNumber:
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return v
}
