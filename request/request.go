package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"mime"
	"net/http"
	"net/url"
	"slices"

	"github.com/goccy/go-json"

	"github.com/tippingcanoe/validator"
)

const (
	// DefaultMaxMemory is the memory budget for parsing multipart forms (10MB).
	DefaultMaxMemory = 10 << 20
	// DefaultMaxBodySize caps JSON and urlencoded bodies (1MB).
	DefaultMaxBodySize = 1 << 20
)

// Option configures Parse.
type Option func(*options)

type options struct {
	maxMemory   int64
	maxBodySize int64
}

// WithMaxMemory sets the multipart memory budget. Non-positive values are ignored.
func WithMaxMemory(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxMemory = n
		}
	}
}

// WithMaxBodySize caps non-multipart bodies. Non-positive values are ignored.
func WithMaxBodySize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBodySize = n
		}
	}
}

// Request is a parsed snapshot of an inbound HTTP request: query parameters,
// body fields and uploaded files.
type Request struct {
	inputs validator.Values
	files  validator.Values
}

var _ validator.Request = (*Request)(nil)

// New builds a Request from already extracted inputs and files.
func New(inputs, files validator.Values) *Request {
	if inputs == nil {
		inputs = make(validator.Values)
	}
	if files == nil {
		files = make(validator.Values)
	}
	return &Request{inputs: inputs, files: files}
}

// Parse reads r into a Request. Query parameters come first and body fields
// override them. Supported bodies are application/json (a JSON object),
// application/x-www-form-urlencoded and multipart/form-data. Requests
// without a body are accepted whatever their content type.
//
// Single form and query values become string, repeated ones []string.
// JSON values keep their decoded types.
func Parse(r *http.Request, opts ...Option) (*Request, error) {
	o := options{maxMemory: DefaultMaxMemory, maxBodySize: DefaultMaxBodySize}
	for _, opt := range opts {
		opt(&o)
	}

	inputs := make(validator.Values)
	mergeURLValues(inputs, r.URL.Query())
	files := make(validator.Values)

	if !hasBody(r) {
		return New(inputs, files), nil
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedMediaType, err)
	}

	switch mediaType {
	case "application/json":
		data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, o.maxBodySize))
		if err != nil {
			return nil, bodyError(ErrInvalidJSON, err)
		}
		body, err := decodeJSON(data)
		if err != nil {
			return nil, err
		}
		maps.Copy(inputs, body)

	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(nil, r.Body, o.maxBodySize)
		if err := r.ParseForm(); err != nil {
			return nil, bodyError(ErrInvalidForm, err)
		}
		mergeURLValues(inputs, r.PostForm)

	case "multipart/form-data":
		if r.MultipartForm == nil {
			if err := r.ParseMultipartForm(o.maxMemory); err != nil {
				return nil, bodyError(ErrInvalidForm, err)
			}
		}
		mergeURLValues(inputs, r.MultipartForm.Value)
		uploads, err := readFiles(r.MultipartForm)
		if err != nil {
			return nil, err
		}
		maps.Copy(files, uploads)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}

	return New(inputs, files), nil
}

// All returns inputs and files together. Files win on key collisions.
func (r *Request) All() validator.Values {
	out := r.inputs.Clone()
	maps.Copy(out, r.files)
	return out
}

// Inputs returns the non-file values.
func (r *Request) Inputs() validator.Values {
	return r.inputs.Clone()
}

// Files returns the uploaded files keyed by field name.
func (r *Request) Files() validator.Values {
	return r.files.Clone()
}

// FileKeys returns the names of the file fields, sorted.
func (r *Request) FileKeys() []string {
	return slices.Sorted(maps.Keys(r.files))
}

// File returns the first upload for field, or nil.
func (r *Request) File(field string) *FileUpload {
	switch f := r.files[field].(type) {
	case *FileUpload:
		return f
	case []*FileUpload:
		if len(f) > 0 {
			return f[0]
		}
	}
	return nil
}

func hasBody(r *http.Request) bool {
	return r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0
}

func mergeURLValues(dst validator.Values, src url.Values) {
	for k, vs := range src {
		switch len(vs) {
		case 0:
		case 1:
			dst[k] = vs[0]
		default:
			dst[k] = slices.Clone(vs)
		}
	}
}

func decodeJSON(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

func bodyError(kind, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
	}
	return fmt.Errorf("%w: %v", kind, err)
}

type contextKey struct{}

// WithContext stores req in ctx.
func WithContext(ctx context.Context, req *Request) context.Context {
	return context.WithValue(ctx, contextKey{}, req)
}

// FromContext returns the Request stored in ctx.
func FromContext(ctx context.Context) (*Request, bool) {
	if ctx == nil {
		return nil, false
	}
	req, ok := ctx.Value(contextKey{}).(*Request)
	return req, ok && req != nil
}
