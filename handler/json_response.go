package handler

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tippingcanoe/validator"
	"github.com/tippingcanoe/validator/request"
)

// JSONResponse is the standard JSON response envelope
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures JSON response
type JSONOption func(*jsonResponse)

// WithJSONStatus sets custom HTTP status code
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithJSONMeta adds metadata to response
func WithJSONMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) {
		r.body.Meta = meta
	}
}

// JSON creates a JSON response. Errors are rendered through JSONError.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK}

	switch val := v.(type) {
	case JSONResponse:
		r.body = val
	case *ErrorDetail:
		r.body.Error = val
		r.status = http.StatusInternalServerError
	case error:
		r.body.Error, r.status = errorToDetail(val)
	default:
		r.body.Data = v
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError creates a JSON error response from an error or *ErrorDetail.
func JSONError(err any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusInternalServerError}

	switch e := err.(type) {
	case *ErrorDetail:
		r.body.Error = e
	case error:
		r.body.Error, r.status = errorToDetail(e)
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Status returns the HTTP status JSONError would use for err.
func Status(err error) int {
	_, status := errorToDetail(err)
	return status
}

func errorToDetail(err error) (*ErrorDetail, int) {
	if verr, ok := validator.AsValidationError(err); ok {
		detail := &ErrorDetail{
			Code:    "validation_error",
			Message: verr.Error(),
		}
		if msgs := verr.Messages(); !msgs.IsEmpty() {
			detail.Details = msgs.Map()
		}
		return detail, http.StatusUnprocessableEntity
	}

	if httpErr, ok := requestError(err); ok {
		return &ErrorDetail{Code: httpErr.Key, Message: err.Error()}, httpErr.Code
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return &ErrorDetail{Code: httpErr.Key, Message: http.StatusText(httpErr.Code)}, httpErr.Code
	}

	// Internal details stay in the logs.
	return &ErrorDetail{
		Code:    ErrInternalServerError.Key,
		Message: http.StatusText(http.StatusInternalServerError),
	}, http.StatusInternalServerError
}

func requestError(err error) (HTTPError, bool) {
	switch {
	case errors.Is(err, request.ErrBodyTooLarge):
		return ErrRequestEntityTooLarge, true
	case errors.Is(err, request.ErrUnsupportedMediaType):
		return ErrUnsupportedMediaType, true
	case errors.Is(err, request.ErrInvalidJSON), errors.Is(err, request.ErrInvalidForm):
		return ErrBadRequest, true
	}
	return HTTPError{}, false
}
