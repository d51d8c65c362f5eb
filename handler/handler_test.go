package handler_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tippingcanoe/validator"
	"github.com/tippingcanoe/validator/handler"
	"github.com/tippingcanoe/validator/request"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) handler.JSONResponse {
	t.Helper()
	var body handler.JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func validationError() *validator.ValidationError {
	msgs := validator.NewMessages()
	msgs.Add("email", "The email field must be a valid email address.")
	msgs.Add("name", "The name field is required.")
	return validator.NewValidationError(msgs)
}

func TestJSON(t *testing.T) {
	t.Run("data with status and meta", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		resp := handler.JSON(map[string]string{"id": "1"},
			handler.WithJSONStatus(http.StatusCreated),
			handler.WithJSONMeta(map[string]any{"version": "v1"}),
		)
		require.NoError(t, resp.Render(rec, req))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"data":{"id":"1"},"meta":{"version":"v1"}}`, rec.Body.String())
	})

	t.Run("error value", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, handler.JSON(handler.ErrNotFound).Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", decode(t, rec).Error.Code)
	})
}

func TestJSONError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "validation error",
			err:     validationError(),
			status:  http.StatusUnprocessableEntity,
			code:    "validation_error",
			message: "The email field must be a valid email address.",
		},
		{
			name:   "wrapped validation error",
			err:    fmt.Errorf("create user: %w", validationError()),
			status: http.StatusUnprocessableEntity,
			code:   "validation_error",
		},
		{
			name:   "invalid json",
			err:    fmt.Errorf("%w: unexpected end", request.ErrInvalidJSON),
			status: http.StatusBadRequest,
			code:   "bad_request",
		},
		{
			name:   "invalid form",
			err:    request.ErrInvalidForm,
			status: http.StatusBadRequest,
			code:   "bad_request",
		},
		{
			name:   "unsupported media type",
			err:    request.ErrUnsupportedMediaType,
			status: http.StatusUnsupportedMediaType,
			code:   "unsupported_media_type",
		},
		{
			name:   "body too large",
			err:    request.ErrBodyTooLarge,
			status: http.StatusRequestEntityTooLarge,
			code:   "request_entity_too_large",
		},
		{
			name:    "http error",
			err:     handler.ErrMethodNotAllowed,
			status:  http.StatusMethodNotAllowed,
			code:    "method_not_allowed",
			message: "Method Not Allowed",
		},
		{
			name:    "unknown error hides details",
			err:     errors.New("db password is hunter2"),
			status:  http.StatusInternalServerError,
			code:    "internal_server_error",
			message: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.NoError(t, handler.JSONError(tt.err).Render(rec, httptest.NewRequest(http.MethodPost, "/", nil)))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status, handler.Status(tt.err))

			body := decode(t, rec)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Error.Message)
			}
		})
	}

	t.Run("validation details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, handler.JSONError(validationError()).Render(rec, httptest.NewRequest(http.MethodPost, "/", nil)))

		assert.Equal(t, map[string][]string{
			"email": {"The email field must be a valid email address."},
			"name":  {"The name field is required."},
		}, decode(t, rec).Error.Details)
	})

	t.Run("error detail", func(t *testing.T) {
		rec := httptest.NewRecorder()
		detail := &handler.ErrorDetail{Code: "quota", Message: "Too many users"}
		resp := handler.JSONError(detail, handler.WithJSONStatus(http.StatusTooManyRequests))
		require.NoError(t, resp.Render(rec, httptest.NewRequest(http.MethodPost, "/", nil)))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "quota", decode(t, rec).Error.Code)
	})
}

func TestError(t *testing.T) {
	t.Run("client errors log at warn", func(t *testing.T) {
		var logs bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

		rec := httptest.NewRecorder()
		handler.Error(rec, httptest.NewRequest(http.MethodPost, "/users", nil), validationError(), log)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, logs.String(), `"level":"WARN"`)
		assert.Contains(t, logs.String(), `"http":{"status_code":422,"method":"POST","path":"/users"}`)
		assert.Contains(t, logs.String(), `"fields":["email","name"]`)
	})

	t.Run("server errors log at error", func(t *testing.T) {
		var logs bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&logs, nil))

		rec := httptest.NewRecorder()
		handler.Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("boom"), log)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, logs.String(), `"level":"ERROR"`)
		assert.Contains(t, logs.String(), `"error":"boom"`)
	})
}

func TestFail(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))

	h := handler.Wrap(func(r *http.Request) handler.Response {
		return handler.Fail(handler.ErrNotFound, log)
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/users/42", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode(t, rec).Error.Code)
	assert.Contains(t, logs.String(), `"path":"/users/42"`)
}

type failingResponse struct{}

func (failingResponse) Render(http.ResponseWriter, *http.Request) error {
	return errors.New("render failed")
}

func TestWrap(t *testing.T) {
	t.Run("renders the response", func(t *testing.T) {
		h := handler.Wrap(func(r *http.Request) handler.Response {
			return handler.JSON("ok")
		})

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data":"ok"}`, rec.Body.String())
	})

	t.Run("nil response goes to error handler", func(t *testing.T) {
		var got error
		h := handler.Wrap(
			func(r *http.Request) handler.Response { return nil },
			handler.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) { got = err }),
		)

		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, got, handler.ErrNilResponse)
	})

	t.Run("render error goes to error handler", func(t *testing.T) {
		var got error
		h := handler.Wrap(
			func(r *http.Request) handler.Response { return failingResponse{} },
			handler.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) { got = err }),
		)

		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.EqualError(t, got, "render failed")
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		var order []string
		mark := func(name string) handler.Decorator {
			return func(next handler.HandlerFunc) handler.HandlerFunc {
				return func(r *http.Request) handler.Response {
					order = append(order, name)
					return next(r)
				}
			}
		}

		h := handler.Wrap(
			func(r *http.Request) handler.Response { return handler.JSON(nil) },
			handler.WithDecorators(mark("outer"), mark("inner")),
		)
		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, []string{"outer", "inner"}, order)
	})
}
