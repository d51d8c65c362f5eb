package main

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tippingcanoe/validator"
	"github.com/tippingcanoe/validator/engine"
	"github.com/tippingcanoe/validator/handler"
	"github.com/tippingcanoe/validator/provider"
)

type testServer struct {
	t   *testing.T
	srv *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	rules, err := loadRules("")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics, err := engine.NewMetrics(reg)
	require.NoError(t, err)

	log := slog.New(slog.DiscardHandler)
	eng := engine.MustNew(engine.WithMetrics(metrics), engine.WithLogger(log))
	p := provider.New(eng, provider.WithLogger(log))

	srv := httptest.NewServer(newApp(log, p, rules).routes(reg))
	t.Cleanup(srv.Close)
	return &testServer{t: t, srv: srv}
}

func (s *testServer) do(method, path, contentType string, body io.Reader) (*http.Response, handler.JSONResponse) {
	s.t.Helper()

	req, err := http.NewRequest(method, s.srv.URL+path, body)
	require.NoError(s.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var out handler.JSONResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func (s *testServer) createUser(body string) string {
	s.t.Helper()
	resp, out := s.do(http.MethodPost, "/users", "application/json", strings.NewReader(body))
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)
	data := out.Data.(map[string]any)
	return data["id"].(string)
}

func TestCreateUser(t *testing.T) {
	s := newTestServer(t)

	t.Run("valid", func(t *testing.T) {
		resp, out := s.do(http.MethodPost, "/users", "application/json",
			strings.NewReader(`{"email":"ann@example.com","name":"Ann","role":"admin","extra":"dropped"}`))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

		data := out.Data.(map[string]any)
		assert.NotEmpty(t, data["id"])
		assert.Equal(t, map[string]any{"email": "ann@example.com", "name": "Ann", "role": "admin"}, data["attributes"])
	})

	t.Run("invalid", func(t *testing.T) {
		resp, out := s.do(http.MethodPost, "/users", "application/json",
			strings.NewReader(`{"email":"not-an-email","role":"owner","age":9}`))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		require.NotNil(t, out.Error)
		assert.Equal(t, "validation_error", out.Error.Code)
		assert.Equal(t, "The age must be at least 13.", out.Error.Message)
		assert.Equal(t, []string{"The email must be a valid email address."}, out.Error.Details["email"])
		assert.Equal(t, []string{"The name field is required."}, out.Error.Details["name"])
		assert.Equal(t, []string{"The selected role is invalid."}, out.Error.Details["role"])
	})

	t.Run("urlencoded form", func(t *testing.T) {
		resp, _ := s.do(http.MethodPost, "/users", "application/x-www-form-urlencoded",
			strings.NewReader("email=bob%40example.com&name=Bob&role=viewer"))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("urlencoded age compares as a number", func(t *testing.T) {
		resp, _ := s.do(http.MethodPost, "/users", "application/x-www-form-urlencoded",
			strings.NewReader("email=bob%40example.com&name=Bob&role=viewer&age=20"))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, out := s.do(http.MethodPost, "/users", "application/x-www-form-urlencoded",
			strings.NewReader("email=bob%40example.com&name=Bob&role=viewer&age=9"))
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, []string{"The age must be at least 13."}, out.Error.Details["age"])
	})

	t.Run("string age must be numeric", func(t *testing.T) {
		resp, out := s.do(http.MethodPost, "/users", "application/json",
			strings.NewReader(`{"email":"ann@example.com","name":"Ann","role":"admin","age":"ninety"}`))
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, []string{"The age must be a number."}, out.Error.Details["age"])
	})

	t.Run("malformed json", func(t *testing.T) {
		resp, out := s.do(http.MethodPost, "/users", "application/json", strings.NewReader(`{"email":`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "bad_request", out.Error.Code)
	})
}

func TestUpdateUser(t *testing.T) {
	s := newTestServer(t)
	id := s.createUser(`{"email":"ann@example.com","name":"Ann","role":"editor"}`)

	t.Run("partial update validates present fields only", func(t *testing.T) {
		resp, out := s.do(http.MethodPatch, "/users/"+id, "application/json", strings.NewReader(`{"email":"new@example.com"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		attrs := out.Data.(map[string]any)["attributes"].(map[string]any)
		assert.Equal(t, "new@example.com", attrs["email"])
		assert.Equal(t, "Ann", attrs["name"])
	})

	t.Run("present fields are still checked", func(t *testing.T) {
		resp, out := s.do(http.MethodPatch, "/users/"+id, "application/json", strings.NewReader(`{"role":"owner"}`))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, []string{"role"}, keys(out.Error.Details))
	})

	t.Run("unknown user", func(t *testing.T) {
		resp, out := s.do(http.MethodPatch, "/users/missing", "application/json", strings.NewReader(`{}`))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "not_found", out.Error.Code)
	})

	t.Run("get reflects the update", func(t *testing.T) {
		resp, out := s.do(http.MethodGet, "/users/"+id, "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		attrs := out.Data.(map[string]any)["attributes"].(map[string]any)
		assert.Equal(t, "new@example.com", attrs["email"])
		assert.Equal(t, "editor", attrs["role"])
	})
}

func TestUploadAvatar(t *testing.T) {
	s := newTestServer(t)
	id := s.createUser(`{"email":"ann@example.com","name":"Ann","role":"editor"}`)

	t.Run("multipart file", func(t *testing.T) {
		body := &bytes.Buffer{}
		w := multipart.NewWriter(body)
		part, err := w.CreateFormFile("avatar", "me.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		resp, out := s.do(http.MethodPut, "/users/"+id+"/avatar", w.FormDataContentType(), body)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		attrs := out.Data.(map[string]any)["attributes"].(map[string]any)
		assert.Equal(t, map[string]any{
			"filename":     "me.png",
			"size":         float64(len("png-bytes")),
			"content_type": "application/octet-stream",
		}, attrs["avatar"])
	})

	t.Run("missing file", func(t *testing.T) {
		body := &bytes.Buffer{}
		w := multipart.NewWriter(body)
		require.NoError(t, w.WriteField("note", "no file"))
		require.NoError(t, w.Close())

		resp, out := s.do(http.MethodPut, "/users/"+id+"/avatar", w.FormDataContentType(), body)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, []string{"The avatar field is required."}, out.Error.Details["avatar"])
	})

	t.Run("plain value is not a file", func(t *testing.T) {
		resp, out := s.do(http.MethodPut, "/users/"+id+"/avatar", "application/json", strings.NewReader(`{"avatar":"me.png"}`))
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, []string{"The avatar must be a file."}, out.Error.Details["avatar"])
	})
}

func TestOperationalEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/users", "application/json", strings.NewReader(`{}`))

	t.Run("metrics", func(t *testing.T) {
		resp, err := http.Get(s.srv.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `validator_validations_total{result="fail"} 1`)
		assert.Contains(t, string(body), `validator_field_failures_total{rule="required"} 3`)
	})

	t.Run("health", func(t *testing.T) {
		for path, want := range map[string]string{"/healthz": "ALIVE", "/readyz": "READY"} {
			resp, err := http.Get(s.srv.URL + path)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, want, string(body))
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		resp, out := s.do(http.MethodGet, "/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "not_found", out.Error.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		resp, _ := s.do(http.MethodDelete, "/users", "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestLoadRules(t *testing.T) {
	t.Run("built in", func(t *testing.T) {
		sets, err := loadRules("")
		require.NoError(t, err)
		rules, ok := sets.Get("user")
		require.True(t, ok)
		assert.Equal(t, []string{"required", "max:100"}, rules["name"])
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte("user:\n  email: required|email\n"), 0o600))

		sets, err := loadRules(path)
		require.NoError(t, err)
		assert.Equal(t, validator.RuleSets{"user": {"email": {"required|email"}}}, sets)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadRules(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorIs(t, err, validator.ErrInvalidRulesFile)
	})
}

func keys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
