package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuvec/docuvec/pkg/pipeline"
)

type nopLogger struct{}

func (nopLogger) Info(string, error, ...map[string]interface{})  {}
func (nopLogger) Debug(string, error, ...map[string]interface{}) {}
func (nopLogger) Warn(string, error, ...map[string]interface{})  {}
func (nopLogger) Error(string, error, ...map[string]interface{}) {}
func (nopLogger) Fatal(string, error, ...map[string]interface{}) {}

type stubAnswerer struct {
	answer   string
	err      error
	question string
}

func (s *stubAnswerer) Answer(ctx context.Context, question string) (string, error) {
	s.question = question
	return s.answer, s.err
}

func newTestServer(engine Answerer) *Server {
	return NewServer(engine, &Config{Port: 0}, nopLogger{})
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleQuery_OK(t *testing.T) {
	engine := &stubAnswerer{answer: "The sky is blue."}
	rec := doRequest(t, newTestServer(engine), http.MethodPost, "/query", `{"question":"What color is the sky?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "The sky is blue.", resp["answer"])
	assert.Equal(t, "What color is the sky?", engine.question)
}

func TestHandleQuery_InvalidBody(t *testing.T) {
	rec := doRequest(t, newTestServer(&stubAnswerer{}), http.MethodPost, "/query", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleQuery_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty question", pipeline.ErrEmptyQuestion, http.StatusBadRequest},
		{"not initialized", pipeline.ErrNotInitialized, http.StatusServiceUnavailable},
		{"retrieval unavailable", pipeline.ErrRetrievalUnavailable, http.StatusServiceUnavailable},
		{"timeout", pipeline.ErrTimeout, http.StatusGatewayTimeout},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &stubAnswerer{err: tt.err}
			rec := doRequest(t, newTestServer(engine), http.MethodPost, "/query", `{"question":"q"}`)

			assert.Equal(t, tt.want, rec.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestHandleHealth(t *testing.T) {
	rec := doRequest(t, newTestServer(&stubAnswerer{}), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleInfo(t *testing.T) {
	rec := doRequest(t, newTestServer(&stubAnswerer{}), http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "docuvec", resp["service"])
}
