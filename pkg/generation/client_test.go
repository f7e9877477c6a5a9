package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGenerator(t *testing.T, handler http.HandlerFunc) Generator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := NewOpenAIGenerator(&Config{
		Endpoint:     srv.URL,
		Model:        "gpt-3.5-turbo",
		APIKey:       "test-key",
		HTTPTimeoutS: 5,
	})
	require.NoError(t, err)
	return g
}

func TestComplete_ReturnsFirstChoice(t *testing.T) {
	g := testGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var body struct {
			Model    string    `json:"model"`
			Messages []message `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "user", body.Messages[1].Role)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "The sky is blue."}},
			},
		})
	})

	answer, err := g.Complete(context.Background(), "You answer questions.", "What color is the sky?")
	require.NoError(t, err)
	assert.Equal(t, "The sky is blue.", answer)
}

func TestComplete_ClassifiesFailures(t *testing.T) {
	g := testGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := g.Complete(context.Background(), "sys", "user")
	require.ErrorIs(t, err, ErrGenerationUnavailable)
}

func TestComplete_RejectsEmptyChoices(t *testing.T) {
	g := testGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := g.Complete(context.Background(), "sys", "user")
	require.ErrorIs(t, err, ErrGenerationUnavailable)
}
