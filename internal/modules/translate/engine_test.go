package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPEngine_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/translate", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Hello", payload["text"])
		assert.Equal(t, "en", payload["source_lang"])
		assert.Equal(t, "ja", payload["target_lang"])

		json.NewEncoder(w).Encode(map[string]any{
			"translation":     "こんにちは",
			"tokens_used":     12,
			"latency_ms":      35.5,
			"processing_mode": "cloud",
		})
	}))
	defer srv.Close()

	engine := NewHTTPEngine(srv.URL, "test-key", 5*time.Second)

	result, err := engine.Translate(context.Background(), "Hello", "en", "ja")
	require.NoError(t, err)
	assert.Equal(t, "こんにちは", result.Translation)
	assert.Equal(t, int64(12), result.TokensUsed)
	assert.Equal(t, 35.5, result.LatencyMS)
	assert.Equal(t, "cloud", result.ProcessingMode)
}

func TestHTTPEngine_TranslateBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"translations": []string{"Hallo", "Tschüss"},
			"total_tokens": 25,
		})
	}))
	defer srv.Close()

	engine := NewHTTPEngine(srv.URL, "", 5*time.Second)

	result, err := engine.TranslateBatch(context.Background(), []string{"Hello", "Bye"}, "en", "de")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hallo", "Tschüss"}, result.Translations)
	assert.Equal(t, int64(25), result.TotalTokens)
	// Missing mode defaults to cloud.
	assert.Equal(t, "cloud", result.ProcessingMode)
}

func TestHTTPEngine_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	engine := NewHTTPEngine(srv.URL, "", 5*time.Second)

	_, err := engine.Translate(context.Background(), "Hello", "en", "ja")
	assert.ErrorIs(t, err, ErrEngineUnavailable)
}

func TestHTTPEngine_Unreachable(t *testing.T) {
	engine := NewHTTPEngine("http://127.0.0.1:1", "", 500*time.Millisecond)

	_, err := engine.Translate(context.Background(), "Hello", "en", "ja")
	assert.ErrorIs(t, err, ErrEngineUnavailable)
}

func TestHTTPEngine_BadResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	engine := NewHTTPEngine(srv.URL, "", 5*time.Second)

	_, err := engine.Translate(context.Background(), "Hello", "en", "ja")
	assert.ErrorIs(t, err, ErrEngineUnavailable)
}
