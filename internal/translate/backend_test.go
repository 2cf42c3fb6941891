package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeepL_Endpoint(t *testing.T) {
	assert.Equal(t, DeepLFreeURL, NewDeepL("abc:fx").endpoint)
	assert.Equal(t, DeepLProURL, NewDeepL("abc").endpoint)
	assert.Equal(t, "http://local", NewDeepL("abc:fx", WithDeepLEndpoint("http://local")).endpoint)
}

func TestDeepL_Translate(t *testing.T) {
	var got deeplRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "DeepL-Auth-Key secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"translations":[{"detected_source_language":"EN","text":"Dober dan"}]}`))
	}))
	defer srv.Close()

	d := NewDeepL("secret", WithDeepLEndpoint(srv.URL), WithDeepLHTTPClient(srv.Client()))
	out, err := d.Translate(context.Background(), "Good day", "sl")
	require.NoError(t, err)
	assert.Equal(t, "Dober dan", out)
	assert.Equal(t, []string{"Good day"}, got.Text)
	assert.Equal(t, "SL", got.TargetLang)
}

func TestDeepL_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"message":"Too many requests"}`,
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
			},
		},
		{
			name:   "malformed payload",
			status: http.StatusOK,
			body:   `{"translations":`,
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "decode response")
			},
		},
		{
			name:   "no translations",
			status: http.StatusOK,
			body:   `{"translations":[]}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrEmptyTranslation)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			d := NewDeepL("secret", WithDeepLEndpoint(srv.URL))
			_, err := d.Translate(context.Background(), "Good day", "sl")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestClient_DeepLFailureFallsBackToSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(NewDeepL("secret", WithDeepLEndpoint(srv.URL)), nil, Config{RetryInterval: time.Millisecond, MaxRetries: 1})
	assert.Equal(t, "Annual report", c.Translate(context.Background(), "Annual report", "slovenian"))
}

func TestOpenAI_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Contains(t, req.Messages[0].Content, `"hr"`)
		assert.Equal(t, "Good evening", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Dobra večer"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	o := NewOpenAI("key", "test-model", srv.URL)
	out, err := o.Translate(context.Background(), "Good evening", "hr")
	require.NoError(t, err)
	assert.Equal(t, "Dobra večer", out)
}

func TestOpenAI_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI("key", "", srv.URL).Translate(context.Background(), "Good evening", "hr")
	assert.ErrorIs(t, err, ErrEmptyTranslation)
}

func TestGemini_Integration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: GEMINI_API_KEY not set")
	}

	ctx := context.Background()
	g, err := NewGemini(ctx, apiKey, "")
	require.NoError(t, err)

	out, err := g.Translate(ctx, "Good morning", "de")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestNewGemini_EmptyKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "")
	assert.Error(t, err)
}
