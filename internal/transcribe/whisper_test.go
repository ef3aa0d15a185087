package transcribe

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocapita/vocapita/internal/apierr"
)

func newStubClient(t *testing.T, handler http.HandlerFunc) *WhisperClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewWhisperClient("test-key", 5*time.Second, option.WithBaseURL(srv.URL+"/"))
}

func TestWhisperClient_Transcribe(t *testing.T) {
	var gotModel, gotFormat, gotLanguage string
	var gotFile bool

	client := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotModel = r.FormValue("model")
		gotFormat = r.FormValue("response_format")
		gotLanguage = r.FormValue("language")
		_, _, err := r.FormFile("file")
		gotFile = err == nil

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"Hello world"}`))
	})

	text, err := client.Transcribe(context.Background(), bytes.NewReader([]byte("fake audio bytes")))

	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
	assert.True(t, gotFile, "audio file part must be present")
	assert.Equal(t, "whisper-1", gotModel)
	assert.Equal(t, "json", gotFormat)
	assert.Empty(t, gotLanguage, "no language field: the provider auto-detects")
}

func TestWhisperClient_ProviderError(t *testing.T) {
	var calls int

	client := newStubClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	_, err := client.Transcribe(context.Background(), bytes.NewReader([]byte("fake audio")))

	var provErr *apierr.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusTooManyRequests, provErr.StatusCode)
	assert.Contains(t, provErr.Body, "rate limited")
	assert.Equal(t, 1, calls, "no automatic retry")
}

func TestWhisperClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // refuse connections

	client := NewWhisperClient("test-key", time.Second, option.WithBaseURL(srv.URL+"/"))

	_, err := client.Transcribe(context.Background(), bytes.NewReader([]byte("fake audio")))

	var netErr *apierr.NetworkError
	assert.ErrorAs(t, err, &netErr)
}
