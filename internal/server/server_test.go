package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocapita/vocapita/internal/apierr"
	"github.com/vocapita/vocapita/internal/config"
	"github.com/vocapita/vocapita/internal/platform"
	"github.com/vocapita/vocapita/internal/server"
	"github.com/vocapita/vocapita/internal/store"
	"github.com/vocapita/vocapita/internal/workflow"
)

type stubTranscriber struct {
	transcript string
	err        error
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ io.Reader) (string, error) {
	return s.transcript, s.err
}

type stubGenerator struct {
	caption string
	err     error
}

func (s *stubGenerator) Generate(_ context.Context, _ string, _ platform.Platform) (string, error) {
	return s.caption, s.err
}

func newTestServer(t *testing.T, transcriber *stubTranscriber, generator *stubGenerator) (*server.Server, *store.Store) {
	t.Helper()

	cfg := &config.Config{
		Env:        "test",
		Port:       "8080",
		StaticDir:  t.TempDir(),
		HSTSMaxAge: 31536000,
		CSPMode:    "relaxed",
		LogLevel:   "info",
	}

	// Create a test logger (discard output)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors during tests
	}))

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	coord := workflow.NewCoordinator(generator, workflow.DiscardPublisher{})

	return server.New(cfg, logger, st, transcriber, coord), st
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &stubTranscriber{}, &stubGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "Health endpoint should return 200 OK")
	assert.Contains(t, w.Body.String(), "healthy", "Response should contain 'healthy'")
	assert.Contains(t, w.Body.String(), "vocapita", "Response should contain the service name")
}

func TestPlatformsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &stubTranscriber{}, &stubGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/platforms", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Platforms []struct {
			ID             string `json:"id"`
			CharacterLimit int    `json:"characterLimit"`
		} `json:"platforms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Platforms, 12)
	for _, p := range body.Platforms {
		assert.GreaterOrEqual(t, p.CharacterLimit, 280, "platform %s", p.ID)
	}
}

func TestCaptionEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &stubTranscriber{}, &stubGenerator{caption: "Morning thoughts, distilled."})

	body := `{"transcript":"talked about mornings","platform":"twitter"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/captions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Morning thoughts, distilled.")
	assert.Contains(t, w.Body.String(), "twitter")
}

func TestCaptionEndpoint_UnknownPlatform(t *testing.T) {
	srv, _ := newTestServer(t, &stubTranscriber{}, &stubGenerator{caption: "x"})

	body := `{"transcript":"hello","platform":"myspace"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/captions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCaptionEndpoint_EmptyTranscript(t *testing.T) {
	srv, _ := newTestServer(t, &stubTranscriber{}, &stubGenerator{caption: "x"})

	body := `{"transcript":"   ","platform":"twitter"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/captions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCaptionEndpoint_ProviderFailure(t *testing.T) {
	gen := &stubGenerator{err: &apierr.ProviderError{StatusCode: 429, Body: "rate limited"}}
	srv, _ := newTestServer(t, &stubTranscriber{}, gen)

	body := `{"transcript":"hello","platform":"twitter"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/captions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "429")
}

func multipartAudio(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("audio", "recording.mp3")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not really mp3 bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestTranscriptionEndpoint(t *testing.T) {
	srv, st := newTestServer(t, &stubTranscriber{transcript: "Hello from the server"}, &stubGenerator{})

	buf, contentType := multipartAudio(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Hello from the server")

	recs, err := st.List()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Hello from the server", recs[0].Transcript)
}

func TestTranscriptionEndpoint_MissingFile(t *testing.T) {
	srv, _ := newTestServer(t, &stubTranscriber{transcript: "x"}, &stubGenerator{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcriptions", strings.NewReader(""))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordingsEndpoints(t *testing.T) {
	srv, st := newTestServer(t, &stubTranscriber{}, &stubGenerator{})

	recA := store.NewRecording("groceries and errands", nil, 0)
	recB := store.NewRecording("quarterly planning notes", nil, 0)
	require.NoError(t, st.Insert(recA))
	require.NoError(t, st.Insert(recB))

	// List all
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recordings", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "groceries")
	assert.Contains(t, w.Body.String(), "quarterly")

	// Filtered search
	req = httptest.NewRequest(http.MethodGet, "/api/v1/recordings?q=quarterly", nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "groceries")
	assert.Contains(t, w.Body.String(), "quarterly")

	// Delete one; deleting again still succeeds
	for range 2 {
		req = httptest.NewRequest(http.MethodDelete, "/api/v1/recordings/"+recA.ID.String(), nil)
		w = httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	}

	recs, err := st.List()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, recB.ID, recs[0].ID)
}

func TestDeleteRecording_BadID(t *testing.T) {
	srv, _ := newTestServer(t, &stubTranscriber{}, &stubGenerator{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/recordings/not-a-uuid", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
