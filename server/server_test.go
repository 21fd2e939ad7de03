package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"videoflix/config"
	"videoflix/pkg/queue"
	"videoflix/repository"
	"videoflix/server"
	"videoflix/service"
	"videoflix/storage"
	"videoflix/testutil"
)

const (
	userToken  = "0123456789abcdef0123456789abcdef01234567"
	otherToken = "fedcba9876543210fedcba9876543210fedcba98"
)

type harness struct {
	repo   repository.Repository
	store  storage.Store
	queue  *queue.Memory
	router *gin.Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := testutil.NewRepo(t)
	store := testutil.NewStore(t)
	q := queue.NewMemory()
	progress := service.NewProgressService(repo)
	app := &server.App{
		Catalog:  service.NewCatalogService(repo, store, service.NewEnqueuer(q), progress, config.App{Protocol: "http", Host: "media.test"}),
		Progress: progress,
		Streams:  service.NewStreamService(repo, store),
		Tokens:   repo,
	}

	ctx := testutil.Context(t)
	_, err := repo.GetOrCreateToken(ctx, 1, userToken)
	require.NoError(t, err)
	_, err = repo.GetOrCreateToken(ctx, 2, otherToken)
	require.NoError(t, err)

	return &harness{repo: repo, store: store, queue: q, router: server.NewRouter(zerolog.Nop(), app)}
}

func (h *harness) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) get(t *testing.T, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	return h.do(t, req)
}

func (h *harness) postJSON(t *testing.T, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	return h.do(t, req)
}

func withToken(token string) http.Header {
	return http.Header{"Authorization": {"Token " + token}}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

func multipartUpload(t *testing.T, fields map[string]string, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("original_file", fileName)
		require.NoError(t, err)
		_, err = io.Copy(fw, strings.NewReader(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}
