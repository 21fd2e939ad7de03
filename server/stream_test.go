package server_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"videoflix/constant"
	"videoflix/entities"
	"videoflix/service"
	"videoflix/testutil"
)

func mediaBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}

// seedRendition stores a 720p rendition of clip.mp4 and returns the video.
func (h *harness) seedRendition(t *testing.T, content []byte) *entities.Video {
	t.Helper()
	ctx := testutil.Context(t)
	video := testutil.CreateVideo(t, h.repo, "clip.mp4")
	key := service.RenditionKey(service.BaseName(video.SourcePath), constant.Resolution720p)
	size, err := h.store.Save(ctx, key, bytes.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, h.repo.PutRendition(ctx, video.ID, constant.Resolution720p, key, size))
	return video
}

func TestStream_Ranges(t *testing.T) {
	h := newHarness(t)
	content := mediaBytes(1000)
	video := h.seedRendition(t, content)
	target := fmt.Sprintf("/video/%d/stream/720p/clip_720p.mp4", video.ID)

	tests := []struct {
		name         string
		rangeHeader  string
		status       int
		body         []byte
		contentRange string
	}{
		{name: "whole file", status: http.StatusOK, body: content},
		{name: "first hundred", rangeHeader: "bytes=0-99", status: http.StatusPartialContent, body: content[:100], contentRange: "bytes 0-99/1000"},
		{name: "open ended", rangeHeader: "bytes=990-", status: http.StatusPartialContent, body: content[990:], contentRange: "bytes 990-999/1000"},
		{name: "suffix", rangeHeader: "bytes=-10", status: http.StatusPartialContent, body: content[990:], contentRange: "bytes 990-999/1000"},
		{name: "suffix longer than file", rangeHeader: "bytes=-5000", status: http.StatusPartialContent, body: content, contentRange: "bytes 0-999/1000"},
		{name: "last byte", rangeHeader: "bytes=999-999", status: http.StatusPartialContent, body: content[999:], contentRange: "bytes 999-999/1000"},
		{name: "start past end", rangeHeader: "bytes=1000-1100", status: http.StatusRequestedRangeNotSatisfiable, contentRange: "bytes */1000"},
		{name: "end past size", rangeHeader: "bytes=0-1000", status: http.StatusBadRequest},
		{name: "reversed", rangeHeader: "bytes=50-10", status: http.StatusBadRequest},
		{name: "multi range", rangeHeader: "bytes=0-1,5-6", status: http.StatusBadRequest},
		{name: "malformed", rangeHeader: "bytes=abc", status: http.StatusBadRequest},
		{name: "wrong unit", rangeHeader: "items=0-1", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.rangeHeader != "" {
				header.Set("Range", tt.rangeHeader)
			}
			w := h.get(t, target, header)

			require.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.contentRange, w.Header().Get("Content-Range"))
			if tt.body != nil {
				assert.Equal(t, tt.body, w.Body.Bytes())
				assert.Equal(t, "video/mp4", w.Header().Get("Content-Type"))
				assert.Equal(t, fmt.Sprint(len(tt.body)), w.Header().Get("Content-Length"))
				assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
			}
		})
	}
}

func TestStream_Head(t *testing.T) {
	h := newHarness(t)
	video := h.seedRendition(t, mediaBytes(1000))

	req := httptest.NewRequest(http.MethodHead, fmt.Sprintf("/video/%d/stream/720p/clip_720p.mp4", video.ID), nil)
	req.Header.Set("Range", "bytes=100-199")
	w := h.do(t, req)

	assert.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "100", w.Header().Get("Content-Length"))
	assert.Equal(t, "bytes 100-199/1000", w.Header().Get("Content-Range"))
	assert.Zero(t, w.Body.Len())
}

func TestStream_EmptyFile(t *testing.T) {
	h := newHarness(t)
	video := h.seedRendition(t, nil)
	target := fmt.Sprintf("/video/%d/stream/720p/clip_720p.mp4", video.ID)

	w := h.get(t, target, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("Content-Length"))
	assert.Zero(t, w.Body.Len())

	w = h.get(t, target, http.Header{"Range": {"bytes=0-"}})
	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, w.Code)
	assert.Equal(t, "bytes */0", w.Header().Get("Content-Range"))
}

func TestStream_NotFound(t *testing.T) {
	h := newHarness(t)
	video := h.seedRendition(t, mediaBytes(10))

	for _, target := range []string{
		fmt.Sprintf("/video/%d/stream/720p/other_720p.mp4", video.ID),
		fmt.Sprintf("/video/%d/stream/1080p/clip_1080p.mp4", video.ID),
		fmt.Sprintf("/video/%d/stream/240p/clip_240p.mp4", video.ID),
		"/video/abc/stream/720p/clip_720p.mp4",
		"/video/999/stream/720p/clip_720p.mp4",
		fmt.Sprintf("/video/%d/thumbnail", video.ID),
	} {
		w := h.get(t, target, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, target)
	}
}

func TestThumbnail(t *testing.T) {
	h := newHarness(t)
	ctx := testutil.Context(t)
	video := testutil.CreateVideo(t, h.repo, "clip.mp4")
	key := service.ThumbnailKey(service.BaseName(video.SourcePath))
	_, err := h.store.Save(ctx, key, bytes.NewReader([]byte("jpeg bytes")))
	require.NoError(t, err)
	require.NoError(t, h.repo.SetThumbnail(ctx, video.ID, key))

	w := h.get(t, fmt.Sprintf("/video/%d/thumbnail", video.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "jpeg bytes", w.Body.String())
}

func streamRequests(t *testing.T, status string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "videoflix_stream_requests_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "status" && label.GetValue() == status {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestThumbnail_CountsEveryOutcome(t *testing.T) {
	h := newHarness(t)
	ctx := testutil.Context(t)
	video := testutil.CreateVideo(t, h.repo, "clip.mp4")
	notFound := streamRequests(t, "404")
	ok := streamRequests(t, "200")

	h.get(t, "/video/abc/thumbnail", nil)
	h.get(t, fmt.Sprintf("/video/%d/thumbnail", video.ID), nil)
	assert.Equal(t, notFound+2, streamRequests(t, "404"))

	key := service.ThumbnailKey(service.BaseName(video.SourcePath))
	_, err := h.store.Save(ctx, key, bytes.NewReader([]byte("jpeg bytes")))
	require.NoError(t, err)
	require.NoError(t, h.repo.SetThumbnail(ctx, video.ID, key))
	h.get(t, fmt.Sprintf("/video/%d/thumbnail", video.ID), nil)
	assert.Equal(t, ok+1, streamRequests(t, "200"))
}
