package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"videoflix/constant"
	"videoflix/metrics"
	"videoflix/pkg/byterange"
	"videoflix/service"
)

func (h *handlers) stream(c *gin.Context) {
	id, ok := parseVideoID(c)
	if !ok {
		metrics.ObserveStream(strconv.Itoa(http.StatusNotFound), 0)
		return
	}
	res, err := constant.ParseResolution(c.Param("resolution"))
	if err != nil {
		metrics.ObserveStream(strconv.Itoa(http.StatusNotFound), 0)
		abortDetail(c, http.StatusNotFound, "Not found.")
		return
	}

	stream, err := h.app.Streams.Open(c.Request.Context(), id, res, c.Param("filename"))
	if err != nil {
		metrics.ObserveStream(strconv.Itoa(statusFor(err)), 0)
		writeError(c, err)
		return
	}
	defer stream.Close()

	serve(c, stream)
}

func (h *handlers) thumbnail(c *gin.Context) {
	id, ok := parseVideoID(c)
	if !ok {
		metrics.ObserveStream(strconv.Itoa(http.StatusNotFound), 0)
		return
	}
	stream, err := h.app.Streams.OpenThumbnail(c.Request.Context(), id)
	if err != nil {
		metrics.ObserveStream(strconv.Itoa(statusFor(err)), 0)
		writeError(c, err)
		return
	}
	defer stream.Close()

	serve(c, stream)
}

// serve writes the whole object or the single range named by the Range
// header. Once headers are sent, a read or write failure ends the response
// early.
func serve(c *gin.Context, stream *service.Stream) {
	size := stream.Size()
	header := c.Writer.Header()
	header.Set("Accept-Ranges", "bytes")

	status := http.StatusOK
	r := byterange.Range{Start: 0, End: size - 1}
	if raw := c.GetHeader("Range"); raw != "" {
		parsed, err := byterange.Parse(raw, size)
		if errors.Is(err, byterange.ErrUnsatisfiable) {
			header.Set("Content-Range", byterange.UnsatisfiedContentRange(size))
		}
		if err != nil {
			metrics.ObserveStream(strconv.Itoa(statusFor(err)), 0)
			writeError(c, err)
			return
		}
		r = parsed
		status = http.StatusPartialContent
		header.Set("Content-Range", byterange.ContentRange(r, size))
	}

	length := r.Length()
	header.Set("Content-Type", stream.ContentType)
	header.Set("Content-Length", strconv.FormatInt(length, 10))
	c.Status(status)

	if c.Request.Method == http.MethodHead {
		metrics.ObserveStream(strconv.Itoa(status), 0)
		return
	}

	ctx := c.Request.Context()
	var written int64
	for chunk, err := range byterange.Chunks(stream, r.Start, length, byterange.DefaultBlockSize) {
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Int64("written", written).Msg("failed to read media")
			break
		}
		if ctx.Err() != nil {
			break
		}
		n, err := c.Writer.Write(chunk)
		written += int64(n)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Int64("written", written).Msg("client went away")
			break
		}
	}
	metrics.ObserveStream(strconv.Itoa(status), written)
}
