package service

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"videoflix/config"
)

// Encoder produces media files from a source video.
type Encoder interface {
	// Encode writes an H.264/AAC mp4 scaled to height at dst.
	Encode(ctx context.Context, src, dst string, height int) error
	// Thumbnail writes a JPEG of the frame one second in at dst.
	Thumbnail(ctx context.Context, src, dst string) error
}

type FFmpeg struct {
	path    string
	timeout time.Duration
}

func NewFFmpeg(cfg config.Transcode) *FFmpeg {
	path := cfg.FFmpegPath
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpeg{path: path, timeout: cfg.Timeout}
}

func renditionArgs(src, dst string, height int) []string {
	return []string{
		"-i", src,
		"-vf", "scale=-2:" + strconv.Itoa(height),
		"-c:v", "libx264",
		"-crf", "23",
		"-preset", "fast",
		"-c:a", "aac",
		"-movflags", "+faststart",
		"-y", dst,
	}
}

func thumbnailArgs(src, dst string) []string {
	return []string{
		"-ss", "1",
		"-i", src,
		"-frames:v", "1",
		"-q:v", "2",
		"-y", dst,
	}
}

func (f *FFmpeg) Encode(ctx context.Context, src, dst string, height int) error {
	return f.run(ctx, renditionArgs(src, dst, height))
}

func (f *FFmpeg) Thumbnail(ctx context.Context, src, dst string) error {
	return f.run(ctx, thumbnailArgs(src, dst))
}

func (f *FFmpeg) run(ctx context.Context, args []string) error {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, f.path, args...)
	zerolog.Ctx(ctx).Debug().Str("cmd", f.path+" "+strings.Join(args, " ")).Msg("executing ffmpeg")

	output, err := cmd.CombinedOutput()
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("output", tail(output, 2048)).Msg("ffmpeg failed")
		return fmt.Errorf("ffmpeg execution failed: %w", err)
	}
	return nil
}

func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(b)
}
