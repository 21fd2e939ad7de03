package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"videoflix/config"
	"videoflix/constant"
	"videoflix/testutil"
)

func TestRenditionArgs(t *testing.T) {
	args := renditionArgs("in.mp4", "out_720p.mp4", 720)
	assert.Equal(t, []string{
		"-i", "in.mp4",
		"-vf", "scale=-2:720",
		"-c:v", "libx264",
		"-crf", "23",
		"-preset", "fast",
		"-c:a", "aac",
		"-movflags", "+faststart",
		"-y", "out_720p.mp4",
	}, args)
}

func TestThumbnailArgs(t *testing.T) {
	args := thumbnailArgs("in.mp4", "thumb.jpg")
	assert.Equal(t, []string{"-ss", "1", "-i", "in.mp4", "-frames:v", "1", "-q:v", "2", "-y", "thumb.jpg"}, args)
}

func TestFFmpeg_MissingBinary(t *testing.T) {
	ff := NewFFmpeg(config.Transcode{FFmpegPath: filepath.Join(t.TempDir(), "no-ffmpeg")})
	err := ff.Encode(testutil.Context(t), "in.mp4", "out.mp4", 180)
	assert.ErrorContains(t, err, "ffmpeg execution failed")
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "movie", BaseName("videos/original/movie.mp4"))
	assert.Equal(t, "videos/1080p/movie_1080p.mp4", RenditionKey("movie", constant.Resolution1080p))
	assert.Equal(t, "videos/thumbnails/movie.jpg", ThumbnailKey("movie"))
	assert.Equal(t, "videos/original/movie.mp4", OriginalKey("movie.mp4"))
}
