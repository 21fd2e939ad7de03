package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
)

var ErrEncoderFailed = errors.New("fake encoder failed")

// FakeEncoder writes deterministic bytes instead of invoking ffmpeg.
type FakeEncoder struct {
	// FailHeight makes Encode fail for that height.
	FailHeight    int
	FailThumbnail bool

	mu         sync.Mutex
	encodes    []int
	thumbnails int
}

// RenditionBytes is what FakeEncoder writes for a rendition of height.
func RenditionBytes(height int) []byte {
	return bytes.Repeat([]byte(fmt.Sprintf("%05dp|", height)), 700)
}

func (e *FakeEncoder) Encode(ctx context.Context, src, dst string, height int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(src); err != nil {
		return err
	}
	e.mu.Lock()
	e.encodes = append(e.encodes, height)
	e.mu.Unlock()
	if height == e.FailHeight {
		return ErrEncoderFailed
	}
	return os.WriteFile(dst, RenditionBytes(height), 0o644)
}

func (e *FakeEncoder) Thumbnail(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	e.thumbnails++
	e.mu.Unlock()
	if e.FailThumbnail {
		return ErrEncoderFailed
	}
	return os.WriteFile(dst, []byte("\xff\xd8\xff\xe0fake-jpeg"), 0o644)
}

// Encodes returns the heights passed to Encode, in call order.
func (e *FakeEncoder) Encodes() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]int(nil), e.encodes...)
}

func (e *FakeEncoder) Thumbnails() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.thumbnails
}
