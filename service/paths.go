package service

import (
	"fmt"
	"path"
	"strings"

	"videoflix/constant"
)

const (
	originalPrefix  = "videos/original"
	thumbnailPrefix = "videos/thumbnails"
)

// BaseName strips directory and extension from a storage key.
func BaseName(key string) string {
	name := path.Base(key)
	return strings.TrimSuffix(name, path.Ext(name))
}

// RenditionKey is videos/{h}p/{base}_{h}p.mp4.
func RenditionKey(base string, res constant.Resolution) string {
	return fmt.Sprintf("videos/%s/%s_%s.mp4", res, base, res)
}

func ThumbnailKey(base string) string {
	return fmt.Sprintf("%s/%s.jpg", thumbnailPrefix, base)
}

func OriginalKey(name string) string {
	return fmt.Sprintf("%s/%s", originalPrefix, name)
}
