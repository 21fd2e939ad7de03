// Package byterange parses single-range HTTP Range headers and produces the
// selected bytes in bounded blocks.
package byterange

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

var (
	ErrInvalid       = errors.New("invalid range")
	ErrMultiRange    = errors.New("multi-range not supported")
	ErrUnsatisfiable = errors.New("range not satisfiable")
)

// DefaultBlockSize is the read size used when streaming a range.
const DefaultBlockSize = 8192

// Range is the inclusive byte interval [Start, End].
type Range struct {
	Start int64
	End   int64
}

func (r Range) Length() int64 {
	return r.End - r.Start + 1
}

// Parse validates header against an object of size bytes. It accepts
// bytes=a-b, bytes=a- and bytes=-n. A start at or past size yields
// ErrUnsatisfiable; every other violation yields ErrInvalid.
func Parse(header string, size int64) (Range, error) {
	const prefix = "bytes="
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, prefix) {
		return Range{}, ErrInvalid
	}

	spec := strings.TrimPrefix(header, prefix)
	if strings.Contains(spec, ",") {
		return Range{}, ErrMultiRange
	}

	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok {
		return Range{}, ErrInvalid
	}
	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)

	if startStr == "" {
		n, err := parseOffset(endStr)
		if err != nil || n == 0 {
			return Range{}, ErrInvalid
		}
		if size == 0 {
			return Range{}, ErrUnsatisfiable
		}
		n = min(n, size)
		return Range{Start: size - n, End: size - 1}, nil
	}

	start, err := parseOffset(startStr)
	if err != nil {
		return Range{}, ErrInvalid
	}

	end := size - 1
	if endStr != "" {
		if end, err = parseOffset(endStr); err != nil {
			return Range{}, ErrInvalid
		}
		if end < start {
			return Range{}, ErrInvalid
		}
	}

	if start >= size {
		return Range{}, ErrUnsatisfiable
	}
	if end >= size {
		return Range{}, ErrInvalid
	}
	return Range{Start: start, End: end}, nil
}

func parseOffset(s string) (int64, error) {
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, ErrInvalid
	}
	return strconv.ParseInt(s, 10, 64)
}

// ContentRange formats the Content-Range header of a 206 response.
func ContentRange(r Range, size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

// UnsatisfiedContentRange formats the Content-Range header of a 416 response.
func UnsatisfiedContentRange(size int64) string {
	return fmt.Sprintf("bytes */%d", size)
}

// Chunks yields length bytes of r starting at offset, at most blockSize at a
// time. The yielded slice is reused between iterations. Iteration ends after
// the first error, which is yielded with a nil block; a source that ends early
// yields io.ErrUnexpectedEOF.
func Chunks(r io.ReadSeeker, offset, length int64, blockSize int) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		if blockSize <= 0 {
			blockSize = DefaultBlockSize
		}
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			yield(nil, err)
			return
		}

		buf := make([]byte, min(int64(blockSize), max(length, 1)))
		remaining := length
		for remaining > 0 {
			n, err := io.ReadFull(r, buf[:min(int64(len(buf)), remaining)])
			if n > 0 {
				remaining -= int64(n)
				if !yield(buf[:n], nil) {
					return
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					err = io.ErrUnexpectedEOF
				}
				yield(nil, err)
				return
			}
		}
	}
}
