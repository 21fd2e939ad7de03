package service

import "errors"

var (
	ErrNonRetryable   = errors.New("non-retryable error")
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrExternalTool   = errors.New("external tool failed")
	ErrDuplicateRun   = errors.New("transcode already running for video")
)
