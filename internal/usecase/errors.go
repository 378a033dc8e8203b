package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUpstreamFetch         = errors.New("source image fetch failed")
	ErrUploadProvider        = errors.New("image upload failed")
	ErrStore                 = errors.New("store operation failed")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
