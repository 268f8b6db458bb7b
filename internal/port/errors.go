package port

import "errors"

// Sentinel errors used across ports.
var (
	// ErrUnsupportedFormat means the artifact's extension selects no decode
	// strategy, or a PDF yields no pages to render.
	ErrUnsupportedFormat = errors.New("unsupported artifact format")

	// ErrCorruptFile means the bytes fail to decode as the claimed format.
	ErrCorruptFile = errors.New("corrupt artifact file")

	// ErrNotConfigured means Generate was called before Configure. This is a
	// startup-time fatal condition, not a per-request recoverable one.
	ErrNotConfigured = errors.New("reasoning model not configured")

	// ErrArtifactNotFound means the referenced filename has no stored artifact.
	ErrArtifactNotFound = errors.New("artifact not found")
)
