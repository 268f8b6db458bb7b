package port

import "github.com/medguard/procedure-audit/internal/domain"

// ArtifactDecoder turns raw uploaded bytes plus a filename into a single
// renderable image. The filename extension selects the decode strategy.
type ArtifactDecoder interface {
	Decode(data []byte, filename string) (*domain.Artifact, error)
}

// ArtifactSource loads previously uploaded artifact bytes by bare filename.
// Filenames are resolved against a fixed local directory, never network URLs.
type ArtifactSource interface {
	Load(filename string) ([]byte, error)
}
