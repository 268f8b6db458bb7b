package domain

// Artifact is a decoded imaging artifact in a reasoning-model-consumable
// form: a single renderable image as raw bytes plus its MIME type.
// A multi-page PDF is reduced to its first page before it becomes an Artifact.
type Artifact struct {
	Data     []byte
	MIMEType string
}
