package artifact

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/medguard/procedure-audit/internal/domain"
	"github.com/medguard/procedure-audit/internal/port"
)

// Decoder implements port.ArtifactDecoder. The filename extension selects the
// strategy: PDFs are rasterized (first page only), PNG/JPEG pass through after
// a decode check, anything else is unsupported.
type Decoder struct{}

// NewDecoder creates an artifact decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode turns raw uploaded bytes into a single renderable image.
// Failures are always port.ErrUnsupportedFormat or port.ErrCorruptFile,
// never a panic.
func (d *Decoder) Decode(data []byte, filename string) (*domain.Artifact, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return d.decodePDF(data)
	case ".png":
		return d.decodeRaster(data, "image/png")
	case ".jpg", ".jpeg":
		return d.decodeRaster(data, "image/jpeg")
	default:
		return nil, fmt.Errorf("%w: %s", port.ErrUnsupportedFormat, filename)
	}
}

// decodePDF renders only the first page of the document to a PNG image.
// Pages beyond the first are ignored; multi-page audits are out of scope.
func (d *Decoder) decodePDF(data []byte) (*domain.Artifact, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %v", port.ErrCorruptFile, err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("%w: pdf yields no pages", port.ErrUnsupportedFormat)
	}

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("%w: render pdf page: %v", port.ErrCorruptFile, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode pdf page: %w", err)
	}
	return &domain.Artifact{Data: buf.Bytes(), MIMEType: "image/png"}, nil
}

// decodeRaster validates that the bytes decode as a raster image and keeps
// the original bytes, which the reasoning model consumes directly.
func (d *Decoder) decodeRaster(data []byte, mimeType string) (*domain.Artifact, error) {
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrCorruptFile, err)
	}
	return &domain.Artifact{Data: data, MIMEType: mimeType}, nil
}
