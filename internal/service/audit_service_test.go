package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medguard/procedure-audit/internal/adapter/artifact"
	"github.com/medguard/procedure-audit/internal/domain"
	"github.com/medguard/procedure-audit/internal/port"
)

type stubReasoner struct {
	reply  string
	err    error
	called bool
	prompt port.Prompt
}

func (s *stubReasoner) ModelName() string { return "stub-model" }

func (s *stubReasoner) Generate(_ context.Context, p port.Prompt) (string, error) {
	s.called = true
	s.prompt = p
	return s.reply, s.err
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func newPipeline(t *testing.T, stub *stubReasoner) (*AuditService, *artifact.Storage) {
	t.Helper()
	storage, err := artifact.NewStorage(t.TempDir())
	require.NoError(t, err)
	return NewAuditService(storage, artifact.NewDecoder(), stub), storage
}

func TestEvaluateEndToEnd(t *testing.T) {
	stub := &stubReasoner{reply: "```json\n" + cleanReply + "\n```"}
	pipeline, storage := newPipeline(t, stub)

	name, err := storage.Save("xray.png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)

	result := pipeline.Evaluate(context.Background(), domain.AuditRequest{
		ProcedureCode: "PROC-42",
		ProcedureName: "Chest X-Ray",
		DoctorName:    "Dr. Cohen",
		XRayURL:       name,
	})

	require.False(t, result.IsError())
	assert.Equal(t, "מאושר", result.ApprovalStatus)
	require.NotNil(t, result.AIAnalysis)
	assert.Equal(t, "low", result.AIAnalysis.RiskLevel)

	require.True(t, stub.called)
	require.NotNil(t, stub.prompt.Image)
	assert.Equal(t, "image/png", stub.prompt.Image.MIMEType)
	assert.Contains(t, stub.prompt.Text, "PROC-42")
}

func TestEvaluateUnsupportedFormatSkipsRemoteCall(t *testing.T) {
	stub := &stubReasoner{reply: cleanReply}
	pipeline, storage := newPipeline(t, stub)

	name, err := storage.Save("notes.txt", bytes.NewReader([]byte("not an image")))
	require.NoError(t, err)

	result := pipeline.Evaluate(context.Background(), domain.AuditRequest{
		ProcedureCode: "PROC-1",
		ProcedureName: "MRI",
		XRayURL:       name,
	})

	require.True(t, result.IsError())
	assert.Equal(t, "Unsupported file type or PDF with no images.", result.Error)
	assert.False(t, stub.called, "decode failure must short-circuit before the remote call")
}

func TestEvaluateCorruptImage(t *testing.T) {
	stub := &stubReasoner{reply: cleanReply}
	pipeline, storage := newPipeline(t, stub)

	name, err := storage.Save("broken.png", bytes.NewReader([]byte("definitely not a png")))
	require.NoError(t, err)

	result := pipeline.Evaluate(context.Background(), domain.AuditRequest{
		ProcedureCode: "PROC-1",
		ProcedureName: "MRI",
		XRayURL:       name,
	})

	require.True(t, result.IsError())
	assert.Equal(t, "Invalid or corrupted image file.", result.Error)
	assert.False(t, stub.called)
}

func TestEvaluateMissingArtifact(t *testing.T) {
	stub := &stubReasoner{reply: cleanReply}
	pipeline, _ := newPipeline(t, stub)

	result := pipeline.Evaluate(context.Background(), domain.AuditRequest{
		ProcedureCode: "PROC-1",
		ProcedureName: "MRI",
		XRayURL:       "no-such-file.png",
	})

	require.True(t, result.IsError())
	assert.Equal(t, "An unexpected error occurred during processing.", result.Error)
	assert.False(t, stub.called)
}

func TestEvaluateInvocationFailure(t *testing.T) {
	stub := &stubReasoner{err: errors.New("quota exceeded")}
	pipeline, storage := newPipeline(t, stub)

	name, err := storage.Save("xray.png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)

	result := pipeline.Evaluate(context.Background(), domain.AuditRequest{
		ProcedureCode: "PROC-1",
		ProcedureName: "MRI",
		XRayURL:       name,
	})

	require.True(t, result.IsError())
	assert.Equal(t, "An unexpected error occurred during processing.", result.Error)
}

func TestEvaluateUnparseableReply(t *testing.T) {
	stub := &stubReasoner{reply: "the image looks fine to me"}
	pipeline, storage := newPipeline(t, stub)

	name, err := storage.Save("xray.png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)

	result := pipeline.Evaluate(context.Background(), domain.AuditRequest{
		ProcedureCode: "PROC-1",
		ProcedureName: "MRI",
		XRayURL:       name,
	})

	require.True(t, result.IsError())
	assert.Equal(t, "Failed to parse AI response.", result.Error)
}
