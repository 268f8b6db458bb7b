package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medguard/procedure-audit/internal/domain"
)

func TestComposePromptSubstitutesMetadata(t *testing.T) {
	req := domain.AuditRequest{
		ProcedureCode: "PROC-42",
		ProcedureName: "Chest X-Ray",
		DoctorName:    "Dr. Cohen",
		ExecutionDate: "2025-11-02",
		Notes:         "follow-up after fracture",
	}
	image := &domain.Artifact{Data: []byte{1, 2, 3}, MIMEType: "image/png"}

	prompt := ComposePrompt(req, image)

	assert.Contains(t, prompt.Text, "PROC-42")
	assert.Contains(t, prompt.Text, "Chest X-Ray")
	assert.Contains(t, prompt.Text, "Dr. Cohen")
	assert.Contains(t, prompt.Text, "2025-11-02")
	assert.Contains(t, prompt.Text, "follow-up after fracture")
	require.Same(t, image, prompt.Image)
}

func TestComposePromptMissingOptionalsSubstituteEmpty(t *testing.T) {
	req := domain.AuditRequest{
		ProcedureCode: "PROC-1",
		ProcedureName: "MRI",
	}

	prompt := ComposePrompt(req, nil)

	assert.NotContains(t, prompt.Text, "{doctor_name}")
	assert.NotContains(t, prompt.Text, "{execution_date}")
	assert.NotContains(t, prompt.Text, "{notes}")
	assert.Contains(t, prompt.Text, "PROC-1")
}

func TestComposePromptIsPure(t *testing.T) {
	req := domain.AuditRequest{ProcedureCode: "X", ProcedureName: "Y"}

	assert.Equal(t, ComposePrompt(req, nil).Text, ComposePrompt(req, nil).Text)
}
