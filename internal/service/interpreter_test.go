package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanReply = `{"approval_status":"מאושר","ai_analysis":{"risk_level":"low","medical_justification":true,"contraindications":false}}`

func TestInterpretCleanJSON(t *testing.T) {
	result := Interpret(cleanReply)

	require.False(t, result.IsError())
	assert.Equal(t, "מאושר", result.ApprovalStatus)
	require.NotNil(t, result.AIAnalysis)
	assert.Equal(t, "low", result.AIAnalysis.RiskLevel)
	assert.True(t, result.AIAnalysis.MedicalJustification)
	assert.False(t, result.AIAnalysis.Contraindications)
}

func TestInterpretFencedJSONMatchesClean(t *testing.T) {
	fenced := "```json\n" + cleanReply + "\n```"

	assert.Equal(t, Interpret(cleanReply), Interpret(fenced))
}

func TestInterpretFenceWithSurroundingWhitespace(t *testing.T) {
	fenced := "\n\n  ```json\n" + cleanReply + "\n```  \n"

	result := Interpret(fenced)
	require.False(t, result.IsError())
	assert.Equal(t, "מאושר", result.ApprovalStatus)
}

func TestInterpretMalformedInput(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"prose", "I cannot evaluate this image."},
		{"truncated json", `{"approval_status":"מאושר","ai_analysis":{`},
		{"fenced prose", "```json\nnot actually json\n```"},
		{"array instead of object", `[1, 2, 3]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Interpret(tc.raw)
			require.True(t, result.IsError())
			assert.NotEmpty(t, result.Error)
		})
	}
}

func TestInterpretDoesNotValidateFields(t *testing.T) {
	// A structurally valid but semantically empty reply passes through.
	result := Interpret(`{"approval_status":"מאושר"}`)

	require.False(t, result.IsError())
	assert.Equal(t, "מאושר", result.ApprovalStatus)
	assert.Nil(t, result.AIAnalysis)
}

func TestStripJSONFenceLeavesCleanTextAlone(t *testing.T) {
	assert.Equal(t, cleanReply, stripJSONFence(cleanReply))
	assert.Equal(t, "plain text", stripJSONFence("plain text"))
}
