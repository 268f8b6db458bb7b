package service

import (
	"strings"

	"github.com/medguard/procedure-audit/internal/domain"
	"github.com/medguard/procedure-audit/internal/port"
)

// promptTemplate is the single point of truth for the evaluation criteria.
// Changing what the model is asked to judge means changing this template only;
// the surrounding pipeline never inspects the wording.
const promptTemplate = `You are a senior medical insurance auditor reviewing a clinical procedure record
together with its attached imaging artifact (an X-ray image or a scanned document).

Procedure details:
- Procedure code: {procedure_code}
- Procedure name: {procedure_name}
- Performing doctor: {doctor_name}
- Execution date: {execution_date}
- Notes: {notes}

Examine the attached image together with the details above and decide whether the
procedure is justified by what the image shows. Reply with a single JSON object and
nothing else, in exactly this shape:

{
  "approval_status": "<one of: מאושר | דורש בדיקה נוספת | נדחו>",
  "ai_analysis": {
    "risk_level": "<one of: low | medium | high>",
    "medical_justification": <true if the image supports the medical need for the procedure>,
    "contraindications": <true if the image shows contraindications to the procedure>,
    "summary": "<one or two sentences describing what the image shows>",
    "recommendation": "<one sentence of guidance for the human reviewer>"
  }
}`

// ComposePrompt merges the fixed instruction template with per-request
// metadata and attaches the decoded artifact. Pure function; missing optional
// fields substitute as empty strings rather than causing failure.
func ComposePrompt(req domain.AuditRequest, image *domain.Artifact) port.Prompt {
	r := strings.NewReplacer(
		"{procedure_code}", req.ProcedureCode,
		"{procedure_name}", req.ProcedureName,
		"{doctor_name}", req.DoctorName,
		"{execution_date}", req.ExecutionDate,
		"{notes}", req.Notes,
	)
	return port.Prompt{
		Text:  r.Replace(promptTemplate),
		Image: image,
	}
}
