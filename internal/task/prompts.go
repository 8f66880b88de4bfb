package task

import (
	"fmt"
	"strings"

	"github.com/atelierhq/atelier-api/internal/domain"
)

// fileExtension maps a target language to the extension used for generated
// source file names. Unrecognized languages fall back to txt.
func fileExtension(language string) string {
	switch strings.ToLower(language) {
	case "python":
		return "py"
	case "javascript":
		return "js"
	case "typescript":
		return "ts"
	case "java":
		return "java"
	case "go":
		return "go"
	default:
		return "txt"
	}
}

// generatedFileName builds the file name for a generated source artifact.
func generatedFileName(language string) string {
	return "generated_code." + fileExtension(language)
}

func documentPrompts(projectName, documentType string, docs []*domain.Document) (system, user string) {
	system = fmt.Sprintf("You are an experienced technical writer. Generate a %s document for the project described below.", documentType)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Project: %s\n", projectName)
	if len(docs) == 0 {
		sb.WriteString("No existing documents are available; generate the document from the project name alone.\n")
	} else {
		sb.WriteString("Existing project documents:\n")
		for _, doc := range docs {
			fmt.Fprintf(&sb, "--- %s ---\n%s\n", doc.Type, doc.Content)
		}
	}
	fmt.Fprintf(&sb, "Generate the %s document:", documentType)

	return system, sb.String()
}

func sourceCodePrompts(language string, parent *domain.Document) (system, user string) {
	system = fmt.Sprintf("You are a skilled software developer. Generate %s source code based on the following document.", language)
	user = fmt.Sprintf("Document content: %s", parent.Content)
	return system, user
}

func consistencyPrompts(docs []*domain.Document) (system, user string) {
	system = "You are a meticulous reviewer. Analyze the following documents for inconsistencies and respond with JSON containing inconsistencies, consistency_score and suggestions."

	var sb strings.Builder
	for i, doc := range docs {
		fmt.Fprintf(&sb, "--- document %d (%s) ---\n%s\n", i+1, doc.Type, doc.Content)
	}
	sb.WriteString("Analysis result:")

	return system, sb.String()
}

func qualityPrompts(docs []*domain.Document, codes []*domain.SourceCode) (system, user string) {
	system = "You are a quality auditor. Review the following deliverables and respond with JSON containing issues (type, description, severity) and an overall score."

	var sb strings.Builder
	for _, doc := range docs {
		fmt.Fprintf(&sb, "--- document (%s) ---\n%s\n", doc.Type, doc.Content)
	}
	for _, code := range codes {
		fmt.Fprintf(&sb, "--- source file %s ---\n%s\n", code.FileName, code.Content)
	}
	sb.WriteString("Review result:")

	return system, sb.String()
}

// projectMetrics summarizes the sizing input for a work estimate.
type projectMetrics struct {
	DocumentCount   int
	SourceCodeCount int
	TotalChars      int
	AverageHours    float64
}

func workEstimatePrompts(projectName string, metrics projectMetrics) (system, user string) {
	system = "You are an experienced project planner. Estimate the effort for the project below and respond with JSON containing total_hours and a per-phase breakdown."

	var sb strings.Builder
	fmt.Fprintf(&sb, "Project: %s\n", projectName)
	fmt.Fprintf(&sb, "Documents: %d\n", metrics.DocumentCount)
	fmt.Fprintf(&sb, "Source files: %d\n", metrics.SourceCodeCount)
	fmt.Fprintf(&sb, "Total content size: %d characters\n", metrics.TotalChars)
	if metrics.AverageHours > 0 {
		fmt.Fprintf(&sb, "Historic average estimate: %.0f hours\n", metrics.AverageHours)
	}
	sb.WriteString("Estimate:")

	return system, sb.String()
}

func proposalKeyInfoPrompts(docs []*domain.Document) (system, user string) {
	system = "You are a business analyst. Extract the key information from the following project documents as a concise summary."

	var sb strings.Builder
	for _, doc := range docs {
		fmt.Fprintf(&sb, "--- %s ---\n%s\n", doc.Type, doc.Content)
	}
	sb.WriteString("Key information:")

	return system, sb.String()
}

func proposalOptimizePrompts(draft string) (system, user string) {
	system = "You are a professional business writer. Optimize the following proposal for clarity and readability."
	user = fmt.Sprintf("Proposal:\n%s\n\nOptimized proposal:", draft)
	return system, user
}
