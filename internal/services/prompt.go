package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildNameExtractionPrompt asks for the first person name in a résumé.
func (pb *PromptBuilder) BuildNameExtractionPrompt(resumeText string) string {
	return fmt.Sprintf(`You are a named-entity recognizer reading the text of a candidate's résumé.

RESUME TEXT:
%s

Find the FIRST span in the text that names a person. This is normally the candidate's own name at the top of the résumé.
Copy the name exactly as it is written in the text. Do not guess, translate or complete it.
If no person name appears, return an empty string.

Return your response in the following JSON format:
{
  "name": "<person name or empty string>"
}`, resumeText)
}

// BuildSearchQuery wraps free-text recruiter input so that its embedding
// lands near résumé chunks rather than near job postings.
func (pb *PromptBuilder) BuildSearchQuery(query string) string {
	return fmt.Sprintf("Candidate résumé with experience in: %s", strings.TrimSpace(query))
}

// extractJSON pulls the JSON object or array out of an LLM answer that may
// be wrapped in markdown fences or prose.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
