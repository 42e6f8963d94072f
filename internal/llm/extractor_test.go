package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildExtractionPrompt_JobKeywords(t *testing.T) {
	schema := JobKeywordsSchema("Extract the skills.")
	prompt := BuildExtractionPrompt(schema, "We need Go and Kubernetes.")

	assert.Equal(t, "JobKeywords", schema.Name)
	assert.Contains(t, prompt, "Extract the skills.")
	assert.Contains(t, prompt, `"keywords": ["string"] (required)`)
	assert.Contains(t, prompt, "We need Go and Kubernetes.")
	assert.Contains(t, prompt, "Return ONLY the JSON object")
}

func TestBuildExtractionPrompt_FieldLayout(t *testing.T) {
	schema := ExtractionSchema{
		Instruction: "Summarise.",
		Fields: []SchemaField{
			{Name: "title"},
			{Name: "seniority", Type: "string", Description: "junior, mid or senior"},
		},
	}
	prompt := BuildExtractionPrompt(schema, "text")

	assert.Contains(t, prompt, "{\n  \"title\": string,\n  \"seniority\": string // junior, mid or senior\n}")
	assert.NotContains(t, prompt, "(required)")
}
