package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes the JSON object a prompt asks the model for
type ExtractionSchema struct {
	Name        string
	Instruction string // task description placed before the schema
	Fields      []SchemaField
}

// SchemaField is one key of the requested JSON object
type SchemaField struct {
	Name        string
	Type        string // JSON type hint; "string" when empty
	Description string
	Required    bool
}

// BuildExtractionPrompt renders schema and the input text into a prompt that
// asks for a bare JSON object
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Instruction)
	sb.WriteString("\n\nReturn ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		fmt.Fprintf(&sb, "  %q: %s", field.Name, typeHint)
		if field.Required {
			sb.WriteString(" (required)")
		}
		if field.Description != "" {
			fmt.Fprintf(&sb, " // %s", field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Use only what the text states; do not invent skills.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// JobKeywordsSchema asks for the skill keywords of a job description
func JobKeywordsSchema(instruction string) ExtractionSchema {
	return ExtractionSchema{
		Name:        "JobKeywords",
		Instruction: instruction,
		Fields: []SchemaField{{
			Name:        "keywords",
			Type:        `["string"]`,
			Description: "Skills, tools and qualifications the job asks for, one short keyword per entry",
			Required:    true,
		}},
	}
}
