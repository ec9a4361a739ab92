package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes the JSON object a prompt asks the model for.
type ExtractionSchema struct {
	Name        string
	Description string // preamble placed before the structure
	Fields      []SchemaField
}

// SchemaField is one top-level key of the expected JSON object.
type SchemaField struct {
	Name        string
	Type        string // JSON example of the value, e.g. ["string"]
	Description string
	Required    bool
}

// BuildExtractionPrompt renders the schema followed by the input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\nReturn ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
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
	sb.WriteString("- Extract information directly from the text, do not invent facts.\n")
	sb.WriteString("- Use empty arrays and 0 for information the resume does not contain.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Resume text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// ResumeProfileFields are the keys requested from the client-side model.
func ResumeProfileFields() []SchemaField {
	return []SchemaField{
		{Name: "skills", Type: `["string"]`, Description: "technical and soft skills", Required: true},
		{Name: "experience_years", Type: "0", Description: "total years of professional experience as an integer", Required: true},
		{Name: "education", Type: `[{"degree": "", "institution": "", "year": ""}]`, Required: true},
		{Name: "achievements", Type: `["string"]`, Description: "notable achievements, one per item"},
		{Name: "job_titles", Type: `["string"]`, Description: "job titles held, most recent first"},
	}
}

// ExtendedResumeProfileFields adds contact, certification, language and
// project keys to ResumeProfileFields.
func ExtendedResumeProfileFields() []SchemaField {
	return append(ResumeProfileFields(),
		SchemaField{Name: "summary", Description: "brief professional summary"},
		SchemaField{Name: "phone", Description: "phone number if found"},
		SchemaField{Name: "location", Description: "city, state/country if found"},
		SchemaField{Name: "certifications", Type: `["string"]`},
		SchemaField{Name: "languages", Type: `["string"]`, Description: "spoken languages"},
		SchemaField{Name: "projects", Type: `[{"name": "", "description": "", "technologies": ["string"]}]`},
	)
}
