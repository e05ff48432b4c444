package formatters

import (
	"context"
	"fmt"

	"resume-builder/pkg/ai"
)

const schemaSystemPrompt = `You are an advanced AI specializing in extracting structured information from unstructured text. Your task is to format resume data into a structured JSON schema. Do not give any response other than JSON. Do not add any description before or after the JSON and do not prefix it with the word json.

name and designation are mandatory key value pairs; create a proper summarized objective under the key "objective" for any kind of template.
Ensure valid JSON formatting. The output must start with { and end with }. No other words should be present.

Use exactly these top level keys: name, designation, objective, education, skills, project_details.
project_details maps an id such as "project1" to an object with name, role, description, technology and role_played.`

type SchemaFormatter struct{ Formatter }

func NewSchemaFormatter(gen ai.Generator, model string) *SchemaFormatter {
	return &SchemaFormatter{Formatter{gen: gen, model: model}}
}

// Format asks the model to infer the target profile layout from a
// template document. The raw completion is returned parsed; the caller
// decides what to do when parsing fails.
func (sf *SchemaFormatter) Format(ctx context.Context, templateText string) (map[string]interface{}, ai.RepairStep, error) {
	raw, err := sf.gen.Generate(ctx, ai.Request{
		Model:       sf.model,
		Temperature: Temperature,
		System:      schemaSystemPrompt,
		User:        fmt.Sprintf("Here is an extracted resume text:\n\n%s\n\nFormat it into JSON.", templateText),
		Format:      ai.FormatJSON,
	})
	if err != nil {
		return nil, "", err
	}
	m, step, ok := ai.Repair(raw)
	if !ok {
		return nil, step, fmt.Errorf("schema extraction returned non-json content")
	}
	return m, step, nil
}
