package formatters

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"resume-builder/pkg/ai"
)

// MaxSkillMatrixChars bounds the skill matrix excerpt sent to the model.
const MaxSkillMatrixChars = 2000

// Sources holds the optional raw inputs of a composition. Blank fields are
// left out of the prompt entirely.
type Sources struct {
	Resume      string
	CoverLetter string
	SkillMatrix string
}

const profileSystemPrompt = `You are an AI assistant that reformats resumes into a structured JSON format.
Take %s as input, extract relevant details, and map them to the new resume format.
Only respond with the new resume format as a JSON object that adheres strictly to the provided JSON Schema. Do not include any extra messages.
**Instructions:**
- Only use the given details; do not generate fictional information.
- Follow the JSON structure exactly as provided.
- Ensure the output starts directly with a valid JSON object (no extra text or explanations).
- Try to keep each project description within 40-50 words.
- If a key has no available value, skip that key in the output.
- "name" and "designation" are mandatory key value pairs; create a proper summarized objective.
- For "education" form sentences and return them as a list. Do not make up values.
- Keep the key names of the JSON schema unchanged, including for skills.

Your task is to extract relevant details and format them into the following structured JSON format:
%s`

type ProfileFormatter struct{ Formatter }

func NewProfileFormatter(gen ai.Generator, model string) *ProfileFormatter {
	return &ProfileFormatter{Formatter{gen: gen, model: model}}
}

// Format issues one call merging the present sources into schema.
func (pf *ProfileFormatter) Format(ctx context.Context, schema map[string]interface{}, src Sources) (map[string]interface{}, ai.RepairStep, error) {
	req := pf.Request(schema, src)
	raw, err := pf.gen.Generate(ctx, req)
	if err != nil {
		return nil, "", err
	}
	m, step, ok := ai.Repair(raw)
	if !ok {
		return nil, step, fmt.Errorf("profile composition returned non-json content")
	}
	return m, step, nil
}

// Request builds the prompt pair for the given source combination.
func (pf *ProfileFormatter) Request(schema map[string]interface{}, src Sources) ai.Request {
	var inputs []string
	var user strings.Builder
	if s := strings.TrimSpace(src.SkillMatrix); s != "" {
		inputs = append(inputs, "the competency matrix")
		if cut, ok := runePrefix(s, MaxSkillMatrixChars); ok {
			s = cut + "... [truncated]"
		}
		fmt.Fprintf(&user, "**Skill Matrix (Extracted from External Data Sources):**\n%s\n\n", s)
	}
	if s := strings.TrimSpace(src.Resume); s != "" {
		inputs = append(inputs, "the old resume")
		fmt.Fprintf(&user, "**Old Resume (Extracted Text):**\n%s\n\n", s)
	}
	if s := strings.TrimSpace(src.CoverLetter); s != "" {
		inputs = append(inputs, "the old cover letter")
		fmt.Fprintf(&user, "**Old Cover Letter (Extracted Text):**\n%s\n\n", s)
	}
	user.WriteString("Generate the updated resume in JSON format.")

	return ai.Request{
		Model:       pf.model,
		Temperature: Temperature,
		System:      fmt.Sprintf(profileSystemPrompt, joinInputs(inputs), mustMarshal(schema)),
		User:        user.String(),
		Format:      ai.FormatJSON,
	}
}

func joinInputs(in []string) string {
	switch len(in) {
	case 0:
		return "the supplied details"
	case 1:
		return in[0]
	}
	return strings.Join(in[:len(in)-1], ", ") + " and " + in[len(in)-1]
}

// runePrefix returns the first n characters of s and whether anything was
// cut. The cut never splits a multi-byte character.
func runePrefix(s string, n int) (string, bool) {
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], true
		}
		i++
	}
	return s, false
}
