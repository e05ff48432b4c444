package formatters

import (
	"context"
	"fmt"

	"resume-builder/pkg/ai"
)

const coverLetterSystemPrompt = `You are an AI assistant that creates professional cover letters based only on a candidate's resume summary.
Your task is to analyze the resume summary, infer the candidate's expertise, and generate a well-structured cover letter.
Ensure the tone is formal, engaging, and professional.`

const coverLetterUserPrompt = `Candidate Resume Summary:
%s

Based on this summary, write a professional cover letter.
Follow this structure:
- Address the hiring manager (use "Dear Hiring Manager" if no specific name is provided).
- Introduce the candidate and express general interest in roles that match their expertise.
- Highlight key experiences, achievements, and skills relevant to their domain.
- Conclude with enthusiasm and a call to action.
- Limit the letter to 250 - 300 words.
- Separate paragraphs with a blank line.

Ensure the letter is formal and engaging.`

type CoverLetterFormatter struct{ Formatter }

func NewCoverLetterFormatter(gen ai.Generator, model string) *CoverLetterFormatter {
	return &CoverLetterFormatter{Formatter{gen: gen, model: model}}
}

// Format returns the raw letter prose. No JSON is involved.
func (cf *CoverLetterFormatter) Format(ctx context.Context, profile map[string]interface{}) (string, error) {
	return cf.gen.Generate(ctx, ai.Request{
		Model:       cf.model,
		Temperature: Temperature,
		System:      coverLetterSystemPrompt,
		User:        fmt.Sprintf(coverLetterUserPrompt, mustMarshal(profile)),
		Format:      ai.FormatText,
	})
}
