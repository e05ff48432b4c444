package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/pkg/ai"
	"resume-builder/pkg/ai/formatters"
)

// minLetterLength is the shortest reply accepted as a letter.
const minLetterLength = 10

var ErrLetterTooShort = errors.New("generated cover letter text is too short or empty")

type CoverLetterComposer struct {
	formatter *formatters.CoverLetterFormatter
	timeout   time.Duration
}

func NewCoverLetterComposer(gen ai.Generator, model string, timeout time.Duration) *CoverLetterComposer {
	return &CoverLetterComposer{formatter: formatters.NewCoverLetterFormatter(gen, model), timeout: timeout}
}

func (c *CoverLetterComposer) ComposeCoverLetter(ctx context.Context, profile domain.CandidateProfile) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	letter, err := c.formatter.Format(ctx, profile.ToMap())
	if err != nil {
		if errors.Is(err, ai.ErrEmptyCompletion) {
			return "", ErrLetterTooShort
		}
		return "", fmt.Errorf("cover letter generation: %w", err)
	}
	letter = strings.TrimSpace(letter)
	if len([]rune(letter)) < minLetterLength {
		return "", ErrLetterTooShort
	}
	return letter, nil
}
