package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/pkg/ai"
	"resume-builder/pkg/ai/formatters"
)

// Strategy identifies which combination of candidate inputs a profile was
// composed from.
type Strategy int

const (
	StrategyPlaceholder Strategy = iota + 1
	StrategyResumeMatrix
	StrategyLetterMatrix
	StrategyResumeLetter
	StrategyResume
	StrategyLetter
	StrategyMatrix
	StrategyAll
)

var strategyNames = map[Strategy]string{
	StrategyPlaceholder:  "placeholder",
	StrategyResumeMatrix: "resume+matrix",
	StrategyLetterMatrix: "letter+matrix",
	StrategyResumeLetter: "resume+letter",
	StrategyResume:       "resume",
	StrategyLetter:       "letter",
	StrategyMatrix:       "matrix",
	StrategyAll:          "all",
}

func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return "unknown"
}

// Inputs are the optional candidate materials. Blank after trimming means
// absent.
type Inputs struct {
	OldResume       string
	OldCoverLetter  string
	SkillMatrixJSON string
}

// SelectStrategy maps input presence onto a strategy. It is total.
func SelectStrategy(in Inputs) Strategy {
	r := strings.TrimSpace(in.OldResume) != ""
	l := strings.TrimSpace(in.OldCoverLetter) != ""
	m := strings.TrimSpace(in.SkillMatrixJSON) != ""
	switch {
	case r && l && m:
		return StrategyAll
	case r && m:
		return StrategyResumeMatrix
	case l && m:
		return StrategyLetterMatrix
	case r && l:
		return StrategyResumeLetter
	case r:
		return StrategyResume
	case l:
		return StrategyLetter
	case m:
		return StrategyMatrix
	}
	return StrategyPlaceholder
}

type Composition struct {
	Profile  domain.CandidateProfile
	Strategy Strategy
	// Repaired is set when the model output needed JSON repair.
	Repaired bool
	// Fallback is set when the canned fallback profile was used; Err then
	// holds the cause.
	Fallback bool
	Err      error
}

// ProfileComposer merges candidate inputs into a profile shaped by the
// target schema.
type ProfileComposer struct {
	formatter *formatters.ProfileFormatter
	timeout   time.Duration
}

func NewProfileComposer(gen ai.Generator, model string, timeout time.Duration) *ProfileComposer {
	return &ProfileComposer{formatter: formatters.NewProfileFormatter(gen, model), timeout: timeout}
}

// Compose issues at most one generation call. It never fails; problems are
// reported through Composition.Fallback and Composition.Err.
func (c *ProfileComposer) Compose(ctx context.Context, schema domain.TargetSchema, in Inputs) Composition {
	strategy := SelectStrategy(in)
	if strategy == StrategyPlaceholder {
		slog.Info("no candidate inputs, using placeholder profile")
		return Composition{Profile: domain.PlaceholderProfile(), Strategy: strategy}
	}

	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	m, step, err := c.formatter.Format(ctx, schema.Map(), formatters.Sources{
		Resume:      in.OldResume,
		CoverLetter: in.OldCoverLetter,
		SkillMatrix: in.SkillMatrixJSON,
	})
	if err != nil {
		slog.Warn("profile composition failed, using fallback profile", "strategy", strategy.String(), "error", err)
		return Composition{
			Profile:  domain.FallbackProfile(in.OldResume),
			Strategy: strategy,
			Repaired: step.Repaired(),
			Fallback: true,
			Err:      err,
		}
	}

	if verr := model.ValidateMap(m); verr != nil {
		slog.Warn("composed profile does not match schema", "strategy", strategy.String(), "error", verr)
	}
	slog.Info("profile composed", "strategy", strategy.String(), "repair_step", string(step))
	return Composition{
		Profile:  domain.Normalize(m),
		Strategy: strategy,
		Repaired: step.Repaired(),
	}
}
