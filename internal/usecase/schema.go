package usecase

import (
	"context"
	"log/slog"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/pkg/ai"
	"resume-builder/pkg/ai/formatters"
)

// SchemaExtractor infers the profile layout a template document asks for.
type SchemaExtractor struct {
	formatter *formatters.SchemaFormatter
	timeout   time.Duration
}

func NewSchemaExtractor(gen ai.Generator, model string, timeout time.Duration) *SchemaExtractor {
	return &SchemaExtractor{formatter: formatters.NewSchemaFormatter(gen, model), timeout: timeout}
}

// ExtractSchema never fails: any call or parse problem yields
// domain.DefaultSchema.
func (e *SchemaExtractor) ExtractSchema(ctx context.Context, templateText string) domain.TargetSchema {
	ctx, cancel := withTimeout(ctx, e.timeout)
	defer cancel()

	m, step, err := e.formatter.Format(ctx, templateText)
	if err != nil {
		slog.Warn("schema extraction failed, using default schema", "error", err, "repair_step", string(step))
		return domain.DefaultSchema()
	}
	return domain.ProjectSchema(m)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
