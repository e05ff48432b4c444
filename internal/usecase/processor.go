package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/render"

	"github.com/google/uuid"
)

const (
	StatusGenerated      = "Generated successfully"
	statusFailedPrefix   = "Failed to generate: "
	generatedMessage     = "Resume generated successfully"
	RunCompletedRouting  = "resume.generated"
	defaultListRunsLimit = 20
)

var ErrTemplateNotFound = errors.New("template file not found")

// TextExtractor pulls plain text out of an uploaded document.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

// SkillMatrixLoader parses a skill matrix workbook into sheet groups.
type SkillMatrixLoader interface {
	LoadFile(path string) ([]domain.SheetGroup, error)
}

// DocumentRenderer produces the PDF artifacts of a run.
type DocumentRenderer interface {
	RenderResume(ctx context.Context, profile domain.CandidateProfile, templateID int) (render.Result, error)
	RenderCoverLetter(ctx context.Context, profile domain.CandidateProfile, letter string, templateID int) (render.Result, error)
	ResumeError(ctx context.Context, name string, cause error) (string, error)
	CoverLetterError(ctx context.Context, name string, cause error) (string, error)
}

type RunsRepo interface {
	Save(ctx context.Context, run *domain.GenerationRun) error
	ListRecent(ctx context.Context, limit int) ([]domain.GenerationRun, error)
}

// ArtifactStore copies a generated file to durable storage and returns
// its object key or URL.
type ArtifactStore interface {
	Upload(ctx context.Context, key, path string) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// Deps wires a Processor. Runs, Artifacts and Events are optional.
type Deps struct {
	Extractor   TextExtractor
	Loader      SkillMatrixLoader
	Skills      *SkillMatrixStore
	Schema      *SchemaExtractor
	Composer    *ProfileComposer
	CoverLetter *CoverLetterComposer
	Documents   DocumentRenderer
	Runs        RunsRepo
	Artifacts   ArtifactStore
	Events      EventPublisher
}

type Processor struct {
	Deps
	now func() time.Time
}

func NewProcessor(d Deps) *Processor {
	return &Processor{Deps: d, now: time.Now}
}

type GenerateRequest struct {
	TemplatePath       string `json:"template_path"`
	OldResumePath      string `json:"old_resume_path,omitempty"`
	OldCoverLetterPath string `json:"old_cover_letter_path,omitempty"`
	// CoverLetterPath is accepted as an alias of OldCoverLetterPath.
	CoverLetterPath    string `json:"cover_letter_path,omitempty"`
	SkillMatrixPath    string `json:"skill_matrix_path,omitempty"`
	SkillMatrixSession string `json:"skill_matrix_session,omitempty"`
	FirstName          string `json:"first_name,omitempty"`
	LastName           string `json:"last_name,omitempty"`
	TemplateID         *int   `json:"template_id,omitempty"`
}

func (r GenerateRequest) letterPath() string {
	if r.OldCoverLetterPath != "" {
		return r.OldCoverLetterPath
	}
	return r.CoverLetterPath
}

func (r GenerateRequest) templateID() int {
	if r.TemplateID == nil {
		return render.DefaultLayoutID
	}
	return *r.TemplateID
}

type GenerateResult struct {
	Message           string `json:"message"`
	ResumePath        string `json:"resume_path"`
	CoverLetterPath   string `json:"cover_letter_path"`
	CoverLetterStatus string `json:"cover_letter_status"`
	TemplateUsed      int    `json:"template_used"`
	TemplateRequested int    `json:"template_requested"`
	Strategy          int    `json:"strategy"`
	StrategyName      string `json:"strategy_name"`
	RunID             string `json:"run_id"`
}

// Generate runs the full pipeline for one request. Only a missing or
// unreadable input document fails the call; every later stage degrades to
// a fallback artifact and is reported through the result.
func (p *Processor) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	started := p.now()
	run := &domain.GenerationRun{
		ID:                uuid.New(),
		TemplateRequested: req.templateID(),
		Metadata:          map[string]interface{}{},
		CreatedAt:         started,
	}

	if !fileExists(req.TemplatePath) {
		return nil, ErrTemplateNotFound
	}
	templateText, err := p.Extractor.ExtractText(req.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("extract template: %w", err)
	}

	in := Inputs{}
	if fileExists(req.OldResumePath) {
		if in.OldResume, err = p.Extractor.ExtractText(req.OldResumePath); err != nil {
			return nil, fmt.Errorf("extract old resume: %w", err)
		}
	}
	if path := req.letterPath(); fileExists(path) {
		if in.OldCoverLetter, err = p.Extractor.ExtractText(path); err != nil {
			return nil, fmt.Errorf("extract old cover letter: %w", err)
		}
	}
	if in.SkillMatrixJSON, err = p.skillMatrixJSON(ctx, req); err != nil {
		return nil, fmt.Errorf("load skill matrix: %w", err)
	}

	slog.Info("generation started", "run", run.ID.String(), "template", run.TemplateRequested,
		"has_resume", in.OldResume != "", "has_letter", in.OldCoverLetter != "", "has_matrix", in.SkillMatrixJSON != "")

	schema := p.Schema.ExtractSchema(ctx, templateText)
	comp := p.Composer.Compose(ctx, schema, in)
	profile := comp.Profile

	run.Strategy = int(comp.Strategy)
	run.CandidateName = profile.Name
	if comp.Repaired {
		run.RepairCount++
	}
	if comp.Fallback {
		run.Metadata["profile_fallback"] = errText(comp.Err)
	}

	res := &GenerateResult{
		Message:           generatedMessage,
		TemplateRequested: run.TemplateRequested,
		Strategy:          int(comp.Strategy),
		StrategyName:      comp.Strategy.String(),
		RunID:             run.ID.String(),
	}

	rendered, err := p.Documents.RenderResume(ctx, profile, run.TemplateRequested)
	res.TemplateUsed = rendered.TemplateUsed
	if err != nil {
		slog.Error("resume rendering failed, writing error document", "run", run.ID.String(), "error", err)
		run.Error = err.Error()
		res.ResumePath, err = p.Documents.ResumeError(ctx, profile.Name, err)
		if err != nil {
			slog.Error("error document could not be written", "run", run.ID.String(), "error", err)
		}
	} else {
		res.ResumePath = rendered.Path
	}

	res.CoverLetterPath, res.CoverLetterStatus = p.coverLetter(ctx, profile, run.TemplateRequested)

	run.TemplateUsed = res.TemplateUsed
	run.ResumePath = res.ResumePath
	run.CoverLetterPath = res.CoverLetterPath
	run.CoverLetterStatus = res.CoverLetterStatus
	run.UpdatedAt = p.now()
	run.Metadata["duration_ms"] = run.UpdatedAt.Sub(started).Milliseconds()

	p.record(ctx, run)
	slog.Info("generation finished", "run", run.ID.String(), "strategy", comp.Strategy.String(),
		"template", res.TemplateUsed, "cover_letter", res.CoverLetterStatus)
	return res, nil
}

func (p *Processor) coverLetter(ctx context.Context, profile domain.CandidateProfile, templateID int) (string, string) {
	letter, err := p.CoverLetter.ComposeCoverLetter(ctx, profile)
	if err == nil {
		var rendered render.Result
		rendered, err = p.Documents.RenderCoverLetter(ctx, profile, letter, templateID)
		if err == nil {
			return rendered.Path, StatusGenerated
		}
	}

	slog.Warn("cover letter failed, writing error document", "error", err)
	path, ferr := p.Documents.CoverLetterError(ctx, profile.Name, err)
	if ferr != nil {
		slog.Error("cover letter error document could not be written", "error", ferr)
	}
	return path, statusFailedPrefix + err.Error()
}

// skillMatrixJSON resolves the skill matrix text for the prompt. A workbook
// path is loaded for this request only; otherwise a stored session is
// used when named. With a first and last name only that person's rows are
// sent, and no match means no matrix.
func (p *Processor) skillMatrixJSON(ctx context.Context, req GenerateRequest) (string, error) {
	var groups []domain.SheetGroup
	switch {
	case fileExists(req.SkillMatrixPath):
		g, err := p.Loader.LoadFile(req.SkillMatrixPath)
		if err != nil {
			return "", err
		}
		groups = g
	case req.SkillMatrixSession != "" && p.Skills != nil:
		snap, err := p.Skills.Get(ctx, req.SkillMatrixSession)
		if err != nil {
			slog.Warn("skill matrix session unavailable", "session", req.SkillMatrixSession, "error", err)
			return "", nil
		}
		groups = snap.Groups
	default:
		return "", nil
	}

	var payload interface{} = groups
	if req.FirstName != "" && req.LastName != "" {
		matches := domain.FindByName(groups, req.FirstName, req.LastName)
		if len(matches) == 0 {
			slog.Info("no skill matrix rows for candidate", "first_name", req.FirstName, "last_name", req.LastName)
			return "", nil
		}
		payload = matches
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// record runs the best-effort side effects of a finished run.
func (p *Processor) record(ctx context.Context, run *domain.GenerationRun) {
	if p.Artifacts != nil {
		for label, path := range map[string]string{"resume": run.ResumePath, "cover_letter": run.CoverLetterPath} {
			if path == "" {
				continue
			}
			key := fmt.Sprintf("runs/%s/%s", run.ID.String(), filepath.Base(path))
			loc, err := p.Artifacts.Upload(ctx, key, path)
			if err != nil {
				slog.Warn("artifact upload failed", "run", run.ID.String(), "file", path, "error", err)
				continue
			}
			run.Metadata[label+"_object"] = loc
		}
	}
	if p.Runs != nil {
		if err := p.Runs.Save(ctx, run); err != nil {
			slog.Warn("failed to save run", "run", run.ID.String(), "error", err)
		}
	}
	if p.Events != nil {
		if err := p.Events.Publish(ctx, RunCompletedRouting, run); err != nil {
			slog.Warn("failed to publish run event", "run", run.ID.String(), "error", err)
		}
	}
}

// ListRuns returns recent runs, or an empty list when no store is wired.
func (p *Processor) ListRuns(ctx context.Context, limit int) ([]domain.GenerationRun, error) {
	if p.Runs == nil {
		return []domain.GenerationRun{}, nil
	}
	if limit <= 0 {
		limit = defaultListRunsLimit
	}
	return p.Runs.ListRecent(ctx, limit)
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
