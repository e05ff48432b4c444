package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	proc   *Processor
	gen    *fakeGenerator
	pdf    *fakePDF
	runs   *memoryRuns
	events *memoryEvents
	store  *SkillMatrixStore
	dir    string
	out    string
}

func newHarness(t *testing.T, gen *fakeGenerator, extractor fileExtractor) *harness {
	t.Helper()
	h := &harness{
		gen:    gen,
		pdf:    &fakePDF{},
		runs:   &memoryRuns{},
		events: &memoryEvents{},
		store:  NewSkillMatrixStore(nil),
		dir:    t.TempDir(),
		out:    t.TempDir(),
	}
	renderer, err := render.NewRenderer(h.pdf, render.DefaultRegistry(), h.out, render.Assets{}, render.WithRetry(1, 0))
	require.NoError(t, err)

	h.proc = NewProcessor(Deps{
		Extractor:   extractor,
		Loader:      staticLoader{groups: sampleGroups()},
		Skills:      h.store,
		Schema:      NewSchemaExtractor(gen, "", time.Second),
		Composer:    NewProfileComposer(gen, "", time.Second),
		CoverLetter: NewCoverLetterComposer(gen, "", time.Second),
		Documents:   renderer,
		Runs:        h.runs,
		Events:      h.events,
	})
	return h
}

func (h *harness) write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(h.dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func intPtr(i int) *int { return &i }

func TestGenerateTemplateOnly(t *testing.T) {
	gen := &fakeGenerator{schema: `{"name":"","designation":""}`, letter: "Dear Hiring Manager,\n\nPlease consider me."}
	h := newHarness(t, gen, fileExtractor{})

	res, err := h.proc.Generate(context.Background(), GenerateRequest{TemplatePath: h.write(t, "template.txt", "NAME\nDESIGNATION")})
	require.NoError(t, err)

	assert.Equal(t, "Resume generated successfully", res.Message)
	assert.Equal(t, int(StrategyPlaceholder), res.Strategy)
	assert.Equal(t, filepath.Join(h.out, "Candidate_Resume.pdf"), res.ResumePath)
	assert.Equal(t, filepath.Join(h.out, "Candidate_Cover_Letter.pdf"), res.CoverLetterPath)
	assert.Equal(t, StatusGenerated, res.CoverLetterStatus)
	assert.Equal(t, 1, res.TemplateUsed)
	assert.Empty(t, gen.profileRequests())

	require.Len(t, h.runs.runs, 1)
	run := h.runs.runs[0]
	assert.Equal(t, res.RunID, run.ID.String())
	assert.Equal(t, "Candidate", run.CandidateName)
	require.Len(t, h.events.events, 1)
	assert.Equal(t, RunCompletedRouting, h.events.events[0].key)
}

func TestGenerateResumeAndSkillMatrixByName(t *testing.T) {
	gen := &fakeGenerator{schema: `{"name":""}`, profile: janeProfile, letter: "Dear Hiring Manager,\n\nI am Jane."}
	h := newHarness(t, gen, fileExtractor{})

	res, err := h.proc.Generate(context.Background(), GenerateRequest{
		TemplatePath:    h.write(t, "template.txt", "template"),
		OldResumePath:   h.write(t, "resume.txt", "Jane Doe\nGo developer"),
		SkillMatrixPath: h.write(t, "matrix.xlsx", "binary"),
		FirstName:       "jane",
		LastName:        "DOE",
		TemplateID:      intPtr(3),
	})
	require.NoError(t, err)

	assert.Equal(t, int(StrategyResumeMatrix), res.Strategy)
	assert.Equal(t, "resume+matrix", res.StrategyName)
	assert.Equal(t, 3, res.TemplateUsed)
	assert.Equal(t, filepath.Join(h.out, "Jane_Doe_Resume.pdf"), res.ResumePath)

	reqs := gen.profileRequests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].User, `"Expertise":"Go, Kafka"`)
	assert.NotContains(t, reqs[0].User, "Python")
	assert.Contains(t, reqs[0].User, `"Sheet Name":"Backend"`)
}

func TestGenerateUnknownNameDropsSkillMatrix(t *testing.T) {
	gen := &fakeGenerator{schema: `{}`, profile: janeProfile, letter: "Dear Hiring Manager, hello."}
	h := newHarness(t, gen, fileExtractor{})

	res, err := h.proc.Generate(context.Background(), GenerateRequest{
		TemplatePath:    h.write(t, "template.txt", "template"),
		OldResumePath:   h.write(t, "resume.txt", "Jane Doe"),
		SkillMatrixPath: h.write(t, "matrix.xlsx", "binary"),
		FirstName:       "Nobody",
		LastName:        "Here",
	})
	require.NoError(t, err)
	assert.Equal(t, int(StrategyResume), res.Strategy)
}

func TestGenerateUsesStoredSession(t *testing.T) {
	gen := &fakeGenerator{schema: `{}`, profile: janeProfile, letter: "Dear Hiring Manager, hello."}
	h := newHarness(t, gen, fileExtractor{})
	snap, err := h.store.Put(context.Background(), "", "matrix.xlsx", sampleGroups())
	require.NoError(t, err)

	res, err := h.proc.Generate(context.Background(), GenerateRequest{
		TemplatePath:       h.write(t, "template.txt", "template"),
		SkillMatrixSession: snap.SessionID,
	})
	require.NoError(t, err)
	assert.Equal(t, int(StrategyMatrix), res.Strategy)
	reqs := gen.profileRequests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].User, "Python")
}

func TestGenerateDegradesOnRenderAndLetterFailure(t *testing.T) {
	gen := &fakeGenerator{schema: `{}`, profile: janeProfile, letter: "short"}
	h := newHarness(t, gen, fileExtractor{})
	h.pdf.err = errors.New("chrome is gone")

	res, err := h.proc.Generate(context.Background(), GenerateRequest{
		TemplatePath:  h.write(t, "template.txt", "template"),
		OldResumePath: h.write(t, "resume.txt", "Jane Doe"),
		TemplateID:    intPtr(99),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.TemplateUsed)
	assert.Equal(t, 99, res.TemplateRequested)
	assert.Equal(t, filepath.Join(h.out, render.ResumeErrorFile), res.ResumePath)
	assert.Equal(t, filepath.Join(h.out, render.CoverLetterErrorFile), res.CoverLetterPath)
	assert.True(t, strings.HasPrefix(res.CoverLetterStatus, "Failed to generate: "))
	assert.Contains(t, res.CoverLetterStatus, "too short")
	assert.FileExists(t, res.ResumePath)
	assert.FileExists(t, res.CoverLetterPath)

	require.Len(t, h.runs.runs, 1)
	assert.Contains(t, h.runs.runs[0].Error, "chrome is gone")
}

func TestGenerateProfileFallbackStillRenders(t *testing.T) {
	gen := &fakeGenerator{schema: `{}`, profile: "no json here", letter: "Dear Hiring Manager, hello there."}
	h := newHarness(t, gen, fileExtractor{})

	res, err := h.proc.Generate(context.Background(), GenerateRequest{
		TemplatePath:  h.write(t, "template.txt", "template"),
		OldResumePath: h.write(t, "resume.txt", "Alex Smith\nA very long line that describes a long career in software engineering"),
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(h.out, "Alex_Smith_Resume.pdf"), res.ResumePath)
	assert.Equal(t, StatusGenerated, res.CoverLetterStatus)
	assert.Contains(t, h.runs.runs[0].Metadata, "profile_fallback")
	assert.Equal(t, 1, h.runs.runs[0].RepairCount)
}

func TestGenerateExtractionFailures(t *testing.T) {
	t.Run("missing template", func(t *testing.T) {
		h := newHarness(t, &fakeGenerator{}, fileExtractor{})
		_, err := h.proc.Generate(context.Background(), GenerateRequest{TemplatePath: filepath.Join(h.dir, "none.pdf")})
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("unreadable resume", func(t *testing.T) {
		h := newHarness(t, &fakeGenerator{}, fileExtractor{})
		resume := h.write(t, "resume.pdf", "garbage")
		h.proc.Extractor = fileExtractor{fail: map[string]bool{resume: true}}

		_, err := h.proc.Generate(context.Background(), GenerateRequest{
			TemplatePath:  h.write(t, "template.txt", "template"),
			OldResumePath: resume,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "extract old resume")
		assert.Empty(t, h.runs.runs)
	})

	t.Run("missing optional files are ignored", func(t *testing.T) {
		gen := &fakeGenerator{schema: `{}`, letter: "Dear Hiring Manager, hello there."}
		h := newHarness(t, gen, fileExtractor{})
		res, err := h.proc.Generate(context.Background(), GenerateRequest{
			TemplatePath:    h.write(t, "template.txt", "template"),
			OldResumePath:   filepath.Join(h.dir, "gone.pdf"),
			CoverLetterPath: filepath.Join(h.dir, "gone.docx"),
		})
		require.NoError(t, err)
		assert.Equal(t, int(StrategyPlaceholder), res.Strategy)
	})
}

func TestGenerateEventFailureIsNotFatal(t *testing.T) {
	gen := &fakeGenerator{schema: `{}`, letter: "Dear Hiring Manager, hello there."}
	h := newHarness(t, gen, fileExtractor{})
	h.events.err = errors.New("broker down")

	_, err := h.proc.Generate(context.Background(), GenerateRequest{TemplatePath: h.write(t, "template.txt", "template")})
	require.NoError(t, err)
	assert.Len(t, h.runs.runs, 1)
}

func TestListRuns(t *testing.T) {
	p := NewProcessor(Deps{})
	runs, err := p.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)

	repo := &memoryRuns{}
	require.NoError(t, repo.Save(context.Background(), &domain.GenerationRun{CandidateName: "A"}))
	p = NewProcessor(Deps{Runs: repo})
	runs, err = p.ListRuns(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
