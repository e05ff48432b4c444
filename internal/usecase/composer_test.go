package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"resume-builder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const janeProfile = `{"name":"Jane Doe","designation":"Backend Engineer","objective":"Build things.","education":["B.Sc."],"skills":["Go"],"project_details":{"project1":{"name":"Billing"}}}`

func TestSelectStrategy(t *testing.T) {
	cases := []struct {
		in   Inputs
		want Strategy
	}{
		{Inputs{}, StrategyPlaceholder},
		{Inputs{OldResume: "  \n"}, StrategyPlaceholder},
		{Inputs{OldResume: "r", SkillMatrixJSON: "m"}, StrategyResumeMatrix},
		{Inputs{OldCoverLetter: "l", SkillMatrixJSON: "m"}, StrategyLetterMatrix},
		{Inputs{OldResume: "r", OldCoverLetter: "l"}, StrategyResumeLetter},
		{Inputs{OldResume: "r"}, StrategyResume},
		{Inputs{OldCoverLetter: "l"}, StrategyLetter},
		{Inputs{SkillMatrixJSON: "m"}, StrategyMatrix},
		{Inputs{OldResume: "r", OldCoverLetter: "l", SkillMatrixJSON: "m"}, StrategyAll},
	}
	for _, tc := range cases {
		t.Run(tc.want.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, SelectStrategy(tc.in))
		})
	}
}

func TestComposeEveryStrategy(t *testing.T) {
	cases := []struct {
		in       Inputs
		strategy Strategy
		sections []string
		absent   []string
	}{
		{Inputs{OldResume: "resume text", SkillMatrixJSON: `[{"ID":1}]`}, StrategyResumeMatrix,
			[]string{"**Old Resume (Extracted Text):**", "**Skill Matrix (Extracted from External Data Sources):**"},
			[]string{"**Old Cover Letter (Extracted Text):**"}},
		{Inputs{OldCoverLetter: "letter text", SkillMatrixJSON: `[{"ID":1}]`}, StrategyLetterMatrix,
			[]string{"**Old Cover Letter (Extracted Text):**", "**Skill Matrix (Extracted from External Data Sources):**"},
			[]string{"**Old Resume (Extracted Text):**"}},
		{Inputs{OldResume: "resume text", OldCoverLetter: "letter text"}, StrategyResumeLetter,
			[]string{"**Old Resume (Extracted Text):**", "**Old Cover Letter (Extracted Text):**"},
			[]string{"**Skill Matrix"}},
		{Inputs{OldResume: "resume text"}, StrategyResume,
			[]string{"**Old Resume (Extracted Text):**"},
			[]string{"**Skill Matrix", "**Old Cover Letter"}},
		{Inputs{OldCoverLetter: "letter text"}, StrategyLetter,
			[]string{"**Old Cover Letter (Extracted Text):**"},
			[]string{"**Skill Matrix", "**Old Resume"}},
		{Inputs{SkillMatrixJSON: `[{"ID":1}]`}, StrategyMatrix,
			[]string{"**Skill Matrix (Extracted from External Data Sources):**"},
			[]string{"**Old Resume", "**Old Cover Letter"}},
		{Inputs{OldResume: "resume text", OldCoverLetter: "letter text", SkillMatrixJSON: `[{"ID":1}]`}, StrategyAll,
			[]string{"**Old Resume (Extracted Text):**", "**Old Cover Letter (Extracted Text):**", "**Skill Matrix (Extracted from External Data Sources):**"},
			nil},
	}

	for _, tc := range cases {
		t.Run(tc.strategy.String(), func(t *testing.T) {
			gen := &fakeGenerator{profile: janeProfile}
			c := NewProfileComposer(gen, "test-model", time.Second)

			comp := c.Compose(context.Background(), domain.DefaultSchema(), tc.in)
			require.NoError(t, comp.Err)
			assert.Equal(t, tc.strategy, comp.Strategy)
			assert.False(t, comp.Fallback)
			assert.False(t, comp.Repaired)
			assert.Equal(t, "Jane Doe", comp.Profile.Name)
			assert.Equal(t, "Backend Engineer", comp.Profile.Designation)

			reqs := gen.profileRequests()
			require.Len(t, reqs, 1)
			assert.Equal(t, float32(0), reqs[0].Temperature)
			assert.Contains(t, reqs[0].System, `"project_details"`)
			for _, s := range tc.sections {
				assert.Contains(t, reqs[0].User, s)
			}
			for _, s := range tc.absent {
				assert.NotContains(t, reqs[0].User, s)
			}
		})
	}
}

func TestComposePlaceholderMakesNoCall(t *testing.T) {
	gen := &fakeGenerator{profile: janeProfile}
	comp := NewProfileComposer(gen, "", time.Second).Compose(context.Background(), domain.DefaultSchema(), Inputs{})

	assert.Equal(t, StrategyPlaceholder, comp.Strategy)
	assert.Equal(t, domain.PlaceholderProfile(), comp.Profile)
	assert.Empty(t, gen.requests)
}

func TestComposeFallbacks(t *testing.T) {
	resume := "\n  Jane Doe  \nSenior engineer with a long history of shipping distributed systems"
	letter := "Dear Hiring Manager,\n\nI am applying for the platform role."
	matrix := `[{"Sheet Name":"Backend","Data":[{"ID":1,"First_Name":"Jane"}]}]`

	strategies := []struct {
		want Strategy
		in   Inputs
	}{
		{StrategyResumeMatrix, Inputs{OldResume: resume, SkillMatrixJSON: matrix}},
		{StrategyLetterMatrix, Inputs{OldCoverLetter: letter, SkillMatrixJSON: matrix}},
		{StrategyResumeLetter, Inputs{OldResume: resume, OldCoverLetter: letter}},
		{StrategyResume, Inputs{OldResume: resume}},
		{StrategyLetter, Inputs{OldCoverLetter: letter}},
		{StrategyMatrix, Inputs{SkillMatrixJSON: matrix}},
		{StrategyAll, Inputs{OldResume: resume, OldCoverLetter: letter, SkillMatrixJSON: matrix}},
	}
	failures := []struct {
		name string
		gen  func() *fakeGenerator
	}{
		{"unparseable output", func() *fakeGenerator { return &fakeGenerator{profile: "I cannot help with that."} }},
		{"call error", func() *fakeGenerator { return &fakeGenerator{err: errors.New("quota exceeded")} }},
		{"timeout", func() *fakeGenerator { return &fakeGenerator{block: true} }},
	}

	for _, st := range strategies {
		for _, f := range failures {
			t.Run(st.want.String()+"/"+f.name, func(t *testing.T) {
				gen := f.gen()
				c := NewProfileComposer(gen, "", 20*time.Millisecond)
				comp := c.Compose(context.Background(), domain.DefaultSchema(), st.in)

				assert.Len(t, gen.profileRequests(), 1)
				assert.True(t, comp.Fallback)
				assert.Error(t, comp.Err)
				assert.Equal(t, st.want, comp.Strategy)
				assert.Equal(t, domain.FallbackProfile(st.in.OldResume), comp.Profile)
				assert.Equal(t, []string{"Skills not extracted"}, comp.Profile.Skills.Items)
				if st.in.OldResume != "" {
					assert.Equal(t, "Jane Doe", comp.Profile.Name)
				} else {
					assert.Equal(t, domain.DefaultName, comp.Profile.Name)
				}
			})
		}
	}
}

func TestComposeRepairsFencedOutput(t *testing.T) {
	gen := &fakeGenerator{profile: "```json\n" + janeProfile + "\n```"}
	comp := NewProfileComposer(gen, "", time.Second).Compose(context.Background(), domain.DefaultSchema(), Inputs{OldResume: "x"})

	assert.False(t, comp.Fallback)
	assert.True(t, comp.Repaired)
	assert.Equal(t, "Jane Doe", comp.Profile.Name)
}

func TestComposeTruncatesSkillMatrix(t *testing.T) {
	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'x'
	}
	gen := &fakeGenerator{profile: janeProfile}
	NewProfileComposer(gen, "", time.Second).Compose(context.Background(), domain.DefaultSchema(), Inputs{SkillMatrixJSON: string(long)})

	reqs := gen.profileRequests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].User, "... [truncated]")
	assert.NotContains(t, reqs[0].User, string(long[:2001]))
}

func TestExtractSchema(t *testing.T) {
	t.Run("projects onto schema keys", func(t *testing.T) {
		gen := &fakeGenerator{schema: `{"name":"N","designation":"D","hobbies":["chess"],"skills":["Go"]}`}
		got := NewSchemaExtractor(gen, "", time.Second).ExtractSchema(context.Background(), "template")

		assert.Len(t, got, len(domain.SchemaKeys))
		assert.Equal(t, "N", got["name"])
		assert.Equal(t, []interface{}{"Go"}, got["skills"])
		assert.NotContains(t, got, "hobbies")
		assert.Equal(t, map[string]interface{}{}, got["project_details"])
	})

	t.Run("failure yields default schema", func(t *testing.T) {
		for _, gen := range []*fakeGenerator{{schema: "nope"}, {err: errors.New("down")}} {
			got := NewSchemaExtractor(gen, "", time.Second).ExtractSchema(context.Background(), "template")
			assert.Equal(t, domain.DefaultSchema(), got)
		}
	})
}

func TestComposeCoverLetter(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		gen := &fakeGenerator{letter: "  Dear Hiring Manager,\n\nI would like to apply.  "}
		got, err := NewCoverLetterComposer(gen, "", time.Second).ComposeCoverLetter(context.Background(), domain.PlaceholderProfile())
		require.NoError(t, err)
		assert.Equal(t, "Dear Hiring Manager,\n\nI would like to apply.", got)
	})

	t.Run("too short", func(t *testing.T) {
		gen := &fakeGenerator{letter: "Hi there"}
		_, err := NewCoverLetterComposer(gen, "", time.Second).ComposeCoverLetter(context.Background(), domain.PlaceholderProfile())
		assert.ErrorIs(t, err, ErrLetterTooShort)
	})

	t.Run("call error", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New("boom")}
		_, err := NewCoverLetterComposer(gen, "", time.Second).ComposeCoverLetter(context.Background(), domain.PlaceholderProfile())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})
}
