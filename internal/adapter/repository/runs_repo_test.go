package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/pkg/infrastructure"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunsRepoWithoutPool(t *testing.T) {
	repo := NewRunsRepo(nil)

	err := repo.Save(context.Background(), &domain.GenerationRun{ID: uuid.New()})
	assert.NoError(t, err)

	runs, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NotNil(t, runs)
}

// Set TEST_DATABASE_URL to a disposable Postgres database to run this.
func TestRunsRepoSaveAndList(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := infrastructure.NewRunsPool(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, migration.RunMigrations(ctx, pool))

	repo := NewRunsRepo(pool)
	now := time.Now().UTC().Truncate(time.Millisecond)
	run := &domain.GenerationRun{
		ID:                uuid.New(),
		CandidateName:     "Jane Doe",
		TemplateRequested: 5,
		TemplateUsed:      1,
		Strategy:          3,
		ResumePath:        "/tmp/Jane_Doe_Resume.pdf",
		CoverLetterStatus: "skipped",
		Metadata:          map[string]interface{}{"fallback": false},
		CreatedAt:         now.Add(time.Hour),
		UpdatedAt:         now.Add(time.Hour),
	}
	t.Cleanup(func() { pool.Exec(ctx, `DELETE FROM generation_runs WHERE id = $1`, run.ID) })

	require.NoError(t, repo.Save(ctx, run))

	run.CoverLetterStatus = "generated"
	run.CoverLetterPath = "/tmp/Jane_Doe_Cover_Letter.pdf"
	run.RepairCount = 1
	require.NoError(t, repo.Save(ctx, run), "second save updates the same row")

	runs, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, runs)

	got := runs[0]
	assert.Equal(t, run.ID, got.ID, "newest run comes first")
	assert.Equal(t, "Jane Doe", got.CandidateName)
	assert.Equal(t, 5, got.TemplateRequested)
	assert.Equal(t, 1, got.TemplateUsed)
	assert.Equal(t, "generated", got.CoverLetterStatus)
	assert.Equal(t, run.CoverLetterPath, got.CoverLetterPath)
	assert.Equal(t, 1, got.RepairCount)
	assert.Equal(t, false, got.Metadata["fallback"])
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))

	count := 0
	for _, r := range runs {
		if r.ID == run.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
