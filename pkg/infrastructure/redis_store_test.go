package infrastructure

import (
	"context"
	"os"
	"testing"
	"time"

	"resume-builder/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisSnapshotCache(t *testing.T) {
	c, err := NewRedisSnapshotCache(context.Background(), "", time.Hour)
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = NewRedisSnapshotCache(context.Background(), "://bad", time.Hour)
	assert.Error(t, err)

	assert.Equal(t, "skillmatrix:session:abc", sessionKey("abc"))
}

// Set REDIS_TEST_URL (e.g. redis://localhost:6379/15) to run against a live server.
func TestRedisSnapshotCacheRoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	ctx := context.Background()
	c, err := NewRedisSnapshotCache(ctx, url, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, c)
	defer c.Close()

	snap := &domain.SkillMatrixSnapshot{
		SessionID: uuid.NewString(),
		Version:   2,
		LoadedAt:  time.Now().UTC().Truncate(time.Second),
		Source:    "matrix.xlsx",
		Groups: []domain.SheetGroup{{
			SheetName: "Backend",
			Data: []domain.SkillMatrixRecord{{
				ID:      1,
				Columns: []string{domain.ColFirstName, domain.ColLastName, domain.ColExperience},
				Values:  map[string]interface{}{domain.ColFirstName: "Jane", domain.ColLastName: "Doe", domain.ColExperience: float64(7)},
			}},
		}},
	}
	t.Cleanup(func() { c.rdb.Del(ctx, sessionKey(snap.SessionID)) })

	missing, err := c.Load(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, c.Save(ctx, snap))

	got, err := c.Load(ctx, snap.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap.Version, got.Version)
	assert.True(t, snap.LoadedAt.Equal(got.LoadedAt))
	assert.Equal(t, snap.Groups, got.Groups)

	latest, err := c.LatestSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.SessionID, latest)
}
