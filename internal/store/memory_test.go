package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/tourism-forecast/internal/tourism"
)

func run(id string, created time.Time) *tourism.AnalysisRun {
	return &tourism.AnalysisRun{ID: id, CreatedAt: created}
}

func TestMemoryStore_GetRun(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(0, 0)
	s.SaveRun(run("a", time.Now()))

	got, err := s.GetRun("a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	_, err = s.GetRun("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_RetentionByCount(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(2, 0)
	base := time.Now()
	s.SaveRun(run("a", base))
	s.SaveRun(run("b", base.Add(time.Second)))
	s.SaveRun(run("c", base.Add(2*time.Second)))

	_, err := s.GetRun("a")
	require.ErrorIs(t, err, ErrNotFound)

	runs := s.ListRuns()
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID, "newest first")
	assert.Equal(t, "b", runs[1].ID)
}

func TestMemoryStore_RetentionByAge(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return now }

	s.SaveRun(run("old", now.Add(-2*time.Hour)))
	s.SaveRun(run("fresh", now.Add(-time.Minute)))

	_, err := s.GetRun("old")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetRun("fresh")
	require.NoError(t, err)
}

func TestMemoryStore_SaveSameIDReplaces(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(0, 0)
	s.SaveRun(run("a", time.Now()))
	s.SaveRun(run("a", time.Now()))

	assert.Len(t, s.ListRuns(), 1)
}
