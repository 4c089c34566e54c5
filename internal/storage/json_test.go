package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"k6x/internal/config"
	"k6x/internal/domain"
)

func TestJSONStorage_SaveLoad(t *testing.T) {
	cfg := config.New()
	cfg.Roots = []string{t.TempDir()}
	st := NewJSONStorage(cfg)

	records := []domain.RunRecord{
		{ID: "/ws/a.test.js::default", Name: "default", FilePath: "/ws/a.test.js", State: domain.StatePassed, DurationSeconds: 1.5},
		{ID: "/ws/b.test.js::default", Name: "default", FilePath: "/ws/b.test.js", State: domain.StateFailed, Message: "boom", CrossedThresholds: []string{"http_req_duration"}},
		{ID: "/ws/c.test.js::default", Name: "default", FilePath: "/ws/c.test.js", State: domain.StateQueued},
	}

	saved, err := st.Save(records, 3*time.Second, true)
	require.NoError(t, err)
	assert.Equal(t, 3, saved.Meta.TotalTests)
	assert.Equal(t, 1, saved.Meta.PassedTests)
	assert.Equal(t, 1, saved.Meta.FailedTests)
	assert.Equal(t, 1, saved.Meta.NotRun)
	assert.True(t, saved.Meta.Cancelled)
	assert.NotEmpty(t, saved.Meta.RunID)

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, saved.Meta, loaded.Meta)

	failures := loaded.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "boom", failures[0].Message)
	assert.Equal(t, []string{"http_req_duration"}, failures[0].CrossedThresholds)
}

func TestJSONStorage_LoadMissing(t *testing.T) {
	cfg := config.New()
	cfg.Roots = []string{t.TempDir()}

	_, err := NewJSONStorage(cfg).Load()
	assert.Error(t, err)
}
