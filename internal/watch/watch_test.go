package watch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/shouni/go-headline-exact/pkg/types"
)

type stubRunner struct {
	calls atomic.Int32
}

func (r *stubRunner) Run(_ context.Context, providers []types.Provider) types.Result {
	r.calls.Add(1)
	result := make(types.Result, 0, len(providers))
	for _, p := range providers {
		result = append(result, types.SourceResult{
			URL:       p.URL(),
			Headlines: []types.Headline{{Title: "T", Link: p.URL() + "/1"}},
		})
	}
	return result
}

var providers = []types.Provider{
	types.NewProvider("https://a.example", "a", nil),
	types.NewProvider("https://b.example", "a", nil),
}

func TestNew(t *testing.T) {
	_, err := New(nil, providers, t.TempDir(), nil)
	assert.Error(t, err)

	_, err = New(&stubRunner{}, providers, "", nil)
	assert.Error(t, err)
}

func TestSnapshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	runner := &stubRunner{}

	w, err := New(runner, providers, dir, zaptest.NewLogger(t), WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	path, err := w.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2024-01-02-03-04-05.000.json"), path)
	assert.Equal(t, 1, w.Runs())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var result types.Result
	require.NoError(t, json.Unmarshal(data, &result))
	require.Len(t, result, 2)
	assert.Equal(t, "https://a.example", result[0].URL)
	assert.Equal(t, "https://b.example", result[1].URL)
}

func TestSnapshot_SameTimestampDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 678_000_000, time.UTC)

	w, err := New(&stubRunner{}, providers, dir, zaptest.NewLogger(t), WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	first, err := w.Snapshot(context.Background())
	require.NoError(t, err)
	second, err := w.Snapshot(context.Background())
	require.NoError(t, err)
	third, err := w.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "2024-01-02-03-04-05.678.json"), first)
	assert.Equal(t, filepath.Join(dir, "2024-01-02-03-04-05.678-1.json"), second)
	assert.Equal(t, filepath.Join(dir, "2024-01-02-03-04-05.678-2.json"), third)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, 3, w.Runs())
}

func TestStart_InvalidSchedule(t *testing.T) {
	w, err := New(&stubRunner{}, providers, t.TempDir(), zaptest.NewLogger(t))
	require.NoError(t, err)

	err = w.Start(context.Background(), "not a schedule")
	assert.Error(t, err)
}

func TestStart_RunsUntilCancelled(t *testing.T) {
	runner := &stubRunner{}
	var tick atomic.Int64
	clock := func() time.Time {
		return time.Unix(1_700_000_000+tick.Add(1), 0)
	}
	w, err := New(runner, providers, t.TempDir(), zaptest.NewLogger(t), WithClock(clock))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()

	require.NoError(t, w.Start(ctx, "@every 1s"))
	assert.GreaterOrEqual(t, w.Runs(), 1)
	assert.Equal(t, int32(w.Runs()), runner.calls.Load())
}
