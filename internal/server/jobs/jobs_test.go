package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_Add(t *testing.T) {
	s := NewScheduler(slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NoError(t, s.Add("prune", "@hourly", func(context.Context) (int, error) { return 0, nil }))
	assert.NoError(t, s.Add("prune-often", "*/5 * * * *", func(context.Context) (int, error) { return 0, nil }))
	assert.Error(t, s.Add("broken", "every day", func(context.Context) (int, error) { return 0, nil }))
	assert.Len(t, s.c.Entries(), 2)
}

func TestScheduler_Wrap(t *testing.T) {
	var logBuf strings.Builder
	s := NewScheduler(slog.New(slog.NewTextHandler(&logBuf, nil)))

	var gotDeadline bool
	s.wrap("prune", func(ctx context.Context) (int, error) {
		_, gotDeadline = ctx.Deadline()
		return 3, nil
	})()

	assert.True(t, gotDeadline)
	assert.Contains(t, logBuf.String(), "job completed")
	assert.Contains(t, logBuf.String(), "processed=3")

	logBuf.Reset()
	s.wrap("prune", func(context.Context) (int, error) {
		return 0, errors.New("disk full")
	})()
	assert.Contains(t, logBuf.String(), "job failed")
	assert.Contains(t, logBuf.String(), "disk full")
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, s.Add("noop", "@hourly", func(context.Context) (int, error) { return 0, nil }))

	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	assert.NoError(t, ctx.Err())
}
