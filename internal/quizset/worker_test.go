package quizset_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quizpin/internal/quizset"
	"github.com/gokatarajesh/quizpin/internal/quizset/quizsettest"
)

func TestBackfillWorkerRunsImmediatelyAndStops(t *testing.T) {
	store := quizsettest.New()
	store.PutSet(quizset.Set{ID: "legacy", Title: "legacy"})
	worker := quizset.NewBackfillWorker(newService(store), time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	require.Eventually(t, func() bool {
		set, err := store.SetByID(context.Background(), "legacy")
		return err == nil && set.PIN != ""
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
