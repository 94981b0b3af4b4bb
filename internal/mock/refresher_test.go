package mock

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hylode/hyui/internal/schema"
)

func TestRefresher_RebuildRecordsReport(t *testing.T) {
	root := t.TempDir()
	writeArchive(t, root, schema.Beds, bedRows())
	store := newStore(t)
	r := NewRefresher(newTestBuilder(root, "beds"), store, nil, RefresherOptions{}, zerolog.Nop())

	assert.Nil(t, r.Last())
	report := r.Rebuild(context.Background())

	require.True(t, report.OK())
	assert.Same(t, report, r.Last())
	assert.Equal(t, 3, countRows(t, store, "beds"))
}

func TestRefresher_ReadersWaitForRebuild(t *testing.T) {
	root := t.TempDir()
	writeArchive(t, root, schema.Beds, bedRows())
	r := NewRefresher(newTestBuilder(root, "beds"), newStore(t), nil, RefresherOptions{}, zerolog.Nop())

	reader := r.RLocker()
	reader.Lock()

	done := make(chan struct{})
	go func() {
		r.Rebuild(context.Background())
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("rebuild must wait for active readers")
	case <-time.After(50 * time.Millisecond):
	}

	reader.Unlock()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("rebuild did not finish")
	}
}

func TestRefresher_InvalidSchedule(t *testing.T) {
	r := NewRefresher(newTestBuilder(t.TempDir(), "beds"), newStore(t), nil,
		RefresherOptions{Schedule: "every now and then"}, zerolog.Nop())

	err := r.Start(context.Background())
	assert.Error(t, err)
	r.Stop()
}

func TestRefresher_WatchRebuildsOnChange(t *testing.T) {
	root := t.TempDir()
	writeArchive(t, root, schema.Beds, bedRows()[:1])
	store := newStore(t)
	r := NewRefresher(newTestBuilder(root, "beds"), store, nil,
		RefresherOptions{Watch: true, Debounce: 20 * time.Millisecond}, zerolog.Nop())
	r.Rebuild(context.Background())
	require.Equal(t, 1, countRows(t, store, "beds"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, r.Start(ctx))
	defer r.Stop()

	writeArchive(t, root, schema.Beds, bedRows())

	require.Eventually(t, func() bool {
		last := r.Last()
		if last == nil {
			return false
		}
		n, _ := last.Rows("beds")
		return n == 3
	}, 5*time.Second, 20*time.Millisecond)
}
