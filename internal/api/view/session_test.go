package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmaps/internal/engine"
	"docmaps/internal/model"
)

type fixedProber struct{}

func (fixedProber) Probe(ctx context.Context, src string) (int, int, error) {
	return 100, 100, nil
}

func newInstance(t *testing.T) *engine.Instance {
	t.Helper()
	inst, err := engine.Bootstrap(context.Background(), model.MapDataset{
		Src: "/m.png", Height: 100, MaxZoom: 2, ZoomDelta: 0.5, Scale: 1,
	}, fixedProber{})
	require.NoError(t, err)
	return inst
}

func TestSessionLifecycle(t *testing.T) {
	store := NewSessions()
	sess := store.Create("town", 2)

	got, ok := store.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	// Slots are empty until bootstrap finishes.
	_, ok = sess.Instance(0)
	assert.False(t, ok)

	inst := newInstance(t)
	require.True(t, sess.SetInstance(0, inst))
	got2, ok := sess.Instance(0)
	require.True(t, ok)
	assert.Same(t, inst, got2)

	_, ok = sess.Instance(1)
	assert.False(t, ok)
	_, ok = sess.Instance(5)
	assert.False(t, ok)

	store.Drop(sess.ID)
	_, ok = store.Get(sess.ID)
	assert.False(t, ok)
	assert.True(t, inst.Torn())
}

func TestSession_LateBootstrapAfterEnd(t *testing.T) {
	store := NewSessions()
	sess := store.Create("town", 1)
	sess.End()

	// A probe finishing after the view closed must not leave a live
	// instance behind.
	inst := newInstance(t)
	assert.False(t, sess.SetInstance(0, inst))
	assert.True(t, inst.Torn())

	_, ok := sess.Instance(0)
	assert.False(t, ok)
}

func TestSession_EndIsIdempotent(t *testing.T) {
	store := NewSessions()
	sess := store.Create("town", 1)
	inst := newInstance(t)
	require.True(t, sess.SetInstance(0, inst))

	sess.End()
	sess.End()
	assert.True(t, inst.Torn())
}

func TestSessionIDsAreUnique(t *testing.T) {
	store := NewSessions()
	seen := map[string]bool{}
	for range 100 {
		id := store.Create("town", 0).ID
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestBus(t *testing.T) {
	b := NewBus()
	ch := b.Subscribe()

	b.Publish(Event{Ordinal: 1, Kind: "ready"})
	e := <-ch
	assert.Equal(t, 1, e.Ordinal)
	assert.Equal(t, "ready", e.Kind)

	// Publishing with no room never blocks.
	for i := 0; i < 50; i++ {
		b.Publish(Event{Ordinal: i, Kind: "ready"})
	}

	b.Unsubscribe(ch)
	_, open := <-ch
	for open {
		_, open = <-ch
	}
	b.Publish(Event{Kind: "ready"})
}
