package autobind

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectingObserver records every event it is delivered.
type collectingObserver struct {
	id string

	mu     sync.Mutex
	events []CloudEvent
	fail   error
}

func (o *collectingObserver) OnEvent(_ context.Context, event CloudEvent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
	return o.fail
}

func (o *collectingObserver) ObserverID() string { return o.id }

func (o *collectingObserver) types() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	types := make([]string, len(o.events))
	for i, e := range o.events {
		types[i] = e.Type()
	}
	return types
}

func TestDispatcherEnginePerInstance(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(WithLogger(&testLogger{t: t}))
	first := &turret{}
	second := &turret{}

	d.Fire(first, PhaseInit)
	d.Fire(first, PhaseStart)
	d.Fire(second, PhaseInit)

	engineOne, ok := d.Engine(first)
	require.True(t, ok)
	engineTwo, ok := d.Engine(second)
	require.True(t, ok)
	assert.NotSame(t, engineOne, engineTwo)

	// Only the first instance has seen Start.
	assert.Equal(t, 30, first.Ammo)
	assert.Zero(t, second.Ammo)
}

func TestDispatcherDropsBadTargets(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()

	// Value target, not a pointer; must be absorbed, not panic.
	d.Fire(turret{}, PhaseInit)
	d.Fire(nil, PhaseInit)

	_, ok := d.Engine(turret{})
	assert.False(t, ok)
}

func TestDispatcherRelease(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	target := &turret{}

	d.Fire(target, PhaseInit)
	_, ok := d.Engine(target)
	require.True(t, ok)

	observer := &collectingObserver{id: "release-watch"}
	require.NoError(t, d.RegisterObserver(observer, EventTypeEngineReleased))

	d.Release(target)
	_, ok = d.Engine(target)
	assert.False(t, ok)
	assert.Equal(t, []string{EventTypeEngineReleased}, observer.types())

	// Releasing again is a no-op and emits nothing further.
	d.Release(target)
	assert.Len(t, observer.types(), 1)

	// Firing after release builds a fresh engine.
	d.Fire(target, PhaseInit)
	engine, ok := d.Engine(target)
	require.True(t, ok)
	assert.True(t, engine.Built())
}

func TestDispatcherObserverFilter(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	everything := &collectingObserver{id: "all"}
	buildsOnly := &collectingObserver{id: "builds"}

	require.NoError(t, d.RegisterObserver(everything))
	require.NoError(t, d.RegisterObserver(buildsOnly, EventTypeBuildCompleted))

	target := &turret{}
	d.Fire(target, PhaseInit)
	d.Fire(target, PhaseStart)

	assert.Equal(t, []string{EventTypeBuildCompleted}, buildsOnly.types())
	all := everything.types()
	assert.Contains(t, all, EventTypeBuildCompleted)
	assert.Contains(t, all, EventTypePhaseFired)
	assert.Contains(t, all, EventTypeMemberAssigned)

	infos := d.GetObservers()
	assert.Len(t, infos, 2)
}

func TestDispatcherUnregisterObserver(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	observer := &collectingObserver{id: "transient"}
	require.NoError(t, d.RegisterObserver(observer))
	require.NoError(t, d.UnregisterObserver(observer))
	require.NoError(t, d.UnregisterObserver(observer))

	d.Fire(&turret{}, PhaseInit)
	assert.Empty(t, observer.types())
	assert.Empty(t, d.GetObservers())
}

func TestDispatcherAbsorbsObserverFailures(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(WithLogger(&testLogger{t: t}))
	failing := &collectingObserver{id: "failing", fail: errors.New("boom")}
	panicking := NewFunctionalObserver("panicking", func(context.Context, CloudEvent) error {
		panic("observer bug")
	})
	healthy := &collectingObserver{id: "healthy"}

	require.NoError(t, d.RegisterObserver(failing))
	require.NoError(t, d.RegisterObserver(panicking))
	require.NoError(t, d.RegisterObserver(healthy))

	target := &turret{}
	d.Fire(target, PhaseInit)

	// The phase firing completed and the healthy observer still heard it.
	engine, ok := d.Engine(target)
	require.True(t, ok)
	assert.True(t, engine.Built())
	assert.Contains(t, healthy.types(), EventTypeBuildCompleted)
}

func TestNotifyObserversRejectsInvalidEvents(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	observer := &collectingObserver{id: "strict"}
	require.NoError(t, d.RegisterObserver(observer))

	var empty CloudEvent
	err := d.NotifyObservers(context.Background(), empty)
	assert.Error(t, err)
	assert.Empty(t, observer.types())
}
