package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probeBehavior records every hook firing and carries automatable
// members.
type probeBehavior struct {
	Behavior

	Speed float64 `autobind:"start,value=12.5"`
	Radar *radar  `autobind:"enable"`

	log []string
}

func (p *probeBehavior) OnInit()                 { p.log = append(p.log, "init") }
func (p *probeBehavior) OnStart()                { p.log = append(p.log, "start") }
func (p *probeBehavior) OnEnable()               { p.log = append(p.log, "enable") }
func (p *probeBehavior) OnTick(dt float64)       { p.log = append(p.log, "tick") }
func (p *probeBehavior) OnPhysicsTick(dt float64) { p.log = append(p.log, "physics") }
func (p *probeBehavior) OnLateTick(dt float64)   { p.log = append(p.log, "late") }

func TestRuntimeSpawnLifecycle(t *testing.T) {
	t.Parallel()

	o := NewObject("probe")
	r := &radar{id: "own"}
	o.AddComponent(r)

	b := &probeBehavior{}
	o.AddBehavior(b)

	runtime := NewRuntime()
	runtime.Spawn(o)

	// Automation ran before each hook: Speed was set before OnStart,
	// Radar resolved before OnEnable.
	assert.Equal(t, []string{"init", "start", "enable"}, b.log)
	assert.Equal(t, 12.5, b.Speed)
	assert.Same(t, r, b.Radar)

	engine, ok := runtime.Dispatcher().Engine(b)
	require.True(t, ok)
	assert.True(t, engine.Built())
}

func TestRuntimeSpawnInactiveSkipsEnable(t *testing.T) {
	t.Parallel()

	o := NewObject("probe")
	o.SetActive(false)
	b := &probeBehavior{}
	o.AddBehavior(b)

	runtime := NewRuntime()
	runtime.Spawn(o)

	assert.Equal(t, []string{"init", "start"}, b.log)
	assert.Nil(t, b.Radar)

	// Reactivating fires Enable.
	runtime.Enable(o)
	assert.Equal(t, []string{"init", "start", "enable"}, b.log)
}

func TestRuntimeSpawnRecursesChildren(t *testing.T) {
	t.Parallel()

	root := NewObject("root")
	child := NewObject("child")
	root.AddChild(child)

	parentBehavior := &probeBehavior{}
	childBehavior := &probeBehavior{}
	root.AddBehavior(parentBehavior)
	child.AddBehavior(childBehavior)

	runtime := NewRuntime()
	runtime.Spawn(root)

	assert.Equal(t, []string{"init", "start", "enable"}, parentBehavior.log)
	assert.Equal(t, []string{"init", "start", "enable"}, childBehavior.log)
}

func TestRuntimeStep(t *testing.T) {
	t.Parallel()

	o := NewObject("probe")
	b := &probeBehavior{}
	o.AddBehavior(b)

	runtime := NewRuntime(WithFixedStep(0.25))
	runtime.Spawn(o)
	b.log = nil

	// One frame of 0.625s drains two fixed physics steps.
	runtime.Step(0.625)
	assert.Equal(t, []string{"tick", "physics", "physics", "late"}, b.log)

	// The remaining 0.125s accumulates; the next frame tops it up to one
	// more physics step.
	b.log = nil
	runtime.Step(0.125)
	assert.Equal(t, []string{"tick", "physics", "late"}, b.log)
}

func TestRuntimeStepSkipsInactive(t *testing.T) {
	t.Parallel()

	o := NewObject("probe")
	b := &probeBehavior{}
	o.AddBehavior(b)

	runtime := NewRuntime()
	runtime.Spawn(o)
	b.log = nil

	o.SetActive(false)
	runtime.Step(0.001)
	assert.Empty(t, b.log)
}

func TestRuntimeDespawnReleasesEngines(t *testing.T) {
	t.Parallel()

	o := NewObject("probe")
	b := &probeBehavior{}
	o.AddBehavior(b)

	runtime := NewRuntime()
	runtime.Spawn(o)

	_, ok := runtime.Dispatcher().Engine(b)
	require.True(t, ok)

	runtime.Despawn(o)
	_, ok = runtime.Dispatcher().Engine(b)
	assert.False(t, ok)

	runtime.Step(0.02)
	assert.Equal(t, []string{"init", "start", "enable"}, b.log)
}
