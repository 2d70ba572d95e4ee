package autobind

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
)

// Static error variables for BDD tests to comply with err113 linting rule
var (
	errNoScriptedObject      = errors.New("no scripted object prepared")
	errFieldNotAssigned      = errors.New("marked field was not assigned its declared value")
	errFieldAssignedEarly    = errors.New("field was assigned before the build")
	errComponentNotLinked    = errors.New("marked field does not reference the located component")
	errWrongInvocationCount  = errors.New("bound method invocation count is wrong")
	errEngineShouldBeUnbuilt = errors.New("engine should not be built yet")
	errEngineShouldBeBuilt   = errors.New("engine should exist and be built")
	errValidMethodNotInvoked = errors.New("valid method was not invoked")
	errNoDiagnosticReported  = errors.New("no diagnostic was reported for the bad binding")
)

// scriptedProbe is the automatable object driven through the scenarios.
type scriptedProbe struct {
	Speed float64        `autobind:"start,value=7.5"`
	Radar *fakeComponent `autobind:"enable"`

	invocations int
	bindings    []Binding
}

func (p *scriptedProbe) Launch()    { p.invocations++ }
func (p *scriptedProbe) Retune(int) {}
func (p *scriptedProbe) AutomationBindings() []Binding {
	return p.bindings
}

// automationBDDContext holds per-scenario state.
type automationBDDContext struct {
	dispatcher *Dispatcher
	sink       *recordingSink
	locator    *fakeLocator
	probe      *scriptedProbe
	component  *fakeComponent
}

func (ctx *automationBDDContext) reset() {
	ctx.dispatcher = nil
	ctx.sink = &recordingSink{}
	ctx.locator = &fakeLocator{byScope: map[Scope][]Component{}}
	ctx.probe = nil
	ctx.component = nil
}

func (ctx *automationBDDContext) aFreshAutomationDispatcher() error {
	ctx.dispatcher = NewDispatcher(
		WithDiagnosticSink(ctx.sink),
		WithLocator(ctx.locator),
	)
	return nil
}

func (ctx *automationBDDContext) anObjectWithLiteralFieldMarkers() error {
	ctx.probe = &scriptedProbe{}
	return nil
}

func (ctx *automationBDDContext) anObjectWithComponentLookupMarker() error {
	ctx.probe = &scriptedProbe{}
	return nil
}

func (ctx *automationBDDContext) aMatchingComponentIsAvailable() error {
	ctx.component = &fakeComponent{name: "radar"}
	ctx.locator.byScope[ScopeSelf] = []Component{ctx.component}
	return nil
}

func (ctx *automationBDDContext) anObjectWithAMethodBinding() error {
	ctx.probe = &scriptedProbe{bindings: []Binding{
		BindMethod("Launch", CallAt(PhaseStart)),
	}}
	return nil
}

func (ctx *automationBDDContext) anObjectWithAMistypedBindingBeforeAValidOne() error {
	ctx.probe = &scriptedProbe{bindings: []Binding{
		BindMethod("Retune", CallAt(PhaseStart, "not-an-int")),
		BindMethod("Launch", CallAt(PhaseStart)),
	}}
	return nil
}

func (ctx *automationBDDContext) firePhase(phase Phase) error {
	if ctx.probe == nil {
		return errNoScriptedObject
	}
	ctx.dispatcher.Fire(ctx.probe, phase)
	return nil
}

func (ctx *automationBDDContext) theInitPhaseFires() error {
	return ctx.firePhase(PhaseInit)
}

func (ctx *automationBDDContext) theStartPhaseFires() error {
	return ctx.firePhase(PhaseStart)
}

func (ctx *automationBDDContext) theEnablePhaseFires() error {
	return ctx.firePhase(PhaseEnable)
}

func (ctx *automationBDDContext) theStartPhaseFiresTwice() error {
	if err := ctx.firePhase(PhaseStart); err != nil {
		return err
	}
	return ctx.firePhase(PhaseStart)
}

func (ctx *automationBDDContext) theRegistrationTableIsMutated() error {
	if ctx.probe == nil {
		return errNoScriptedObject
	}
	ctx.probe.bindings = nil
	return nil
}

func (ctx *automationBDDContext) theObjectIsReleased() error {
	if ctx.probe == nil {
		return errNoScriptedObject
	}
	ctx.dispatcher.Release(ctx.probe)
	return nil
}

func (ctx *automationBDDContext) theFieldsShouldHoldDeclaredValues() error {
	if ctx.probe.Speed != 7.5 {
		return fmt.Errorf("%w: Speed is %v", errFieldNotAssigned, ctx.probe.Speed)
	}
	return nil
}

func (ctx *automationBDDContext) noFieldsShouldHaveBeenAssigned() error {
	if ctx.probe.Speed != 0 {
		return errFieldAssignedEarly
	}
	return nil
}

func (ctx *automationBDDContext) theFieldShouldReferenceTheComponent() error {
	if ctx.probe.Radar != ctx.component {
		return errComponentNotLinked
	}
	return nil
}

func (ctx *automationBDDContext) invokedExactly(want int) error {
	if ctx.probe.invocations != want {
		return fmt.Errorf("%w: want %d, got %d", errWrongInvocationCount, want, ctx.probe.invocations)
	}
	return nil
}

func (ctx *automationBDDContext) invokedExactlyOnce() error {
	return ctx.invokedExactly(1)
}

func (ctx *automationBDDContext) invokedExactlyTwice() error {
	return ctx.invokedExactly(2)
}

func (ctx *automationBDDContext) theEngineShouldNotBeBuiltYet() error {
	if engine, ok := ctx.dispatcher.Engine(ctx.probe); ok && engine.Built() {
		return errEngineShouldBeUnbuilt
	}
	return nil
}

func (ctx *automationBDDContext) theEngineShouldExistAndBeBuilt() error {
	engine, ok := ctx.dispatcher.Engine(ctx.probe)
	if !ok || !engine.Built() {
		return errEngineShouldBeBuilt
	}
	return nil
}

func (ctx *automationBDDContext) theValidMethodShouldStillHaveBeenInvoked() error {
	if ctx.probe.invocations == 0 {
		return errValidMethodNotInvoked
	}
	return nil
}

func (ctx *automationBDDContext) aDiagnosticShouldHaveBeenReported() error {
	for _, d := range ctx.sink.all() {
		if errors.Is(d.Err, ErrArgumentType) {
			return nil
		}
	}
	return errNoDiagnosticReported
}

// InitializeAutomationScenario wires the step definitions.
func InitializeAutomationScenario(ctx *godog.ScenarioContext) {
	testCtx := &automationBDDContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		testCtx.reset()
		return ctx, nil
	})

	ctx.Step(`^a fresh automation dispatcher$`, testCtx.aFreshAutomationDispatcher)

	ctx.Step(`^a scripted object with literal field markers$`, testCtx.anObjectWithLiteralFieldMarkers)
	ctx.Step(`^a scripted object with a component lookup marker$`, testCtx.anObjectWithComponentLookupMarker)
	ctx.Step(`^a matching component is available on the object$`, testCtx.aMatchingComponentIsAvailable)
	ctx.Step(`^a scripted object with a method binding for the Start phase$`, testCtx.anObjectWithAMethodBinding)
	ctx.Step(`^a scripted object with a mistyped method binding before a valid one$`, testCtx.anObjectWithAMistypedBindingBeforeAValidOne)

	ctx.Step(`^the Init phase fires$`, testCtx.theInitPhaseFires)
	ctx.Step(`^the Start phase fires$`, testCtx.theStartPhaseFires)
	ctx.Step(`^the Enable phase fires$`, testCtx.theEnablePhaseFires)
	ctx.Step(`^the Start phase fires twice$`, testCtx.theStartPhaseFiresTwice)
	ctx.Step(`^the registration table is mutated$`, testCtx.theRegistrationTableIsMutated)
	ctx.Step(`^the object is released$`, testCtx.theObjectIsReleased)

	ctx.Step(`^the marked fields should hold their declared values$`, testCtx.theFieldsShouldHoldDeclaredValues)
	ctx.Step(`^no fields should have been assigned$`, testCtx.noFieldsShouldHaveBeenAssigned)
	ctx.Step(`^the marked field should reference the located component$`, testCtx.theFieldShouldReferenceTheComponent)
	ctx.Step(`^the bound method should have been invoked exactly once$`, testCtx.invokedExactlyOnce)
	ctx.Step(`^the bound method should have been invoked exactly twice$`, testCtx.invokedExactlyTwice)
	ctx.Step(`^the object's engine should not be built yet$`, testCtx.theEngineShouldNotBeBuiltYet)
	ctx.Step(`^the object's engine should exist and be built$`, testCtx.theEngineShouldExistAndBeBuilt)
	ctx.Step(`^the valid method should still have been invoked$`, testCtx.theValidMethodShouldStillHaveBeenInvoked)
	ctx.Step(`^a diagnostic should have been reported for the bad binding$`, testCtx.aDiagnosticShouldHaveBeenReported)
}

// TestMemberAutomation runs the BDD scenarios for the automation engine.
func TestMemberAutomation(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeAutomationScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/member_automation.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
