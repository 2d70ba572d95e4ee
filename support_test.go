package autobind

import (
	"context"
	"reflect"
	"sync"
	"testing"
)

// recordingSink captures diagnostics for assertions.
type recordingSink struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
}

func (s *recordingSink) Report(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagnostics = append(s.diagnostics, d)
}

func (s *recordingSink) all() []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Diagnostic, len(s.diagnostics))
	copy(out, s.diagnostics)
	return out
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.diagnostics)
}

// testLogger routes engine logs through the test output.
type testLogger struct {
	t *testing.T
}

func (l *testLogger) Info(msg string, args ...any)  { l.t.Log("INFO", msg, args) }
func (l *testLogger) Error(msg string, args ...any) { l.t.Log("ERROR", msg, args) }
func (l *testLogger) Warn(msg string, args ...any)  { l.t.Log("WARN", msg, args) }
func (l *testLogger) Debug(msg string, args ...any) { l.t.Log("DEBUG", msg, args) }

// fakeComponent is a lookup-eligible component for pipeline tests.
type fakeComponent struct {
	name string
}

func (c *fakeComponent) ComponentName() string { return c.name }

// otherComponent is a second component type, distinct from
// fakeComponent for type-directed lookups.
type otherComponent struct{}

func (c *otherComponent) ComponentName() string { return "other" }

// recordingSubject captures emitted events without delivery semantics.
type recordingSubject struct {
	mu     sync.Mutex
	events []CloudEvent
}

func newRecordingSubject() *recordingSubject {
	return &recordingSubject{}
}

func (s *recordingSubject) RegisterObserver(Observer, ...string) error { return nil }
func (s *recordingSubject) UnregisterObserver(Observer) error          { return nil }
func (s *recordingSubject) GetObservers() []ObserverInfo               { return nil }

func (s *recordingSubject) NotifyObservers(_ context.Context, event CloudEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSubject) eventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]string, len(s.events))
	for i, e := range s.events {
		types[i] = e.Type()
	}
	return types
}

// fakeLocator serves canned components per scope and records queries.
type fakeLocator struct {
	byScope map[Scope][]Component
	queries []locatorQuery
}

type locatorQuery struct {
	typ             reflect.Type
	scope           Scope
	includeInactive bool
}

func (l *fakeLocator) FindComponent(typ reflect.Type, scope Scope, includeInactive bool) (Component, bool) {
	l.queries = append(l.queries, locatorQuery{typ: typ, scope: scope, includeInactive: includeInactive})
	for _, c := range l.byScope[scope] {
		if reflect.TypeOf(c).AssignableTo(typ) {
			return c, true
		}
	}
	return nil, false
}
