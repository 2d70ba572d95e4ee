package autobind

import "sort"

// assignOrders runs the two ordering sweeps over the raw descriptor
// list. Field/property descriptors and method descriptors each keep
// their own per-phase running counter; a descriptor left at OrderUnset
// receives the counter value of its sweep, so unordered members execute
// in discovery order.
//
// The sweeps are independent: an assign-origin and a call-origin
// descriptor bound to the same phase can end up with the same numeric
// order, and explicit user orders are not checked for collision either.
// Ties resolve by position in the build list (assign-origin descriptors
// precede call-origin ones), which is an artifact of the build, not a
// portable guarantee.
func assignOrders(descs []MemberDescriptor) {
	var assignCount, callCount [phaseCount]int
	for i := range descs {
		d := &descs[i]
		counter := &callCount
		if d.assignOrigin() {
			counter = &assignCount
		}
		if d.Order == OrderUnset {
			d.Order = counter[d.Phase]
		}
		counter[d.Phase]++
	}
}

// buildPhaseMap produces the finalized, per-phase ordered sequences.
// Within each phase the list holds assign-origin descriptors first, then
// call-origin ones, stably sorted ascending by order value.
func buildPhaseMap(descs []MemberDescriptor) [phaseCount][]MemberDescriptor {
	assignOrders(descs)

	var phases [phaseCount][]MemberDescriptor
	for i := range descs {
		if descs[i].assignOrigin() {
			phases[descs[i].Phase] = append(phases[descs[i].Phase], descs[i])
		}
	}
	for i := range descs {
		if !descs[i].assignOrigin() {
			phases[descs[i].Phase] = append(phases[descs[i].Phase], descs[i])
		}
	}

	for p := range phases {
		members := phases[p]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Order < members[j].Order
		})
	}
	return phases
}

// Plan classifies and orders target's members without executing
// anything, returning the finalized per-phase execution plan. This is
// the same build an Engine performs at its first Init firing; it is
// exposed for inspection tooling.
func Plan(target any, sink DiagnosticSink) (map[Phase][]MemberDescriptor, error) {
	descs, err := Classify(target, sink)
	if err != nil {
		return nil, err
	}

	phases := buildPhaseMap(descs)
	plan := make(map[Phase][]MemberDescriptor, phaseCount)
	for p := range phases {
		if len(phases[p]) > 0 {
			plan[Phase(p)] = phases[p]
		}
	}
	return plan, nil
}
