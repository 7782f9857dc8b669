package dbgout

import "fmt"

// debugGroup is a complete filter configuration: one namespace per
// (source, type) pair.
type debugGroup struct {
	namespaces [_SOURCE_MAX_for_checks_only][_TYPE_MAX_for_checks_only]namespace
}

func newDebugGroup() *debugGroup {
	g := new(debugGroup)
	for s := range g.namespaces {
		for t := range g.namespaces[s] {
			g.namespaces[s][t].init()
		}
	}
	return g
}

// Deep copy of the group (defaults and override maps).
func (g *debugGroup) clone() *debugGroup {
	dst := new(debugGroup)
	for s := range g.namespaces {
		for t := range g.namespaces[s] {
			dst.namespaces[s][t].copyFrom(&g.namespaces[s][t])
		}
	}
	return dst
}

func (g *debugGroup) clear() {
	for s := range g.namespaces {
		for t := range g.namespaces[s] {
			g.namespaces[s][t].clear()
		}
	}
}

func (g *debugGroup) namespace(source Source, msgType MsgType) *namespace {
	return &g.namespaces[source][msgType]
}

/////////////////////////////////////////////////////////////////////////////////////////

// groupStack is the debug group stack. Slot 0 is the root group and is
// always exclusively owned. A pushed level shares the group of the level
// below it (same pointer) until it is made writable by its first mutation.
type groupStack struct {
	groups []*debugGroup // one slot per level, len(groups) is the slot count
	depth  int           // index of the current top level
}

// Creates a stack with the given slot count (usable depth is slots-1).
func newGroupStack(slots int) *groupStack {
	gs := &groupStack{groups: make([]*debugGroup, norm_positive(slots, MAX_DEBUG_GROUP_STACK_DEPTH))}
	gs.groups[0] = newDebugGroup()
	return gs
}

// Current top-of-stack group (read only use unless made writable).
func (gs *groupStack) top() *debugGroup {
	return gs.groups[gs.depth]
}

// True if the top level still points to the group below it.
func (gs *groupStack) isShared() bool {
	return gs.depth > 0 && gs.groups[gs.depth] == gs.groups[gs.depth-1]
}

// Ensures the top level owns its group, copying the shared one if needed,
// and returns it.
func (gs *groupStack) makeWritable() *debugGroup {
	if gs.isShared() {
		gs.groups[gs.depth] = gs.groups[gs.depth].clone()
	}
	return gs.groups[gs.depth]
}

// Adds a level sharing the current top group.
func (gs *groupStack) push() error {
	if gs.depth >= len(gs.groups)-1 {
		return fmt.Errorf("%w (depth %d)", ErrStackOverflow, gs.depth)
	}
	gs.groups[gs.depth+1] = gs.groups[gs.depth]
	gs.depth++
	return nil
}

// Removes the top level, releasing its group unless it was shared.
func (gs *groupStack) pop() error {
	if gs.depth <= 0 {
		return ErrStackUnderflow
	}
	gs.clearTop()
	gs.depth--
	return nil
}

func (gs *groupStack) clearTop() {
	if !gs.isShared() {
		gs.groups[gs.depth].clear()
	}
	gs.groups[gs.depth] = nil
}

// Releases every level including the root group.
func (gs *groupStack) destroy() {
	for gs.depth > 0 {
		gs.clearTop()
		gs.depth--
	}
	gs.clearTop()
}

// Number of stack slots (maximum depth + 1).
func (gs *groupStack) slots() int {
	return len(gs.groups)
}
