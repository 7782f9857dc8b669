package dbgout

import "maps"

// namespace holds the filter state of one (source, type) pair: a default
// severity mask plus per-id overrides. An override is kept only while it
// differs from defaultState.
type namespace struct {
	elements     map[uint32]severityMask
	defaultState severityMask
}

// Enables HIGH and MEDIUM severities by default, without overrides.
func (ns *namespace) init() {
	ns.elements = nil
	ns.defaultState = SEVERITY_MASK_DEFAULT
}

// Releases all overrides.
func (ns *namespace) clear() {
	clear(ns.elements)
	ns.elements = nil
}

// Deep copy of src into ns (previous ns content is dropped).
func (ns *namespace) copyFrom(src *namespace) {
	ns.defaultState = src.defaultState
	ns.elements = nil
	if len(src.elements) > 0 {
		ns.elements = maps.Clone(src.elements)
	}
}

// Reports whether id is enabled at the given severity.
func (ns *namespace) get(id uint32, severity Severity) bool {
	state, ok := ns.elements[id]
	if !ok {
		state = ns.defaultState
	}
	return state&severity.bit() != 0
}

// Sets every severity of id to the same state. The override is dropped when
// it would equal the default. Returns false (namespace unchanged) when a new
// override is needed but the budget (maximum overrides, 0 for no limit) is
// exhausted.
func (ns *namespace) set(id uint32, enabled bool, budget int) bool {
	state := severityMask(0)
	if enabled {
		state = SEVERITY_MASK_ALL
	}
	if ns.defaultState == state {
		delete(ns.elements, id)
		return true
	}
	if _, exists := ns.elements[id]; !exists {
		if budget > 0 && len(ns.elements) >= budget {
			return false
		}
		if ns.elements == nil {
			ns.elements = make(map[uint32]severityMask)
		}
	}
	ns.elements[id] = state
	return true
}

// Number of new overrides that setting every id in ids to enabled would add.
func (ns *namespace) needed(ids []uint32, enabled bool) int {
	state := severityMask(0)
	if enabled {
		state = SEVERITY_MASK_ALL
	}
	if ns.defaultState == state {
		return 0
	}
	seen := make(map[uint32]struct{}, len(ids))
	for _, id := range ids {
		if _, exists := ns.elements[id]; exists {
			continue
		}
		seen[id] = struct{}{}
	}
	return len(seen)
}

// Sets the default state of one severity, or of all severities when
// severity is SEVERITY_DONT_CARE. The latter is a full reset that discards
// every override; otherwise the same bit is applied to each override and the
// overrides that become equal to the default are pruned.
func (ns *namespace) setAll(severity Severity, enabled bool) {
	if severity == SEVERITY_DONT_CARE {
		ns.defaultState = 0
		if enabled {
			ns.defaultState = SEVERITY_MASK_ALL
		}
		ns.clear()
		return
	}
	mask := severity.bit()
	val := severityMask(0)
	if enabled {
		val = mask
	}
	ns.defaultState = ns.defaultState&^mask | val
	for id, state := range ns.elements {
		state = state&^mask | val
		if state == ns.defaultState {
			delete(ns.elements, id)
		} else {
			ns.elements[id] = state
		}
	}
}

// Number of stored overrides.
func (ns *namespace) overrides() int {
	return len(ns.elements)
}
