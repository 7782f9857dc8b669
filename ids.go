package dbgout

import "sync"

// Process-wide counter for ids of internally generated messages.
var dynamicIDs struct {
	mtx  sync.Mutex
	next uint32
}

func init() {
	dynamicIDs.next = 1
}

// EnsureID assigns the next process-wide id to *slot if it is still zero and
// returns the slot value. Call sites keep the slot in static storage so a
// given message keeps one id across all contexts.
//
// Ids are unique within the process but depend on the order in which
// messages are first generated, so they are not stable between runs.
func EnsureID(slot *uint32) uint32 {
	if slot == nil {
		return 0
	}
	dynamicIDs.mtx.Lock()
	defer dynamicIDs.mtx.Unlock()
	if *slot == 0 {
		*slot = dynamicIDs.next
		dynamicIDs.next++
	}
	return *slot
}
