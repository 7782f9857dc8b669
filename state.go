// A debug output engine for graphics contexts: classifies, filters, groups
// and logs debug messages produced by the runtime or inserted by the
// application.
package dbgout

import (
	"fmt"
	"io"
	"os"
)

type OutType io.Writer // Fallback output for internal diagnostics (alias for io.Writer)

// State is the debug output state of one context: the group stack with the
// filter configuration, the message log, the callback and the output flags.
//
// A State is not safe for concurrent use. All calls for one context are
// expected from one goroutine at a time.
type State struct {
	callback     Callback
	callbackData any
	syncOutput   bool
	debugOutput  bool
	groups       *groupStack
	groupMsgs    []Message // message saved by push for each level, replayed by pop
	log          *messageLog
	budget       textBudget // bytes of stored message text
	overrides    int        // max overrides per namespace (0 for no limit)
	fallbck      OutType    // fallback writer for internal problems
}

// Creates a debug state with default limits and os.Stderr as fallback.
func NewState() *State {
	return NewStateWithParams(MAX_DEBUG_LOGGED_MESSAGES, MAX_DEBUG_GROUP_STACK_DEPTH, os.Stderr)
}

// NewStateWithParams creates a debug state with explicit limits:
//   - logCapacity: message log capacity ([MAX_DEBUG_LOGGED_MESSAGES] for non-positive values)
//   - groupSlots: group stack slots, the deepest push reaches groupSlots-1
//     ([MAX_DEBUG_GROUP_STACK_DEPTH] for non-positive values)
//   - fallback: writer for internal problems (nil discards them)
//
// Debug output is disabled on a new state.
func NewStateWithParams(logCapacity, groupSlots int, fallback OutType) *State {
	s := new(State)
	s.groups = newGroupStack(groupSlots)
	s.groupMsgs = make([]Message, s.groups.slots())
	s.log = newMessageLog(logCapacity, &s.budget)
	s.SetFallback(fallback)
	return s
}

// Destroy releases all groups, saved group messages and logged messages.
// The state must not be used afterwards.
func (s *State) Destroy() {
	if s.groups == nil {
		return
	}
	s.log.clear()
	for i := range s.groupMsgs {
		clearMessage(&s.groupMsgs[i], &s.budget)
	}
	s.groups.destroy()
	s.groups = nil
	s.callback = nil
	s.callbackData = nil
}

/////////////////////////////////////////////////////////////////////////////////////////

// Sets the fallback output used to report internal problems, io.Discard is
// used instead of nil to silently drop them.
func (s *State) SetFallback(f OutType) *State {
	if f != nil {
		s.fallbck = f
	} else {
		s.fallbck = io.Discard
	}
	return s
}

// Enables or disables debug output. While disabled every message is dropped.
func (s *State) SetDebugOutput(enabled bool) *State {
	s.debugOutput = enabled
	return s
}

// Sets the synchronous output flag. Delivery is always synchronous, the flag
// is stored and reported back for queries.
func (s *State) SetSyncOutput(enabled bool) *State {
	s.syncOutput = enabled
	return s
}

// Limits the bytes of message text held by the log and saved group messages
// (0 for no limit). Text that does not fit is replaced by the out-of-memory
// sentinel message.
func (s *State) SetTextBudget(limit int) *State {
	s.budget.limit = max(limit, 0)
	return s
}

// Limits the number of per-id overrides in each namespace (0 for no limit).
// Enabling or disabling a new id beyond the limit fails with ErrOutOfMemory.
func (s *State) SetOverrideBudget(limit int) *State {
	s.overrides = max(limit, 0)
	return s
}

// Registers the callback and its user data. A non-nil callback receives
// all subsequent enabled messages instead of the log; messages already
// logged stay in the log.
func (s *State) RegisterCallback(cb Callback, userData any) *State {
	s.callback = cb
	s.callbackData = userData
	return s
}

func (s *State) DebugOutput() bool { return s.debugOutput }
func (s *State) SyncOutput() bool  { return s.syncOutput }

// Number of messages currently in the log.
func (s *State) LoggedMessages() int { return s.log.len() }

// Capacity of the message log.
func (s *State) LogCapacity() int { return s.log.capacity() }

// Current group stack depth (0 when only the root group exists).
func (s *State) GroupDepth() int { return s.groups.depth }

// Deepest group stack depth a push can reach.
func (s *State) MaxGroupDepth() int { return s.groups.slots() - 1 }

// Stored length (including the terminating null) of the oldest logged
// message, 0 for an empty log.
func (s *State) NextMessageLength() int {
	if msg := s.log.peek(); msg != nil {
		return msg.Length
	}
	return 0
}

// Registered callback and its user data.
func (s *State) Callback() (Callback, any) {
	return s.callback, s.callbackData
}

/////////////////////////////////////////////////////////////////////////////////////////

// Enables or disables every severity of one message id in the (source,
// type) namespace of the current group.
func (s *State) SetMessageEnable(source Source, msgType MsgType, id uint32, enabled bool) error {
	return s.SetMessageEnableIDs(source, msgType, []uint32{id}, enabled)
}

// SetMessageEnableIDs applies SetMessageEnable to every id, or to none of
// them when the override budget cannot hold them all.
func (s *State) SetMessageEnableIDs(source Source, msgType MsgType, ids []uint32, enabled bool) error {
	if !source.valid() || !msgType.valid() {
		return fmt.Errorf("%w: source=%v type=%v", ErrInvalidEnum, source, msgType)
	}
	cur := s.groups.top().namespace(source, msgType)
	if need := cur.needed(ids, enabled); s.overrides > 0 && need > 0 && cur.overrides()+need > s.overrides {
		return fmt.Errorf("%w: no room for %d message overrides in %v/%v", ErrOutOfMemory, need, source, msgType)
	}
	ns := s.groups.makeWritable().namespace(source, msgType)
	for _, id := range ids {
		ns.set(id, enabled, s.overrides)
	}
	return nil
}

// Sets the default state of every namespace selected by source and type,
// for one severity or all of them. Any selector can be its DONT_CARE
// value to cover the whole axis. Ids with overrides follow the change and
// future ids use the new defaults.
func (s *State) SetMessageEnableBulk(source Source, msgType MsgType, severity Severity, enabled bool) error {
	smin, smax, ok := axisRange(source, SOURCE_DONT_CARE, _SOURCE_MAX_for_checks_only)
	tmin, tmax, ok2 := axisRange(msgType, TYPE_DONT_CARE, _TYPE_MAX_for_checks_only)
	if !ok || !ok2 || !(severity.valid() || severity == SEVERITY_DONT_CARE) {
		return fmt.Errorf("%w: source=%v type=%v severity=%v", ErrInvalidEnum, source, msgType, severity)
	}
	grp := s.groups.makeWritable()
	for src := smin; src < smax; src++ {
		for typ := tmin; typ < tmax; typ++ {
			grp.namespace(src, typ).setAll(severity, enabled)
		}
	}
	return nil
}

// Returns the [min, max) range selected on one axis.
func axisRange[T ~byte](sel, dontCare, count T) (T, T, bool) {
	if sel == dontCare {
		return 0, count, true
	}
	return sel, sel + 1, sel < count
}

// IsMessageEnabled reports whether the current group lets the message
// through. The debug output flag is not considered.
func (s *State) IsMessageEnabled(source Source, msgType MsgType, id uint32, severity Severity) bool {
	if !source.valid() || !msgType.valid() || !severity.valid() {
		return false
	}
	return s.groups.top().namespace(source, msgType).get(id, severity)
}

// Emit routes one message: dropped when output is disabled or the current
// group filters it out, otherwise delivered to the callback or appended to
// the log. Returns an error only for out-of-range classification values or
// text not shorter than [MAX_DEBUG_MESSAGE_LENGTH]; filtered messages are
// not errors.
func (s *State) Emit(source Source, msgType MsgType, id uint32, severity Severity, text string) error {
	if !source.valid() || !msgType.valid() || !severity.valid() {
		return fmt.Errorf("%w: source=%v type=%v severity=%v", ErrInvalidEnum, source, msgType, severity)
	}
	if len(text) >= MAX_DEBUG_MESSAGE_LENGTH {
		return fmt.Errorf("%w: length %d is not less than %d", ErrInvalidValue, len(text), MAX_DEBUG_MESSAGE_LENGTH)
	}
	s.logMsg(source, msgType, id, severity, text)
	return nil
}

// PushGroup emits text as a PUSH_GROUP notification, saves it for the
// matching pop and enters a new group level sharing the current filters.
func (s *State) PushGroup(source Source, id uint32, text string) error {
	if s.groups.depth >= s.groups.slots()-1 {
		return fmt.Errorf("%w (depth %d)", ErrStackOverflow, s.groups.depth)
	}
	if !source.valid() {
		return fmt.Errorf("%w: source=%v", ErrInvalidEnum, source)
	}
	if len(text) >= MAX_DEBUG_MESSAGE_LENGTH {
		return fmt.Errorf("%w: length %d is not less than %d", ErrInvalidValue, len(text), MAX_DEBUG_MESSAGE_LENGTH)
	}
	s.logMsg(source, TYPE_PUSH_GROUP, id, SEVERITY_NOTIFICATION, text)
	slot := &s.groupMsgs[s.groups.depth]
	clearMessage(slot, &s.budget)
	storeMessage(slot, &s.budget, source, TYPE_PUSH_GROUP, id, SEVERITY_NOTIFICATION, text)
	return s.groups.push()
}

// PopGroup leaves the current group level, restoring the parent filters,
// and then emits the message saved by the matching push as a POP_GROUP
// notification.
func (s *State) PopGroup() error {
	if err := s.groups.pop(); err != nil {
		return err
	}
	saved := &s.groupMsgs[s.groups.depth]
	s.logMsg(saved.Source, TYPE_POP_GROUP, saved.ID, SEVERITY_NOTIFICATION, saved.Text)
	clearMessage(saved, &s.budget)
	return nil
}

// Fetch drains up to maxCount oldest messages. When bufSize is not
// negative the total Length of returned messages must fit in it: the drain
// stops at the first message that does not fit, leaving it in the log.
func (s *State) Fetch(maxCount, bufSize int) []Message {
	var out []Message
	for len(out) < maxCount {
		msg := s.log.peek()
		if msg == nil {
			break
		}
		if bufSize >= 0 {
			if bufSize < msg.Length {
				break
			}
			bufSize -= msg.Length
		}
		m := *msg
		m.reserved = 0
		out = append(out, m)
		s.log.dequeue(1)
	}
	return out
}
