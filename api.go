package dbgout

import (
	"fmt"
)

/*
Entry points of the debug output facilities. Each call validates its
arguments before touching the debug state; a rejected call records an
error code (see GetError), reports it through RecordError and returns an
error wrapping one of the Err* sentinels. No state is changed by a
rejected call.
*/

// Caller kinds for validateParams
const (
	_CALLER_INSERT = iota
	_CALLER_CONTROL
)

// Records the error of a rejected call and returns it wrapped with the
// caller name.
func (c *Context) reject(caller string, err error) error {
	c.RecordError(errorCodeOf(err), caller+"(%v)", err)
	return fmt.Errorf("%s: %w", caller, err)
}

// Checks source, type and severity for insert or control calls.
// Insert accepts only APPLICATION and THIRD_PARTY sources, no group
// types and no DONT_CARE; control accepts everything valid plus DONT_CARE.
func validateParams(caller int, source Source, msgType MsgType, severity Severity) error {
	control := caller == _CALLER_CONTROL
	ok := true
	switch {
	case source == SOURCE_APPLICATION || source == SOURCE_THIRD_PARTY:
	case source == SOURCE_DONT_CARE:
		ok = control
	default:
		ok = source.valid() && control
	}
	switch {
	case msgType == TYPE_PUSH_GROUP || msgType == TYPE_POP_GROUP || msgType == TYPE_DONT_CARE:
		ok = ok && control
	default:
		ok = ok && msgType.valid()
	}
	if severity == SEVERITY_DONT_CARE {
		ok = ok && control
	} else {
		ok = ok && severity.valid()
	}
	if !ok {
		return fmt.Errorf("%w: source=%v, type=%v, severity=%v", ErrInvalidEnum, source, msgType, severity)
	}
	return nil
}

// Resolves a caller-supplied length: negative means the whole text,
// otherwise the text is cut to length. The result must be shorter than
// MAX_DEBUG_MESSAGE_LENGTH.
func validateLength(length int, text string) (string, error) {
	if length < 0 {
		length = len(text)
	}
	if length >= MAX_DEBUG_MESSAGE_LENGTH {
		return "", fmt.Errorf("%w: length=%d, which is not less than MAX_DEBUG_MESSAGE_LENGTH=%d",
			ErrInvalidValue, length, MAX_DEBUG_MESSAGE_LENGTH)
	}
	if length > len(text) {
		return "", fmt.Errorf("%w: length=%d exceeds text size %d", ErrInvalidValue, length, len(text))
	}
	return text[:length], nil
}

/////////////////////////////////////////////////////////////////////////////////////////

// DebugMessageInsert inserts an application message. Only APPLICATION and
// THIRD_PARTY sources are accepted; a negative length takes the whole text.
func (c *Context) DebugMessageInsert(source Source, msgType MsgType, id uint32, severity Severity, length int, text string) error {
	const caller = "DebugMessageInsert"
	if err := validateParams(_CALLER_INSERT, source, msgType, severity); err != nil {
		return c.reject(caller, err)
	}
	text, err := validateLength(length, text)
	if err != nil {
		return c.reject(caller, err)
	}
	return c.DebugState().Emit(source, msgType, id, severity, text)
}

// GetDebugMessageLog drains up to count oldest logged messages whose total
// stored Length fits in logSize. The first message that does not fit stays
// in the log.
func (c *Context) GetDebugMessageLog(count, logSize int) ([]Message, error) {
	const caller = "GetDebugMessageLog"
	if logSize < 0 {
		return nil, c.reject(caller, fmt.Errorf("%w: logSize=%d : logSize must not be negative", ErrInvalidValue, logSize))
	}
	return c.DebugState().Fetch(count, logSize), nil
}

// DebugMessageControl enables or disables messages. With ids, every listed
// id of the (source, type) namespace is changed; source and type must then
// be concrete and severity must be DONT_CARE. Without ids, the defaults of
// every selected namespace are changed for the selected severities.
func (c *Context) DebugMessageControl(source Source, msgType MsgType, severity Severity, ids []uint32, enabled bool) error {
	const caller = "DebugMessageControl"
	if err := validateParams(_CALLER_CONTROL, source, msgType, severity); err != nil {
		return c.reject(caller, err)
	}
	if len(ids) > 0 && (severity != SEVERITY_DONT_CARE || msgType == TYPE_DONT_CARE || source == SOURCE_DONT_CARE) {
		return c.reject(caller, fmt.Errorf("%w: when passing an array of ids, severity must be"+
			" DONT_CARE, and source and type must not be DONT_CARE", ErrInvalidOperation))
	}
	debug := c.DebugState()
	if len(ids) == 0 {
		if err := debug.SetMessageEnableBulk(source, msgType, severity, enabled); err != nil {
			return c.reject(caller, err)
		}
		return nil
	}
	if err := debug.SetMessageEnableIDs(source, msgType, ids, enabled); err != nil {
		return c.reject(caller, err)
	}
	return nil
}

// DebugMessageCallback registers (or with nil, unregisters) the callback.
func (c *Context) DebugMessageCallback(cb Callback, userData any) {
	c.DebugState().RegisterCallback(cb, userData)
}

// PushDebugGroup enters a new debug group and emits its message. Only
// APPLICATION and THIRD_PARTY sources are accepted; a negative length takes
// the whole text.
func (c *Context) PushDebugGroup(source Source, id uint32, length int, text string) error {
	const caller = "PushDebugGroup"
	debug := c.DebugState()
	if debug.GroupDepth() >= debug.MaxGroupDepth() {
		return c.reject(caller, ErrStackOverflow)
	}
	if source != SOURCE_APPLICATION && source != SOURCE_THIRD_PARTY {
		return c.reject(caller, fmt.Errorf("%w: source=%v", ErrInvalidEnum, source))
	}
	text, err := validateLength(length, text)
	if err != nil {
		return c.reject(caller, err)
	}
	if err := debug.PushGroup(source, id, text); err != nil {
		return c.reject(caller, err)
	}
	return nil
}

// PopDebugGroup leaves the current debug group and emits the pop message.
func (c *Context) PopDebugGroup() error {
	const caller = "PopDebugGroup"
	if err := c.DebugState().PopGroup(); err != nil {
		return c.reject(caller, err)
	}
	return nil
}

/////////////////////////////////////////////////////////////////////////////////////////

// SetInteger sets DEBUG_OUTPUT or DEBUG_OUTPUT_SYNCHRONOUS (non-zero is
// true).
func (c *Context) SetInteger(pname Param, val int) error {
	switch pname {
	case DEBUG_OUTPUT:
		c.DebugState().SetDebugOutput(val != 0)
	case DEBUG_OUTPUT_SYNCHRONOUS:
		c.DebugState().SetSyncOutput(val != 0)
	default:
		return c.reject("SetInteger", fmt.Errorf("%w: pname=%v", ErrInvalidEnum, pname))
	}
	return nil
}

// GetInteger queries an integer parameter. A context without debug state
// reports 0 for everything and does not create the state.
func (c *Context) GetInteger(pname Param) (int, error) {
	if !pname.valid() || pname == DEBUG_CALLBACK_FUNCTION || pname == DEBUG_CALLBACK_USER_PARAM {
		return 0, c.reject("GetInteger", fmt.Errorf("%w: pname=%v", ErrInvalidEnum, pname))
	}
	debug := c.debug
	if debug == nil {
		return 0, nil
	}
	switch pname {
	case DEBUG_OUTPUT:
		return boolInt(debug.DebugOutput()), nil
	case DEBUG_OUTPUT_SYNCHRONOUS:
		return boolInt(debug.SyncOutput()), nil
	case DEBUG_LOGGED_MESSAGES:
		return debug.LoggedMessages(), nil
	case DEBUG_NEXT_LOGGED_MESSAGE_LENGTH:
		return debug.NextMessageLength(), nil
	default: // DEBUG_GROUP_STACK_DEPTH
		return debug.GroupDepth(), nil
	}
}

// GetPointer queries DEBUG_CALLBACK_FUNCTION (a Callback) or
// DEBUG_CALLBACK_USER_PARAM. A context without debug state reports nil.
func (c *Context) GetPointer(pname Param) (any, error) {
	if pname != DEBUG_CALLBACK_FUNCTION && pname != DEBUG_CALLBACK_USER_PARAM {
		return nil, c.reject("GetPointer", fmt.Errorf("%w: pname=%v", ErrInvalidEnum, pname))
	}
	if c.debug == nil {
		return nil, nil
	}
	cb, data := c.debug.Callback()
	if pname == DEBUG_CALLBACK_USER_PARAM {
		return data, nil
	}
	if cb == nil {
		return nil, nil
	}
	return cb, nil
}

// GetError returns the first error recorded since the last call and resets
// it to NO_ERROR.
func (c *Context) GetError() ErrorCode {
	code := c.errors.value
	c.errors.value = NO_ERROR
	return code
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
