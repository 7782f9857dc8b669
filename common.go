package dbgout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Error messages used across debug state operations (used for testing).
	_ERROR_MESSAGE_STACK_OVERFLOW    = "debug group stack overflow"
	_ERROR_MESSAGE_STACK_UNDERFLOW   = "debug group stack underflow"
	_ERROR_MESSAGE_INVALID_ENUM      = "invalid enum"
	_ERROR_MESSAGE_INVALID_VALUE     = "invalid value"
	_ERROR_MESSAGE_INVALID_OPERATION = "invalid operation"
	_ERROR_MESSAGE_OUT_OF_MEMORY     = "out of memory"
	_ERROR_MESSAGE_UNKNOWN_NAME      = "unknown name"
	_ERROR_UNKNOWN_PANIC_TEXT        = "[no panic description]"
)

var (
	ErrStackOverflow    = errors.New(_ERROR_MESSAGE_STACK_OVERFLOW)
	ErrStackUnderflow   = errors.New(_ERROR_MESSAGE_STACK_UNDERFLOW)
	ErrInvalidEnum      = errors.New(_ERROR_MESSAGE_INVALID_ENUM)
	ErrInvalidValue     = errors.New(_ERROR_MESSAGE_INVALID_VALUE)
	ErrInvalidOperation = errors.New(_ERROR_MESSAGE_INVALID_OPERATION)
	ErrOutOfMemory      = errors.New(_ERROR_MESSAGE_OUT_OF_MEMORY)
	ErrUnknownName      = errors.New(_ERROR_MESSAGE_UNKNOWN_NAME)
)

// Maps an error returned by the core to the code recorded for it.
func errorCodeOf(err error) ErrorCode {
	switch {
	case err == nil:
		return NO_ERROR
	case errors.Is(err, ErrStackOverflow):
		return STACK_OVERFLOW
	case errors.Is(err, ErrStackUnderflow):
		return STACK_UNDERFLOW
	case errors.Is(err, ErrInvalidEnum):
		return INVALID_ENUM
	case errors.Is(err, ErrInvalidValue):
		return INVALID_VALUE
	case errors.Is(err, ErrOutOfMemory):
		return OUT_OF_MEMORY
	default:
		return INVALID_OPERATION
	}
}

/////////////////////////////////////////////////////////////////////////////////////////

// Generic byte normalization helper.
func norm_byte[T ~byte](val, overlimit, def T) T {
	if val < overlimit {
		return val
	} else {
		return def
	}
}

// Generic int normalization helper (non-positive values fall back to def).
func norm_positive(val, def int) int {
	if val > 0 {
		return val
	}
	return def
}

func (s Source) valid() bool         { return s < _SOURCE_MAX_for_checks_only }
func (t MsgType) valid() bool        { return t < _TYPE_MAX_for_checks_only }
func (v Severity) valid() bool       { return v < _SEVERITY_MAX_for_checks_only }
func (e ErrorCode) valid() bool      { return e < _ERROR_MAX_for_checks_only }
func (p Param) valid() bool          { return p < _PARAM_MAX_for_checks_only }
func (v Severity) bit() severityMask { return 1 << v }

func (s Source) String() string {
	if s == SOURCE_DONT_CARE {
		return DONT_CARE_NAME
	}
	return enumName(SourceNames[:], s)
}

func (t MsgType) String() string {
	if t == TYPE_DONT_CARE {
		return DONT_CARE_NAME
	}
	return enumName(TypeNames[:], t)
}

func (v Severity) String() string {
	if v == SEVERITY_DONT_CARE {
		return DONT_CARE_NAME
	}
	return enumName(SeverityNames[:], v)
}

func (e ErrorCode) String() string { return enumName(ErrorCodeNames[:], e) }
func (p Param) String() string     { return enumName(ParamNames[:], p) }

func enumName[T ~byte](names []string, val T) string {
	if int(val) < len(names) {
		return names[val]
	}
	return "0x" + strconv.FormatUint(uint64(val), 16)
}

// ParseSource converts a name from SourceNames (or "dont_care") into a Source.
func ParseSource(name string) (Source, error) {
	return parseEnum(SourceNames[:], name, SOURCE_DONT_CARE)
}

// ParseType converts a name from TypeNames (or "dont_care") into a MsgType.
func ParseType(name string) (MsgType, error) {
	return parseEnum(TypeNames[:], name, TYPE_DONT_CARE)
}

// ParseSeverity converts a name from SeverityNames (or "dont_care") into a Severity.
func ParseSeverity(name string) (Severity, error) {
	return parseEnum(SeverityNames[:], name, SEVERITY_DONT_CARE)
}

// ParseParam converts a name from ParamNames into a Param. The "debug_"
// prefix may be omitted.
func ParseParam(name string) (Param, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !strings.HasPrefix(name, "debug_") {
		name = "debug_" + name
	}
	return parseEnum(ParamNames[:], name, _PARAM_MAX_for_checks_only)
}

func parseEnum[T ~byte](names []string, name string, dontCare T) (T, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == DONT_CARE_NAME && dontCare != T(len(names)) {
		return dontCare, nil
	}
	for i, n := range names {
		if n == name {
			return T(i), nil
		}
	}
	return dontCare, fmt.Errorf("%w: %q", ErrUnknownName, name)
}

// Converts a panic value into a compact readable string (used when
// translating panics into fallback messages)
func panicDesc(panic any) (errtext string) {
	switch v := panic.(type) {
	case string:
		errtext = ": `" + v + "`"
	case error:
		errtext = ": (error) `" + v.Error() + "`"
	default:
		errtext = " " + _ERROR_UNKNOWN_PANIC_TEXT
	}
	return errtext
}
