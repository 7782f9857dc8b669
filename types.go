package dbgout

/*
Defines the core data types used by the debug output engine:
  - basetype and a small set of typed enums for the three classification
    axes (source, type, severity), error codes and queryable parameters
  - Message: a stored debug message (log slot or saved group message)
  - Callback: the synchronous delivery hook registered by the application

Also defines package-wide constants, name maps and normalization helpers.
*/

type basetype byte // basetype is the underlying byte-sized representation used for enums

type Source basetype    // Message source (who generated the message)
type MsgType basetype   // Message type (what kind of event it describes)
type Severity basetype  // Message severity
type ErrorCode basetype // Recorded API error code (see Context.GetError)
type Param basetype     // Queryable/settable debug state parameter

// severityMask is a bit set where bit k means "severity k is enabled".
type severityMask uint8

// Message is an immutable debug message record. Text is owned by whichever
// container holds the message; Length always counts a terminating null, so
// it is len(Text)+1 for every stored message.
type Message struct {
	Source   Source
	Type     MsgType
	ID       uint32
	Severity Severity
	Length   int
	Text     string
	reserved int // text bytes reserved from the owning budget (0 for the out-of-memory sentinel)
}

// Callback receives every enabled message synchronously once registered.
// The userData value is the one passed at registration time.
type Callback func(source Source, msgType MsgType, id uint32, severity Severity, text string, userData any)

/////////////////////////////////////////////////////////////////////////////////////////

const (
	// Message sources. The trailing _SOURCE_MAX_for_checks_only is used as an
	// exclusive upper bound for range checks.
	SOURCE_API Source = iota
	SOURCE_WINDOW_SYSTEM
	SOURCE_SHADER_COMPILER
	SOURCE_THIRD_PARTY
	SOURCE_APPLICATION
	SOURCE_OTHER
	_SOURCE_MAX_for_checks_only
)

const (
	// Message types.
	TYPE_ERROR MsgType = iota
	TYPE_DEPRECATED_BEHAVIOR
	TYPE_UNDEFINED_BEHAVIOR
	TYPE_PORTABILITY
	TYPE_PERFORMANCE
	TYPE_OTHER
	TYPE_MARKER
	TYPE_PUSH_GROUP
	TYPE_POP_GROUP
	_TYPE_MAX_for_checks_only
)

const (
	// Message severities, in internal bit order.
	SEVERITY_LOW Severity = iota
	SEVERITY_MEDIUM
	SEVERITY_HIGH
	SEVERITY_NOTIFICATION
	_SEVERITY_MAX_for_checks_only
)

const (
	// Selectors meaning "every value of this axis" for bulk control.
	SOURCE_DONT_CARE   Source   = 0xFF
	TYPE_DONT_CARE     MsgType  = 0xFF
	SEVERITY_DONT_CARE Severity = 0xFF
)

const (
	// API error codes recorded by rejected entry-point calls.
	NO_ERROR ErrorCode = iota
	INVALID_ENUM
	INVALID_VALUE
	INVALID_OPERATION
	STACK_OVERFLOW
	STACK_UNDERFLOW
	OUT_OF_MEMORY
	_ERROR_MAX_for_checks_only
)

const (
	// Parameters for Context.SetInteger/GetInteger/GetPointer.
	DEBUG_OUTPUT Param = iota
	DEBUG_OUTPUT_SYNCHRONOUS
	DEBUG_LOGGED_MESSAGES
	DEBUG_NEXT_LOGGED_MESSAGE_LENGTH
	DEBUG_GROUP_STACK_DEPTH
	DEBUG_CALLBACK_FUNCTION
	DEBUG_CALLBACK_USER_PARAM
	_PARAM_MAX_for_checks_only
)

const (
	// Implementation limits
	MAX_DEBUG_LOGGED_MESSAGES   = 10   // default message log capacity
	MAX_DEBUG_MESSAGE_LENGTH    = 4096 // message text length must be strictly less
	MAX_DEBUG_GROUP_STACK_DEPTH = 64   // group stack slots, usable depth is one less
)

const (
	SEVERITY_MASK_ALL     severityMask = 1<<_SEVERITY_MAX_for_checks_only - 1
	SEVERITY_MASK_DEFAULT severityMask = 1<<SEVERITY_HIGH | 1<<SEVERITY_MEDIUM

	OUT_OF_MEMORY_TEXT = "Debugging error: out of memory"
	DONT_CARE_NAME     = "dont_care"
)

/////////////////////////////////////////////////////////////////////////////////////////

type SourceMap [_SOURCE_MAX_for_checks_only]string
type TypeMap [_TYPE_MAX_for_checks_only]string
type SeverityMap [_SEVERITY_MAX_for_checks_only]string
type ErrorCodeMap [_ERROR_MAX_for_checks_only]string
type ParamMap [_PARAM_MAX_for_checks_only]string

// Lower-case names used by config files, scripts and String() methods
var SourceNames = &SourceMap{
	"api",             //SOURCE_API
	"window_system",   //SOURCE_WINDOW_SYSTEM
	"shader_compiler", //SOURCE_SHADER_COMPILER
	"third_party",     //SOURCE_THIRD_PARTY
	"application",     //SOURCE_APPLICATION
	"other",           //SOURCE_OTHER
}

var TypeNames = &TypeMap{
	"error",               //TYPE_ERROR
	"deprecated_behavior", //TYPE_DEPRECATED_BEHAVIOR
	"undefined_behavior",  //TYPE_UNDEFINED_BEHAVIOR
	"portability",         //TYPE_PORTABILITY
	"performance",         //TYPE_PERFORMANCE
	"other",               //TYPE_OTHER
	"marker",              //TYPE_MARKER
	"push_group",          //TYPE_PUSH_GROUP
	"pop_group",           //TYPE_POP_GROUP
}

var SeverityNames = &SeverityMap{
	"low",          //SEVERITY_LOW
	"medium",       //SEVERITY_MEDIUM
	"high",         //SEVERITY_HIGH
	"notification", //SEVERITY_NOTIFICATION
}

var ErrorCodeNames = &ErrorCodeMap{
	"NO_ERROR",          //NO_ERROR
	"INVALID_ENUM",      //INVALID_ENUM
	"INVALID_VALUE",     //INVALID_VALUE
	"INVALID_OPERATION", //INVALID_OPERATION
	"STACK_OVERFLOW",    //STACK_OVERFLOW
	"STACK_UNDERFLOW",   //STACK_UNDERFLOW
	"OUT_OF_MEMORY",     //OUT_OF_MEMORY
}

var ParamNames = &ParamMap{
	"debug_output",                     //DEBUG_OUTPUT
	"debug_output_synchronous",         //DEBUG_OUTPUT_SYNCHRONOUS
	"debug_logged_messages",            //DEBUG_LOGGED_MESSAGES
	"debug_next_logged_message_length", //DEBUG_NEXT_LOGGED_MESSAGE_LENGTH
	"debug_group_stack_depth",          //DEBUG_GROUP_STACK_DEPTH
	"debug_callback_function",          //DEBUG_CALLBACK_FUNCTION
	"debug_callback_user_param",        //DEBUG_CALLBACK_USER_PARAM
}
