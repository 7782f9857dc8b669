package dbgout

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// Shared by every API error message in the process.
var errorMsgID uint32

// RecordError records an API error on the context. The error becomes the
// sticky GetError value if none is pending. When diagnostics are enabled it
// is echoed to the fallback writer (repeats of the same error are counted
// and summarized later), and when the debug state lets API/ERROR/HIGH
// messages through it is also emitted as a debug message
// "<CODE> in <formatted text>".
func (c *Context) RecordError(code ErrorCode, format string, args ...any) {
	code = norm_byte(code, _ERROR_MAX_for_checks_only, INVALID_OPERATION)
	id := EnsureID(&errorMsgID)

	doOutput := c.shouldOutput(code, format)
	doLog := c.debug != nil && c.debug.isMessageEnabled(SOURCE_API, TYPE_ERROR, id, SEVERITY_HIGH)

	if doOutput || doLog {
		text := code.String() + " in " + fmt.Sprintf(format, args...)
		text = truncateText(text)
		if doOutput {
			c.fbckWriteln("User error: " + text)
		}
		if doLog {
			c.debug.logMsg(SOURCE_API, TYPE_ERROR, id, SEVERITY_HIGH, text)
		}
	}
	if c.errors.value == NO_ERROR {
		c.errors.value = code
	}
}

// Decides whether an error is echoed to the fallback: the first of a run of
// identical errors (same code and format) is written, the rest are counted.
func (c *Context) shouldOutput(code ErrorCode, format string) bool {
	if !c.params.Diagnostics {
		return false
	}
	if c.errors.lastCode != code || c.errors.lastFmt != format {
		c.flushDelayedErrors()
		c.errors.lastCode = code
		c.errors.lastFmt = format
		return true
	}
	c.errors.count++
	return false
}

// Writes the summary of the counted repeats of the last echoed error.
func (c *Context) flushDelayedErrors() {
	if c.errors.count > 0 {
		c.fbckWriteln(strconv.Itoa(c.errors.count) + " similar " + c.errors.lastCode.String() + " errors")
		c.errors.count = 0
	}
}

// Warningf writes a warning to the fallback writer when diagnostics are
// enabled. Pending error repeats are summarized first.
func (c *Context) Warningf(format string, args ...any) {
	if !c.params.Diagnostics {
		return
	}
	c.flushDelayedErrors()
	c.fbckWriteln("warning: " + truncateText(fmt.Sprintf(format, args...)))
}

// DebugMessagef emits a runtime-generated API message. The id is taken
// from *idslot, which is assigned on first use (keep it in static storage
// so the message keeps one id). Text longer than the limit is truncated.
func (c *Context) DebugMessagef(idslot *uint32, msgType MsgType, severity Severity, format string, args ...any) error {
	id := EnsureID(idslot)
	return c.DebugState().Emit(SOURCE_API, msgType, id, severity, truncateText(fmt.Sprintf(format, args...)))
}

// ShaderMessage emits a HIGH severity message from the shader compiler,
// truncating text longer than the limit.
func (c *Context) ShaderMessage(msgType MsgType, idslot *uint32, text string) error {
	id := EnsureID(idslot)
	return c.DebugState().Emit(SOURCE_SHADER_COMPILER, msgType, id, SEVERITY_HIGH, truncateText(text))
}

// Cuts text to at most MAX_DEBUG_MESSAGE_LENGTH-1 bytes without splitting
// a UTF-8 sequence.
func truncateText(text string) string {
	if len(text) < MAX_DEBUG_MESSAGE_LENGTH {
		return text
	}
	n := MAX_DEBUG_MESSAGE_LENGTH - 1
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}
