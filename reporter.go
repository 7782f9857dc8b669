package dbgout

import (
	"errors"
	"fmt"
)

/*
Reporter is a producer of runtime-generated debug messages: a part of the
runtime (window system glue, shader compiler, a third-party layer) that
always reports with the same source and type. Each reporter carries its
own message id, allocated lazily from the process-wide counter unless a
fixed one is given, a current severity used by Write, and can be disabled
separately from other reporters.

Reporters are created by Context.NewReporter...() and changed only through
their context (SetReporterEnabled) to keep control of the message stream
in one place.

Report_with_err returns routing errors to the caller; Report and the
severity helpers write them to the context fallback instead.
*/

const (
	_ERROR_MESSAGE_REPORTER_IS_NIL   = "reporter is nil"
	_ERROR_MESSAGE_REPORTER_IS_ALIEN = "reporter is nil or alien (belongs to another context or nil)"
)

// Reporter emits messages with a fixed source, type and id.
type Reporter struct {
	ctx     *Context // owning context
	source  Source   // source attached to every message
	msgType MsgType  // type attached to every message
	id      uint32   // message id (0 until first use when allocated lazily)
	curSev  Severity // severity used by Write / fmt.Fprintf helpers
	enabled bool     // whether the reporter may submit messages
}

// Creates a reporter with a lazily allocated id.
func (c *Context) NewReporter(source Source, msgType MsgType) *Reporter {
	return c.NewReporterWithID(source, msgType, 0)
}

// Creates a reporter with a fixed id (0 allocates one on first use).
func (c *Context) NewReporterWithID(source Source, msgType MsgType, id uint32) *Reporter {
	return &Reporter{
		ctx:     c,
		source:  norm_byte(source, _SOURCE_MAX_for_checks_only, SOURCE_OTHER),
		msgType: norm_byte(msgType, _TYPE_MAX_for_checks_only, TYPE_OTHER),
		id:      id,
		curSev:  SEVERITY_NOTIFICATION,
		enabled: true,
	}
}

// Validates that the reporter belongs to this context
func (c *Context) IsOwnReporter(r *Reporter) bool {
	return r != nil && r.ctx == c
}

func (c *Context) checkReporter(r *Reporter) (err error) {
	if r == nil {
		err = errors.New(_ERROR_MESSAGE_REPORTER_IS_NIL)
	} else if r.ctx != c {
		err = errors.New(_ERROR_MESSAGE_REPORTER_IS_ALIEN)
	}
	return
}

// Toggles whether a reporter's messages are emitted
func (c *Context) SetReporterEnabled(r *Reporter, enabled bool) error {
	err := c.checkReporter(r)
	if err == nil {
		r.enabled = enabled
	}
	return err
}

// Message id of the reporter (allocated on first call if needed).
func (r *Reporter) ID() uint32 {
	return EnsureID(&r.id)
}

func (r *Reporter) Source() Source { return r.source }
func (r *Reporter) Type() MsgType  { return r.msgType }

// Report_with_err emits text at the given severity through the context
// debug state (created if needed). A disabled reporter is a no-op.
func (r *Reporter) Report_with_err(severity Severity, text string) error {
	if r.ctx == nil {
		return errors.New(_ERROR_MESSAGE_REPORTER_IS_ALIEN)
	}
	if !r.enabled {
		return nil
	}
	return r.ctx.DebugState().Emit(r.source, r.msgType, r.ID(), severity, text)
}

// Same as Report_with_err() but the error is written to the context
// fallback.
func (r *Reporter) Report(severity Severity, text string) {
	if err := r.Report_with_err(severity, text); err != nil && r.ctx != nil {
		r.ctx.fbckWriteln("reporter " + r.source.String() + "/" + r.msgType.String() + ": " + err.Error())
	}
}

// Formatted form of Report.
func (r *Reporter) Reportf(severity Severity, format string, args ...any) {
	r.Report(severity, fmt.Sprintf(format, args...))
}

// Convenience severity-specific helpers. Like Report they write errors to
// the fallback.

func (r *Reporter) High(s string)         { r.Report(SEVERITY_HIGH, s) }
func (r *Reporter) Medium(s string)       { r.Report(SEVERITY_MEDIUM, s) }
func (r *Reporter) Low(s string)          { r.Report(SEVERITY_LOW, s) }
func (r *Reporter) Notification(s string) { r.Report(SEVERITY_NOTIFICATION, s) }

// Reports an error value at HIGH severity.
func (r *Reporter) Err(e error) {
	r.Report(SEVERITY_HIGH, e.Error())
}
