package dbgout

import (
	"io"
	"os"

	"github.com/google/uuid"
)

// Params holds the settings used when a context creates its debug state.
type Params struct {
	LogCapacity    int  // message log capacity
	GroupSlots     int  // group stack slots (deepest push reaches GroupSlots-1)
	TextBudget     int  // bytes of stored message text, 0 for no limit
	OverrideBudget int  // per-id overrides per namespace, 0 for no limit
	DebugOutput    bool // debug output enabled on creation (debug contexts)
	SyncOutput     bool // synchronous output flag on creation
	Diagnostics    bool // echo recorded errors and warnings to the fallback writer
}

// Default values for short init forms
func DefaultParams() Params {
	return Params{
		LogCapacity: MAX_DEBUG_LOGGED_MESSAGES,
		GroupSlots:  MAX_DEBUG_GROUP_STACK_DEPTH,
	}
}

// Context stands for the per-context state of the graphics runtime that
// owns the debug facilities: it creates the debug State on first use,
// keeps the sticky API error and reports internal diagnostics.
//
// Like State, a Context is used by one goroutine at a time.
type Context struct {
	id      uuid.UUID
	params  Params
	debug   *State
	fallbck OutType
	errors  struct {
		value    ErrorCode // sticky error returned (and reset) by GetError
		lastCode ErrorCode // last error echoed to the fallback
		lastFmt  string    // format of the last echoed error
		count    int       // similar errors not echoed yet
	}
}

// Short form of NewContextWithParams: default params and [os.Stderr] as
// fallback.
func NewContext() *Context {
	return NewContextWithParams(DefaultParams(), os.Stderr)
}

// NewContextWithParams creates a context with explicit debug settings and
// fallback writer (nil discards diagnostics). The debug state itself is
// created lazily.
func NewContextWithParams(params Params, fallback OutType) *Context {
	c := &Context{id: uuid.New(), params: params}
	c.SetFallback(fallback)
	return c
}

// Unique context identifier, used to prefix diagnostics.
func (c *Context) ID() uuid.UUID { return c.id }

// Settings used for debug state creation.
func (c *Context) Params() Params { return c.params }

// DebugState returns the debug state of the context, creating it on the
// first call.
func (c *Context) DebugState() *State {
	if c.debug == nil {
		c.debug = NewStateWithParams(c.params.LogCapacity, c.params.GroupSlots, c.fallbck).
			SetTextBudget(c.params.TextBudget).
			SetOverrideBudget(c.params.OverrideBudget).
			SetDebugOutput(c.params.DebugOutput).
			SetSyncOutput(c.params.SyncOutput)
	}
	return c.debug
}

// True once the debug state has been created.
func (c *Context) HasDebugState() bool { return c.debug != nil }

// Free destroys the debug state (if any). A later debug call creates a
// fresh one.
func (c *Context) Free() {
	if c.debug != nil {
		c.debug.Destroy()
		c.debug = nil
	}
}

// Sets the fallback writer for the context and its debug state; nil
// discards diagnostics.
func (c *Context) SetFallback(f OutType) *Context {
	if f == nil {
		f = io.Discard
	}
	c.fallbck = f
	if c.debug != nil {
		c.debug.SetFallback(f)
	}
	return c
}

// Enables echoing of recorded errors and warnings to the fallback writer.
func (c *Context) SetDiagnostics(enabled bool) *Context {
	c.params.Diagnostics = enabled
	return c
}

// Writes a single-line diagnostic prefixed with the short context id.
func (c *Context) fbckWriteln(s string) {
	c.fallbck.Write([]byte("dbgout[" + c.id.String()[:8] + "] " + s + "\n"))
}
