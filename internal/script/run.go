package script

import (
	"fmt"
	"io"
	"math"

	"github.com/abyssdigger/dbgout"
)

// Runner executes steps against one context, writing delivered and fetched
// messages to out.
type Runner struct {
	ctx *dbgout.Context
	out io.Writer
}

func NewRunner(ctx *dbgout.Context, out io.Writer) *Runner {
	return &Runner{ctx: ctx, out: out}
}

// Run executes every step of s against ctx. See Runner.Run.
func Run(ctx *dbgout.Context, s *Script, out io.Writer) error {
	return NewRunner(ctx, out).Run(s)
}

// Run executes the steps in order. A step whose call is rejected fails the
// run unless the step expects exactly that error code; a step expecting an
// error that does not happen fails too.
func (r *Runner) Run(s *Script) error {
	r.ctx.GetError() // start from a clean sticky error
	for i := range s.Steps {
		if err := r.step(&s.Steps[i]); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, s.Steps[i].Op, err)
		}
	}
	return nil
}

func (r *Runner) step(st *Step) error {
	want := dbgout.NO_ERROR
	if st.ExpectError != "" {
		code, err := parseErrorCode(st.ExpectError)
		if err != nil {
			return err
		}
		want = code
	}
	callErr := r.exec(st)
	got := r.ctx.GetError()
	switch {
	case callErr != nil && got == dbgout.NO_ERROR:
		return callErr // not an API rejection: bad name, unknown op
	case got == want:
		return nil
	case callErr != nil && want == dbgout.NO_ERROR:
		return callErr
	default:
		return fmt.Errorf("expected error %v, got %v", want, got)
	}
}

func (r *Runner) exec(st *Step) error {
	switch st.Op {
	case OpInsert:
		source, msgType, severity, err := r.classify(st)
		if err != nil {
			return err
		}
		return r.ctx.DebugMessageInsert(source, msgType, st.ID, severity, intOr(st.Length, -1), st.Text)
	case OpControl:
		source, msgType, severity, err := r.classify(st)
		if err != nil {
			return err
		}
		return r.ctx.DebugMessageControl(source, msgType, severity, st.IDs, boolOr(st.Enabled, true))
	case OpPush:
		source, err := parseOr(dbgout.ParseSource, st.Source)
		if err != nil {
			return err
		}
		return r.ctx.PushDebugGroup(source, st.ID, intOr(st.Length, -1), st.Text)
	case OpPop:
		return r.ctx.PopDebugGroup()
	case OpFetch:
		return r.fetch(st)
	case OpCallback:
		if boolOr(st.Enabled, true) {
			r.ctx.DebugMessageCallback(r.printMessage, nil)
		} else {
			r.ctx.DebugMessageCallback(nil, nil)
		}
		return nil
	case OpEnable:
		return r.ctx.SetInteger(dbgout.DEBUG_OUTPUT, boolInt(boolOr(st.Enabled, true)))
	case OpSync:
		return r.ctx.SetInteger(dbgout.DEBUG_OUTPUT_SYNCHRONOUS, boolInt(boolOr(st.Enabled, true)))
	case OpQuery:
		return r.query(st)
	default:
		return fmt.Errorf("%w %q", ErrUnknownOp, st.Op)
	}
}

// Parses the three classification names. Missing names mean dont_care.
func (r *Runner) classify(st *Step) (source dbgout.Source, msgType dbgout.MsgType, severity dbgout.Severity, err error) {
	if source, err = parseOr(dbgout.ParseSource, st.Source); err != nil {
		return
	}
	if msgType, err = parseOr(dbgout.ParseType, st.Type); err != nil {
		return
	}
	severity, err = parseOr(dbgout.ParseSeverity, st.Severity)
	return
}

func parseOr[T any](parse func(string) (T, error), name string) (T, error) {
	if name == "" {
		name = dbgout.DONT_CARE_NAME
	}
	return parse(name)
}

func (r *Runner) fetch(st *Step) error {
	count := st.Count
	if count <= 0 {
		count = math.MaxInt
	}
	msgs, err := r.ctx.GetDebugMessageLog(count, intOr(st.Size, math.MaxInt))
	if err != nil {
		return err
	}
	for _, m := range msgs {
		r.printMessage(m.Source, m.Type, m.ID, m.Severity, m.Text, nil)
	}
	return nil
}

func (r *Runner) query(st *Step) error {
	pname, err := dbgout.ParseParam(st.Param)
	if err != nil {
		return err
	}
	if pname == dbgout.DEBUG_CALLBACK_FUNCTION || pname == dbgout.DEBUG_CALLBACK_USER_PARAM {
		v, err := r.ctx.GetPointer(pname)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%v = %t\n", pname, v != nil)
		return nil
	}
	v, err := r.ctx.GetInteger(pname)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%v = %d\n", pname, v)
	return nil
}

func (r *Runner) printMessage(source dbgout.Source, msgType dbgout.MsgType, id uint32, severity dbgout.Severity, text string, _ any) {
	fmt.Fprintln(r.out, FormatMessage(source, msgType, id, severity, text))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
