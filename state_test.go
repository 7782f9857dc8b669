package dbgout

import (
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_NewState(t *testing.T) {
	s := NewState()
	assert.False(t, s.DebugOutput(), "output must be disabled on a new state")
	assert.False(t, s.SyncOutput())
	assert.Equal(t, MAX_DEBUG_LOGGED_MESSAGES, s.LogCapacity())
	assert.Equal(t, MAX_DEBUG_GROUP_STACK_DEPTH-1, s.MaxGroupDepth())
	assert.Zero(t, s.GroupDepth())
	assert.Zero(t, s.LoggedMessages())
	assert.Zero(t, s.NextMessageLength())
	cb, data := s.Callback()
	assert.Nil(t, cb)
	assert.Nil(t, data)

	assert.Same(t, s, s.SetDebugOutput(true).SetSyncOutput(true).SetFallback(nil).SetTextBudget(-1).SetOverrideBudget(-5))
	assert.True(t, s.DebugOutput())
	assert.True(t, s.SyncOutput())
	s.Destroy()
	assert.NotPanics(t, s.Destroy, "second destroy")
}

func Test_State_Emit(t *testing.T) {
	s, _ := newTestState(0, 0)
	t.Run("output_disabled", func(t *testing.T) {
		s.SetDebugOutput(false)
		assert.NoError(t, s.Emit(SOURCE_API, TYPE_ERROR, 1, SEVERITY_HIGH, "dropped"))
		assert.Zero(t, s.LoggedMessages())
		s.SetDebugOutput(true)
	})
	t.Run("filtered_by_default", func(t *testing.T) {
		assert.NoError(t, s.Emit(SOURCE_API, TYPE_ERROR, 1, SEVERITY_LOW, "dropped"))
		assert.NoError(t, s.Emit(SOURCE_API, TYPE_ERROR, 1, SEVERITY_NOTIFICATION, "dropped"))
		assert.Zero(t, s.LoggedMessages())
	})
	t.Run("logged", func(t *testing.T) {
		assert.NoError(t, s.Emit(SOURCE_API, TYPE_ERROR, 1, SEVERITY_MEDIUM, testmsgstr))
		assert.Equal(t, 1, s.LoggedMessages())
		assert.Equal(t, len(testmsgstr)+1, s.NextMessageLength())
	})
	t.Run("rejected", func(t *testing.T) {
		assert.ErrorIs(t, s.Emit(_SOURCE_MAX_for_checks_only, TYPE_ERROR, 1, SEVERITY_HIGH, "x"), ErrInvalidEnum)
		assert.ErrorIs(t, s.Emit(SOURCE_API, TYPE_DONT_CARE, 1, SEVERITY_HIGH, "x"), ErrInvalidEnum)
		assert.ErrorIs(t, s.Emit(SOURCE_API, TYPE_ERROR, 1, SEVERITY_DONT_CARE, "x"), ErrInvalidEnum)
		long := string(make([]byte, MAX_DEBUG_MESSAGE_LENGTH))
		assert.ErrorIs(t, s.Emit(SOURCE_API, TYPE_ERROR, 1, SEVERITY_HIGH, long), ErrInvalidValue)
		assert.NoError(t, s.Emit(SOURCE_API, TYPE_ERROR, 1, SEVERITY_HIGH, long[1:]))
		assert.Equal(t, 2, s.LoggedMessages())
	})
}

// Capacity 10 log, 11 messages: the 11th is dropped, 1..10 come back.
func Test_State_Fetch_dropNewest(t *testing.T) {
	s, _ := newTestState(10, 0)
	for i := 1; i <= 11; i++ {
		s.Emit(SOURCE_APPLICATION, TYPE_OTHER, uint32(i), SEVERITY_HIGH, "#"+strconv.Itoa(i))
	}
	assert.Equal(t, 10, s.LoggedMessages())
	msgs := s.Fetch(100, -1)
	assert.Len(t, msgs, 10)
	for i, msg := range msgs {
		assert.Equal(t, uint32(i+1), msg.ID)
		assert.Equal(t, "#"+strconv.Itoa(i+1), msg.Text)
		assert.Zero(t, msg.reserved)
	}
	assert.Zero(t, s.LoggedMessages())
	assert.Empty(t, s.Fetch(100, -1))
}

func Test_State_Fetch_limits(t *testing.T) {
	s, _ := newTestState(0, 0)
	for _, text := range []string{"aa", "bbbb", "c"} {
		s.Emit(SOURCE_APPLICATION, TYPE_OTHER, 1, SEVERITY_HIGH, text)
	}
	assert.Empty(t, s.Fetch(0, -1))
	assert.Empty(t, s.Fetch(3, 2), "first message does not fit")
	msgs := s.Fetch(3, 7)
	assert.Len(t, msgs, 1, "second message does not fit the rest")
	assert.Equal(t, "aa", msgs[0].Text)
	assert.Equal(t, 5, s.NextMessageLength())
	msgs = s.Fetch(1, 100)
	assert.Len(t, msgs, 1)
	assert.Equal(t, "bbbb", msgs[0].Text)
	msgs = s.Fetch(5, 2)
	assert.Len(t, msgs, 1)
	assert.Equal(t, 2, msgs[0].Length)
}

func Test_State_Callback(t *testing.T) {
	s, ferr := newTestState(0, 0)
	s.Emit(SOURCE_APPLICATION, TYPE_OTHER, 1, SEVERITY_HIGH, "logged before")
	sink := &callbackSink{}
	userData := &struct{ n int }{7}
	s.RegisterCallback(sink.callback, userData)
	s.Emit(SOURCE_APPLICATION, TYPE_MARKER, 2, SEVERITY_HIGH, "delivered")
	s.Emit(SOURCE_APPLICATION, TYPE_MARKER, 3, SEVERITY_LOW, "filtered")

	assert.Equal(t, 1, s.LoggedMessages(), "registration is not retroactive")
	assert.Len(t, sink.msgs, 1)
	assert.Equal(t, "delivered", sink.msgs[0].Text)
	assert.Equal(t, uint32(2), sink.msgs[0].ID)
	assert.Same(t, userData, sink.data[0])

	t.Run("panic_recovered", func(t *testing.T) {
		s.RegisterCallback(panicCallback, nil)
		assert.NotPanics(t, func() {
			assert.NoError(t, s.Emit(SOURCE_APPLICATION, TYPE_MARKER, 4, SEVERITY_HIGH, "boom"))
		})
		assert.Contains(t, ferr.String(), "panic in debug callback: `"+panicStr+"`")
		cb, _ := s.Callback()
		assert.NotNil(t, cb, "callback stays registered")
	})
	t.Run("unregister", func(t *testing.T) {
		s.RegisterCallback(nil, nil)
		s.Emit(SOURCE_APPLICATION, TYPE_MARKER, 5, SEVERITY_HIGH, "back to log")
		assert.Equal(t, 2, s.LoggedMessages())
	})
}

func Test_State_SetMessageEnable(t *testing.T) {
	s, _ := newTestState(0, 0)
	// two ids of one namespace: enabling 5 leaves 7 on the default
	assert.NoError(t, s.SetMessageEnable(SOURCE_THIRD_PARTY, TYPE_PERFORMANCE, 5, true))
	for sev := range _SEVERITY_MAX_for_checks_only {
		assert.True(t, s.IsMessageEnabled(SOURCE_THIRD_PARTY, TYPE_PERFORMANCE, 5, sev))
	}
	assert.False(t, s.IsMessageEnabled(SOURCE_THIRD_PARTY, TYPE_PERFORMANCE, 7, SEVERITY_LOW))
	assert.True(t, s.IsMessageEnabled(SOURCE_THIRD_PARTY, TYPE_PERFORMANCE, 7, SEVERITY_HIGH))

	assert.NoError(t, s.SetMessageEnable(SOURCE_THIRD_PARTY, TYPE_PERFORMANCE, 5, false))
	for sev := range _SEVERITY_MAX_for_checks_only {
		assert.False(t, s.IsMessageEnabled(SOURCE_THIRD_PARTY, TYPE_PERFORMANCE, 5, sev))
	}
	assert.True(t, s.IsMessageEnabled(SOURCE_THIRD_PARTY, TYPE_PERFORMANCE, 7, SEVERITY_HIGH))

	assert.ErrorIs(t, s.SetMessageEnable(SOURCE_DONT_CARE, TYPE_OTHER, 1, true), ErrInvalidEnum)
	assert.ErrorIs(t, s.SetMessageEnable(SOURCE_API, _TYPE_MAX_for_checks_only, 1, true), ErrInvalidEnum)
	assert.False(t, s.IsMessageEnabled(SOURCE_API, TYPE_OTHER, 1, SEVERITY_DONT_CARE))

	t.Run("override_budget", func(t *testing.T) {
		s.SetOverrideBudget(1)
		assert.NoError(t, s.SetMessageEnable(SOURCE_API, TYPE_OTHER, 1, true))
		assert.ErrorIs(t, s.SetMessageEnable(SOURCE_API, TYPE_OTHER, 2, true), ErrOutOfMemory)
		assert.False(t, s.IsMessageEnabled(SOURCE_API, TYPE_OTHER, 2, SEVERITY_LOW))
		assert.NoError(t, s.SetMessageEnable(SOURCE_API, TYPE_MARKER, 2, true), "budget is per namespace")
	})
}

func Test_State_SetMessageEnableIDs(t *testing.T) {
	s, _ := newTestState(0, 0)
	s.SetOverrideBudget(3)
	assert.NoError(t, s.SetMessageEnableIDs(SOURCE_SHADER_COMPILER, TYPE_OTHER, []uint32{1, 2}, false))
	assert.ErrorIs(t, s.SetMessageEnableIDs(SOURCE_SHADER_COMPILER, TYPE_OTHER, []uint32{3, 4}, false), ErrOutOfMemory)
	for _, id := range []uint32{3, 4} {
		assert.True(t, s.IsMessageEnabled(SOURCE_SHADER_COMPILER, TYPE_OTHER, id, SEVERITY_HIGH), "id %d", id)
	}
	// already overridden ids take no room
	assert.NoError(t, s.SetMessageEnableIDs(SOURCE_SHADER_COMPILER, TYPE_OTHER, []uint32{1, 2, 3}, false))
	assert.False(t, s.IsMessageEnabled(SOURCE_SHADER_COMPILER, TYPE_OTHER, 3, SEVERITY_HIGH))
	assert.Equal(t, 3, s.groups.top().namespace(SOURCE_SHADER_COMPILER, TYPE_OTHER).overrides())
	// a rejected call leaves a shared group shared
	assert.NoError(t, s.PushGroup(SOURCE_APPLICATION, 1, "g"))
	assert.ErrorIs(t, s.SetMessageEnableIDs(SOURCE_SHADER_COMPILER, TYPE_OTHER, []uint32{5}, false), ErrOutOfMemory)
	assert.True(t, s.groups.isShared())
	assert.ErrorIs(t, s.SetMessageEnableIDs(SOURCE_DONT_CARE, TYPE_OTHER, []uint32{5}, false), ErrInvalidEnum)
}

func Test_State_SetMessageEnableBulk(t *testing.T) {
	t.Run("disable_everything", func(t *testing.T) {
		s, _ := newTestState(0, 0)
		s.SetMessageEnable(SOURCE_API, TYPE_ERROR, 3, true)
		assert.NoError(t, s.SetMessageEnableBulk(SOURCE_DONT_CARE, TYPE_DONT_CARE, SEVERITY_DONT_CARE, false))
		for src := range _SOURCE_MAX_for_checks_only {
			for mt := range _TYPE_MAX_for_checks_only {
				for sev := range _SEVERITY_MAX_for_checks_only {
					for _, id := range []uint32{0, 3, 1000} {
						assert.False(t, s.IsMessageEnabled(src, mt, id, sev))
					}
				}
			}
		}
	})
	t.Run("one_axis", func(t *testing.T) {
		s, _ := newTestState(0, 0)
		assert.NoError(t, s.SetMessageEnableBulk(SOURCE_SHADER_COMPILER, TYPE_DONT_CARE, SEVERITY_LOW, true))
		for mt := range _TYPE_MAX_for_checks_only {
			assert.True(t, s.IsMessageEnabled(SOURCE_SHADER_COMPILER, mt, 1, SEVERITY_LOW))
			assert.False(t, s.IsMessageEnabled(SOURCE_WINDOW_SYSTEM, mt, 1, SEVERITY_LOW))
		}
		assert.NoError(t, s.SetMessageEnableBulk(SOURCE_DONT_CARE, TYPE_MARKER, SEVERITY_HIGH, false))
		for src := range _SOURCE_MAX_for_checks_only {
			assert.False(t, s.IsMessageEnabled(src, TYPE_MARKER, 1, SEVERITY_HIGH))
			assert.True(t, s.IsMessageEnabled(src, TYPE_MARKER, 1, SEVERITY_MEDIUM))
		}
	})
	t.Run("rejected", func(t *testing.T) {
		s, _ := newTestState(0, 0)
		assert.ErrorIs(t, s.SetMessageEnableBulk(_SOURCE_MAX_for_checks_only, TYPE_DONT_CARE, SEVERITY_DONT_CARE, false), ErrInvalidEnum)
		assert.ErrorIs(t, s.SetMessageEnableBulk(SOURCE_API, TYPE_DONT_CARE, _SEVERITY_MAX_for_checks_only, false), ErrInvalidEnum)
		assert.True(t, s.IsMessageEnabled(SOURCE_API, TYPE_ERROR, 1, SEVERITY_HIGH))
	})
}

// Group push disables API errors, pop brings them back.
func Test_State_Groups_filterScope(t *testing.T) {
	s, _ := newTestState(0, 0)
	assert.NoError(t, s.PushGroup(SOURCE_APPLICATION, 1, "scopeA"))
	assert.NoError(t, s.SetMessageEnableBulk(SOURCE_API, TYPE_ERROR, SEVERITY_DONT_CARE, false))
	s.Emit(SOURCE_API, TYPE_ERROR, 9, SEVERITY_HIGH, "inside")
	assert.Zero(t, s.LoggedMessages())
	assert.NoError(t, s.PopGroup())
	s.Emit(SOURCE_API, TYPE_ERROR, 9, SEVERITY_HIGH, "outside")
	msgs := s.Fetch(10, -1)
	assert.Len(t, msgs, 1)
	assert.Equal(t, "outside", msgs[0].Text)
}

func Test_State_Groups_messages(t *testing.T) {
	s, _ := newTestState(0, 0)
	s.SetMessageEnableBulk(SOURCE_APPLICATION, TYPE_DONT_CARE, SEVERITY_NOTIFICATION, true)
	assert.NoError(t, s.PushGroup(SOURCE_APPLICATION, 11, "outer"))
	assert.NoError(t, s.PushGroup(SOURCE_APPLICATION, 12, "inner"))
	// disabling pop messages inside the group must not affect the pop of
	// this group: the pop is routed with the parent filters
	s.SetMessageEnableBulk(SOURCE_APPLICATION, TYPE_POP_GROUP, SEVERITY_DONT_CARE, false)
	assert.NoError(t, s.PopGroup())
	assert.NoError(t, s.PopGroup())

	msgs := s.Fetch(10, -1)
	expect := []struct {
		msgType MsgType
		id      uint32
		text    string
	}{
		{TYPE_PUSH_GROUP, 11, "outer"},
		{TYPE_PUSH_GROUP, 12, "inner"},
		{TYPE_POP_GROUP, 12, "inner"},
		{TYPE_POP_GROUP, 11, "outer"},
	}
	assert.Len(t, msgs, len(expect))
	for i, e := range expect {
		assert.Equal(t, SOURCE_APPLICATION, msgs[i].Source)
		assert.Equal(t, SEVERITY_NOTIFICATION, msgs[i].Severity)
		assert.Equal(t, e.msgType, msgs[i].Type)
		assert.Equal(t, e.id, msgs[i].ID)
		assert.Equal(t, e.text, msgs[i].Text)
	}
	for i := range s.groupMsgs {
		assert.Equal(t, Message{}, s.groupMsgs[i], "saved message not released")
	}
	assert.Zero(t, s.budget.held)
}

// Push to the deepest level, fail once, pop back to 0, fail once.
func Test_State_Groups_bounds(t *testing.T) {
	s, _ := newTestState(0, 0)
	maxDepth := s.MaxGroupDepth()
	assert.Equal(t, MAX_DEBUG_GROUP_STACK_DEPTH-1, maxDepth)
	for i := 1; i <= maxDepth; i++ {
		assert.NoError(t, s.PushGroup(SOURCE_APPLICATION, uint32(i), "g"+strconv.Itoa(i)))
		assert.Equal(t, i, s.GroupDepth())
	}
	assert.ErrorIs(t, s.PushGroup(SOURCE_APPLICATION, 0, "too deep"), ErrStackOverflow)
	assert.Equal(t, maxDepth, s.GroupDepth())
	for i := maxDepth - 1; i >= 0; i-- {
		assert.NoError(t, s.PopGroup())
		assert.Equal(t, i, s.GroupDepth())
	}
	assert.ErrorIs(t, s.PopGroup(), ErrStackUnderflow)
	assert.Zero(t, s.GroupDepth())

	assert.ErrorIs(t, s.PushGroup(SOURCE_DONT_CARE, 0, "x"), ErrInvalidEnum)
	assert.ErrorIs(t, s.PushGroup(SOURCE_API, 0, string(make([]byte, MAX_DEBUG_MESSAGE_LENGTH))), ErrInvalidValue)
	assert.Zero(t, s.GroupDepth())
}

// Snapshot of every namespace as seen through IsMessageEnabled for a few ids.
func filterSnapshot(s *State, ids []uint32) []bool {
	var snap []bool
	for src := range _SOURCE_MAX_for_checks_only {
		for mt := range _TYPE_MAX_for_checks_only {
			for sev := range _SEVERITY_MAX_for_checks_only {
				for _, id := range ids {
					snap = append(snap, s.IsMessageEnabled(src, mt, id, sev))
				}
			}
		}
	}
	return snap
}

// Random changes inside nested groups never leak to the parent level.
func Test_State_Groups_roundTrip(t *testing.T) {
	Rand := rand.New(rand.NewSource(time.Now().UnixNano()))
	ids := []uint32{1, 2, 3}
	s, _ := newTestState(0, 8)

	randomChange := func() {
		src := Source(Rand.Intn(int(_SOURCE_MAX_for_checks_only)))
		mt := MsgType(Rand.Intn(int(_TYPE_MAX_for_checks_only)))
		if Rand.Intn(2) == 0 {
			s.SetMessageEnable(src, mt, ids[Rand.Intn(len(ids))], Rand.Intn(2) == 0)
		} else {
			s.SetMessageEnableBulk(src, mt, Severity(Rand.Intn(int(_SEVERITY_MAX_for_checks_only))), Rand.Intn(2) == 0)
		}
	}

	var snapshots [][]bool
	for range 200 {
		if Rand.Intn(3) == 0 {
			randomChange()
			continue
		}
		if s.GroupDepth() < s.MaxGroupDepth() && Rand.Intn(2) == 0 {
			snapshots = append(snapshots, filterSnapshot(s, ids))
			assert.NoError(t, s.PushGroup(SOURCE_THIRD_PARTY, 0, "level"))
		} else if s.GroupDepth() > 0 {
			assert.NoError(t, s.PopGroup())
			last := len(snapshots) - 1
			assert.Equal(t, snapshots[last], filterSnapshot(s, ids), "filters changed across push/pop")
			snapshots = snapshots[:last]
		}
	}
}

func Test_State_TextBudget(t *testing.T) {
	s, _ := newTestState(0, 0)
	s.SetTextBudget(10)
	s.Emit(SOURCE_APPLICATION, TYPE_OTHER, 1, SEVERITY_HIGH, "12345678") // 9 bytes
	s.Emit(SOURCE_APPLICATION, TYPE_OTHER, 2, SEVERITY_HIGH, "12")       // does not fit
	msgs := s.Fetch(10, -1)
	assert.Len(t, msgs, 2)
	assert.Equal(t, "12345678", msgs[0].Text)
	assert.Equal(t, OUT_OF_MEMORY_TEXT, msgs[1].Text)
	assert.Equal(t, SOURCE_OTHER, msgs[1].Source)
	assert.Equal(t, EnsureID(&oomMsgID), msgs[1].ID)

	s.Emit(SOURCE_APPLICATION, TYPE_OTHER, 3, SEVERITY_HIGH, "12")
	assert.Equal(t, "12", s.Fetch(1, -1)[0].Text, "budget released after fetch")
}

func Test_State_Destroy(t *testing.T) {
	s, _ := newTestState(0, 0)
	s.Emit(SOURCE_APPLICATION, TYPE_OTHER, 1, SEVERITY_HIGH, "x")
	s.PushGroup(SOURCE_APPLICATION, 1, "g")
	s.SetMessageEnable(SOURCE_API, TYPE_ERROR, 1, false)
	s.RegisterCallback((&callbackSink{}).callback, 1)
	s.Destroy()
	assert.Zero(t, s.budget.held)
	assert.Nil(t, s.groups)
	cb, data := s.Callback()
	assert.Nil(t, cb)
	assert.Nil(t, data)
}
