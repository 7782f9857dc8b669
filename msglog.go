package dbgout

import "strings"

// Shared by every out-of-memory sentinel message in the process.
var oomMsgID uint32

// textBudget limits the bytes of message text held by one debug state.
// A zero limit means no limit.
type textBudget struct {
	limit int
	held  int
}

func (b *textBudget) reserve(n int) bool {
	if b.limit > 0 && b.held+n > b.limit {
		return false
	}
	b.held += n
	return true
}

func (b *textBudget) release(n int) {
	b.held -= n
	if b.held < 0 {
		b.held = 0
	}
}

// Stores a copy of text in msg. If the budget refuses the text, the
// out-of-memory sentinel is stored instead (OTHER/ERROR/HIGH with one
// process-wide id).
func storeMessage(msg *Message, budget *textBudget, source Source, msgType MsgType,
	id uint32, severity Severity, text string) {
	size := len(text) + 1
	if budget.reserve(size) {
		*msg = Message{
			Source:   source,
			Type:     msgType,
			ID:       id,
			Severity: severity,
			Length:   size,
			Text:     strings.Clone(text),
			reserved: size,
		}
		return
	}
	*msg = Message{
		Source:   SOURCE_OTHER,
		Type:     TYPE_ERROR,
		ID:       EnsureID(&oomMsgID),
		Severity: SEVERITY_HIGH,
		Length:   len(OUT_OF_MEMORY_TEXT) + 1,
		Text:     OUT_OF_MEMORY_TEXT,
	}
}

// Releases the text of msg back to the budget and zeroes it.
func clearMessage(msg *Message, budget *textBudget) {
	budget.release(msg.reserved)
	*msg = Message{}
}

/////////////////////////////////////////////////////////////////////////////////////////

// messageLog is a fixed-capacity ring of messages. Valid messages occupy
// (next, next+1, ..., next+count-1) mod capacity. When full, new messages
// are dropped and the oldest ones are kept.
type messageLog struct {
	messages []Message
	budget   *textBudget
	next     int // index of the oldest message
	count    int
}

func newMessageLog(capacity int, budget *textBudget) *messageLog {
	return &messageLog{
		messages: make([]Message, norm_positive(capacity, MAX_DEBUG_LOGGED_MESSAGES)),
		budget:   budget,
	}
}

// Appends a message; returns false if the log is full and the message was dropped.
func (ml *messageLog) enqueue(source Source, msgType MsgType, id uint32, severity Severity, text string) bool {
	if ml.count == len(ml.messages) {
		return false
	}
	slot := &ml.messages[(ml.next+ml.count)%len(ml.messages)]
	storeMessage(slot, ml.budget, source, msgType, id, severity, text)
	ml.count++
	return true
}

// Oldest message or nil if the log is empty.
func (ml *messageLog) peek() *Message {
	if ml.count == 0 {
		return nil
	}
	return &ml.messages[ml.next]
}

// Deletes up to n oldest messages and returns how many were deleted.
func (ml *messageLog) dequeue(n int) int {
	n = min(max(n, 0), ml.count)
	for range n {
		clearMessage(&ml.messages[ml.next], ml.budget)
		ml.next = (ml.next + 1) % len(ml.messages)
		ml.count--
	}
	return n
}

func (ml *messageLog) clear() {
	ml.dequeue(ml.count)
	ml.next = 0
}

func (ml *messageLog) len() int      { return ml.count }
func (ml *messageLog) capacity() int { return len(ml.messages) }
