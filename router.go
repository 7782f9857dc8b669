package dbgout

/*
Message routing. Every message, generated internally or inserted by the
application, passes through logMsg:
  - dropped while debug output is disabled
  - dropped when the current top-of-stack group filters it out
  - delivered to the registered callback, or appended to the message log
    when there is none (dropped silently if the log is full)

Problems met while routing (a panicking callback) are reported to the
fallback writer; they never reach the caller.
*/

// Full check used by the router: output flag plus current group filters.
func (s *State) isMessageEnabled(source Source, msgType MsgType, id uint32, severity Severity) bool {
	if !s.debugOutput {
		return false
	}
	return s.groups.top().namespace(source, msgType).get(id, severity)
}

// Routes a message whose classification and length are already validated.
// Returns true if the message was delivered to the callback or the log.
func (s *State) logMsg(source Source, msgType MsgType, id uint32, severity Severity, text string) bool {
	if !s.isMessageEnabled(source, msgType, id, severity) {
		return false
	}
	if s.callback != nil {
		return s.deliver(source, msgType, id, severity, text)
	}
	return s.log.enqueue(source, msgType, id, severity, text)
}

// Calls the registered callback. A panic inside the callback is recovered
// and written to the fallback, the callback stays registered.
func (s *State) deliver(source Source, msgType MsgType, id uint32, severity Severity, text string) (delivered bool) {
	defer func() {
		if r := recover(); r != nil {
			delivered = false
			s.fbckWriteln("panic in debug callback" + panicDesc(r))
		}
	}()
	s.callback(source, msgType, id, severity, text, s.callbackData)
	return true
}

// Writes a single-line message to the fallback writer.
func (s *State) fbckWriteln(str string) {
	if s.fallbck != nil {
		s.fallbck.Write([]byte(str + "\n"))
	}
}
