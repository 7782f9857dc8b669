package dbgout

/*********************************************************************************
io.Writer interface implementation

The Reporter implements io.Writer so it can be used with fmt.Fprintf and
other formatting helpers:
 - Sev(severity) sets the severity used by subsequent Write calls.
 - Write(p) emits p as one message at that severity and returns len(p) on
   success, 0 and a non-nil error on failure.

Text longer than the message limit is truncated, not rejected.
*/

// Sev sets the reporter's current severity (used by Write/fmt.Fprintf) and
// returns the same reporter for convenient chaining:
//
//	fmt.Fprintf(rep.Sev(SEVERITY_LOW), "recompiling %d shaders", n)
func (r *Reporter) Sev(severity Severity) *Reporter {
	r.curSev = norm_byte(severity, _SEVERITY_MAX_for_checks_only, SEVERITY_NOTIFICATION)
	return r
}

// Write implements io.Writer. A nil payload is a zero-length write with no
// error and emits nothing.
func (r *Reporter) Write(p []byte) (n int, err error) {
	if p == nil {
		return 0, nil
	}
	err = r.Report_with_err(r.curSev, truncateText(string(p)))
	if err == nil {
		n = len(p)
	}
	return
}
