package runstream

// ApprovalStatus tracks the human-confirmation lifecycle of a tool call.
// Pending is the only non-terminal status: it transitions to Approved
// either explicitly (a resolution event) or implicitly (the tool call
// completes while still pending). Denied and Timeout are exclusively
// explicit transitions.
type ApprovalStatus string

const (
	ApprovalNone     ApprovalStatus = "" // no approval required
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalDenied   ApprovalStatus = "denied"
	ApprovalTimeout  ApprovalStatus = "timeout"
)

// Terminal reports whether the status can no longer change for a given
// tool call.
func (s ApprovalStatus) Terminal() bool {
	switch s {
	case ApprovalApproved, ApprovalDenied, ApprovalTimeout:
		return true
	}
	return false
}

// ForcesCompletion reports whether resolving with this status marks the
// tool call completed regardless of whether a result exists. The tool will
// never run, so no completion frame follows.
func (s ApprovalStatus) ForcesCompletion() bool {
	return s == ApprovalDenied || s == ApprovalTimeout
}
