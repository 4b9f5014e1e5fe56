package domain

// ReportHandle points at an exported plan document.
type ReportHandle struct {
	Path string
}

// PlanResult is the outcome of one planning request. Report is nil when
// planning failed, in which case FinalText carries the error message.
type PlanResult struct {
	FinalText string
	Report    *ReportHandle
}

// OK reports whether a plan was produced.
func (r PlanResult) OK() bool { return r.Report != nil }

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message in a conversation.
type Turn struct {
	Role    Role
	Content string
}
