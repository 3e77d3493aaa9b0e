package runstream

// Event is a sealed interface representing one decoded frame from the run
// stream. Events are purely semantic. Transport and protocol errors come
// from Source.Next()'s error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventRunStarted opens a run. SessionID, when present, is surfaced through
// Hooks.OnSessionID.
type EventRunStarted struct {
	SessionID string
}

func (EventRunStarted) event() {}

// EventAssistantMessageID announces the identifier the backend assigned to
// the assistant message being streamed.
type EventAssistantMessageID struct {
	ID string
}

func (EventAssistantMessageID) event() {}

// EventRunContent carries a text token delta.
type EventRunContent struct {
	Content string
}

func (EventRunContent) event() {}

// EventSeedBlocks replaces the transcript wholesale, hydrating state from a
// previously-persisted transcript (e.g. on reconnect).
type EventSeedBlocks struct {
	Blocks []ContentBlock
}

func (EventSeedBlocks) event() {}

// EventReasoningStarted signals the start of a reasoning phase.
type EventReasoningStarted struct{}

func (EventReasoningStarted) event() {}

// EventReasoningStep carries a reasoning token delta.
type EventReasoningStep struct {
	Content string
}

func (EventReasoningStep) event() {}

// EventReasoningCompleted finalizes the open reasoning block.
type EventReasoningCompleted struct{}

func (EventReasoningCompleted) event() {}

// EventToolCallStarted signals a tool invocation. Call carries the id,
// name, and arguments; the transcript upserts by Call.ID so a tool
// re-invoked under the same id reuses its block.
type EventToolCallStarted struct {
	Call ToolCallBlock
}

func (EventToolCallStarted) event() {}

// EventToolCallCompleted finalizes the tool call identified by ID.
// HasResult distinguishes an empty result from a missing one.
type EventToolCallCompleted struct {
	ID        string
	Result    string
	HasResult bool
	Renderer  string
}

func (EventToolCallCompleted) event() {}

// EventToolApprovalRequired pauses the run until a human decides on the
// listed tools. Each entry carries id, name, arguments, and optionally
// which arguments are editable.
type EventToolApprovalRequired struct {
	RunID string
	Tools []ToolCallBlock
}

func (EventToolApprovalRequired) event() {}

// EventToolApprovalResolved reports the decision for one tool call.
// Args, when non-nil, replaces the tool's arguments with the human-edited
// values.
type EventToolApprovalResolved struct {
	ID     string
	Status ApprovalStatus
	Args   map[string]any
}

func (EventToolApprovalResolved) event() {}

// EventRunCompleted ends the run normally.
type EventRunCompleted struct{}

func (EventRunCompleted) event() {}

// EventRunError ends the run with a user-visible error message.
type EventRunError struct {
	Content string
}

func (EventRunError) event() {}

// Interface compliance checks.
var (
	_ Event = EventRunStarted{}
	_ Event = EventAssistantMessageID{}
	_ Event = EventRunContent{}
	_ Event = EventSeedBlocks{}
	_ Event = EventReasoningStarted{}
	_ Event = EventReasoningStep{}
	_ Event = EventReasoningCompleted{}
	_ Event = EventToolCallStarted{}
	_ Event = EventToolCallCompleted{}
	_ Event = EventToolApprovalRequired{}
	_ Event = EventToolApprovalResolved{}
	_ Event = EventRunCompleted{}
	_ Event = EventRunError{}
)
