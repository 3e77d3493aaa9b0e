package runstream

// ContentBlock is a sealed interface representing one renderable unit of
// assistant output. The unexported marker method prevents external
// implementations.
type ContentBlock interface {
	contentBlock()
}

// TextBlock contains assistant text content.
type TextBlock struct {
	Content string
}

func (TextBlock) contentBlock() {}

// ReasoningBlock contains reasoning/thinking content. Completed is false
// only while the block is still accumulating tokens; a finalized reasoning
// block always carries Completed = true.
type ReasoningBlock struct {
	Content   string
	Completed bool
}

func (ReasoningBlock) contentBlock() {}

// ToolCallBlock represents one tool invocation. A block is uniquely
// identified by ID for the lifetime of a run and is mutated in place as
// lifecycle events arrive, rather than appended anew.
type ToolCallBlock struct {
	ID        string
	Name      string
	Args      map[string]any
	Result    string
	HasResult bool
	Completed bool

	// Approval workflow. RunID and ToolCallID key the out-of-band decision
	// submission; EditableArgs names the arguments a human may revise before
	// approving (AllArgsEditable marks every argument editable).
	RequiresApproval bool
	Approval         ApprovalStatus
	RunID            string
	ToolCallID       string
	EditableArgs     []string
	AllArgsEditable  bool

	// Renderer is an optional hint naming a specialized result view.
	Renderer string
}

func (ToolCallBlock) contentBlock() {}

// ErrorBlock carries a human-readable run failure message.
type ErrorBlock struct {
	Content string
}

func (ErrorBlock) contentBlock() {}

// Interface compliance checks.
var (
	_ ContentBlock = TextBlock{}
	_ ContentBlock = ReasoningBlock{}
	_ ContentBlock = ToolCallBlock{}
	_ ContentBlock = ErrorBlock{}
)
