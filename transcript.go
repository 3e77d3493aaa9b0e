package runstream

import "strings"

// ThinkTag is the in-band marker some models emit when they reason inline
// in the text channel instead of using dedicated reasoning events.
const ThinkTag = "<think>"

// DefaultErrorMessage is used for RunError frames whose payload carries no
// error text.
const DefaultErrorMessage = "An unknown error occurred"

// Transcript accumulates the content blocks of one assistant run.
//
// It is mutated exclusively by Apply, strictly in frame-arrival order, and
// is not safe for concurrent use. At most one of the text and reasoning
// accumulators is open at a time: appending to one finalizes the other.
type Transcript struct {
	hooks Hooks

	blocks        []ContentBlock
	openText      strings.Builder
	openReasoning strings.Builder
	thinkTagSeen  bool
}

// New returns an empty Transcript. Any of the hook fields may be nil.
func New(hooks Hooks) *Transcript {
	return &Transcript{hooks: hooks}
}

// Apply folds one event into the transcript. Events of kinds the
// transcript does not track (none today; the decoder filters them) are
// ignored.
func (t *Transcript) Apply(evt Event) {
	switch e := evt.(type) {
	case EventRunStarted:
		if e.SessionID != "" && t.hooks.OnSessionID != nil {
			t.hooks.OnSessionID(e.SessionID)
		}
	case EventAssistantMessageID:
		if e.ID != "" && t.hooks.OnMessageID != nil {
			t.hooks.OnMessageID(e.ID)
		}
	case EventRunContent:
		t.appendText(e.Content)
	case EventSeedBlocks:
		t.blocks = append([]ContentBlock(nil), e.Blocks...)
		t.openText.Reset()
		t.openReasoning.Reset()
	case EventReasoningStarted:
		t.flushText()
	case EventReasoningStep:
		if t.openText.Len() > 0 && t.openReasoning.Len() == 0 {
			t.flushText()
		}
		t.openReasoning.WriteString(e.Content)
	case EventReasoningCompleted:
		t.flushReasoning()
	case EventToolCallStarted:
		t.flushText()
		t.flushReasoning()
		t.upsertToolCall(e.Call)
	case EventToolApprovalRequired:
		t.flushText()
		t.flushReasoning()
		t.appendApprovalRequests(e)
	case EventToolCallCompleted:
		t.completeToolCall(e)
	case EventToolApprovalResolved:
		t.resolveApproval(e)
	case EventRunCompleted:
		t.flushText()
		t.flushReasoning()
	case EventRunError:
		t.flushText()
		t.flushReasoning()
		msg := e.Content
		if msg == "" {
			msg = DefaultErrorMessage
		}
		t.blocks = append(t.blocks, ErrorBlock{Content: msg})
	}
}

// Snapshot returns the renderable view of the transcript: finalized blocks
// followed by any open reasoning/text rendered as non-final entries. The
// result is a fresh slice, never empty, and safe to hand to another
// goroutine.
func (t *Transcript) Snapshot() []ContentBlock {
	out := make([]ContentBlock, 0, len(t.blocks)+2)
	out = append(out, t.blocks...)
	if t.openReasoning.Len() > 0 {
		out = append(out, ReasoningBlock{Content: t.openReasoning.String()})
	}
	if t.openText.Len() > 0 {
		out = append(out, TextBlock{Content: t.openText.String()})
	}
	if len(out) == 0 {
		out = append(out, TextBlock{})
	}
	return out
}

// ThinkTagSeen reports whether the think-tag marker has appeared in this
// run's text.
func (t *Transcript) ThinkTagSeen() bool {
	return t.thinkTagSeen
}

// appendText accumulates streamed text. If the text accumulator is empty
// but the last finalized block is a text block, that block is un-finalized
// first so one logical message doesn't fragment into many small blocks
// when reasoning interleaves with text.
func (t *Transcript) appendText(content string) {
	if t.openReasoning.Len() > 0 && t.openText.Len() == 0 {
		t.flushReasoning()
	}
	if t.openText.Len() == 0 {
		if n := len(t.blocks); n > 0 {
			if tb, ok := t.blocks[n-1].(TextBlock); ok {
				t.openText.WriteString(tb.Content)
				t.blocks = t.blocks[:n-1]
			}
		}
	}
	t.openText.WriteString(content)
	if !t.thinkTagSeen && strings.Contains(t.openText.String(), ThinkTag) {
		t.thinkTagSeen = true
		if t.hooks.OnThinkTag != nil {
			t.hooks.OnThinkTag()
		}
	}
}

func (t *Transcript) flushText() {
	if t.openText.Len() == 0 {
		return
	}
	t.blocks = append(t.blocks, TextBlock{Content: t.openText.String()})
	t.openText.Reset()
}

func (t *Transcript) flushReasoning() {
	if t.openReasoning.Len() == 0 {
		return
	}
	t.blocks = append(t.blocks, ReasoningBlock{
		Content:   t.openReasoning.String(),
		Completed: true,
	})
	t.openReasoning.Reset()
}

// upsertToolCall supports a tool being re-invoked under the same id: an
// existing block is reset to in-progress instead of duplicated.
func (t *Transcript) upsertToolCall(call ToolCallBlock) {
	if i, ok := t.findToolCall(call.ID); ok {
		existing := t.blocks[i].(ToolCallBlock)
		existing.Name = call.Name
		existing.Args = call.Args
		existing.Completed = false
		t.blocks[i] = existing
		return
	}
	call.Completed = false
	t.blocks = append(t.blocks, call)
}

func (t *Transcript) appendApprovalRequests(e EventToolApprovalRequired) {
	for _, tool := range e.Tools {
		tc := tool
		tc.RequiresApproval = true
		tc.Approval = ApprovalPending
		tc.Completed = false
		tc.RunID = e.RunID
		if tc.ToolCallID == "" {
			tc.ToolCallID = tc.ID
		}
		t.blocks = append(t.blocks, tc)
	}
}

func (t *Transcript) completeToolCall(e EventToolCallCompleted) {
	i, ok := t.findToolCall(e.ID)
	if !ok {
		// Completion for a tool that never started. Dropped; the backend
		// owns tool lifecycle ordering.
		return
	}
	tc := t.blocks[i].(ToolCallBlock)
	tc.Result = e.Result
	tc.HasResult = e.HasResult
	tc.Completed = true
	if tc.Approval == ApprovalPending {
		tc.Approval = ApprovalApproved
	}
	if e.Renderer != "" {
		tc.Renderer = e.Renderer
	}
	t.blocks[i] = tc
}

// resolveApproval applies a decision to a pending request. Approved,
// denied and timeout are terminal per tool-call id: a late resolution for
// a call that already reached a terminal status is dropped.
func (t *Transcript) resolveApproval(e EventToolApprovalResolved) {
	i, ok := t.findToolCall(e.ID)
	if !ok {
		return
	}
	tc := t.blocks[i].(ToolCallBlock)
	if tc.Approval.Terminal() {
		return
	}
	tc.Approval = e.Status
	if e.Args != nil {
		tc.Args = e.Args
	}
	if e.Status.ForcesCompletion() {
		tc.Completed = true
	}
	t.blocks[i] = tc
}

func (t *Transcript) findToolCall(id string) (int, bool) {
	for i, b := range t.blocks {
		if tc, ok := b.(ToolCallBlock); ok && tc.ID == id {
			return i, true
		}
	}
	return -1, false
}
