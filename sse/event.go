package sse

import (
	"encoding/json"
	"fmt"

	"github.com/SethBurkart123/runstream"
	runjson "github.com/SethBurkart123/runstream/json"
)

// Wire event names the assembler consumes.
const (
	eventRunStarted           = "RunStarted"
	eventAssistantMessageID   = "AssistantMessageId"
	eventRunContent           = "RunContent"
	eventSeedBlocks           = "SeedBlocks"
	eventReasoningStarted     = "ReasoningStarted"
	eventReasoningStep        = "ReasoningStep"
	eventReasoningCompleted   = "ReasoningCompleted"
	eventToolCallStarted      = "ToolCallStarted"
	eventToolCallCompleted    = "ToolCallCompleted"
	eventToolApprovalRequired = "ToolApprovalRequired"
	eventToolApprovalResolved = "ToolApprovalResolved"
	eventRunCompleted         = "RunCompleted"
	eventRunError             = "RunError"
)

type runStartedPayload struct {
	SessionID string `json:"sessionId"`
}

// messageIDPayload carries the assistant message id in the content field,
// as the backend sends it. messageId is accepted as a fallback.
type messageIDPayload struct {
	Content   string `json:"content"`
	MessageID string `json:"messageId"`
}

type contentPayload struct {
	Content string `json:"content"`
}

type seedBlocksPayload struct {
	Blocks json.RawMessage `json:"blocks"`
}

type reasoningPayload struct {
	ReasoningContent string `json:"reasoningContent"`
}

type toolEventPayload struct {
	Tool toolDTO `json:"tool"`
}

type toolDTO struct {
	ID             string          `json:"id"`
	ToolName       string          `json:"toolName"`
	ToolArgs       map[string]any  `json:"toolArgs"`
	ToolResult     *string         `json:"toolResult"`
	Renderer       string          `json:"renderer"`
	ApprovalStatus string          `json:"approvalStatus"`
	RunID          string          `json:"runId"`
	Tools          []approvalTool  `json:"tools"`
	EditableArgs   json.RawMessage `json:"editableArgs"`
}

type approvalTool struct {
	ID           string          `json:"id"`
	ToolName     string          `json:"toolName"`
	ToolArgs     map[string]any  `json:"toolArgs"`
	EditableArgs json.RawMessage `json:"editableArgs"`
}

type errorPayload struct {
	Content string `json:"content"`
	Error   string `json:"error"`
}

// ParseEvent decodes a frame into a semantic event. Event names the
// assembler does not consume decode as (nil, nil), keeping the stream
// forward-compatible with server additions. A non-nil error means the
// frame is malformed and should be skipped; it is never fatal to the
// stream.
func ParseEvent(f Frame) (runstream.Event, error) {
	switch f.Name {
	case eventRunStarted:
		var p runStartedPayload
		if err := unmarshal(f, &p); err != nil {
			return nil, err
		}
		return runstream.EventRunStarted{SessionID: p.SessionID}, nil

	case eventAssistantMessageID:
		var p messageIDPayload
		if err := unmarshal(f, &p); err != nil {
			return nil, err
		}
		id := p.Content
		if id == "" {
			id = p.MessageID
		}
		return runstream.EventAssistantMessageID{ID: id}, nil

	case eventRunContent:
		var p contentPayload
		if err := unmarshal(f, &p); err != nil {
			return nil, err
		}
		return runstream.EventRunContent{Content: p.Content}, nil

	case eventSeedBlocks:
		var p seedBlocksPayload
		if err := unmarshal(f, &p); err != nil {
			return nil, err
		}
		blocks, err := runjson.UnmarshalBlocks(p.Blocks)
		if err != nil {
			return nil, fmt.Errorf("sse: %s blocks: %w", f.Name, err)
		}
		return runstream.EventSeedBlocks{Blocks: blocks}, nil

	case eventReasoningStarted:
		return runstream.EventReasoningStarted{}, nil

	case eventReasoningStep:
		var p reasoningPayload
		if err := unmarshal(f, &p); err != nil {
			return nil, err
		}
		return runstream.EventReasoningStep{Content: p.ReasoningContent}, nil

	case eventReasoningCompleted:
		return runstream.EventReasoningCompleted{}, nil

	case eventToolCallStarted:
		var p toolEventPayload
		if err := unmarshal(f, &p); err != nil {
			return nil, err
		}
		if p.Tool.ID == "" || p.Tool.ToolName == "" {
			return nil, fmt.Errorf("sse: %s missing tool id or name", f.Name)
		}
		return runstream.EventToolCallStarted{Call: runstream.ToolCallBlock{
			ID:   p.Tool.ID,
			Name: p.Tool.ToolName,
			Args: p.Tool.ToolArgs,
		}}, nil

	case eventToolCallCompleted:
		var p toolEventPayload
		if err := unmarshal(f, &p); err != nil {
			return nil, err
		}
		if p.Tool.ID == "" {
			return nil, fmt.Errorf("sse: %s missing tool id", f.Name)
		}
		evt := runstream.EventToolCallCompleted{
			ID:       p.Tool.ID,
			Renderer: p.Tool.Renderer,
		}
		if p.Tool.ToolResult != nil {
			evt.Result = *p.Tool.ToolResult
			evt.HasResult = true
		}
		return evt, nil

	case eventToolApprovalRequired:
		var p toolEventPayload
		if err := unmarshal(f, &p); err != nil {
			return nil, err
		}
		if len(p.Tool.Tools) == 0 {
			return nil, fmt.Errorf("sse: %s carries no tools", f.Name)
		}
		tools := make([]runstream.ToolCallBlock, 0, len(p.Tool.Tools))
		for _, tool := range p.Tool.Tools {
			if tool.ID == "" || tool.ToolName == "" {
				return nil, fmt.Errorf("sse: %s missing tool id or name", f.Name)
			}
			tc := runstream.ToolCallBlock{
				ID:   tool.ID,
				Name: tool.ToolName,
				Args: tool.ToolArgs,
			}
			tc.EditableArgs, tc.AllArgsEditable = runjson.DecodeEditableArgs(tool.EditableArgs)
			tools = append(tools, tc)
		}
		return runstream.EventToolApprovalRequired{RunID: p.Tool.RunID, Tools: tools}, nil

	case eventToolApprovalResolved:
		var p toolEventPayload
		if err := unmarshal(f, &p); err != nil {
			return nil, err
		}
		if p.Tool.ID == "" || p.Tool.ApprovalStatus == "" {
			return nil, fmt.Errorf("sse: %s missing tool id or status", f.Name)
		}
		return runstream.EventToolApprovalResolved{
			ID:     p.Tool.ID,
			Status: runstream.ApprovalStatus(p.Tool.ApprovalStatus),
			Args:   p.Tool.ToolArgs,
		}, nil

	case eventRunCompleted:
		return runstream.EventRunCompleted{}, nil

	case eventRunError:
		var p errorPayload
		if err := unmarshal(f, &p); err != nil {
			return nil, err
		}
		msg := p.Content
		if msg == "" {
			msg = p.Error
		}
		return runstream.EventRunError{Content: msg}, nil

	default:
		// MemberRun*, FlowNode*, Stream*, and anything the server adds
		// later: not part of content-block assembly.
		return nil, nil
	}
}

func unmarshal(f Frame, v any) error {
	if len(f.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(f.Data, v); err != nil {
		return fmt.Errorf("sse: parse %s payload: %w", f.Name, err)
	}
	return nil
}
