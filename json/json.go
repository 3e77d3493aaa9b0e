// Package json encodes and decodes run transcripts in the backend's
// content-block wire format, and persists them to disk.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SethBurkart123/runstream"
)

// blockDTO is the JSON representation of a ContentBlock with a type
// discriminator. Field names follow the backend's persisted transcript
// format, which is also what SeedBlocks frames carry.
type blockDTO struct {
	Type             string          `json:"type"`
	Content          *string         `json:"content,omitempty"`
	IsCompleted      *bool           `json:"isCompleted,omitempty"`
	ID               *string         `json:"id,omitempty"`
	ToolName         *string         `json:"toolName,omitempty"`
	ToolArgs         map[string]any  `json:"toolArgs,omitempty"`
	ToolResult       *string         `json:"toolResult,omitempty"`
	RequiresApproval *bool           `json:"requiresApproval,omitempty"`
	ApprovalStatus   *string         `json:"approvalStatus,omitempty"`
	RunID            *string         `json:"runId,omitempty"`
	ToolCallID       *string         `json:"toolCallId,omitempty"`
	EditableArgs     json.RawMessage `json:"editableArgs,omitempty"`
	Renderer         *string         `json:"renderer,omitempty"`
}

// MarshalBlocks serializes content blocks to the wire format.
func MarshalBlocks(blocks []runstream.ContentBlock) ([]byte, error) {
	dtos, err := marshalBlocks(blocks)
	if err != nil {
		return nil, err
	}
	return json.Marshal(dtos)
}

// UnmarshalBlocks deserializes content blocks from the wire format.
func UnmarshalBlocks(data []byte) ([]runstream.ContentBlock, error) {
	var dtos []blockDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("unmarshal blocks: %w", err)
	}
	blocks := make([]runstream.ContentBlock, len(dtos))
	for i, dto := range dtos {
		b, err := unmarshalBlock(dto)
		if err != nil {
			return nil, fmt.Errorf("content block %d: %w", i, err)
		}
		blocks[i] = b
	}
	return blocks, nil
}

// Save writes a transcript to a JSON file, creating parent directories as
// needed. The write is atomic (temp file + rename).
func Save(path string, blocks []runstream.ContentBlock) error {
	dtos, err := marshalBlocks(blocks)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	data, err := json.MarshalIndent(dtos, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a transcript from a JSON file.
func Load(path string) ([]runstream.ContentBlock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalBlocks(data)
}

func marshalBlocks(blocks []runstream.ContentBlock) ([]blockDTO, error) {
	dtos := make([]blockDTO, len(blocks))
	for i, b := range blocks {
		dto, err := marshalBlock(b)
		if err != nil {
			return nil, fmt.Errorf("content block %d: %w", i, err)
		}
		dtos[i] = dto
	}
	return dtos, nil
}

func marshalBlock(b runstream.ContentBlock) (blockDTO, error) {
	switch v := b.(type) {
	case runstream.TextBlock:
		return blockDTO{Type: "text", Content: &v.Content}, nil
	case runstream.ReasoningBlock:
		return blockDTO{Type: "reasoning", Content: &v.Content, IsCompleted: &v.Completed}, nil
	case runstream.ToolCallBlock:
		dto := blockDTO{
			Type:        "tool_call",
			ID:          &v.ID,
			ToolName:    &v.Name,
			ToolArgs:    v.Args,
			IsCompleted: &v.Completed,
		}
		if v.HasResult {
			dto.ToolResult = &v.Result
		}
		if v.RequiresApproval {
			dto.RequiresApproval = &v.RequiresApproval
		}
		if v.Approval != runstream.ApprovalNone {
			status := string(v.Approval)
			dto.ApprovalStatus = &status
		}
		if v.RunID != "" {
			dto.RunID = &v.RunID
		}
		if v.ToolCallID != "" {
			dto.ToolCallID = &v.ToolCallID
		}
		if raw, err := marshalEditableArgs(v); err != nil {
			return blockDTO{}, err
		} else if raw != nil {
			dto.EditableArgs = raw
		}
		if v.Renderer != "" {
			dto.Renderer = &v.Renderer
		}
		return dto, nil
	case runstream.ErrorBlock:
		return blockDTO{Type: "error", Content: &v.Content}, nil
	default:
		return blockDTO{}, fmt.Errorf("unknown content block type: %T", b)
	}
}

func unmarshalBlock(dto blockDTO) (runstream.ContentBlock, error) {
	switch dto.Type {
	case "text":
		return runstream.TextBlock{Content: strOrEmpty(dto.Content)}, nil
	case "reasoning":
		return runstream.ReasoningBlock{
			Content:   strOrEmpty(dto.Content),
			Completed: boolOrFalse(dto.IsCompleted),
		}, nil
	case "tool_call":
		tc := runstream.ToolCallBlock{
			ID:        strOrEmpty(dto.ID),
			Name:      strOrEmpty(dto.ToolName),
			Args:      dto.ToolArgs,
			Completed: boolOrFalse(dto.IsCompleted),
		}
		if dto.ToolResult != nil {
			tc.Result = *dto.ToolResult
			tc.HasResult = true
		}
		tc.RequiresApproval = boolOrFalse(dto.RequiresApproval)
		if dto.ApprovalStatus != nil {
			tc.Approval = runstream.ApprovalStatus(*dto.ApprovalStatus)
		}
		tc.RunID = strOrEmpty(dto.RunID)
		tc.ToolCallID = strOrEmpty(dto.ToolCallID)
		tc.EditableArgs, tc.AllArgsEditable = DecodeEditableArgs(dto.EditableArgs)
		tc.Renderer = strOrEmpty(dto.Renderer)
		return tc, nil
	case "error":
		return runstream.ErrorBlock{Content: strOrEmpty(dto.Content)}, nil
	default:
		return nil, fmt.Errorf("unknown content block type: %q", dto.Type)
	}
}

// marshalEditableArgs encodes the editable-args field, which on the wire is
// either a list of argument names or the boolean true (everything
// editable).
func marshalEditableArgs(v runstream.ToolCallBlock) (json.RawMessage, error) {
	switch {
	case v.AllArgsEditable:
		return json.RawMessage("true"), nil
	case len(v.EditableArgs) > 0:
		raw, err := json.Marshal(v.EditableArgs)
		if err != nil {
			return nil, fmt.Errorf("marshal editable args: %w", err)
		}
		return raw, nil
	default:
		return nil, nil
	}
}

// DecodeEditableArgs decodes the wire value of editableArgs. Unrecognized
// shapes decode as not-editable rather than failing the block.
func DecodeEditableArgs(raw json.RawMessage) (names []string, all bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return nil, b
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, false
	}
	return nil, false
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func boolOrFalse(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}
