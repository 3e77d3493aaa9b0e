package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/SethBurkart123/runstream"
)

// Styles holds the lipgloss styles used by the TUI.
type Styles struct {
	Reasoning      lipgloss.Style
	ToolName       lipgloss.Style
	ToolArgs       lipgloss.Style
	ToolResult     lipgloss.Style
	Error          lipgloss.Style
	ApprovalPrompt lipgloss.Style
	Spinner        lipgloss.Style
	Muted          lipgloss.Style
}

// NewStyles creates the default style set.
func NewStyles() Styles {
	return Styles{
		Reasoning:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true).Italic(true),
		ToolName:       lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		ToolArgs:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		ToolResult:     lipgloss.NewStyle().Foreground(lipgloss.Color("7")).PaddingLeft(2),
		Error:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		ApprovalPrompt: lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		Spinner:        lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		Muted:          lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true),
	}
}

// renderBlocks renders a transcript snapshot for the terminal.
func renderBlocks(blocks []runstream.ContentBlock, styles Styles, width int) string {
	var out strings.Builder
	for _, b := range blocks {
		switch b := b.(type) {
		case runstream.TextBlock:
			out.WriteString(renderMarkdown(b.Content, width))
		case runstream.ReasoningBlock:
			out.WriteString(renderReasoning(b, styles))
		case runstream.ToolCallBlock:
			out.WriteString(renderToolCall(b, styles))
		case runstream.ErrorBlock:
			out.WriteString(styles.Error.Render("Error: "+b.Content) + "\n")
		}
	}
	return out.String()
}

// renderMarkdown renders assistant text through glamour. On renderer errors
// the raw text is shown instead so output is never dropped.
func renderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content + "\n"
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content + "\n"
	}
	return rendered
}

func renderReasoning(b runstream.ReasoningBlock, styles Styles) string {
	if strings.TrimSpace(b.Content) == "" {
		return ""
	}
	label := "Thinking..."
	if b.Completed {
		label = "Thought"
	}
	var out strings.Builder
	out.WriteString(styles.Muted.Render(label) + "\n")
	for _, line := range strings.Split(strings.TrimRight(b.Content, "\n"), "\n") {
		out.WriteString(styles.Reasoning.Render("  "+line) + "\n")
	}
	return out.String()
}

func renderToolCall(b runstream.ToolCallBlock, styles Styles) string {
	var out strings.Builder
	marker := "●"
	if !b.Completed {
		marker = "○"
	}
	out.WriteString(styles.ToolName.Render(fmt.Sprintf("%s %s", marker, b.Name)))
	if args := compactArgs(b.Args); args != "" {
		out.WriteString(" " + styles.ToolArgs.Render(args))
	}
	out.WriteString("\n")
	if b.RequiresApproval && !b.Approval.Terminal() {
		out.WriteString(styles.ApprovalPrompt.Render("  awaiting approval") + "\n")
	}
	switch b.Approval {
	case runstream.ApprovalDenied:
		out.WriteString(styles.Error.Render("  denied") + "\n")
	case runstream.ApprovalTimeout:
		out.WriteString(styles.Error.Render("  timed out") + "\n")
	}
	if b.HasResult && b.Result != "" {
		out.WriteString(styles.ToolResult.Render(truncate(b.Result, 500)) + "\n")
	}
	return out.String()
}

// compactArgs formats tool arguments as a single-line JSON object.
func compactArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return ""
	}
	return truncate(string(raw), 120)
}

// truncate shortens s to at most max bytes, stepping back to a rune
// boundary so multi-byte characters are never cut mid-sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}

// plainTranscript renders a final transcript without styling, for -plain
// mode and piping to other tools.
func plainTranscript(blocks []runstream.ContentBlock) string {
	var out strings.Builder
	for _, b := range blocks {
		switch b := b.(type) {
		case runstream.TextBlock:
			if b.Content != "" {
				out.WriteString(b.Content + "\n")
			}
		case runstream.ReasoningBlock:
			// Reasoning is internal monologue; skip it in plain output.
		case runstream.ToolCallBlock:
			out.WriteString(fmt.Sprintf("[tool %s]", b.Name))
			if args := compactArgs(b.Args); args != "" {
				out.WriteString(" " + args)
			}
			out.WriteString("\n")
			if b.HasResult && b.Result != "" {
				out.WriteString(b.Result + "\n")
			}
		case runstream.ErrorBlock:
			out.WriteString("error: " + b.Content + "\n")
		}
	}
	return out.String()
}
