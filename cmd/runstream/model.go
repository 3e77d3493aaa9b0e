package main

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SethBurkart123/runstream"
	"github.com/SethBurkart123/runstream/client"
)

// updateMsg carries the latest transcript snapshot from the stream.
type updateMsg struct {
	blocks []runstream.ContentBlock
}

// doneMsg signals that the stream finished, possibly with an error.
type doneMsg struct {
	err error
}

// sessionMsg carries the backend-assigned session ID.
type sessionMsg struct {
	id string
}

// thinkTagMsg signals that the assistant opened a think tag.
type thinkTagMsg struct{}

// approvalSentMsg reports the outcome of an approval submission.
type approvalSentMsg struct {
	err error
}

type model struct {
	client          *client.Client
	approvalTimeout time.Duration
	styles          Styles
	spinner         spinner.Model
	blocks          []runstream.ContentBlock
	sessionID       string
	thinking        bool
	streaming       bool
	width           int
	err             error
}

func newModel(c *client.Client, approvalTimeout time.Duration) model {
	styles := NewStyles()
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.Spinner
	return model{
		client:          c,
		approvalTimeout: approvalTimeout,
		styles:          styles,
		spinner:         sp,
		streaming:       true,
		width:           80,
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "y":
			if req, ok := m.pendingApproval(); ok {
				return m, m.submitApproval(req, true)
			}
		case "n":
			if req, ok := m.pendingApproval(); ok {
				return m, m.submitApproval(req, false)
			}
		}
		return m, nil

	case updateMsg:
		m.blocks = msg.blocks
		return m, nil

	case sessionMsg:
		m.sessionID = msg.id
		return m, nil

	case thinkTagMsg:
		m.thinking = true
		return m, nil

	case approvalSentMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		return m, nil

	case doneMsg:
		m.streaming = false
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) View() string {
	var out string
	if m.thinking {
		out += m.styles.Muted.Render("model is emitting inline think tags") + "\n"
	}
	out += renderBlocks(m.blocks, m.styles, m.width)
	if _, ok := m.pendingApproval(); ok {
		out += "\n" + m.styles.ApprovalPrompt.Render("Approve tool call? [y/n]") + "\n"
	} else if m.streaming {
		out += "\n" + m.spinner.View() + "\n"
	}
	return out
}

// pendingApproval returns the first tool call still awaiting a decision.
func (m model) pendingApproval() (runstream.ToolCallBlock, bool) {
	for _, b := range m.blocks {
		tc, ok := b.(runstream.ToolCallBlock)
		if !ok {
			continue
		}
		if tc.RequiresApproval && tc.Approval == runstream.ApprovalPending {
			return tc, true
		}
	}
	return runstream.ToolCallBlock{}, false
}

// submitApproval posts the decision off the Update loop. The request is
// bounded by the backend's approval window: a decision that arrives after
// the window closed is moot anyway.
func (m model) submitApproval(tc runstream.ToolCallBlock, approved bool) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.approvalTimeout)
		defer cancel()
		err := c.SubmitApproval(ctx, client.ApprovalDecision{
			RunID:     tc.RunID,
			Decisions: map[string]bool{tc.ToolCallID: approved},
		})
		return approvalSentMsg{err: err}
	}
}
