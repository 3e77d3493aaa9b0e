// Package client drives assistant runs against the backend's streaming
// HTTP API and submits tool-approval decisions over its out-of-band
// channel.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SethBurkart123/runstream"
	"github.com/SethBurkart123/runstream/render"
	"github.com/SethBurkart123/runstream/sse"
)

// Client talks to one run backend instance.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	renderInterval time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for all requests. The default
// has no timeout because run streams are long-lived; cancellation flows
// through the request context.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRenderInterval sets the snapshot coalescing interval.
func WithRenderInterval(d time.Duration) Option {
	return func(c *Client) {
		c.renderInterval = d
	}
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        baseURL,
		httpClient:     &http.Client{},
		renderInterval: render.DefaultInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Message is one prior conversation turn sent with a run request.
type Message struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// RunRequest describes one assistant run.
type RunRequest struct {
	AgentID  string    `json:"agentId,omitempty"`
	ChatID   string    `json:"chatId,omitempty"`
	Model    string    `json:"modelId,omitempty"`
	Messages []Message `json:"messages"`
}

// Handler receives run output. OnUpdate is required and is invoked from
// the render scheduler's goroutine with a coalesced snapshot; the ID and
// think-tag hooks fire synchronously from event processing.
type Handler struct {
	OnUpdate    func(blocks []runstream.ContentBlock)
	OnSessionID func(id string)
	OnMessageID func(id string)
	OnThinkTag  func()
}

// StreamRun starts a run and assembles its event stream until completion.
// It blocks for the lifetime of the run. The final OnUpdate delivery
// always reflects the terminal transcript state, including partial output
// when the transport fails mid-run. Cancelling ctx aborts the transport;
// the resulting error is indistinguishable from a transport failure, and
// no error content block is injected on the caller's behalf.
func (c *Client) StreamRun(ctx context.Context, req RunRequest, h Handler) error {
	if h.OnUpdate == nil {
		return fmt.Errorf("client: Handler.OnUpdate is required")
	}
	for i := range req.Messages {
		if req.Messages[i].ID == "" {
			req.Messages[i].ID = uuid.NewString()
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("client: marshal run request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/stream", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("client: build run request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	logrus.Debugf("client: starting run chatId=%q model=%q", req.ChatID, req.Model)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("client: start run: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return fmt.Errorf("client: run request failed: %s", resp.Status)
	}
	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt != "text/event-stream" {
		resp.Body.Close()
		return fmt.Errorf("client: unexpected content type %q", resp.Header.Get("Content-Type"))
	}

	transcript := runstream.New(runstream.Hooks{
		OnSessionID: h.OnSessionID,
		OnMessageID: h.OnMessageID,
		OnThinkTag:  h.OnThinkTag,
	})
	scheduler := render.New(c.renderInterval, h.OnUpdate)
	defer scheduler.Stop()

	// The runner owns the body from here: it closes it on every exit path.
	return runstream.NewRunner(transcript, scheduler).Run(ctx, sse.NewStream(resp.Body))
}

// ApprovalDecision carries a human decision for tools awaiting approval.
// Decisions is keyed by tool-call ID. EditedArgs optionally overrides a
// tool's arguments before it executes.
type ApprovalDecision struct {
	RunID      string                    `json:"runId"`
	Decisions  map[string]bool           `json:"toolDecisions"`
	EditedArgs map[string]map[string]any `json:"editedArgs,omitempty"`
}

// SubmitApproval sends a decision over the out-of-band approval channel.
// It is independent of any active stream: the outcome is reflected back on
// the run's event stream as a ToolApprovalResolved frame, never by this
// call mutating local state.
func (c *Client) SubmitApproval(ctx context.Context, d ApprovalDecision) error {
	if d.RunID == "" {
		return fmt.Errorf("client: approval decision missing run id")
	}
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("client: marshal approval: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/runs/approval", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("client: build approval request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: submit approval: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("client: approval request failed: %s", resp.Status)
	}
	return nil
}
