package client_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/SethBurkart123/runstream"
	"github.com/SethBurkart123/runstream/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sseResponse is a helper to build event-stream responses for tests.
type sseResponse struct {
	events []sseEvent
}

type sseEvent struct {
	event string
	data  string
}

func (s sseResponse) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)
		for _, evt := range s.events {
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.event, evt.data)
			if flusher != nil {
				flusher.Flush()
			}
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}
}

// snapshotSink collects OnUpdate deliveries thread-safely.
type snapshotSink struct {
	mu        sync.Mutex
	snapshots [][]runstream.ContentBlock
}

func (s *snapshotSink) update(blocks []runstream.ContentBlock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, blocks)
}

func (s *snapshotSink) last() []runstream.ContentBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.snapshots) == 0 {
		return nil
	}
	return s.snapshots[len(s.snapshots)-1]
}

func TestStreamRun_AssemblesTranscript(t *testing.T) {
	t.Parallel()
	resp := sseResponse{events: []sseEvent{
		{"RunStarted", `{"sessionId":"s1"}`},
		{"AssistantMessageId", `{"content":"m1"}`},
		{"RunContent", `{"content":"Hello "}`},
		{"RunContent", `{"content":"world"}`},
		{"ToolCallStarted", `{"tool":{"id":"t1","toolName":"search","toolArgs":{"q":"x"}}}`},
		{"ToolCallCompleted", `{"tool":{"id":"t1","toolName":"search","toolResult":"ok"}}`},
		{"RunCompleted", `{}`},
	}}
	srv := httptest.NewServer(resp.handler())
	t.Cleanup(srv.Close)

	sink := &snapshotSink{}
	var sessionID, messageID string
	c := client.New(srv.URL)

	err := c.StreamRun(context.Background(), client.RunRequest{
		ChatID:   "chat1",
		Messages: []client.Message{{Role: "user", Content: "hi"}},
	}, client.Handler{
		OnUpdate:    sink.update,
		OnSessionID: func(id string) { sessionID = id },
		OnMessageID: func(id string) { messageID = id },
	})

	require.NoError(t, err)
	assert.Equal(t, "s1", sessionID)
	assert.Equal(t, "m1", messageID)

	final := sink.last()
	require.Len(t, final, 2)
	assert.Equal(t, runstream.TextBlock{Content: "Hello world"}, final[0])
	tc := final[1].(runstream.ToolCallBlock)
	assert.True(t, tc.Completed)
	assert.Equal(t, "ok", tc.Result)
}

func TestStreamRun_GeneratesMessageIDs(t *testing.T) {
	t.Parallel()
	var got []client.Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req client.RunRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		got = req.Messages
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: RunCompleted\ndata: {}\n\n")
	}))
	t.Cleanup(srv.Close)

	sink := &snapshotSink{}
	err := client.New(srv.URL).StreamRun(context.Background(), client.RunRequest{
		Messages: []client.Message{
			{Role: "user", Content: "no id"},
			{ID: "keep-me", Role: "user", Content: "has id"},
		},
	}, client.Handler{OnUpdate: sink.update})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, "keep-me", got[1].ID)
}

func TestStreamRun_RequiresOnUpdate(t *testing.T) {
	t.Parallel()
	err := client.New("http://unused").StreamRun(context.Background(),
		client.RunRequest{}, client.Handler{})
	assert.ErrorContains(t, err, "OnUpdate is required")
}

func TestStreamRun_RejectsNonStreamResponse(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"detail":"not a stream"}`)
	}))
	t.Cleanup(srv.Close)

	sink := &snapshotSink{}
	err := client.New(srv.URL).StreamRun(context.Background(),
		client.RunRequest{}, client.Handler{OnUpdate: sink.update})
	assert.ErrorContains(t, err, "unexpected content type")
}

func TestStreamRun_ErrorStatus(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	sink := &snapshotSink{}
	err := client.New(srv.URL).StreamRun(context.Background(),
		client.RunRequest{}, client.Handler{OnUpdate: sink.update})
	assert.ErrorContains(t, err, "run request failed")
}

func TestStreamRun_RunErrorBecomesErrorBlock(t *testing.T) {
	t.Parallel()
	resp := sseResponse{events: []sseEvent{
		{"RunContent", `{"content":"partial"}`},
		{"RunError", `{"content":"model overloaded"}`},
	}}
	srv := httptest.NewServer(resp.handler())
	t.Cleanup(srv.Close)

	sink := &snapshotSink{}
	err := client.New(srv.URL).StreamRun(context.Background(),
		client.RunRequest{}, client.Handler{OnUpdate: sink.update})

	require.NoError(t, err)
	assert.Equal(t, []runstream.ContentBlock{
		runstream.TextBlock{Content: "partial"},
		runstream.ErrorBlock{Content: "model overloaded"},
	}, sink.last())
}

func TestSubmitApproval(t *testing.T) {
	t.Parallel()
	var got client.ApprovalDecision
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/runs/approval", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	err := client.New(srv.URL).SubmitApproval(context.Background(), client.ApprovalDecision{
		RunID:     "r1",
		Decisions: map[string]bool{"t1": true, "t2": false},
		EditedArgs: map[string]map[string]any{
			"t1": {"q": "edited"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "r1", got.RunID)
	assert.Equal(t, map[string]bool{"t1": true, "t2": false}, got.Decisions)
	require.Contains(t, got.EditedArgs, "t1")
	assert.Equal(t, "edited", got.EditedArgs["t1"]["q"])
}

func TestSubmitApproval_RequiresRunID(t *testing.T) {
	t.Parallel()
	err := client.New("http://unused").SubmitApproval(context.Background(), client.ApprovalDecision{})
	assert.ErrorContains(t, err, "missing run id")
}
