// Command runstream is a terminal chat client for a runstream backend.
//
// Usage:
//
//	runstream [flags] "prompt"
//
// Flags:
//
//	-url string     Backend base URL (default from ~/.runstream/config.toml)
//	-model string   Model ID, e.g. "openai:gpt-4o-mini" (default: backend default)
//	-agent string   Agent ID to run (default: backend default)
//	-chat string    Chat ID to continue (default: new chat)
//	-save string    Path to save the final transcript as JSON
//	-plain          Print the final transcript to stdout instead of the TUI
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SethBurkart123/runstream"
	"github.com/SethBurkart123/runstream/client"
	"github.com/SethBurkart123/runstream/config"
	runjson "github.com/SethBurkart123/runstream/json"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "runstream: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		urlFlag   = flag.String("url", "", "Backend base URL")
		modelFlag = flag.String("model", "", "Model ID (backend-specific)")
		agentFlag = flag.String("agent", "", "Agent ID to run")
		chatFlag  = flag.String("chat", "", "Chat ID to continue")
		saveFlag  = flag.String("save", "", "Path to save the final transcript")
		plainFlag = flag.Bool("plain", false, "Print the final transcript instead of the TUI")
	)
	flag.Parse()

	prompt := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if prompt == "" {
		return fmt.Errorf("no prompt given")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	opts := resolveOptions(cfg, *urlFlag, *modelFlag)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := client.New(opts.baseURL, client.WithRenderInterval(cfg.RenderIntervalDuration()))
	req := client.RunRequest{
		AgentID:  *agentFlag,
		ChatID:   *chatFlag,
		Model:    opts.model,
		Messages: []client.Message{{Role: "user", Content: prompt}},
	}

	var final []runstream.ContentBlock
	if *plainFlag {
		final, err = runPlain(ctx, c, req)
	} else {
		final, err = runTUI(ctx, c, req, cfg.ApprovalTimeoutDuration())
	}
	if err != nil {
		return err
	}

	if *saveFlag != "" && len(final) > 0 {
		if err := runjson.Save(*saveFlag, final); err != nil {
			return fmt.Errorf("save transcript: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Transcript saved to %s\n", *saveFlag)
	}
	return nil
}

// options are the resolved connection settings after flag/config merging.
type options struct {
	baseURL string
	model   string
}

// resolveOptions merges flags over config values. Flags win.
func resolveOptions(cfg config.Config, urlFlag, modelFlag string) options {
	o := options{baseURL: cfg.BaseURL, model: cfg.Model}
	if urlFlag != "" {
		o.baseURL = urlFlag
	}
	if modelFlag != "" {
		o.model = modelFlag
	}
	return o
}

// runPlain streams the run without a TUI and prints the final transcript.
func runPlain(ctx context.Context, c *client.Client, req client.RunRequest) ([]runstream.ContentBlock, error) {
	var final []runstream.ContentBlock
	err := c.StreamRun(ctx, req, client.Handler{
		OnUpdate: func(blocks []runstream.ContentBlock) { final = blocks },
	})
	if err != nil {
		return nil, err
	}
	fmt.Print(plainTranscript(final))
	return final, nil
}

// runTUI streams the run through the interactive view.
func runTUI(ctx context.Context, c *client.Client, req client.RunRequest, approvalTimeout time.Duration) ([]runstream.ContentBlock, error) {
	p := tea.NewProgram(newModel(c, approvalTimeout), tea.WithContext(ctx))

	go func() {
		err := c.StreamRun(ctx, req, client.Handler{
			OnUpdate:    func(blocks []runstream.ContentBlock) { p.Send(updateMsg{blocks: blocks}) },
			OnSessionID: func(id string) { p.Send(sessionMsg{id: id}) },
			OnThinkTag:  func() { p.Send(thinkTagMsg{}) },
		})
		p.Send(doneMsg{err: err})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("TUI: %w", err)
	}
	m, ok := finalModel.(model)
	if !ok {
		return nil, nil
	}
	if m.err != nil {
		return m.blocks, m.err
	}
	return m.blocks, nil
}
