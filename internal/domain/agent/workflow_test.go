package agent_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tutor-server/chat-api/internal/domain/agent"
	"tutor-server/chat-api/internal/infrastructure/approvalstore"
)

// fakeRunner returns one prepared stream per call, in order.
type fakeRunner struct {
	streams  []*fakeStream
	requests []agent.RunRequest
}

func (r *fakeRunner) Run(ctx context.Context, req agent.RunRequest) (agent.RunStream, error) {
	r.requests = append(r.requests, req)
	if len(r.requests) > len(r.streams) {
		panic("unexpected extra run")
	}
	return r.streams[len(r.requests)-1], nil
}

func textStream(chunks ...string) *fakeStream {
	events := make([]agent.RuntimeEvent, 0, len(chunks))
	for _, c := range chunks {
		events = append(events, delta(c))
	}
	return &fakeStream{events: events}
}

func stages() [3]agent.Definition {
	return [3]agent.Definition{
		{Name: "draft", Model: "gpt-5.1"},
		{Name: "check", Model: "gpt-5.1"},
		{Name: "explain", Model: "gpt-5.1"},
	}
}

func TestWorkflow_Stream_AttachesFileIDs(t *testing.T) {
	runner := &fakeRunner{streams: []*fakeStream{textStream("hi")}}
	w := agent.NewWorkflow(runner, agent.TutorAgent("gpt-5.1"), zerolog.Nop())

	ch, err := w.Stream(context.Background(), agent.WorkflowInput{
		InputAsText: "2+2?",
		FileIDs:     []string{"file-1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	collect(t, ch)

	req := runner.requests[0]
	if len(req.FileIDs) != 1 || req.FileIDs[0] != "file-1" {
		t.Errorf("file ids not forwarded: %+v", req.FileIDs)
	}
	if !req.CodeInterpreter {
		t.Error("tutor agent should request the code interpreter tool")
	}
	if len(req.Input) != 1 || req.Input[0].Role != "user" || req.Input[0].Content != "2+2?" {
		t.Errorf("unexpected input history: %+v", req.Input)
	}
}

func TestMultiAgent_ApprovalTimeoutAbortsDownstreamAgents(t *testing.T) {
	runner := &fakeRunner{streams: []*fakeStream{textStream("draft answer")}}
	store := approvalstore.NewMemory(time.Hour)
	w := agent.NewMultiAgentWorkflow(runner, stages(), store, true,
		5*time.Millisecond, 30*time.Millisecond, zerolog.Nop())

	ch, err := w.Stream(context.Background(), agent.WorkflowInput{InputAsText: "q"})
	if err != nil {
		t.Fatal(err)
	}
	_, terminal := collect(t, ch)

	if terminal.Type != agent.EventDone {
		t.Fatalf("terminal = %v, want done for the already-streamed first answer", terminal.Type)
	}
	if len(runner.requests) != 1 {
		t.Errorf("downstream agents must not run after rejection, got %d runs", len(runner.requests))
	}
}

func TestMultiAgent_ApprovedRunsAllStages(t *testing.T) {
	runner := &fakeRunner{streams: []*fakeStream{
		textStream("draft"),
		textStream("silent critique"),
		textStream("final explanation"),
	}}
	store := approvalstore.NewMemory(time.Hour)
	w := agent.NewMultiAgentWorkflow(runner, stages(), store, true,
		5*time.Millisecond, time.Second, zerolog.Nop())
	w.OnApprovalRequest = func(approvalID string) {
		store.Put(approvalID, true)
	}

	ch, err := w.Stream(context.Background(), agent.WorkflowInput{InputAsText: "q"})
	if err != nil {
		t.Fatal(err)
	}

	var texts []string
	sawBoundary := false
	approvalID := ""
	var terminal agent.StreamEvent
	for evt := range ch {
		switch evt.Type {
		case agent.EventText:
			texts = append(texts, evt.Content)
		case agent.EventBoundary:
			sawBoundary = true
		case agent.EventApprovalRequest:
			approvalID = evt.ApprovalID
		case agent.EventDone, agent.EventErr:
			terminal = evt
		}
	}

	if approvalID == "" {
		t.Error("missing approval_request event while gated")
	}

	if len(runner.requests) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runner.requests))
	}
	for _, text := range texts {
		if text == "silent critique" {
			t.Error("intermediate agent output must never be surfaced")
		}
	}
	if !sawBoundary {
		t.Error("missing boundary event between visible agents")
	}
	if terminal.Type != agent.EventDone || terminal.Message != "final explanation" {
		t.Errorf("terminal = %+v", terminal)
	}

	// The silent stage's output is folded into the final stage's history.
	finalInput := runner.requests[2].Input
	found := false
	for _, msg := range finalInput {
		if msg.Content == "silent critique" {
			found = true
		}
	}
	if !found {
		t.Error("silent stage output missing from downstream history")
	}
}

func TestMultiAgent_GateDisabledSkipsApproval(t *testing.T) {
	runner := &fakeRunner{streams: []*fakeStream{
		textStream("draft"),
		textStream("critique"),
		textStream("final"),
	}}
	store := approvalstore.NewMemory(time.Hour)
	w := agent.NewMultiAgentWorkflow(runner, stages(), store, false,
		5*time.Millisecond, time.Second, zerolog.Nop())

	ch, err := w.Stream(context.Background(), agent.WorkflowInput{InputAsText: "q"})
	if err != nil {
		t.Fatal(err)
	}
	_, terminal := collect(t, ch)

	if len(runner.requests) != 3 {
		t.Errorf("expected all 3 stages without a gate, got %d", len(runner.requests))
	}
	if terminal.Message != "final" {
		t.Errorf("terminal message = %q", terminal.Message)
	}
}

func TestMultiAgent_EmptyStageOutputFailsTheTurn(t *testing.T) {
	runner := &fakeRunner{streams: []*fakeStream{
		textStream("draft"),
		{}, // stage two yields nothing
	}}
	store := approvalstore.NewMemory(time.Hour)
	w := agent.NewMultiAgentWorkflow(runner, stages(), store, false,
		5*time.Millisecond, time.Second, zerolog.Nop())

	ch, err := w.Stream(context.Background(), agent.WorkflowInput{InputAsText: "q"})
	if err != nil {
		t.Fatal(err)
	}
	_, terminal := collect(t, ch)

	if terminal.Type != agent.EventErr {
		t.Errorf("terminal = %v, want error when a stage returns no output", terminal.Type)
	}
	if len(runner.requests) != 2 {
		t.Errorf("stage three must not run after a failed stage, got %d runs", len(runner.requests))
	}
}
