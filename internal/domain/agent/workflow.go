package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tutor-server/chat-api/internal/domain/approval"
)

// Definition configures one agent of a workflow.
type Definition struct {
	Name            string
	Instructions    string
	Model           string
	CodeInterpreter bool
}

const tutorInstructions = `You are a patient math tutor. Explain each step of your reasoning.
When a computation or plot is needed, run python to produce it and include the
result in your answer. Wrap the final answer in LaTeX where appropriate.`

// TutorAgent is the default single-agent configuration.
func TutorAgent(model string) Definition {
	return Definition{
		Name:            "math-tutor",
		Instructions:    tutorInstructions,
		Model:           model,
		CodeInterpreter: true,
	}
}

const draftInstructions = `You are a math tutor drafting an answer. Work through the problem step by
step, running python for any computation or plot. Be thorough rather than polished.`

const checkInstructions = `You review a tutor's draft answer for mathematical mistakes. List every
error or unclear step you find. Reply with "looks good" if there are none.`

const explainInstructions = `You are a patient math tutor. Using the draft answer and the review notes
in the conversation, write the final explanation for the student. Fix every
issue the review found. Wrap the final answer in LaTeX where appropriate.`

// TutorStages is the default three-agent configuration: a drafting tutor, a
// silent checker, and the explainer that produces the student facing answer.
func TutorStages(model string) [3]Definition {
	return [3]Definition{
		{Name: "tutor-draft", Instructions: draftInstructions, Model: model, CodeInterpreter: true},
		{Name: "tutor-check", Instructions: checkInstructions, Model: model},
		{Name: "tutor-explain", Instructions: explainInstructions, Model: model},
	}
}

// WorkflowInput carries one user turn into a workflow.
type WorkflowInput struct {
	InputAsText string
	FileIDs     []string
}

// Workflow runs agents against the runtime and streams adapted events.
type Workflow struct {
	runner Runner
	agent  Definition
	log    zerolog.Logger
}

// NewWorkflow builds the single-agent workflow.
func NewWorkflow(runner Runner, agent Definition, log zerolog.Logger) *Workflow {
	return &Workflow{
		runner: runner,
		agent:  agent,
		log:    log.With().Str("component", "workflow").Logger(),
	}
}

// Stream runs the agent once and returns the adapted event stream. Uploaded
// file ids are forwarded so the code execution tool can see them.
func (w *Workflow) Stream(ctx context.Context, input WorkflowInput) (<-chan StreamEvent, error) {
	stream, err := w.runner.Run(ctx, RunRequest{
		Model:           w.agent.Model,
		Instructions:    instructionsWithFiles(w.agent, input.FileIDs),
		Input:           []InputMessage{{Role: "user", Content: input.InputAsText}},
		FileIDs:         input.FileIDs,
		CodeInterpreter: w.agent.CodeInterpreter,
	})
	if err != nil {
		return nil, fmt.Errorf("start agent run: %w", err)
	}
	return Adapt(stream, nil), nil
}

func instructionsWithFiles(agent Definition, fileIDs []string) string {
	if len(fileIDs) == 0 {
		return agent.Instructions
	}
	return agent.Instructions + "\n\nIf the user has uploaded files, you can access them directly using the code interpreter. The files are automatically available in your environment."
}

// MultiAgentWorkflow sequences three agents: the first streams to the caller,
// the second runs silently to refine the answer, the third streams the final
// explanation. An optional human approval gates continuation after agent one.
//
// States: run agent 1 -> [await approval] -> run agent 2 silently ->
// run agent 3 -> done, with abort reachable from the approval wait. Nothing
// persists across process restarts.
type MultiAgentWorkflow struct {
	runner       Runner
	stages       [3]Definition
	approvals    approval.Store
	requireGate  bool
	pollInterval time.Duration
	waitTimeout  time.Duration
	log          zerolog.Logger

	// OnApprovalRequest surfaces the generated approval id to the caller so
	// it can be routed to the UI. Optional.
	OnApprovalRequest func(approvalID string)
}

// NewMultiAgentWorkflow builds the three-stage workflow.
func NewMultiAgentWorkflow(
	runner Runner,
	stages [3]Definition,
	approvals approval.Store,
	requireGate bool,
	pollInterval, waitTimeout time.Duration,
	log zerolog.Logger,
) *MultiAgentWorkflow {
	return &MultiAgentWorkflow{
		runner:       runner,
		stages:       stages,
		approvals:    approvals,
		requireGate:  requireGate,
		pollInterval: pollInterval,
		waitTimeout:  waitTimeout,
		log:          log.With().Str("component", "multi-agent-workflow").Logger(),
	}
}

// Stream executes the staged run. Agent two's output is folded into the
// conversation history but never surfaced to the caller.
func (w *MultiAgentWorkflow) Stream(ctx context.Context, input WorkflowInput) (<-chan StreamEvent, error) {
	out := make(chan StreamEvent)
	go func() {
		defer close(out)

		history := []InputMessage{{Role: "user", Content: input.InputAsText}}

		first, err := w.runStage(ctx, 0, history, input.FileIDs, out, true)
		if err != nil {
			out <- StreamEvent{Type: EventErr, Message: err.Error()}
			return
		}
		history = append(history, InputMessage{Role: "assistant", Content: first.Message})

		if w.requireGate {
			approvalID := uuid.NewString()
			if w.OnApprovalRequest != nil {
				w.OnApprovalRequest(approvalID)
			}
			out <- StreamEvent{Type: EventApprovalRequest, ApprovalID: approvalID}
			if !approval.Wait(ctx, w.approvals, approvalID, w.pollInterval, w.waitTimeout) {
				w.log.Info().Str("approval_id", approvalID).Msg("approval rejected or timed out, aborting workflow")
				out <- StreamEvent{Type: EventDone, Message: first.Message, Output: first.Output, Files: first.Files, ContainerID: first.ContainerID}
				return
			}
		}

		second, err := w.runStage(ctx, 1, history, nil, out, false)
		if err != nil {
			out <- StreamEvent{Type: EventErr, Message: err.Error()}
			return
		}
		history = append(history, InputMessage{Role: "assistant", Content: second.Message})

		out <- StreamEvent{Type: EventBoundary}

		final, err := w.runStage(ctx, 2, history, nil, out, true)
		if err != nil {
			out <- StreamEvent{Type: EventErr, Message: err.Error()}
			return
		}

		out <- StreamEvent{
			Type:        EventDone,
			Message:     final.Message,
			Output:      final.Output,
			Files:       final.Files,
			ContainerID: final.ContainerID,
		}
	}()
	return out, nil
}

// runStage runs one agent to completion. When visible is set, its text events
// are forwarded to out; either way the terminal done event is returned, and a
// run that produces neither message nor output fails rather than letting the
// workflow continue with empty state.
func (w *MultiAgentWorkflow) runStage(
	ctx context.Context,
	stage int,
	history []InputMessage,
	fileIDs []string,
	out chan<- StreamEvent,
	visible bool,
) (*StreamEvent, error) {
	agent := w.stages[stage]
	stream, err := w.runner.Run(ctx, RunRequest{
		Model:           agent.Model,
		Instructions:    instructionsWithFiles(agent, fileIDs),
		Input:           history,
		FileIDs:         fileIDs,
		CodeInterpreter: agent.CodeInterpreter,
	})
	if err != nil {
		return nil, fmt.Errorf("start %s run: %w", agent.Name, err)
	}

	for evt := range Adapt(stream, nil) {
		switch evt.Type {
		case EventText:
			if visible {
				out <- evt
			}
		case EventErr:
			return nil, fmt.Errorf("%s: %s", agent.Name, evt.Message)
		case EventDone:
			if evt.Message == "" && evt.Output == nil {
				return nil, fmt.Errorf("%s returned no final output", agent.Name)
			}
			done := evt
			return &done, nil
		}
	}
	return nil, fmt.Errorf("%s stream ended without a terminal event", agent.Name)
}
