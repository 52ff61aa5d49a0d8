// Package agent adapts the hosted agent runtime's loosely typed event stream
// into the small set of events the chat pipeline understands, and hosts the
// workflow orchestrators built on top of it.
package agent

import (
	"context"
	"encoding/json"
)

// EventType discriminates the adapted stream events.
type EventType string

const (
	EventText EventType = "text"
	EventDone EventType = "done"
	EventErr  EventType = "error"
	// EventBoundary separates the visible output of two agents in the multi
	// agent workflow so clients can render them as separate bubbles. It is
	// emitted only between runs, never by the adapter itself.
	EventBoundary EventType = "boundary"
	// EventApprovalRequest announces that the workflow is paused on a human
	// decision. Carries the approval id the client must post back.
	EventApprovalRequest EventType = "approval_request"
)

// StreamEvent is the normalized event delivered to the chat pipeline.
// Exactly one terminal event (done or error) closes every adapted stream.
type StreamEvent struct {
	Type        EventType
	Content     string          // text: incremental chunk
	Message     string          // done/error: final or error message
	Output      *RunOutput      // done: structured final output when available
	Files       []FileReference // done: sandbox files referenced by the output
	ContainerID string          // done: execution sandbox id when recovered
	ApprovalID  string          // approval_request: id to decide on
}

// FileReference points at a file the runtime reports as generated inside its
// ephemeral execution sandbox. ID stays empty until the reference is matched
// against the sandbox's live file listing.
type FileReference struct {
	ID          string
	Path        string
	ContainerID string
	FileName    string
}

// ContainerFile is one entry of a sandbox's remote file listing.
type ContainerFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// ContentBlock is one piece of an output item's content.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// OutputItem is a finalized item the runtime produced during a turn
// (messages, tool calls, reasoning). Raw keeps the provider payload for the
// container id fallback search.
type OutputItem struct {
	Type    string          `json:"type"`
	Content []ContentBlock  `json:"content"`
	Raw     json.RawMessage `json:"-"`
}

// RunOutput is the runtime's final structured result for a run.
type RunOutput struct {
	// Structured is the parsed final output payload; the agents use an output
	// schema that wraps the user facing text in a "message" field.
	Structured map[string]any
	Items      []OutputItem
}

// Message returns the structured output's message field, if present.
func (o *RunOutput) Message() string {
	if o == nil || o.Structured == nil {
		return ""
	}
	msg, _ := o.Structured["message"].(string)
	return msg
}

// EventKind discriminates raw runtime events at the boundary. Everything the
// adapter does not recognize decodes to KindIgnored.
type EventKind int

const (
	KindIgnored EventKind = iota
	KindTextDelta
	KindItemCreated
)

// RuntimeEvent is one raw event from the runtime's streaming run, already
// classified into the closed union the adapter works with.
type RuntimeEvent struct {
	Kind  EventKind
	Delta string      // KindTextDelta
	Item  *OutputItem // KindItemCreated
}

// RunStream is a live streaming run. Recv returns io.EOF when the raw event
// sequence ends; Output is only meaningful after that and may return nil when
// the runtime produced no final structured result.
type RunStream interface {
	Recv() (*RuntimeEvent, error)
	Output() *RunOutput
	Close() error
}

// InputMessage is one entry of the conversation history handed to a run.
type InputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RunRequest describes a single streaming run against the runtime.
type RunRequest struct {
	Model        string
	Instructions string
	Input        []InputMessage
	// FileIDs scopes the code execution tool to previously uploaded files.
	// The tool is attached whenever the agent definition asks for it.
	FileIDs         []string
	CodeInterpreter bool
}

// Runner starts streaming runs. Implemented by the agentruntime client.
type Runner interface {
	Run(ctx context.Context, req RunRequest) (RunStream, error)
}

// MessageExtractor pulls the display message out of a structured final
// output. A nil extractor falls back to the output's message field.
type MessageExtractor func(structured map[string]any) string
