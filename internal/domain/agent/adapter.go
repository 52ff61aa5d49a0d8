package agent

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// Adapt converts a raw streaming run into the normalized event stream.
// Text deltas pass through one at a time; the returned channel is closed
// after exactly one terminal event (done or error).
//
// When the agent runs with a structured output schema the text channel can
// leak raw JSON (the schema wraps the visible text in a "message" field), so
// fragments that open a JSON object are buffered and unwrapped before
// anything reaches the viewer.
func Adapt(stream RunStream, extract MessageExtractor) <-chan StreamEvent {
	out := make(chan StreamEvent)
	go func() {
		defer close(out)
		defer stream.Close()
		adapt(stream, extract, out)
	}()
	return out
}

func adapt(stream RunStream, extract MessageExtractor, out chan<- StreamEvent) {
	var (
		full      strings.Builder // all text made visible so far
		jsonBuf   strings.Builder // pending structured-output fragments
		buffering bool
	)

	emitText := func(text string) {
		out <- StreamEvent{Type: EventText, Content: text}
		full.WriteString(text)
	}

	var items []OutputItem

	for {
		evt, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			out <- StreamEvent{Type: EventErr, Message: err.Error()}
			return
		}

		switch evt.Kind {
		case KindTextDelta:
			if !buffering && full.Len() == 0 && jsonBuf.Len() == 0 &&
				strings.HasPrefix(strings.TrimSpace(evt.Delta), "{") {
				buffering = true
			}
			if buffering {
				jsonBuf.WriteString(evt.Delta)
				if msg, ok := unwrapStructuredMessage(jsonBuf.String()); ok {
					emitText(msg)
					jsonBuf.Reset()
					buffering = false
				}
			} else {
				emitText(evt.Delta)
			}

		case KindItemCreated:
			items = append(items, *evt.Item)
			// Some runtime versions never emit deltas; surface the finalized
			// message text in one piece if nothing has streamed yet.
			if full.Len() == 0 && !buffering {
				if text := itemText(evt.Item); text != "" {
					emitText(text)
				}
			}
		}
	}

	// Last resort: end of stream with fragments that never became parseable.
	if buffering && jsonBuf.Len() > 0 {
		emitText(jsonBuf.String())
	}

	output := stream.Output()
	if output != nil && len(output.Items) == 0 {
		output.Items = items
	}

	message := full.String()
	if output != nil {
		switch {
		case extract != nil && extract(output.Structured) != "":
			message = extract(output.Structured)
		case output.Message() != "":
			message = output.Message()
		}
	}

	scanItems := items
	if output != nil && len(output.Items) > 0 {
		scanItems = output.Items
	}
	files := collectFileRefs(scanItems, message)
	containerID := ExtractContainerID(output)
	for i := range files {
		files[i].ContainerID = containerID
	}

	out <- StreamEvent{
		Type:        EventDone,
		Message:     message,
		Output:      output,
		Files:       files,
		ContainerID: containerID,
	}
}

// unwrapStructuredMessage reports whether buf parses as a structured output
// object and, if so, returns its visible message text.
func unwrapStructuredMessage(buf string) (string, bool) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(buf), &payload); err != nil {
		return "", false
	}
	msg, ok := payload["message"].(string)
	if !ok {
		// Parseable but not the expected schema; show nothing rather than
		// leaking structural JSON.
		return "", true
	}
	return msg, true
}

func itemText(item *OutputItem) string {
	if item == nil {
		return ""
	}
	for _, block := range item.Content {
		if (block.Type == "text" || block.Type == "output_text") && block.Text != "" {
			return block.Text
		}
	}
	return ""
}
