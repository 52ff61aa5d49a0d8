package agent

import "encoding/json"

// Wire shapes of the runtime's streaming events. The runtime has renamed
// fields across versions, so every historical spelling is accepted here and
// nowhere else.
type wireEvent struct {
	Type string          `json:"type"`
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
	Item json.RawMessage `json:"item"`
}

type wireDelta struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Delta  string `json:"delta"`
	Output string `json:"output"`
}

type wireItem struct {
	Type    string         `json:"type"`
	Content []ContentBlock `json:"content"`
	RawItem *struct {
		Type    string         `json:"type"`
		Content []ContentBlock `json:"content"`
	} `json:"rawItem"`
}

// DecodeRuntimeEvent classifies one raw frame from the streaming run.
// Malformed frames and unrecognized event types decode to KindIgnored; they
// never abort the stream.
func DecodeRuntimeEvent(raw json.RawMessage) RuntimeEvent {
	var evt wireEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		return RuntimeEvent{Kind: KindIgnored}
	}

	switch evt.Type {
	case "raw_model_stream_event":
		var delta wireDelta
		if err := json.Unmarshal(evt.Data, &delta); err != nil {
			return RuntimeEvent{Kind: KindIgnored}
		}
		if delta.Type != "text_stream" && delta.Type != "output_text_delta" {
			return RuntimeEvent{Kind: KindIgnored}
		}
		text := delta.Text
		if text == "" {
			text = delta.Delta
		}
		if text == "" {
			text = delta.Output
		}
		if text == "" {
			return RuntimeEvent{Kind: KindIgnored}
		}
		return RuntimeEvent{Kind: KindTextDelta, Delta: text}

	case "run_item_stream_event":
		if evt.Name != "message_output_created" || len(evt.Item) == 0 {
			return RuntimeEvent{Kind: KindIgnored}
		}
		var item wireItem
		if err := json.Unmarshal(evt.Item, &item); err != nil {
			return RuntimeEvent{Kind: KindIgnored}
		}
		out := &OutputItem{Type: item.Type, Content: item.Content, Raw: append(json.RawMessage(nil), evt.Item...)}
		if len(out.Content) == 0 && item.RawItem != nil {
			out.Type = item.RawItem.Type
			out.Content = item.RawItem.Content
		}
		return RuntimeEvent{Kind: KindItemCreated, Item: out}
	}

	return RuntimeEvent{Kind: KindIgnored}
}
