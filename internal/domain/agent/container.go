package agent

import (
	"encoding/json"
	"strings"
)

// ContainerIDPrefix marks valid execution sandbox identifiers.
const ContainerIDPrefix = "cntr_"

// IsValidContainerID reports whether id looks like a sandbox identifier.
func IsValidContainerID(id string) bool {
	return strings.HasPrefix(id, ContainerIDPrefix)
}

// The runtime has exposed the sandbox id in different places across versions.
// Each location gets one extractor; they run in priority order and the first
// valid match wins.
type containerExtractor func(structured map[string]any, items []OutputItem) string

var containerExtractors = []containerExtractor{
	extractTopLevelContainer,
	extractStateContainer,
	extractCurrentTurnContainer,
	extractToolCallContainer,
}

// ExtractContainerID recovers the execution sandbox id from a run's final
// output. It returns "" when no location yields a valid id; file resolution
// then degrades to leaving sandbox links unresolved.
func ExtractContainerID(out *RunOutput) string {
	if out == nil {
		return ""
	}
	for _, extract := range containerExtractors {
		if id := extract(out.Structured, out.Items); IsValidContainerID(id) {
			return id
		}
	}
	return ""
}

func extractTopLevelContainer(structured map[string]any, _ []OutputItem) string {
	return containerFieldOf(structured)
}

func extractStateContainer(structured map[string]any, _ []OutputItem) string {
	state, _ := structured["state"].(map[string]any)
	return containerFieldOf(state)
}

func extractCurrentTurnContainer(structured map[string]any, _ []OutputItem) string {
	for _, key := range []string{"current_turn", "currentTurn"} {
		if turn, ok := structured[key].(map[string]any); ok {
			if id := containerFieldOf(turn); id != "" {
				return id
			}
		}
	}
	return ""
}

// extractToolCallContainer digs through tool call items' provider payloads.
// The payload layout is provider specific, so this walks the raw JSON for
// the first container id it can find.
func extractToolCallContainer(_ map[string]any, items []OutputItem) string {
	for _, item := range items {
		if !strings.Contains(item.Type, "call") || len(item.Raw) == 0 {
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal(item.Raw, &payload); err != nil {
			continue
		}
		if id := findContainerID(payload); id != "" {
			return id
		}
	}
	return ""
}

func containerFieldOf(m map[string]any) string {
	if m == nil {
		return ""
	}
	for _, key := range []string{"container_id", "containerId"} {
		if id, ok := m[key].(string); ok && id != "" {
			return id
		}
	}
	switch container := m["container"].(type) {
	case string:
		return container
	case map[string]any:
		if id, ok := container["id"].(string); ok {
			return id
		}
	}
	return ""
}

func findContainerID(v any) string {
	switch value := v.(type) {
	case map[string]any:
		if id := containerFieldOf(value); id != "" {
			return id
		}
		for _, nested := range value {
			if id := findContainerID(nested); id != "" {
				return id
			}
		}
	case []any:
		for _, nested := range value {
			if id := findContainerID(nested); id != "" {
				return id
			}
		}
	}
	return ""
}
