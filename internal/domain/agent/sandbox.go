package agent

import (
	"path"
	"regexp"
	"strings"
)

// The runtime has referenced sandbox files with several URL conventions over
// time: sandbox://mnt/data/f.png, sandbox:/mnt/data/f.png, inside markdown
// links or as bare URLs. All forms normalize to a single {path} value before
// anything downstream looks at them.
var sandboxURLPattern = regexp.MustCompile(`sandbox:/{1,2}([^\s)\]"'<>]+)`)

// ContainsSandboxURL reports whether text references any sandbox file.
func ContainsSandboxURL(text string) bool {
	return strings.Contains(text, "sandbox:/")
}

// NormalizeSandboxPath strips scheme and leading slashes from a matched
// sandbox URL path.
func NormalizeSandboxPath(matched string) string {
	return strings.TrimLeft(matched, "/")
}

// ParseSandboxRefs extracts sandbox file references from free text,
// deduplicated by normalized path. IDs are left empty; they are resolved
// later against the sandbox's live listing.
func ParseSandboxRefs(text string) []FileReference {
	matches := sandboxURLPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	refs := make([]FileReference, 0, len(matches))
	for _, m := range matches {
		p := NormalizeSandboxPath(m[1])
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		refs = append(refs, FileReference{
			Path:     p,
			FileName: path.Base(p),
		})
	}
	return refs
}

// collectFileRefs scans the turn's finalized items for sandbox references and
// falls back to the flat message text when the items carry none.
func collectFileRefs(items []OutputItem, flatText string) []FileReference {
	var combined strings.Builder
	for _, item := range items {
		for _, block := range item.Content {
			if block.Text != "" {
				combined.WriteString(block.Text)
				combined.WriteString("\n")
			}
		}
	}

	refs := ParseSandboxRefs(combined.String())
	if len(refs) == 0 && ContainsSandboxURL(flatText) {
		refs = ParseSandboxRefs(flatText)
	}
	return refs
}
