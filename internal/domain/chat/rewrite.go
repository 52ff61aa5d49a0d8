package chat

import (
	"strings"

	"tutor-server/chat-api/internal/domain/attachment"
)

// RewriteFileLink replaces every ephemeral sandbox reference to path in
// message with the durable url. The runtime has emitted several link shapes
// over time (double and single slash schemes, with or without a leading path
// slash, bare path-only markdown targets); all of them are tried. When no
// occurrence exists at all, a formatted attachment link is appended so the
// file is never silently lost. Running the rewrite again on its own output is
// a no-op.
func RewriteFileLink(message, path, url, fileName string) string {
	if strings.Contains(message, url) {
		return ensureImagePreview(message, url, fileName)
	}

	replaced := false
	for _, variant := range sandboxVariants(path) {
		if strings.Contains(message, variant) {
			message = strings.ReplaceAll(message, variant, url)
			replaced = true
		}
	}

	if !replaced {
		for _, target := range []string{"](/" + path + ")", "](" + path + ")"} {
			if strings.Contains(message, target) {
				message = strings.ReplaceAll(message, target, "]("+url+")")
				replaced = true
			}
		}
	}

	if !replaced {
		return message + attachment.FormatMarkdown(fileName, url)
	}
	return ensureImagePreview(message, url, fileName)
}

func sandboxVariants(path string) []string {
	return []string{
		"sandbox:///" + path,
		"sandbox://" + path,
		"sandbox:/" + path,
	}
}

// ensureImagePreview guarantees images render inline even when the runtime
// only emitted a textual link.
func ensureImagePreview(message, url, fileName string) string {
	if !attachment.IsImage(fileName) {
		return message
	}
	preview := "![" + fileName + "](" + url + ")"
	if strings.Contains(message, preview) {
		return message
	}
	return message + "\n\n" + preview + "\n"
}
