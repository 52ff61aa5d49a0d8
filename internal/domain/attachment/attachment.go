// Package attachment holds pure helpers for presenting stored files in chat
// messages: MIME lookup, image classification, and markdown snippets.
package attachment

import (
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var mimeByExtension = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
	"svg":  "image/svg+xml",

	"pdf":  "application/pdf",
	"txt":  "text/plain",
	"md":   "text/markdown",
	"csv":  "text/csv",
	"json": "application/json",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"py":   "text/x-python",
	"js":   "text/javascript",
	"ts":   "text/typescript",
	"html": "text/html",
	"css":  "text/css",
}

// ContentType maps a filename to a MIME type by extension.
func ContentType(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if mime, ok := mimeByExtension[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// DetectContentType prefers the extension mapping and falls back to content
// sniffing for files with unknown or missing extensions.
func DetectContentType(data []byte, filename string) string {
	if ct := ContentType(filename); ct != "application/octet-stream" {
		return ct
	}
	if len(data) == 0 {
		return "application/octet-stream"
	}
	return mimetype.Detect(data).String()
}

// IsImage reports whether the filename maps to an image MIME type.
func IsImage(filename string) bool {
	return strings.HasPrefix(ContentType(filename), "image/")
}

// FormatMarkdown renders a stored file link for inclusion in a chat message.
// Images get an inline preview plus a download link; everything else a plain
// link.
func FormatMarkdown(filename, url string) string {
	if IsImage(filename) {
		downloadURL := url + "?download=true"
		if strings.Contains(url, "?") {
			downloadURL = url + "&download=true"
		}
		return fmt.Sprintf("\n\n![%s](%s)\n\n[Download %s](%s)\n", filename, url, filename, downloadURL)
	}
	return fmt.Sprintf("\n\n[📄 %s](%s)\n", filename, url)
}
