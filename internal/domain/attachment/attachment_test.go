package attachment_test

import (
	"strings"
	"testing"

	"tutor-server/chat-api/internal/domain/attachment"
)

func TestContentType(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"tree.png", "image/png"},
		{"photo.JPG", "image/jpeg"},
		{"report.pdf", "application/pdf"},
		{"notes.md", "text/markdown"},
		{"data.csv", "text/csv"},
		{"script.py", "text/x-python"},
		{"mystery.bin", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := attachment.ContentType(tt.filename); got != tt.expected {
				t.Errorf("ContentType(%q) = %q, want %q", tt.filename, got, tt.expected)
			}
		})
	}
}

func TestDetectContentType_SniffsUnknownExtension(t *testing.T) {
	pngHeader := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}
	if got := attachment.DetectContentType(pngHeader, "mystery.bin"); got != "image/png" {
		t.Errorf("DetectContentType() = %q, want image/png", got)
	}
	if got := attachment.DetectContentType([]byte("hi"), "report.pdf"); got != "application/pdf" {
		t.Errorf("extension mapping should win, got %q", got)
	}
}

func TestIsImage(t *testing.T) {
	if !attachment.IsImage("tree.png") {
		t.Error("IsImage(tree.png) = false, want true")
	}
	if attachment.IsImage("report.pdf") {
		t.Error("IsImage(report.pdf) = true, want false")
	}
}

func TestFormatMarkdown(t *testing.T) {
	plain := attachment.FormatMarkdown("report.pdf", "/api/files/serve?path=u/c/report.pdf")
	if !strings.Contains(plain, "[📄 report.pdf](/api/files/serve?path=u/c/report.pdf)") {
		t.Errorf("unexpected plain link: %q", plain)
	}

	image := attachment.FormatMarkdown("tree.png", "/api/files/serve?path=u/c/tree.png")
	if !strings.Contains(image, "![tree.png](/api/files/serve?path=u/c/tree.png)") {
		t.Errorf("missing inline preview: %q", image)
	}
	if !strings.Contains(image, "&download=true") {
		t.Errorf("missing download link: %q", image)
	}

	bare := attachment.FormatMarkdown("tree.png", "/files/tree.png")
	if !strings.Contains(bare, "?download=true") {
		t.Errorf("download param should use ? on bare URLs: %q", bare)
	}
}
