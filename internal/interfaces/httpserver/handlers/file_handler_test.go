package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tutor-server/chat-api/internal/domain/chat"
	"tutor-server/chat-api/internal/interfaces/httpserver/handlers"
)

// MockBridge is a func-field mock for the file bridge.
type MockBridge struct {
	BridgeFileFunc func(ctx context.Context, p chat.BridgeParams) (string, string, error)
}

func (m *MockBridge) BridgeFile(ctx context.Context, p chat.BridgeParams) (string, string, error) {
	if m.BridgeFileFunc != nil {
		return m.BridgeFileFunc(ctx, p)
	}
	return "", "", nil
}

// MockStorage serves canned file bytes.
type MockStorage struct {
	Files map[string][]byte
}

func (m *MockStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	data, _ := io.ReadAll(body)
	if m.Files == nil {
		m.Files = map[string][]byte{}
	}
	m.Files[key] = data
	return nil
}

func (m *MockStorage) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	data, ok := m.Files[key]
	if !ok {
		return nil, "", errors.New("file not found")
	}
	return io.NopCloser(bytes.NewReader(data)), "", nil
}

func (m *MockStorage) Health(ctx context.Context) error { return nil }

// MockUploader records runtime uploads.
type MockUploader struct {
	LastName string
	LastData []byte
}

func (m *MockUploader) UploadFile(ctx context.Context, fileName string, data []byte) (string, error) {
	m.LastName = fileName
	m.LastData = data
	return "file-123", nil
}

func setupFileTestRouter(upload *handlers.UploadHandler, file *handlers.FileHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	{
		api.POST("/upload", upload.Upload)
		api.POST("/files/download", file.Download)
		api.GET("/files/serve", file.Serve)
	}
	return r
}

func TestFileHandler_Download(t *testing.T) {
	bridge := &MockBridge{
		BridgeFileFunc: func(ctx context.Context, p chat.BridgeParams) (string, string, error) {
			if p.FileID != "cfile_1" || p.ContainerID != "cntr_x" {
				t.Errorf("params = %+v", p)
			}
			return "http://localhost:8080/api/files/serve?path=guest%2Fconv_1%2Ftree.png&filename=tree.png", "guest/conv_1/tree.png", nil
		},
	}
	fileHandler := handlers.NewFileHandler(bridge, &MockStorage{}, zerolog.Nop())
	uploadHandler := handlers.NewUploadHandler(&MockUploader{}, 1<<20, zerolog.Nop())
	router := setupFileTestRouter(uploadHandler, fileHandler)

	payload := `{"fileId":"cfile_1","containerId":"cntr_x","fileName":"tree.png","conversationId":"conv_1"}`
	req, _ := http.NewRequest("POST", "/api/files/download", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		URL  string `json:"url"`
		Path string `json:"path"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.URL, "/api/files/serve?") || resp.Path != "guest/conv_1/tree.png" {
		t.Errorf("response = %+v", resp)
	}
}

func TestFileHandler_ServeImageInline(t *testing.T) {
	store := &MockStorage{Files: map[string][]byte{
		"guest/conv_1/tree.png": []byte("png-bytes"),
	}}
	fileHandler := handlers.NewFileHandler(&MockBridge{}, store, zerolog.Nop())
	uploadHandler := handlers.NewUploadHandler(&MockUploader{}, 1<<20, zerolog.Nop())
	router := setupFileTestRouter(uploadHandler, fileHandler)

	req, _ := http.NewRequest("GET", "/api/files/serve?path=guest%2Fconv_1%2Ftree.png&filename=tree.png", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "inline") {
		t.Errorf("Content-Disposition = %q, want inline for an image", cd)
	}
	if w.Body.String() != "png-bytes" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestFileHandler_ServeForcedDownload(t *testing.T) {
	store := &MockStorage{Files: map[string][]byte{
		"guest/conv_1/tree.png": []byte("png-bytes"),
	}}
	fileHandler := handlers.NewFileHandler(&MockBridge{}, store, zerolog.Nop())
	uploadHandler := handlers.NewUploadHandler(&MockUploader{}, 1<<20, zerolog.Nop())
	router := setupFileTestRouter(uploadHandler, fileHandler)

	req, _ := http.NewRequest("GET", "/api/files/serve?path=guest%2Fconv_1%2Ftree.png&filename=tree.png&download=true", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment") {
		t.Errorf("Content-Disposition = %q, want attachment with download=true", cd)
	}
}

func TestFileHandler_ServeMissingFile(t *testing.T) {
	fileHandler := handlers.NewFileHandler(&MockBridge{}, &MockStorage{}, zerolog.Nop())
	uploadHandler := handlers.NewUploadHandler(&MockUploader{}, 1<<20, zerolog.Nop())
	router := setupFileTestRouter(uploadHandler, fileHandler)

	req, _ := http.NewRequest("GET", "/api/files/serve?path=nope.png", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestUploadHandler_Upload(t *testing.T) {
	uploader := &MockUploader{}
	uploadHandler := handlers.NewUploadHandler(uploader, 1<<20, zerolog.Nop())
	fileHandler := handlers.NewFileHandler(&MockBridge{}, &MockStorage{}, zerolog.Nop())
	router := setupFileTestRouter(uploadHandler, fileHandler)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "homework.csv")
	fw.Write([]byte("a,b\n1,2\n"))
	mw.Close()

	req, _ := http.NewRequest("POST", "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		FileID   string `json:"fileId"`
		Filename string `json:"filename"`
		Bytes    int64  `json:"bytes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.FileID != "file-123" || resp.Filename != "homework.csv" || resp.Bytes != 8 {
		t.Errorf("response = %+v", resp)
	}
	if uploader.LastName != "homework.csv" {
		t.Errorf("uploader got %q", uploader.LastName)
	}
}

func TestUploadHandler_RejectsOversizedFile(t *testing.T) {
	uploadHandler := handlers.NewUploadHandler(&MockUploader{}, 4, zerolog.Nop())
	fileHandler := handlers.NewFileHandler(&MockBridge{}, &MockStorage{}, zerolog.Nop())
	router := setupFileTestRouter(uploadHandler, fileHandler)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "big.bin")
	fw.Write([]byte("way too many bytes"))
	mw.Close()

	req, _ := http.NewRequest("POST", "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}
