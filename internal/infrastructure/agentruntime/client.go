// Package agentruntime talks to the hosted agent runtime: streaming agent
// runs, sandbox container file access, and user file uploads.
package agentruntime

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"tutor-server/chat-api/internal/config"
	"tutor-server/chat-api/internal/domain/agent"
)

// Client implements agent.Runner plus the container file and upload surfaces.
type Client struct {
	httpClient *resty.Client
	baseURL    string
	apiKey     string
	files      *openai.Client
	log        zerolog.Logger
}

// NewClient creates a Resty-backed runtime client.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	baseURL := strings.TrimSuffix(cfg.RuntimeBaseURL, "/")

	oaiCfg := openai.DefaultConfig(cfg.RuntimeAPIKey)
	oaiCfg.BaseURL = baseURL

	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetAuthToken(cfg.RuntimeAPIKey).
			SetHeader("Content-Type", "application/json").
			SetTimeout(75 * time.Second),
		baseURL: baseURL,
		apiKey:  cfg.RuntimeAPIKey,
		files:   openai.NewClientWithConfig(oaiCfg),
		log:     log.With().Str("component", "agent-runtime").Logger(),
	}
}

// runPayload is the wire shape of a streaming run request.
type runPayload struct {
	Model        string               `json:"model"`
	Instructions string               `json:"instructions"`
	Input        []agent.InputMessage `json:"input"`
	Tools        []toolPayload        `json:"tools,omitempty"`
	Stream       bool                 `json:"stream"`
}

type toolPayload struct {
	Type      string            `json:"type"`
	Container *containerPayload `json:"container,omitempty"`
}

type containerPayload struct {
	Type    string   `json:"type"`
	FileIDs []string `json:"file_ids,omitempty"`
}

// Run starts a streaming run and returns the live event stream.
func (c *Client) Run(ctx context.Context, req agent.RunRequest) (agent.RunStream, error) {
	payload := runPayload{
		Model:        req.Model,
		Instructions: req.Instructions,
		Input:        req.Input,
		Stream:       true,
	}
	if req.CodeInterpreter {
		payload.Tools = append(payload.Tools, toolPayload{
			Type: "code_interpreter",
			Container: &containerPayload{
				Type:    "auto",
				FileIDs: req.FileIDs,
			},
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal run request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/agents/runs", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpClient := &http.Client{Timeout: 10 * time.Minute}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("agent runtime error: %d %s", resp.StatusCode, string(respBody))
	}

	return &runStream{
		resp:   resp,
		reader: bufio.NewReader(resp.Body),
	}, nil
}

// Ensure interface compliance.
var _ agent.Runner = (*Client)(nil)

// runStream implements agent.RunStream backed by an http.Response body with
// SSE parsing. The final structured result arrives as a run_completed frame
// before the terminator and is held for Output.
type runStream struct {
	resp   *http.Response
	reader *bufio.Reader
	output *agent.RunOutput
}

// completedFrame is the wire shape of the run_completed event.
type completedFrame struct {
	Type        string            `json:"type"`
	FinalOutput map[string]any    `json:"final_output"`
	Items       []json.RawMessage `json:"items"`
}

func (s *runStream) Recv() (*agent.RuntimeEvent, error) {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read line: %w", err)
		}

		line = strings.TrimSpace(line)

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")

		if data == "[DONE]" {
			return nil, io.EOF
		}

		if strings.Contains(data, `"run_completed"`) {
			var frame completedFrame
			if err := json.Unmarshal([]byte(data), &frame); err == nil && frame.Type == "run_completed" {
				s.output = decodeOutput(frame)
				continue
			}
		}

		evt := agent.DecodeRuntimeEvent(json.RawMessage(data))
		if evt.Kind == agent.KindIgnored {
			continue
		}
		return &evt, nil
	}
}

// Output returns the run's final structured result. Only meaningful after
// Recv has returned io.EOF.
func (s *runStream) Output() *agent.RunOutput {
	return s.output
}

func (s *runStream) Close() error {
	if s.resp != nil && s.resp.Body != nil {
		return s.resp.Body.Close()
	}
	return nil
}

func decodeOutput(frame completedFrame) *agent.RunOutput {
	out := &agent.RunOutput{Structured: frame.FinalOutput}
	for _, raw := range frame.Items {
		var item struct {
			Type    string               `json:"type"`
			Content []agent.ContentBlock `json:"content"`
		}
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		out.Items = append(out.Items, agent.OutputItem{
			Type:    item.Type,
			Content: item.Content,
			Raw:     append(json.RawMessage(nil), raw...),
		})
	}
	return out
}

// containerFileList is the wire shape of the container file listing.
type containerFileList struct {
	Data []agent.ContainerFile `json:"data"`
}

// ListContainerFiles returns the live file listing of one sandbox container.
func (c *Client) ListContainerFiles(ctx context.Context, containerID string) ([]agent.ContainerFile, error) {
	var listing containerFileList
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&listing).
		Get(fmt.Sprintf("/containers/%s/files", containerID))
	if err != nil {
		return nil, fmt.Errorf("list container files: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("agent runtime error: %s", resp.String())
	}
	return listing.Data, nil
}

// DownloadContainerFile fetches one sandbox file's bytes before the container
// expires.
func (c *Client) DownloadContainerFile(ctx context.Context, containerID, fileID string) ([]byte, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(fmt.Sprintf("/containers/%s/files/%s/content", containerID, fileID))
	if err != nil {
		return nil, fmt.Errorf("download container file: %w", err)
	}
	raw := resp.RawBody()
	defer raw.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("agent runtime error: %d", resp.StatusCode())
	}

	data, err := io.ReadAll(raw)
	if err != nil {
		return nil, fmt.Errorf("read container file: %w", err)
	}
	return data, nil
}

// UploadFile pushes user supplied bytes to the runtime so later runs can
// mount them into the code execution sandbox. Returns the runtime file id.
func (c *Client) UploadFile(ctx context.Context, fileName string, data []byte) (string, error) {
	file, err := c.files.CreateFileBytes(ctx, openai.FileBytesRequest{
		Name:    fileName,
		Bytes:   data,
		Purpose: openai.PurposeAssistants,
	})
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}

	c.log.Info().
		Str("file_id", file.ID).
		Str("file_name", fileName).
		Int("bytes", len(data)).
		Msg("file uploaded to agent runtime")

	return file.ID, nil
}
