package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/djscheuf/deepgram-transcribe-folder/internal/domain"
)

// Client talks to a local Ollama instance to turn raw transcripts into
// structured notes.
type Client struct {
	url        string
	model      string
	httpClient *http.Client
}

func NewClient(url, model string, timeout time.Duration) *Client {
	if model == "" {
		model = "llama3"
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		url:        url,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Format string `json:"format"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type noteJSON struct {
	Title               string   `json:"title"`
	KeyPoints           []string `json:"key_points"`
	ActionItems         []string `json:"action_items"`
	FormattedTranscript string   `json:"formatted_transcript"`
	Transcript          string   `json:"transcript"`
}

const promptTemplate = `You are an expert transcriptionist with extensive experience as an executive assistant.

Help the user format the provided transcript for reading.

Respond ONLY with valid JSON (no markdown, no backticks):
{
  "title": "a 4-7 word title for the note based on the content",
  "key_points": ["the key points of the voice note"],
  "action_items": ["any follow-up actions discussed, empty if none"],
  "formatted_transcript": "the initial transcript, with improved whitespace for legibility"
}

Here is the original transcription:
%s`

// Polish sends the transcript through the model and maps the returned JSON
// into a note. The model may put its JSON either at the top level or inside
// the response field; both are handled.
func (c *Client) Polish(ctx context.Context, transcript string) (*domain.Note, error) {
	reqBody := generateRequest{
		Model:  c.model,
		Prompt: fmt.Sprintf(promptTemplate, transcript),
		Format: "json",
		Stream: false,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("ollama API error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var parsed noteJSON
	var wrapper generateResponse
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Response != "" {
		if err := json.Unmarshal([]byte(wrapper.Response), &parsed); err != nil {
			return nil, fmt.Errorf("parsing model output: %w", err)
		}
	} else if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	text := parsed.FormattedTranscript
	if text == "" {
		text = parsed.Transcript
	}
	if text == "" {
		text = transcript
	}

	return &domain.Note{
		Title:       parsed.Title,
		KeyPoints:   parsed.KeyPoints,
		ActionItems: parsed.ActionItems,
		Transcript:  text,
	}, nil
}
