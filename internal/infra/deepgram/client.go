package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Client calls the Deepgram pre-recorded transcription API. Model and
// smart formatting are fixed at construction; each call sends the raw audio
// bytes and extracts the first channel's first alternative.
type Client struct {
	apiKey      string
	httpClient  *http.Client
	baseURL     string
	model       string
	smartFormat bool
}

func NewClient(apiKey, model string, smartFormat bool, timeout time.Duration) *Client {
	return NewClientWithURL(apiKey, model, smartFormat, timeout, "https://api.deepgram.com")
}

func NewClientWithURL(apiKey, model string, smartFormat bool, timeout time.Duration, baseURL string) *Client {
	if model == "" {
		model = "nova-2"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		model:       model,
		smartFormat: smartFormat,
	}
}

type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe sends one audio file and returns its transcript. The file name
// is only used to derive the Content-Type.
func (c *Client) Transcribe(ctx context.Context, name string, audio []byte) (string, error) {
	query := url.Values{}
	query.Set("model", c.model)
	if c.smartFormat {
		query.Set("smart_format", "true")
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/v1/listen?"+query.Encode(),
		bytes.NewReader(audio),
	)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", mimeTypeFor(name))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("deepgram API error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result listenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	// The response shape is a contract with an external system; do not
	// trust it to hold.
	if len(result.Results.Channels) == 0 || len(result.Results.Channels[0].Alternatives) == 0 {
		return "", fmt.Errorf("response contains no transcript")
	}

	return result.Results.Channels[0].Alternatives[0].Transcript, nil
}

func mimeTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	case ".ogg":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	case ".webm":
		return "audio/webm"
	default:
		return "audio/mpeg"
	}
}
