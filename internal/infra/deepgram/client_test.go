package deepgram_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/djscheuf/deepgram-transcribe-folder/internal/infra/deepgram"
)

func listenResponse(transcript string) map[string]any {
	return map[string]any{
		"results": map[string]any{
			"channels": []map[string]any{
				{
					"alternatives": []map[string]any{
						{"transcript": transcript},
					},
				},
			},
		},
	}
}

func TestClient_Transcribe(t *testing.T) {
	audio := []byte("fake wav bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/listen" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if got := r.URL.Query().Get("model"); got != "nova-2" {
			t.Errorf("model query: got %q, want nova-2", got)
		}
		if got := r.URL.Query().Get("smart_format"); got != "true" {
			t.Errorf("smart_format query: got %q, want true", got)
		}
		if got := r.Header.Get("Authorization"); got != "Token test-key" {
			t.Errorf("authorization: got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "audio/wav" {
			t.Errorf("content type: got %q, want audio/wav", got)
		}

		body, _ := io.ReadAll(r.Body)
		if string(body) != string(audio) {
			t.Errorf("body: got %d bytes, want %d", len(body), len(audio))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(listenResponse("hello from the recorder"))
	}))
	defer server.Close()

	client := deepgram.NewClientWithURL("test-key", "nova-2", true, 5*time.Second, server.URL)

	text, err := client.Transcribe(context.Background(), "20250801_a.wav", audio)
	if err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}
	if text != "hello from the recorder" {
		t.Errorf("transcript: got %q", text)
	}
}

func TestClient_TranscribeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"err_msg":"invalid credentials"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := deepgram.NewClientWithURL("bad-key", "nova-2", true, 5*time.Second, server.URL)

	_, err := client.Transcribe(context.Background(), "a.mp3", []byte("audio"))
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error %q does not mention the status code", err)
	}
}

func TestClient_TranscribeMissingTranscriptPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"results":{"channels":[]}}`)
	}))
	defer server.Close()

	client := deepgram.NewClientWithURL("test-key", "nova-2", true, 5*time.Second, server.URL)

	_, err := client.Transcribe(context.Background(), "a.mp3", []byte("audio"))
	if err == nil {
		t.Fatal("expected error for response without channels")
	}
}

func TestClient_TranscribeRespectsContext(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		json.NewEncoder(w).Encode(listenResponse("too late"))
	}))
	defer server.Close()
	defer close(release)

	client := deepgram.NewClientWithURL("test-key", "nova-2", true, time.Minute, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Transcribe(ctx, "a.mp3", []byte("audio"))
	if err == nil {
		t.Fatal("expected error after context deadline")
	}
}
