package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/djscheuf/deepgram-transcribe-folder/internal/infra/ollama"
)

func TestClient_PolishParsesWrappedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
			Format string `json:"format"`
			Stream bool   `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Model != "llama3" {
			t.Errorf("model: got %q, want llama3", req.Model)
		}
		if req.Format != "json" || req.Stream {
			t.Errorf("format/stream: got %q/%v", req.Format, req.Stream)
		}
		if !strings.Contains(req.Prompt, "we shipped the release") {
			t.Errorf("prompt does not contain the transcript")
		}

		// Ollama wraps the model's JSON in a response field.
		inner := `{"title":"Release Recap","key_points":["shipped"],"action_items":["tag v2"],"formatted_transcript":"we shipped the release"}`
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"response": inner})
	}))
	defer server.Close()

	client := ollama.NewClient(server.URL, "llama3", 5*time.Second)

	note, err := client.Polish(context.Background(), "we shipped the release")
	if err != nil {
		t.Fatalf("Polish error: %v", err)
	}

	if note.Title != "Release Recap" {
		t.Errorf("title: got %q", note.Title)
	}
	if len(note.KeyPoints) != 1 || note.KeyPoints[0] != "shipped" {
		t.Errorf("key points: got %v", note.KeyPoints)
	}
	if len(note.ActionItems) != 1 || note.ActionItems[0] != "tag v2" {
		t.Errorf("action items: got %v", note.ActionItems)
	}
	if note.Transcript != "we shipped the release" {
		t.Errorf("transcript: got %q", note.Transcript)
	}
}

func TestClient_PolishFallsBackToOriginalTranscript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		inner := `{"title":"Sparse Answer"}`
		json.NewEncoder(w).Encode(map[string]string{"response": inner})
	}))
	defer server.Close()

	client := ollama.NewClient(server.URL, "llama3", 5*time.Second)

	note, err := client.Polish(context.Background(), "the original words")
	if err != nil {
		t.Fatalf("Polish error: %v", err)
	}
	if note.Transcript != "the original words" {
		t.Errorf("transcript fallback: got %q", note.Transcript)
	}
}

func TestClient_PolishAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := ollama.NewClient(server.URL, "llama3", 5*time.Second)

	if _, err := client.Polish(context.Background(), "text"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestClient_PolishGarbageModelOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": "not json at all"})
	}))
	defer server.Close()

	client := ollama.NewClient(server.URL, "llama3", 5*time.Second)

	if _, err := client.Polish(context.Background(), "text"); err == nil {
		t.Fatal("expected error for unparseable model output")
	}
}
