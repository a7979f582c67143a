package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func chatResponse(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"model":   "gpt-4o",
		"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"}},
		"usage":   map[string]any{"prompt_tokens": 100, "completion_tokens": 50, "total_tokens": 150},
	}
}

func newTestExtractor(serverURL string) *Extractor {
	return New(Config{
		APIKey:     "test-key",
		BaseURL:    serverURL,
		MaxRetries: 1,
	})
}

func TestExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse(`{
			"lastName": "כהן",
			"idNumber": "123456782",
			"dateOfInjury": {"day": "10", "month": "06", "year": "2023"}
		}`))
	}))
	defer server.Close()

	result, err := newTestExtractor(server.URL).Extract(context.Background(), "טופס בל/283 ...")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if result.Record.LastName != "כהן" {
		t.Errorf("lastName = %q", result.Record.LastName)
	}
	if result.Record.DateOfInjury.Year != "2023" {
		t.Errorf("dateOfInjury.year = %q", result.Record.DateOfInjury.Year)
	}
	if result.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", result.Attempts)
	}
	if result.PromptTokens != 100 || result.OutputTokens != 50 {
		t.Errorf("tokens = (%d, %d)", result.PromptTokens, result.OutputTokens)
	}
}

func TestExtractRecoversCodeFences(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse("```json\n{\"firstName\": \"דוד\"}\n```"))
	}))
	defer server.Close()

	result, err := newTestExtractor(server.URL).Extract(context.Background(), "ocr text")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if result.Record.FirstName != "דוד" {
		t.Errorf("firstName = %q", result.Record.FirstName)
	}
}

func TestExtractSelfRepair(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// First answer has the wrong shape; the repair turn fixes it.
		if calls.Add(1) == 1 {
			json.NewEncoder(w).Encode(chatResponse(`{"dateOfInjury": "10/06/2023"}`))
			return
		}

		var req struct {
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) < 4 {
			t.Errorf("repair call has %d messages, want original + assistant + repair", len(req.Messages))
		}

		json.NewEncoder(w).Encode(chatResponse(`{"dateOfInjury": {"day": "10", "month": "06", "year": "2023"}}`))
	}))
	defer server.Close()

	result, err := newTestExtractor(server.URL).Extract(context.Background(), "ocr text")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if result.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", result.Attempts)
	}
	if result.Record.DateOfInjury.Day != "10" {
		t.Errorf("dateOfInjury.day = %q", result.Record.DateOfInjury.Day)
	}
}

func TestExtractGivesUpAfterRepairs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse(`not json at all`))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), "ocr text")
	if err == nil {
		t.Fatal("Extract() should fail when the model never produces valid JSON")
	}
}

func TestExtractEmptyInput(t *testing.T) {
	if _, err := New(Config{APIKey: "k"}).Extract(context.Background(), "  "); err == nil {
		t.Error("Extract() should reject empty OCR text")
	}
}

func TestParseRecordJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"clean object", `{"a":"1"}`, `{"a":"1"}`, false},
		{"fenced", "```json\n{\"a\":\"1\"}\n```", `{"a":"1"}`, false},
		{"fenced no language", "```\n{\"a\":\"1\"}\n```", `{"a":"1"}`, false},
		{"surrounding prose", `Here you go: {"a":"1"} hope that helps`, `{"a":"1"}`, false},
		{"empty", "", "", true},
		{"no json", "sorry, I cannot", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRecordJSON(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseRecordJSON(%q) should fail", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRecordJSON(%q) error = %v", tt.in, err)
			}
			if string(got) != tt.want {
				t.Errorf("parseRecordJSON(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
