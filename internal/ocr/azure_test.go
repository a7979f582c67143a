package ocr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(serverURL string) *AzureDIClient {
	return NewAzureDIClient(AzureDIConfig{
		Endpoint:     serverURL,
		APIKey:       "test-key",
		PollInterval: time.Millisecond,
		PollAttempts: 5,
	})
}

func TestProcessDocument(t *testing.T) {
	var polls atomic.Int32

	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("POST /documentintelligence/documentModels/prebuilt-layout:analyze", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req azureAnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Base64Source == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Operation-Location", server.URL+"/operations/op-1")
		w.WriteHeader(http.StatusAccepted)
	})

	mux.HandleFunc("GET /operations/op-1", func(w http.ResponseWriter, r *http.Request) {
		n := polls.Add(1)
		resp := azureOperationResponse{Status: "running"}
		if n >= 2 {
			resp = azureOperationResponse{
				Status: "succeeded",
				AnalyzeResult: &azureAnalyzeResult{
					Content: "טופס בל/283\nשם משפחה: כהן",
					Pages:   []azurePage{{PageNumber: 1}, {PageNumber: 2}},
				},
			}
		}
		json.NewEncoder(w).Encode(resp)
	})

	server = httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.ProcessDocument(context.Background(), []byte("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("ProcessDocument() error = %v", err)
	}
	if !result.Success {
		t.Errorf("Success = false: %s", result.ErrorMessage)
	}
	if !strings.Contains(result.Text, "כהן") {
		t.Errorf("Text = %q, want OCR content", result.Text)
	}
	if result.Pages != 2 {
		t.Errorf("Pages = %d, want 2", result.Pages)
	}
	if polls.Load() < 2 {
		t.Errorf("polls = %d, want at least 2", polls.Load())
	}
}

func TestProcessDocumentAnalysisFails(t *testing.T) {
	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("POST /documentintelligence/documentModels/prebuilt-layout:analyze", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Operation-Location", server.URL+"/operations/op-2")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /operations/op-2", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(azureOperationResponse{Status: "failed"})
	})

	server = httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.ProcessDocument(context.Background(), []byte("doc"))
	if err == nil {
		t.Fatal("ProcessDocument() should fail")
	}
	if result.Success {
		t.Error("Success = true for failed analysis")
	}
}

func TestProcessDocumentSubmitRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "401", "message": "invalid subscription key"},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.ProcessDocument(context.Background(), []byte("doc"))
	if err == nil || !strings.Contains(err.Error(), "invalid subscription key") {
		t.Errorf("error = %v, want provider message surfaced", err)
	}
}

func TestProcessDocumentPollTimeout(t *testing.T) {
	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("POST /documentintelligence/documentModels/prebuilt-layout:analyze", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Operation-Location", server.URL+"/operations/op-3")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /operations/op-3", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(azureOperationResponse{Status: "running"})
	})

	server = httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.ProcessDocument(context.Background(), []byte("doc"))
	if err == nil {
		t.Fatal("ProcessDocument() should time out when analysis never settles")
	}
}

func TestAzureDIDefaults(t *testing.T) {
	client := NewAzureDIClient(AzureDIConfig{Endpoint: "https://example", APIKey: "k"})
	if client.Name() != AzureDIName {
		t.Errorf("Name() = %q", client.Name())
	}
	if client.model != AzureDIModel {
		t.Errorf("model = %q, want %q", client.model, AzureDIModel)
	}
	if client.MaxRetries() != 3 {
		t.Errorf("MaxRetries() = %d", client.MaxRetries())
	}
}
