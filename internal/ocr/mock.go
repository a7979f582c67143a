package ocr

import (
	"context"
	"time"
)

// MockProvider is a configurable OCR provider for tests.
type MockProvider struct {
	NameValue string
	Result    *Result
	Err       error

	// Calls records every document passed to ProcessDocument.
	Calls [][]byte
}

func (m *MockProvider) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "mock"
}

func (m *MockProvider) ProcessDocument(ctx context.Context, document []byte) (*Result, error) {
	m.Calls = append(m.Calls, document)
	if m.Err != nil {
		return &Result{Success: false, ErrorMessage: m.Err.Error()}, m.Err
	}
	if m.Result != nil {
		return m.Result, nil
	}
	return &Result{Success: true, Text: "mock text", Pages: 1}, nil
}

func (m *MockProvider) RequestsPerSecond() float64    { return 100 }
func (m *MockProvider) MaxRetries() int               { return 1 }
func (m *MockProvider) RetryDelayBase() time.Duration { return time.Millisecond }

var _ Provider = (*MockProvider)(nil)
