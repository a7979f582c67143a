// Package ocr extracts text from scanned injury-form documents.
package ocr

import (
	"context"
	"time"
)

// Provider handles document-to-text extraction.
// Separate from the LLM layer because it has different rate limiting,
// retry patterns, and result handling (plain text vs structured responses).
type Provider interface {
	// Name returns the provider identifier (e.g., "azure-di").
	Name() string

	// ProcessDocument extracts text from a scanned document (PDF or image).
	ProcessDocument(ctx context.Context, document []byte) (*Result, error)

	// Rate limiting properties
	RequestsPerSecond() float64
	MaxRetries() int
	RetryDelayBase() time.Duration
}

// Result is the response from an OCR provider.
type Result struct {
	// Success/content
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Pages   int    `json:"pages"`

	// Metadata from provider (model, language hints, etc.)
	Metadata map[string]any `json:"metadata,omitempty"`

	// Timing
	ExecutionTime time.Duration `json:"execution_time"`

	// Error info
	ErrorMessage string `json:"error_message,omitempty"`
}
