// Package extract turns OCR text of an injury form into a structured
// FormRecord using an OpenAI-compatible chat model.
package extract

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/btlforms/form283/internal/forms"
)

//go:embed prompt.txt
var systemPrompt string

// maxRepairAttempts limits self-repair loops when the model returns output
// that is not a structurally valid record.
const maxRepairAttempts = 2

// Config holds configuration for the extraction client.
type Config struct {
	APIKey      string
	Model       string // default: gpt-4o
	Temperature float64
	MaxRetries  int           // SDK transport retries
	Timeout     time.Duration // HTTP timeout
	BaseURL     string        // optional (tests, OpenAI-compatible gateways)
	HTTPClient  *http.Client  // optional (tests)
}

// Extractor extracts form records from OCR text.
type Extractor struct {
	model       string
	temperature float64
	client      openai.Client
}

// New creates an Extractor backed by the official OpenAI SDK.
func New(cfg Config) *Extractor {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Extractor{
		model:       cfg.Model,
		temperature: cfg.Temperature,
		client:      openai.NewClient(opts...),
	}
}

// Result carries the extracted record plus call metadata.
type Result struct {
	Record       forms.FormRecord `json:"record"`
	ModelUsed    string           `json:"model_used"`
	PromptTokens int              `json:"prompt_tokens"`
	OutputTokens int              `json:"output_tokens"`
	Attempts     int              `json:"attempts"`
}

// Extract asks the model for a structured record and decodes it, asking the
// model to repair its output when the shape is wrong. Field content is never
// second-guessed here - the validators downstream handle that.
func (e *Extractor) Extract(ctx context.Context, ocrText string) (*Result, error) {
	if strings.TrimSpace(ocrText) == "" {
		return nil, fmt.Errorf("empty OCR text")
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		openai.UserMessage(ocrText),
	}

	result := &Result{ModelUsed: e.model}
	var lastErr error

	for attempt := 0; attempt <= maxRepairAttempts; attempt++ {
		result.Attempts = attempt + 1

		completion, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:       openai.ChatModel(e.model),
			Messages:    messages,
			Temperature: openai.Float(e.temperature),
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("chat completion failed: %w", err)
		}
		if len(completion.Choices) == 0 {
			return nil, fmt.Errorf("chat completion returned no choices")
		}

		content := completion.Choices[0].Message.Content
		result.PromptTokens += int(completion.Usage.PromptTokens)
		result.OutputTokens += int(completion.Usage.CompletionTokens)

		record, err := decodeContent(content)
		if err == nil {
			result.Record = record
			return result, nil
		}
		lastErr = err

		var structural *forms.StructuralError
		if !errors.As(err, &structural) && !isParseError(err) {
			return nil, err
		}

		// Feed the bad output back so the model can fix its own shape.
		messages = append(messages,
			openai.AssistantMessage(content),
			openai.UserMessage(repairPrompt(content, err)),
		)
	}

	return nil, fmt.Errorf("model output invalid after %d attempts: %w", maxRepairAttempts+1, lastErr)
}

// decodeContent parses the model output and enforces the record shape.
func decodeContent(content string) (forms.FormRecord, error) {
	raw, err := parseRecordJSON(content)
	if err != nil {
		return forms.FormRecord{}, &parseError{err: err}
	}
	return forms.Decode(raw)
}

type parseError struct {
	err error
}

func (e *parseError) Error() string { return e.err.Error() }
func (e *parseError) Unwrap() error { return e.err }

func isParseError(err error) bool {
	var pe *parseError
	return errors.As(err, &pe)
}

func repairPrompt(lastOutput string, issue error) string {
	lastOutput = strings.TrimSpace(lastOutput)
	if len(lastOutput) > 12000 {
		lastOutput = lastOutput[:12000] + "\n...[truncated]"
	}

	return fmt.Sprintf(`Return ONLY valid JSON (no markdown, no commentary) that strictly conforms to this schema.

Schema:
%s

Your previous output:
%s

Validation issue:
%v`, forms.SchemaJSON(), lastOutput, issue)
}
