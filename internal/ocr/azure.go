package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	AzureDIName       = "azure-di"
	AzureDIAPIVersion = "2024-11-30"
	AzureDIModel      = "prebuilt-layout"
)

// AzureDIConfig holds configuration for the Azure Document Intelligence client.
type AzureDIConfig struct {
	Endpoint     string // e.g. https://myresource.cognitiveservices.azure.com
	APIKey       string
	Model        string        // analysis model (default: prebuilt-layout)
	Timeout      time.Duration // HTTP timeout per request
	PollInterval time.Duration // delay between result polls
	PollAttempts uint          // max result polls before giving up
	RateLimit    float64       // requests per second
	HTTPClient   *http.Client  // optional (tests)
}

// AzureDIClient implements Provider using the Azure Document Intelligence
// REST API. Analysis is asynchronous: submit returns an operation URL that
// is polled until the analysis settles.
type AzureDIClient struct {
	endpoint     string
	apiKey       string
	model        string
	pollInterval time.Duration
	pollAttempts uint
	rateLimit    float64
	client       *http.Client
}

// NewAzureDIClient creates a new Azure Document Intelligence client.
func NewAzureDIClient(cfg AzureDIConfig) *AzureDIClient {
	if cfg.Model == "" {
		cfg.Model = AzureDIModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.PollAttempts == 0 {
		cfg.PollAttempts = 60
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 2.0
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &AzureDIClient{
		endpoint:     cfg.Endpoint,
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		pollInterval: cfg.PollInterval,
		pollAttempts: cfg.PollAttempts,
		rateLimit:    cfg.RateLimit,
		client:       client,
	}
}

// Name returns the provider identifier.
func (c *AzureDIClient) Name() string {
	return AzureDIName
}

// RequestsPerSecond returns the configured rate limit.
func (c *AzureDIClient) RequestsPerSecond() float64 {
	return c.rateLimit
}

// MaxRetries returns the maximum retry attempts for a submit.
func (c *AzureDIClient) MaxRetries() int {
	return 3
}

// RetryDelayBase returns the base delay for exponential backoff.
func (c *AzureDIClient) RetryDelayBase() time.Duration {
	return 2 * time.Second
}

// ProcessDocument extracts text from a scanned document.
func (c *AzureDIClient) ProcessDocument(ctx context.Context, document []byte) (*Result, error) {
	start := time.Now()

	operationURL, err := c.submit(ctx, document)
	if err != nil {
		return &Result{
			Success:       false,
			ErrorMessage:  err.Error(),
			ExecutionTime: time.Since(start),
		}, err
	}

	analysis, err := c.waitForResult(ctx, operationURL)
	if err != nil {
		return &Result{
			Success:       false,
			ErrorMessage:  err.Error(),
			ExecutionTime: time.Since(start),
		}, err
	}

	return &Result{
		Success: true,
		Text:    analysis.Content,
		Pages:   len(analysis.Pages),
		Metadata: map[string]any{
			"model_used":  c.model,
			"api_version": AzureDIAPIVersion,
		},
		ExecutionTime: time.Since(start),
	}, nil
}

// submit starts an analysis operation and returns its polling URL.
func (c *AzureDIClient) submit(ctx context.Context, document []byte) (string, error) {
	url := fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?api-version=%s",
		c.endpoint, c.model, AzureDIAPIVersion)

	reqBody, err := json.Marshal(azureAnalyzeRequest{
		Base64Source: base64.StdEncoding.EncodeToString(document),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("analyze request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		var errResp azureErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("azure analyze error (status %d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return "", fmt.Errorf("azure analyze error (status %d): %s", resp.StatusCode, string(body))
	}

	operationURL := resp.Header.Get("Operation-Location")
	if operationURL == "" {
		return "", fmt.Errorf("analyze response missing Operation-Location header")
	}
	return operationURL, nil
}

// waitForResult polls the operation URL until the analysis settles.
func (c *AzureDIClient) waitForResult(ctx context.Context, operationURL string) (*azureAnalyzeResult, error) {
	var result *azureAnalyzeResult

	err := retry.Do(
		func() error {
			status, analysis, err := c.pollOnce(ctx, operationURL)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			switch status {
			case "succeeded":
				result = analysis
				return nil
			case "failed":
				return retry.Unrecoverable(fmt.Errorf("analysis failed"))
			default: // notStarted, running
				return fmt.Errorf("analysis still %s", status)
			}
		},
		retry.Context(ctx),
		retry.Attempts(c.pollAttempts),
		retry.Delay(c.pollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("analysis did not complete: %w", err)
	}
	return result, nil
}

func (c *AzureDIClient) pollOnce(ctx context.Context, operationURL string) (string, *azureAnalyzeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create poll request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("poll request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read poll response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("azure poll error (status %d): %s", resp.StatusCode, string(body))
	}

	var opResp azureOperationResponse
	if err := json.Unmarshal(body, &opResp); err != nil {
		return "", nil, fmt.Errorf("failed to unmarshal poll response: %w", err)
	}
	return opResp.Status, opResp.AnalyzeResult, nil
}

// Azure Document Intelligence API types

type azureAnalyzeRequest struct {
	Base64Source string `json:"base64Source"`
}

type azureOperationResponse struct {
	Status        string              `json:"status"` // notStarted, running, succeeded, failed
	AnalyzeResult *azureAnalyzeResult `json:"analyzeResult,omitempty"`
}

type azureAnalyzeResult struct {
	Content string      `json:"content"`
	Pages   []azurePage `json:"pages,omitempty"`
}

type azurePage struct {
	PageNumber int `json:"pageNumber"`
}

type azureErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Verify interface
var _ Provider = (*AzureDIClient)(nil)
