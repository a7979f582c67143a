// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/btlforms/form283/internal/config"
	"github.com/btlforms/form283/internal/extract"
	"github.com/btlforms/form283/internal/ocr"
	"github.com/btlforms/form283/internal/report"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Builder       *report.Builder
	Extractor     *extract.Extractor
	OCR           ocr.Provider
	ConfigManager *config.Manager
	Logger        *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// BuilderFrom extracts the report builder from context.
func BuilderFrom(ctx context.Context) *report.Builder {
	if s := ServicesFrom(ctx); s != nil {
		return s.Builder
	}
	return nil
}

// ExtractorFrom extracts the LLM extractor from context.
func ExtractorFrom(ctx context.Context) *extract.Extractor {
	if s := ServicesFrom(ctx); s != nil {
		return s.Extractor
	}
	return nil
}

// OCRFrom extracts the OCR provider from context.
func OCRFrom(ctx context.Context) ocr.Provider {
	if s := ServicesFrom(ctx); s != nil {
		return s.OCR
	}
	return nil
}

// ConfigManagerFrom extracts the config manager from context.
func ConfigManagerFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.ConfigManager
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}
