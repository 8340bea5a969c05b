package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"

	"github.com/Lllllllleong/documentsummaryflow/internal/gcp"
)

// Summarizer condenses extracted text into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// VertexSummarizer is a stateless adapter over the summarizer model.
// Oversized input is rejected rather than truncated: a silently degraded
// summary is worse than a visible failure.
type VertexSummarizer struct {
	model         *genai.GenerativeModel
	timeout       time.Duration
	maxInputBytes int
}

func NewVertexSummarizer(model *genai.GenerativeModel, timeout time.Duration, maxInputBytes int) *VertexSummarizer {
	return &VertexSummarizer{model: model, timeout: timeout, maxInputBytes: maxInputBytes}
}

func (s *VertexSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if err := checkSummaryInput(text, s.maxInputBytes); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.model.GenerateContent(ctx, genai.Text(gcp.SummarizerUserPrompt), genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary from gemini: %w", err)
	}

	summary := responseText(resp)
	if summary == "" {
		return "", ErrEmptySummary
	}
	return summary, nil
}

// checkSummaryInput enforces the summarizer input policy: non-empty and
// within the configured byte limit.
func checkSummaryInput(text string, maxBytes int) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}
	if len(text) > maxBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrInputTooLarge, len(text), maxBytes)
	}
	return nil
}
