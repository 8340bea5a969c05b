package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"

	"github.com/Lllllllleong/documentsummaryflow/internal/gcp"
)

// ExtractResult is the output of the extraction step.
type ExtractResult struct {
	Text      string
	PageCount int
}

// Extractor turns raw document bytes into plain text.
type Extractor interface {
	Extract(ctx context.Context, doc []byte) (ExtractResult, error)
}

// VertexExtractor is a stateless adapter over the extractor model. It carries
// no retry logic; the orchestrator owns that policy.
type VertexExtractor struct {
	model   *genai.GenerativeModel
	timeout time.Duration
}

func NewVertexExtractor(model *genai.GenerativeModel, timeout time.Duration) *VertexExtractor {
	return &VertexExtractor{model: model, timeout: timeout}
}

// Extract validates the document, sends it inline to the model, and returns
// the extracted plain text with the page count. A corrupt document or a model
// refusal fails here without retrying.
func (e *VertexExtractor) Extract(ctx context.Context, doc []byte) (ExtractResult, error) {
	pageCount, err := inspectPDF(doc)
	if err != nil {
		return ExtractResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	filePart := genai.Blob{MIMEType: "application/pdf", Data: doc}
	prompt := genai.Text(gcp.ExtractorUserPrompt)

	resp, err := e.model.GenerateContent(ctx, filePart, prompt)
	if err != nil {
		return ExtractResult{}, fmt.Errorf("failed to generate content from gemini: %w", err)
	}

	text := responseText(resp)
	if isRefusal(text) {
		return ExtractResult{}, fmt.Errorf("%w: %q", ErrModelRefusal, firstLine(text))
	}
	return ExtractResult{Text: text, PageCount: pageCount}, nil
}

// Sanity check for LLM refusal. If the model refuses to answer, we must fail fast.
var refusalPhrases = []string{
	"i am unable to",
	"i cannot fulfill",
	"i cannot answer",
	"i cannot provide",
	"as a large language model",
}

func isRefusal(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}
