package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
)

// --- Extractor Model Prompts ---
const ExtractorSystemPrompt = "You are a document parser. Your task is to read the content of a PDF document and return its full text. Accuracy, detail, and information preservation are of utmost importance."
const ExtractorUserPrompt = `You will be provided with a PDF document.

Follow these instructions to extract its content as plain text:

Text: Transcribe all text content in reading order.
Lists and Tables: Flatten lists and tables into plain text lines, preserving the information they carry.
Images: Replace each image with a short descriptive text of its content.
Headers and Footers: Ignore repeated page furniture such as page numbers, logos, and addresses.

Return ONLY the extracted text. Do not add commentary and do not surround the output with backtick fences.`

// --- Summarizer Model Prompts ---
const SummarizerSystemPrompt = "You are a document summarizer. Your task is to condense the provided text into a short, faithful summary that a reader can use instead of the original."
const SummarizerUserPrompt = `Summarize the following document text. Explain what the document is about, its key points, and any conclusions it reaches. Return ONLY the summary text, with no preamble.

Document text:
`

// VertexConfig carries the model selection and generation bounds for the two
// generative models used by the pipeline.
type VertexConfig struct {
	ExtractorModel     string
	SummarizerModel    string
	SummaryMaxTokens   int32
	SummaryTemperature float32
}

// VertexClient holds the pre-configured generative models for the pipeline.
type VertexClient struct {
	ExtractorModel  *genai.GenerativeModel
	SummarizerModel *genai.GenerativeModel
	baseClient      *genai.Client
}

// NewVertexClient creates a new client holding both models.
func NewVertexClient(ctx context.Context, projectID, region string, cfg VertexConfig) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	// --- Configure the extractor model ---
	extractorModel := baseClient.GenerativeModel(cfg.ExtractorModel)
	extractorModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(ExtractorSystemPrompt)},
	}
	extractorModel.GenerationConfig = genai.GenerationConfig{
		// Low temperature for faithful transcription.
		Temperature: genai.Ptr[float32](0.0),
	}

	// --- Configure the summarizer model ---
	summarizerModel := baseClient.GenerativeModel(cfg.SummarizerModel)
	summarizerModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SummarizerSystemPrompt)},
	}
	summarizerModel.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: genai.Ptr[int32](cfg.SummaryMaxTokens),
		Temperature:     genai.Ptr[float32](cfg.SummaryTemperature),
	}

	return &VertexClient{
		ExtractorModel:  extractorModel,
		SummarizerModel: summarizerModel,
		baseClient:      baseClient,
	}, nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
