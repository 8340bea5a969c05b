package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every startup input for the pipeline. All values come from the
// environment (optionally via a .env file); a missing required value is fatal
// at startup and never surfaces as a per-job error.
type Config struct {
	ProjectID      string
	VertexAIRegion string

	InputBucket  string
	OutputBucket string

	JobCollection string

	ExtractorModel  string
	SummarizerModel string

	// SummaryMaxTokens bounds the generated summary length.
	SummaryMaxTokens   int32
	SummaryTemperature float32

	// MaxExtractBytes is the largest extracted text the summarizer accepts.
	// Oversized input is rejected, not truncated.
	MaxExtractBytes int

	StepTimeout time.Duration

	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("VERTEX_AI_REGION", "us-central1")
	v.SetDefault("JOB_COLLECTION", "summaryJobs")
	v.SetDefault("EXTRACTOR_MODEL", "gemini-1.5-pro")
	v.SetDefault("SUMMARIZER_MODEL", "gemini-1.5-flash")
	v.SetDefault("SUMMARY_MAX_TOKENS", 200)
	v.SetDefault("SUMMARY_TEMPERATURE", 0.7)
	v.SetDefault("MAX_EXTRACT_BYTES", 400_000)
	v.SetDefault("STEP_TIMEOUT_SECONDS", 120)
	v.SetDefault("RETRY_MAX_ATTEMPTS", 3)
	v.SetDefault("RETRY_INITIAL_BACKOFF_MS", 5000)
	v.AutomaticEnv()

	cfg := &Config{
		ProjectID:           v.GetString("PROJECT_ID"),
		VertexAIRegion:      v.GetString("VERTEX_AI_REGION"),
		InputBucket:         v.GetString("INPUT_BUCKET"),
		OutputBucket:        v.GetString("OUTPUT_BUCKET"),
		JobCollection:       v.GetString("JOB_COLLECTION"),
		ExtractorModel:      v.GetString("EXTRACTOR_MODEL"),
		SummarizerModel:     v.GetString("SUMMARIZER_MODEL"),
		SummaryMaxTokens:    v.GetInt32("SUMMARY_MAX_TOKENS"),
		SummaryTemperature:  float32(v.GetFloat64("SUMMARY_TEMPERATURE")),
		MaxExtractBytes:     v.GetInt("MAX_EXTRACT_BYTES"),
		StepTimeout:         time.Duration(v.GetInt("STEP_TIMEOUT_SECONDS")) * time.Second,
		RetryMaxAttempts:    v.GetInt("RETRY_MAX_ATTEMPTS"),
		RetryInitialBackoff: time.Duration(v.GetInt("RETRY_INITIAL_BACKOFF_MS")) * time.Millisecond,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("configuration: PROJECT_ID environment variable must be set")
	}
	if c.InputBucket == "" {
		return fmt.Errorf("configuration: INPUT_BUCKET environment variable must be set")
	}
	if c.OutputBucket == "" {
		return fmt.Errorf("configuration: OUTPUT_BUCKET environment variable must be set")
	}
	if c.InputBucket == c.OutputBucket {
		return fmt.Errorf("configuration: INPUT_BUCKET and OUTPUT_BUCKET must differ")
	}
	if c.RetryMaxAttempts < 1 {
		return fmt.Errorf("configuration: RETRY_MAX_ATTEMPTS must be at least 1")
	}
	if c.MaxExtractBytes < 1 {
		return fmt.Errorf("configuration: MAX_EXTRACT_BYTES must be positive")
	}
	return nil
}
