package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("PROJECT_ID", "test-project")
	t.Setenv("INPUT_BUCKET", "docs-in")
	t.Setenv("OUTPUT_BUCKET", "docs-out")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-project", cfg.ProjectID)
	assert.Equal(t, "us-central1", cfg.VertexAIRegion)
	assert.Equal(t, "summaryJobs", cfg.JobCollection)
	assert.Equal(t, int32(200), cfg.SummaryMaxTokens)
	assert.Equal(t, 120*time.Second, cfg.StepTimeout)
	assert.Equal(t, 3, cfg.RetryMaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.RetryInitialBackoff)
}

func TestLoadRequiresProjectID(t *testing.T) {
	t.Setenv("PROJECT_ID", "")
	t.Setenv("INPUT_BUCKET", "docs-in")
	t.Setenv("OUTPUT_BUCKET", "docs-out")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROJECT_ID")
}

func TestLoadRequiresBuckets(t *testing.T) {
	t.Setenv("PROJECT_ID", "test-project")
	t.Setenv("INPUT_BUCKET", "")
	t.Setenv("OUTPUT_BUCKET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsSameInputAndOutputBucket(t *testing.T) {
	t.Setenv("PROJECT_ID", "test-project")
	t.Setenv("INPUT_BUCKET", "docs")
	t.Setenv("OUTPUT_BUCKET", "docs")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestLoadReadsOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SUMMARIZER_MODEL", "gemini-1.5-pro")
	t.Setenv("RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("RETRY_INITIAL_BACKOFF_MS", "250")
	t.Setenv("MAX_EXTRACT_BYTES", "1000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-pro", cfg.SummarizerModel)
	assert.Equal(t, 5, cfg.RetryMaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryInitialBackoff)
	assert.Equal(t, 1000, cfg.MaxExtractBytes)
}

func TestLoadRejectsNonPositiveRetryBudget(t *testing.T) {
	setRequired(t)
	t.Setenv("RETRY_MAX_ATTEMPTS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RETRY_MAX_ATTEMPTS")
}
