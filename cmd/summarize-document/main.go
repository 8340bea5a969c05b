package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2" // The official CloudEvents SDK
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Lllllllleong/documentsummaryflow/internal/config"
	"github.com/Lllllllleong/documentsummaryflow/internal/pipeline"
)

var (
	cfg     *config.Config
	runtime *pipeline.Runtime
	once    sync.Once
	initErr error
)

func init() {
	// --- Set up structured logging ---
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Register the CloudEvent function. The framework will handle routing the event here.
	functions.CloudEvent("SummarizeDocument", summarizeDocument)
}

// main is required by the Go Functions Framework.
func main() {}

// summarizeDocument is the Cloud Function entry point. It fires on object
// finalize in the input bucket and runs one orchestration per object.
func summarizeDocument(ctx context.Context, e cloudevents.Event) error {
	// Use sync.Once for robust, one-time initialization of clients.
	once.Do(func() {
		cfg, initErr = config.Load()
		if initErr != nil {
			return
		}
		runtime, initErr = pipeline.NewRuntime(context.Background(), cfg, log.Logger)
	})
	if initErr != nil {
		// A configuration or client failure is fatal to the whole service,
		// never a per-job error.
		log.Error().Err(initErr).Msg("Critical error during function initialization")
		return initErr
	}

	var gcsEvent pipeline.GCSEvent
	if err := json.Unmarshal(e.Data(), &gcsEvent); err != nil {
		log.Error().Err(err).Str("data", string(e.Data())).Msg("Failed to unmarshal event data")
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	if gcsEvent.Bucket != cfg.InputBucket {
		log.Warn().Str("bucket", gcsEvent.Bucket).Str("object", gcsEvent.Name).
			Msg("Ignoring event from unexpected bucket.")
		return nil
	}
	if !strings.HasSuffix(strings.ToLower(gcsEvent.Name), ".pdf") {
		log.Info().Str("object", gcsEvent.Name).Msg("Skipping non-PDF object.")
		return nil
	}

	// Returning an error marks the invocation as failed; a failed job has
	// already been recorded as FAILED and is visible in the job collection.
	return runtime.Orchestrator.Run(ctx, gcsEvent.Name)
}
