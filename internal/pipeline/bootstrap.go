package pipeline

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"

	"github.com/Lllllllleong/documentsummaryflow/internal/config"
	"github.com/Lllllllleong/documentsummaryflow/internal/gcp"
)

// Runtime bundles the orchestrator with the shared clients behind it, so the
// entrypoints construct everything once and close it in one place.
type Runtime struct {
	Orchestrator *Orchestrator
	Storage      *storage.Client

	firestoreClient *firestore.Client
	vertexClient    *gcp.VertexClient
}

// NewRuntime constructs the real GCP clients and wires them into an
// orchestrator. Clients are created once at process start and passed into the
// adapters explicitly, which keeps the orchestrator testable with stubs.
func NewRuntime(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Runtime, error) {
	firestoreClient, err := gcp.NewFirestoreClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	storageClient, err := gcp.NewStorageClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	vertexClient, err := gcp.NewVertexClient(ctx, cfg.ProjectID, cfg.VertexAIRegion, gcp.VertexConfig{
		ExtractorModel:     cfg.ExtractorModel,
		SummarizerModel:    cfg.SummarizerModel,
		SummaryMaxTokens:   cfg.SummaryMaxTokens,
		SummaryTemperature: cfg.SummaryTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}

	orchestrator := NewOrchestrator(
		NewFirestoreJobStore(firestoreClient, cfg.JobCollection),
		NewVertexExtractor(vertexClient.ExtractorModel, cfg.StepTimeout),
		NewVertexSummarizer(vertexClient.SummarizerModel, cfg.StepTimeout, cfg.MaxExtractBytes),
		NewGCSGateway(storageClient, cfg.InputBucket, cfg.OutputBucket, cfg.StepTimeout),
		RetryPolicy{MaxAttempts: cfg.RetryMaxAttempts, InitialBackoff: cfg.RetryInitialBackoff},
		log,
	)

	return &Runtime{
		Orchestrator:    orchestrator,
		Storage:         storageClient,
		firestoreClient: firestoreClient,
		vertexClient:    vertexClient,
	}, nil
}

func (r *Runtime) Close() {
	if r.vertexClient != nil {
		_ = r.vertexClient.Close()
	}
	if r.firestoreClient != nil {
		_ = r.firestoreClient.Close()
	}
	if r.Storage != nil {
		_ = r.Storage.Close()
	}
}
