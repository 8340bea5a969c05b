package pipeline

import (
	"context"
	"time"

	"cloud.google.com/go/storage"

	"github.com/Lllllllleong/documentsummaryflow/internal/gcp"
	"github.com/Lllllllleong/documentsummaryflow/internal/models"
)

// Gateway is the storage surface of the pipeline: read an input object,
// write the summary under its deterministic output name.
type Gateway interface {
	Read(ctx context.Context, objectName string) ([]byte, error)
	WriteSummary(ctx context.Context, objectName, summary string) (string, error)
}

// GCSGateway reads from the input bucket and writes to the output bucket.
// The write is conditional on the object not existing, so a re-run after a
// successful write is a no-op instead of a duplicate.
type GCSGateway struct {
	input   *storage.BucketHandle
	output  *storage.BucketHandle
	timeout time.Duration
}

func NewGCSGateway(client *storage.Client, inputBucket, outputBucket string, timeout time.Duration) *GCSGateway {
	return &GCSGateway{
		input:   client.Bucket(inputBucket),
		output:  client.Bucket(outputBucket),
		timeout: timeout,
	}
}

func (g *GCSGateway) Read(ctx context.Context, objectName string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return gcp.ReadObject(ctx, g.input, objectName)
}

// WriteSummary persists the summary as <base>.txt in the output bucket and
// returns the output object name.
func (g *GCSGateway) WriteSummary(ctx context.Context, objectName, summary string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	outputObject := models.OutputObjectName(objectName)
	if err := gcp.SaveToGCSAtomically(ctx, g.output, outputObject, summary); err != nil {
		return "", err
	}
	return outputObject, nil
}
