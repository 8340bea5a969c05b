package pipeline

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Lllllllleong/documentsummaryflow/internal/models"
)

// JobStore is the durable state of the pipeline. Claiming a job is the
// instance-identity mechanism: at-least-once event delivery for the same
// object collapses onto one record.
type JobStore interface {
	// Claim creates the job record if absent. If a record already exists it
	// is returned with claimed == false.
	Claim(ctx context.Context, job *models.SummaryJob) (*models.SummaryJob, bool, error)
	// RecordExecution stamps a resumed job with the executionID now driving it.
	RecordExecution(ctx context.Context, objectName, executionID string) error
	SetStatus(ctx context.Context, objectName, state string) error
	RecordInspection(ctx context.Context, objectName, fileHash string, pageCount int) error
	Complete(ctx context.Context, objectName, outputObject string) error
	Fail(ctx context.Context, objectName, details string) error
}

// FirestoreJobStore keeps one document per job, keyed by the input object
// name.
type FirestoreJobStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreJobStore(client *firestore.Client, collection string) *FirestoreJobStore {
	return &FirestoreJobStore{client: client, collection: collection}
}

func (s *FirestoreJobStore) doc(objectName string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(models.JobID(objectName))
}

func (s *FirestoreJobStore) Claim(ctx context.Context, job *models.SummaryJob) (*models.SummaryJob, bool, error) {
	docRef := s.doc(job.ObjectName)
	_, err := docRef.Create(ctx, job)
	if err == nil {
		return job, true, nil
	}
	if status.Code(err) != codes.AlreadyExists {
		return nil, false, fmt.Errorf("failed to create job record: %w", err)
	}

	snap, err := docRef.Get(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read existing job record: %w", err)
	}
	var existing models.SummaryJob
	if err := snap.DataTo(&existing); err != nil {
		return nil, false, fmt.Errorf("failed to decode existing job record: %w", err)
	}
	return &existing, false, nil
}

func (s *FirestoreJobStore) RecordExecution(ctx context.Context, objectName, executionID string) error {
	return s.update(ctx, objectName, []firestore.Update{
		{Path: "executionId", Value: executionID},
	})
}

func (s *FirestoreJobStore) SetStatus(ctx context.Context, objectName, state string) error {
	return s.update(ctx, objectName, []firestore.Update{
		{Path: "status", Value: state},
	})
}

func (s *FirestoreJobStore) RecordInspection(ctx context.Context, objectName, fileHash string, pageCount int) error {
	return s.update(ctx, objectName, []firestore.Update{
		{Path: "fileHash", Value: fileHash},
		{Path: "pageCount", Value: pageCount},
	})
}

func (s *FirestoreJobStore) Complete(ctx context.Context, objectName, outputObject string) error {
	return s.update(ctx, objectName, []firestore.Update{
		{Path: "status", Value: models.StatusWritten},
		{Path: "outputObject", Value: outputObject},
	})
}

func (s *FirestoreJobStore) Fail(ctx context.Context, objectName, details string) error {
	return s.update(ctx, objectName, []firestore.Update{
		{Path: "status", Value: models.StatusFailed},
		{Path: "errorDetails", Value: details},
	})
}

func (s *FirestoreJobStore) update(ctx context.Context, objectName string, updates []firestore.Update) error {
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now()})
	if _, err := s.doc(objectName).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to update job record for %s: %w", objectName, err)
	}
	return nil
}
