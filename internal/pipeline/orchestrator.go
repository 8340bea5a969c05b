package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Lllllllleong/documentsummaryflow/internal/models"
)

// GCSEvent is the payload of a storage object finalize event.
type GCSEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

// Orchestrator runs one job end to end: extract, summarize, write, strictly
// in that order, each step's output feeding the next. It owns the retry and
// timeout policy; the three clients stay stateless.
type Orchestrator struct {
	jobs       JobStore
	extractor  Extractor
	summarizer Summarizer
	gateway    Gateway
	policy     RetryPolicy
	log        zerolog.Logger
}

func NewOrchestrator(jobs JobStore, extractor Extractor, summarizer Summarizer, gateway Gateway, policy RetryPolicy, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:       jobs,
		extractor:  extractor,
		summarizer: summarizer,
		gateway:    gateway,
		policy:     policy,
		log:        log,
	}
}

// Run processes one input object. Re-delivery of an already-completed job is
// a clean no-op; re-delivery of a job that died mid-flight re-runs the
// pipeline from the top, which is safe because extraction and summarization
// are pure and the final write is conditional on a deterministic name.
func (o *Orchestrator) Run(ctx context.Context, objectName string) error {
	executionID := uuid.NewString()
	log := o.log.With().
		Str("object", objectName).
		Str("jobId", models.JobID(objectName)).
		Str("executionId", executionID).
		Logger()

	job := &models.SummaryJob{
		ObjectName:  objectName,
		Status:      models.StatusReceived,
		ExecutionID: executionID,
		CreatedAt:   time.Now(),
	}
	existing, claimed, err := o.jobs.Claim(ctx, job)
	if err != nil {
		log.Error().Err(err).Msg("Failed to claim job.")
		return err
	}
	if !claimed {
		if existing.Terminal() {
			log.Info().Str("status", existing.Status).Msg("Job already terminal. Skipping.")
			return nil
		}
		log.Info().Str("status", existing.Status).Str("previousExecutionId", existing.ExecutionID).
			Msg("Resuming job that did not reach a terminal state.")
		if err := o.jobs.RecordExecution(ctx, objectName, executionID); err != nil {
			log.Error().Err(err).Msg("Failed to record new execution on resumed job.")
			return err
		}
	} else {
		log.Info().Msg("Claimed new job.")
	}

	// --- 1. Extract ---
	var extracted ExtractResult
	err = callWithRetry(ctx, log, o.policy, StepExtract, func(ctx context.Context) error {
		data, err := o.gateway.Read(ctx, objectName)
		if err != nil {
			return err
		}
		extracted, err = o.extractor.Extract(ctx, data)
		if err != nil {
			return err
		}
		hash := sha256.Sum256(data)
		return o.jobs.RecordInspection(ctx, objectName, hex.EncodeToString(hash[:]), extracted.PageCount)
	})
	if err != nil {
		return o.failJob(ctx, log, objectName, err)
	}
	if err := o.jobs.SetStatus(ctx, objectName, models.StatusExtracted); err != nil {
		return o.failJob(ctx, log, objectName, &StepError{Step: StepExtract, Err: err})
	}
	log.Info().Int("textBytes", len(extracted.Text)).Int("pageCount", extracted.PageCount).Msg("Extraction complete.")

	// --- 2. Summarize ---
	var summary string
	err = callWithRetry(ctx, log, o.policy, StepSummarize, func(ctx context.Context) error {
		var err error
		summary, err = o.summarizer.Summarize(ctx, extracted.Text)
		return err
	})
	if err != nil {
		return o.failJob(ctx, log, objectName, err)
	}
	if err := o.jobs.SetStatus(ctx, objectName, models.StatusSummarized); err != nil {
		return o.failJob(ctx, log, objectName, &StepError{Step: StepSummarize, Err: err})
	}
	log.Info().Int("summaryBytes", len(summary)).Msg("Summarization complete.")

	// --- 3. Write ---
	var outputObject string
	err = callWithRetry(ctx, log, o.policy, StepWrite, func(ctx context.Context) error {
		var err error
		outputObject, err = o.gateway.WriteSummary(ctx, objectName, summary)
		return err
	})
	if err != nil {
		return o.failJob(ctx, log, objectName, err)
	}
	if err := o.jobs.Complete(ctx, objectName, outputObject); err != nil {
		return o.failJob(ctx, log, objectName, &StepError{Step: StepWrite, Err: err})
	}

	log.Info().Str("outputObject", outputObject).Msg("Job complete. Summary written.")
	return nil
}

// failJob records the terminal FAILED state and returns the step error. The
// record update uses a context detached from cancellation so a timed-out run
// still leaves a diagnosable trail.
func (o *Orchestrator) failJob(ctx context.Context, log zerolog.Logger, objectName string, stepErr error) error {
	log.Error().Err(stepErr).Str("step", string(StepOf(stepErr))).Msg("Job failed.")
	if err := o.jobs.Fail(context.WithoutCancel(ctx), objectName, stepErr.Error()); err != nil {
		log.Error().Err(err).Msg("CRITICAL: Failed to record FAILED status after a processing error.")
	}
	return stepErr
}
