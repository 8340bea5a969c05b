package models

import (
	"net/url"
	"path"
	"strings"
	"time"
)

// Job statuses, in pipeline order. WRITTEN and FAILED are terminal.
const (
	StatusReceived   = "RECEIVED"
	StatusExtracted  = "EXTRACTED"
	StatusSummarized = "SUMMARIZED"
	StatusWritten    = "WRITTEN"
	StatusFailed     = "FAILED"
)

// SummaryJob is the master record for one summarization run in Firestore.
// It is keyed by the input object name, so re-delivered storage events
// collapse onto the same record.
type SummaryJob struct {
	ObjectName   string    `firestore:"objectName,omitempty"`
	FileHash     string    `firestore:"fileHash,omitempty"`
	Status       string    `firestore:"status,omitempty"`
	ErrorDetails string    `firestore:"errorDetails,omitempty"`
	PageCount    int       `firestore:"pageCount,omitempty"`
	ExecutionID  string    `firestore:"executionId,omitempty"` // For traceability
	OutputObject string    `firestore:"outputObject,omitempty"`
	CreatedAt    time.Time `firestore:"createdAt,omitempty"`
	UpdatedAt    time.Time `firestore:"updatedAt,omitempty"`
}

// Terminal reports whether the job has reached a final state.
func (j *SummaryJob) Terminal() bool {
	return j.Status == StatusWritten || j.Status == StatusFailed
}

// JobID derives the Firestore document ID for an input object name.
// Firestore document IDs cannot contain '/'; path-escaping is reversible, so
// distinct object names can never share a job record.
func JobID(objectName string) string {
	return url.PathEscape(objectName)
}

// OutputObjectName derives the deterministic output object for an input
// object: same base path, ".txt" extension. Deriving the name from the input
// means a re-run overwrites (or skips) rather than duplicating output.
func OutputObjectName(objectName string) string {
	ext := path.Ext(objectName)
	return strings.TrimSuffix(objectName, ext) + ".txt"
}
