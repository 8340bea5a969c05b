package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputObjectName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.txt"},
		{"invoices/2024/march.pdf", "invoices/2024/march.txt"},
		{"no-extension", "no-extension.txt"},
		{"archive.tar.pdf", "archive.tar.txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputObjectName(tt.in), "input %q", tt.in)
	}
}

func TestJobIDEscapesPathSeparators(t *testing.T) {
	assert.Equal(t, "report.pdf", JobID("report.pdf"))
	assert.Equal(t, "invoices%2F2024%2Fmarch.pdf", JobID("invoices/2024/march.pdf"))
	assert.NotContains(t, JobID("a/b.pdf"), "/")
}

func TestJobIDIsDeterministic(t *testing.T) {
	assert.Equal(t, JobID("a/b.pdf"), JobID("a/b.pdf"))
}

func TestJobIDIsInjective(t *testing.T) {
	// Object names are opaque arbitrary strings; names that only differ in
	// separator-like characters must still map to distinct job records.
	pairs := [][2]string{
		{"a/b.pdf", "a__b.pdf"},
		{"a/b.pdf", "a%2Fb.pdf"},
		{"a b.pdf", "a%20b.pdf"},
	}
	for _, pair := range pairs {
		assert.NotEqual(t, JobID(pair[0]), JobID(pair[1]), "%q vs %q", pair[0], pair[1])
	}
}

func TestTerminal(t *testing.T) {
	for _, status := range []string{StatusReceived, StatusExtracted, StatusSummarized} {
		job := &SummaryJob{Status: status}
		assert.False(t, job.Terminal(), "status %s", status)
	}
	for _, status := range []string{StatusWritten, StatusFailed} {
		job := &SummaryJob{Status: status}
		assert.True(t, job.Terminal(), "status %s", status)
	}
}
