package domain

import (
	"strings"
	"time"
)

// JobState represents the lifecycle state of an install job in the managed account.
type JobState string

const (
	// JobStateSubmitted indicates the job was accepted but has not been observed yet.
	JobStateSubmitted JobState = "Submitted"
	// JobStateImporting indicates the account is still working on the job.
	JobStateImporting JobState = "Importing"
	// JobStateSucceeded indicates the module was imported.
	JobStateSucceeded JobState = "Succeeded"
	// JobStateFailed indicates the import failed.
	JobStateFailed JobState = "Failed"
	// JobStateCreated is a terminal state with no clear outcome: the module resource exists
	// but the account never reported an import result.
	JobStateCreated JobState = "Created"
)

// IsTerminal checks if a state is terminal (Succeeded, Failed, Created).
func (s JobState) IsTerminal() bool {
	switch s {
	case JobStateSucceeded, JobStateFailed, JobStateCreated:
		return true
	default:
		return false
	}
}

// ParseJobState converts a provisioning state reported by the account to a JobState.
// Any state that is not terminal maps to JobStateImporting.
func ParseJobState(s string) JobState {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "succeeded":
		return JobStateSucceeded
	case "failed":
		return JobStateFailed
	case "created":
		return JobStateCreated
	default:
		return JobStateImporting
	}
}

// CreatedPolicy decides how a job ending in JobStateCreated is treated.
type CreatedPolicy string

const (
	// CreatedAccept treats Created as a successful terminal state.
	CreatedAccept CreatedPolicy = "accept"
	// CreatedReject treats Created as a failed import.
	CreatedReject CreatedPolicy = "reject"
)

// Accepts reports whether a job that ended in state is considered imported under the policy.
func (p CreatedPolicy) Accepts(state JobState) bool {
	switch state {
	case JobStateSucceeded:
		return true
	case JobStateCreated:
		return p != CreatedReject
	default:
		return false
	}
}

// InstallJob is an asynchronous module import submitted to the managed account.
type InstallJob struct {
	// Package is the name of the module being installed.
	Package string
	// Version is the version being installed.
	Version string
	// ContentURL is the resolved archive location handed to the account.
	ContentURL string
	// Handle identifies the job for status polls.
	Handle string
	// SubmittedAt records when the job was submitted.
	SubmittedAt time.Time
	// State is the last observed state. Only the poller mutates it after submission.
	State JobState
}

// NewInstallJob creates a job in the Submitted state.
func NewInstallJob(pkg PackageDescriptor, contentURL, handle string, at time.Time) *InstallJob {
	return &InstallJob{
		Package:     pkg.Name,
		Version:     pkg.LatestVersion,
		ContentURL:  contentURL,
		Handle:      handle,
		SubmittedAt: at,
		State:       JobStateSubmitted,
	}
}
