package engine

import (
	"errors"
	"fmt"
)

// EngineError represents an error detected by the engine itself, as opposed
// to an apply rejection (*filter.ApplyError) or a store failure.
type EngineError struct {
	// Code identifies the error category.
	Code EngineErrorCode

	// Message is a human-readable description.
	Message string

	// RepoID identifies the affected repository, if any.
	RepoID string

	// IssueID identifies the affected issue, if any.
	IssueID int
}

// EngineErrorCode categorizes engine errors.
type EngineErrorCode string

const (
	// ErrCodeRepoNotFound indicates a repository id missing from the catalog.
	ErrCodeRepoNotFound EngineErrorCode = "REPO_NOT_FOUND"

	// ErrCodeIssueNotFound indicates an apply target missing from the catalog.
	ErrCodeIssueNotFound EngineErrorCode = "ISSUE_NOT_FOUND"

	// ErrCodeStopped indicates the apply loop is not accepting requests.
	ErrCodeStopped EngineErrorCode = "STOPPED"
)

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.RepoID != "" && e.IssueID != 0 {
		return fmt.Sprintf("%s: %s (repo=%s, issue=%d)", e.Code, e.Message, e.RepoID, e.IssueID)
	}
	if e.RepoID != "" {
		return fmt.Sprintf("%s: %s (repo=%s)", e.Code, e.Message, e.RepoID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasEngineCode(err error, code EngineErrorCode) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}

// IsRepoNotFound returns true if err reports an unknown repository.
// Uses errors.As to handle wrapped errors.
func IsRepoNotFound(err error) bool { return hasEngineCode(err, ErrCodeRepoNotFound) }

// IsIssueNotFound returns true if err reports an unknown issue.
func IsIssueNotFound(err error) bool { return hasEngineCode(err, ErrCodeIssueNotFound) }

// IsStopped returns true if err reports a stopped apply loop.
func IsStopped(err error) bool { return hasEngineCode(err, ErrCodeStopped) }
