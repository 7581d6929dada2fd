package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// OutcomeApplied marks a successful apply in the log. Failed attempts carry
// the apply error code instead.
const OutcomeApplied = "APPLIED"

// ApplyRecord is one apply attempt against one issue.
type ApplyRecord struct {
	ID        string
	Seq       int64
	RepoID    string
	IssueID   int
	Qualifier string
	Outcome   string
	Reason    string
	AppliedAt string
}

// AppendApply writes rec to the apply log, assigning ID (UUIDv7, when
// empty), Seq and AppliedAt. The stored record is returned.
func (s *Store) AppendApply(ctx context.Context, rec ApplyRecord) (ApplyRecord, error) {
	if rec.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return ApplyRecord{}, fmt.Errorf("append apply: generate id: %w", err)
		}
		rec.ID = id.String()
	}
	rec.AppliedAt = s.timestamp()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ApplyRecord{}, fmt.Errorf("append apply: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM apply_log`).Scan(&rec.Seq); err != nil {
		return ApplyRecord{}, fmt.Errorf("append apply: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO apply_log (id, seq, repo_id, issue_id, qualifier, outcome, reason, applied_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Seq, rec.RepoID, rec.IssueID, rec.Qualifier, rec.Outcome, rec.Reason, rec.AppliedAt); err != nil {
		return ApplyRecord{}, fmt.Errorf("append apply: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return ApplyRecord{}, fmt.Errorf("append apply: %w", err)
	}
	return rec, nil
}

// ApplyLog returns the apply attempts for one issue, oldest first. An empty
// repoID returns the attempts for every issue.
func (s *Store) ApplyLog(ctx context.Context, repoID string, issueID int) ([]ApplyRecord, error) {
	query := `
		SELECT id, seq, repo_id, issue_id, qualifier, outcome, reason, applied_at
		FROM apply_log`
	var args []any
	if repoID != "" {
		query += ` WHERE repo_id = ? AND issue_id = ?`
		args = append(args, repoID, issueID)
	}
	query += ` ORDER BY seq ASC, id ASC COLLATE BINARY`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read apply log: %w", err)
	}
	defer rows.Close()

	var records []ApplyRecord
	for rows.Next() {
		var r ApplyRecord
		if err := rows.Scan(&r.ID, &r.Seq, &r.RepoID, &r.IssueID, &r.Qualifier, &r.Outcome, &r.Reason, &r.AppliedAt); err != nil {
			return nil, fmt.Errorf("read apply log: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read apply log: %w", err)
	}
	return records, nil
}
