package storage

import (
	"fmt"
	"time"
)

// CommitEntry is one persisted edit commit for a plan.
type CommitEntry struct {
	ID           string    `json:"id"`
	PlanID       string    `json:"planId"`
	Label        string    `json:"label"`
	SnapshotJSON string    `json:"snapshotJson"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CommitLog persists committed snapshots so a plan's undo timeline can
// be rebuilt after a restart. The in-memory history manager stays the
// source of truth during a session; this is write-behind.
type CommitLog struct {
	db *DB
}

func NewCommitLog(db *DB) *CommitLog {
	return &CommitLog{db: db}
}

// Append records a commit and prunes the oldest entries past maxEntries.
func (l *CommitLog) Append(id, planID, label, snapshotJSON string, maxEntries int) error {
	_, err := l.db.Conn().Exec(
		`INSERT INTO commit_log (id, plan_id, label, snapshot_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, planID, label, snapshotJSON, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert commit: %w", err)
	}
	l.pruneIfNeeded(planID, maxEntries)
	return nil
}

// Recent returns up to limit commits for a plan, newest first.
func (l *CommitLog) Recent(planID string, limit int) ([]CommitEntry, error) {
	rows, err := l.db.Conn().Query(
		`SELECT id, plan_id, label, snapshot_json, created_at FROM commit_log
		 WHERE plan_id = ? ORDER BY created_at DESC LIMIT ?`, planID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("load commits: %w", err)
	}
	defer rows.Close()

	var entries []CommitEntry
	for rows.Next() {
		var e CommitEntry
		if err := rows.Scan(&e.ID, &e.PlanID, &e.Label, &e.SnapshotJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan commit: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Latest returns the newest commit for a plan, or nil when the log is empty.
func (l *CommitLog) Latest(planID string) (*CommitEntry, error) {
	entries, err := l.Recent(planID, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// ClearPlan removes all commits for a plan.
func (l *CommitLog) ClearPlan(planID string) error {
	_, err := l.db.Conn().Exec(`DELETE FROM commit_log WHERE plan_id = ?`, planID)
	return err
}

// pruneIfNeeded removes oldest entries when count exceeds maxEntries.
func (l *CommitLog) pruneIfNeeded(planID string, maxEntries int) {
	if maxEntries <= 0 {
		return
	}
	var count int
	l.db.Conn().QueryRow(`SELECT COUNT(*) FROM commit_log WHERE plan_id = ?`, planID).Scan(&count)
	if count <= maxEntries {
		return
	}

	// Collect IDs first — keep the rows cursor closed before writing.
	rows, err := l.db.Conn().Query(
		`SELECT id FROM commit_log WHERE plan_id = ?
		 ORDER BY created_at ASC LIMIT ?`, planID, count-maxEntries,
	)
	if err != nil {
		return
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	rows.Close()

	for _, id := range ids {
		l.db.Conn().Exec(`DELETE FROM commit_log WHERE id = ?`, id)
	}
}
