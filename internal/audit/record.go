package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Invocation is one audit row.
type Invocation struct {
	ID         string
	CreatedAt  time.Time
	ProgID     string
	Method     string
	Outcome    string // "ok" or the error taxonomy name
	Code       int
	Status     int32
	DurationMS int64
}

// Record appends one invocation to the log, assigning the row id when the
// caller left it empty.
func (s *Store) Record(inv Invocation) (string, error) {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO invocations (id, created_at, prog_id, method, outcome, code, status, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID,
		inv.CreatedAt.UTC().Format(time.RFC3339Nano),
		inv.ProgID,
		inv.Method,
		inv.Outcome,
		inv.Code,
		inv.Status,
		inv.DurationMS,
	)
	if err != nil {
		return "", fmt.Errorf("recording invocation: %w", err)
	}
	return inv.ID, nil
}

// Recent returns up to limit invocations, newest first.
func (s *Store) Recent(limit int) ([]Invocation, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, created_at, prog_id, method, outcome, code, status, duration_ms
		FROM invocations
		ORDER BY created_at DESC, id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying invocations: %w", err)
	}
	defer rows.Close()

	var result []Invocation
	for rows.Next() {
		var inv Invocation
		var createdAt string
		if err := rows.Scan(&inv.ID, &createdAt, &inv.ProgID, &inv.Method,
			&inv.Outcome, &inv.Code, &inv.Status, &inv.DurationMS); err != nil {
			return nil, fmt.Errorf("scanning invocation: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
		}
		inv.CreatedAt = ts
		result = append(result, inv)
	}
	return result, rows.Err()
}
