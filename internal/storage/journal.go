// Package storage writes the run's additions journal.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/qepting91/reddit-leanback/internal/domain"
)

// Journal appends one NDJSON line per added video. It is an output artifact;
// nothing reads it back during a run.
type Journal struct {
	f     *os.File
	enc   *json.Encoder
	runID string
	now   func() time.Time
}

type journalLine struct {
	RunID   string    `json:"run_id"`
	AddedAt time.Time `json:"added_at"`
	domain.Addition
}

// OpenJournal opens (creating if needed) the journal at path for appending.
func OpenJournal(path, runID string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &Journal{f: f, enc: json.NewEncoder(f), runID: runID, now: time.Now}, nil
}

// Record writes a as NDJSON
func (j *Journal) Record(a domain.Addition) error {
	return j.enc.Encode(journalLine{RunID: j.runID, AddedAt: j.now().UTC(), Addition: a})
}

func (j *Journal) Close() error {
	return j.f.Close()
}
