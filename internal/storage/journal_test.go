package storage

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/qepting91/reddit-leanback/internal/domain"
)

func TestJournalAppendsNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "added.ndjson")
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for run, id := range []domain.VideoID{"dQw4w9WgXcQ", "abc12345678"} {
		j, err := OpenJournal(path, "run-"+string(rune('a'+run)))
		if err != nil {
			t.Fatalf("OpenJournal() error = %v", err)
		}
		j.now = func() time.Time { return fixed }
		if err := j.Record(domain.Addition{Playlist: "Reddit Videos", Subreddit: "/r/videos", VideoID: id, EntryID: "E", Score: 3}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if err := j.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("line %q is not JSON: %v", sc.Text(), err)
		}
		lines = append(lines, m)
	}
	if len(lines) != 2 {
		t.Fatalf("journal has %d lines, want 2", len(lines))
	}
	first := lines[0]
	if first["run_id"] != "run-a" || first["video_id"] != "dQw4w9WgXcQ" || first["playlist"] != "Reddit Videos" {
		t.Errorf("first line = %v", first)
	}
	if first["added_at"] != "2024-05-01T12:00:00Z" {
		t.Errorf("added_at = %v", first["added_at"])
	}
	if lines[1]["run_id"] != "run-b" {
		t.Errorf("second line run_id = %v", lines[1]["run_id"])
	}
}
