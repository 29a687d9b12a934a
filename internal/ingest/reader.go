package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/qepting91/reddit-leanback/internal/domain"
)

// Regex for valid subreddit names
var subNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{2,21}$`)

// LoadPlaylists reads a "playlist,subreddit" CSV with a header row. Rows with
// an invalid subreddit are skipped. Playlists keep the order they first
// appear in, subreddits the order of their rows.
func LoadPlaylists(path string) ([]domain.PlaylistSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Wrap in BOM stripper
	r := csv.NewReader(stripBOM(f))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var specs []domain.PlaylistSpec
	index := make(map[string]int)
	line := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 {
			continue // Skip header
		}
		if len(record) < 2 {
			continue
		}

		// Validation (Fail-Soft)
		name := strings.TrimSpace(record[0])
		sub := NormalizeSubreddit(record[1])
		if name == "" || sub == "" {
			continue
		}

		i, ok := index[name]
		if !ok {
			i = len(specs)
			index[name] = i
			specs = append(specs, domain.PlaylistSpec{Name: name})
		}
		specs[i].Subreddits = append(specs[i].Subreddits, sub)
	}
	return specs, nil
}

// NormalizeSubreddit turns "videos", "r/videos" or "/r/videos/" into
// "/r/videos". It returns "" for invalid names.
func NormalizeSubreddit(s string) string {
	name := strings.Trim(strings.TrimSpace(s), "/")
	name = strings.TrimPrefix(name, "r/")
	if !subNameRegex.MatchString(name) {
		return ""
	}
	return "/r/" + name
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rdr, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rdr != '\uFEFF' {
		br.UnreadRune()
	}
	return br
}
