// Package extract pulls video identifiers out of video-host URLs.
package extract

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/qepting91/reddit-leanback/internal/domain"
)

// ErrNoMatch means the URL holds nothing that looks like a video identifier.
// Callers skip the item.
var ErrNoMatch = errors.New("extract: no video id in url")

// FormatError reports a candidate identifier of the wrong length. The URL
// shape no longer matches the pattern, so the run must stop.
type FormatError struct {
	ID  string
	URL string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("extract: candidate id %q from %s has length %d, want %d",
		e.ID, e.URL, len(e.ID), domain.VideoIDLength)
}

// IsFatal reports whether err is an identifier-format fault.
func IsFatal(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// Alternatives are tried leftmost-first; exactly one group participates.
//
//	v=ID&      query form followed by more parameters
//	9/ID       path form ending in digits then the id
//	youtu.be/  short links
//	v=ID       query form at the end of the URL
var idPattern = regexp.MustCompile(`v=([a-zA-Z0-9-]+)&|[0-9]/([^&#\n]+)|youtu\.be/([^?&#/\n]+)|v=([^&#\n]+)`)

// Extract returns the video identifier in rawURL.
func Extract(rawURL string) (domain.VideoID, error) {
	m := idPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", ErrNoMatch
	}
	var id string
	for _, g := range m[1:] {
		if g != "" {
			id = g
			break
		}
	}
	if len(id) != domain.VideoIDLength {
		return "", &FormatError{ID: id, URL: rawURL}
	}
	return domain.VideoID(id), nil
}
