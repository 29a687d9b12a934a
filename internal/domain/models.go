package domain

import (
	"context"
	"net/url"
	"path"
	"strings"
)

// VideoIDLength is the length of every video identifier on the host.
const VideoIDLength = 11

// PlaylistSpec maps one playlist name to the subreddits that feed it
type PlaylistSpec struct {
	Name       string   `yaml:"name"`
	Subreddits []string `yaml:"subreddits"`
}

// PlaylistHandle is a durable reference to a remote playlist.
type PlaylistHandle struct {
	ID string
}

// HandleFromID derives a handle from a playlist resource identifier.
// Both bare ids and id URIs are accepted; the last path segment wins.
func HandleFromID(id string) PlaylistHandle {
	if u, err := url.Parse(id); err == nil && u.Path != "" {
		if list := u.Query().Get("list"); list != "" {
			return PlaylistHandle{ID: list}
		}
		return PlaylistHandle{ID: path.Base(strings.TrimRight(u.Path, "/"))}
	}
	return PlaylistHandle{ID: id}
}

// URI renders the canonical playlist address.
func (h PlaylistHandle) URI() string {
	return "https://www.youtube.com/playlist?list=" + h.ID
}

func (h PlaylistHandle) String() string { return h.URI() }

// VideoID is the 11-character token naming a hosted video.
type VideoID string

// ContentSet records the videos known to be in a playlist during a run.
type ContentSet map[VideoID]struct{}

func (s ContentSet) Has(id VideoID) bool {
	_, ok := s[id]
	return ok
}

func (s ContentSet) Add(id VideoID) { s[id] = struct{}{} }

func (s ContentSet) Len() int { return len(s) }

// FeedItem is one link from a subreddit listing
type FeedItem struct {
	ID        string `json:"id"`
	Subreddit string `json:"subreddit"`
	Author    string `json:"author"`
	Domain    string `json:"domain"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Score     int    `json:"score"`
}

// Playlist is an account playlist as listed by the video host.
type Playlist struct {
	ID    string
	Title string
}

// Entry is one playlist item. Link is empty when the video is no longer
// available (removed, private or suspended).
type Entry struct {
	ID   string
	Link string
}

// EntryPage is one page of playlist entries.
type EntryPage struct {
	Entries       []Entry
	NextPageToken string
}

// NewEntry describes a video to insert into a playlist.
type NewEntry struct {
	VideoID     VideoID
	Title       string
	Description string
}

// Addition records one video inserted during a run.
type Addition struct {
	Playlist  string  `json:"playlist"`
	Subreddit string  `json:"subreddit"`
	VideoID   VideoID `json:"video_id"`
	EntryID   string  `json:"entry_id"`
	Title     string  `json:"title"`
	Score     int     `json:"score"`
}

// Collector defines the interface for feed fetching
type Collector interface {
	FetchListing(ctx context.Context, subredditPath string, limit int) ([]FeedItem, error)
}

// PlaylistService is the video host's playlist API.
type PlaylistService interface {
	ListPlaylists(ctx context.Context) ([]Playlist, error)
	CreatePlaylist(ctx context.Context, title, description string) (PlaylistHandle, error)
	ListEntries(ctx context.Context, h PlaylistHandle, pageToken string) (EntryPage, error)
	InsertEntry(ctx context.Context, h PlaylistHandle, e NewEntry) (entryID string, err error)
	// MoveEntry repositions an entry; position is 1-based.
	MoveEntry(ctx context.Context, h PlaylistHandle, entryID string, videoID VideoID, position int) error
}
