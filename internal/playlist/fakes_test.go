package playlist

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/qepting91/reddit-leanback/internal/domain"
)

type fakeCollector struct {
	listings map[string][]domain.FeedItem
	err      error
	calls    []string
	onFetch  func()
}

func (f *fakeCollector) FetchListing(ctx context.Context, sub string, limit int) ([]domain.FeedItem, error) {
	f.calls = append(f.calls, sub)
	if f.onFetch != nil {
		f.onFetch()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.listings[sub], nil
}

type fakeEntry struct {
	id      string
	videoID domain.VideoID
	link    string
}

// fakePlaylists keeps playlists in memory and models positions like the host:
// inserts append, moves are 1-based.
type fakePlaylists struct {
	playlists []domain.Playlist
	entries   map[string][]fakeEntry
	pageSize  int
	nextID    int

	created   []string
	inserted  []domain.NewEntry
	listCalls int

	insertErr error
	moveErr   error
	listErr   error
}

func newFakePlaylists() *fakePlaylists {
	return &fakePlaylists{entries: make(map[string][]fakeEntry), pageSize: 50}
}

func (f *fakePlaylists) ListPlaylists(ctx context.Context) ([]domain.Playlist, error) {
	return append([]domain.Playlist(nil), f.playlists...), nil
}

func (f *fakePlaylists) CreatePlaylist(ctx context.Context, title, description string) (domain.PlaylistHandle, error) {
	id := "PL" + strconv.Itoa(len(f.created)+1)
	f.playlists = append(f.playlists, domain.Playlist{ID: id, Title: title})
	f.created = append(f.created, title)
	return domain.PlaylistHandle{ID: id}, nil
}

func (f *fakePlaylists) ListEntries(ctx context.Context, h domain.PlaylistHandle, pageToken string) (domain.EntryPage, error) {
	f.listCalls++
	if f.listErr != nil {
		return domain.EntryPage{}, f.listErr
	}
	all := f.entries[h.ID]
	start := 0
	if pageToken != "" {
		n, err := strconv.Atoi(pageToken)
		if err != nil {
			return domain.EntryPage{}, errors.New("bad page token")
		}
		start = n
	}
	end := min(start+f.pageSize, len(all))
	var page domain.EntryPage
	for _, e := range all[start:end] {
		page.Entries = append(page.Entries, domain.Entry{ID: e.id, Link: e.link})
	}
	if end < len(all) {
		page.NextPageToken = strconv.Itoa(end)
	}
	return page, nil
}

func (f *fakePlaylists) InsertEntry(ctx context.Context, h domain.PlaylistHandle, e domain.NewEntry) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.nextID++
	id := "PLI" + strconv.Itoa(f.nextID)
	f.entries[h.ID] = append(f.entries[h.ID], fakeEntry{
		id:      id,
		videoID: e.VideoID,
		link:    "https://www.youtube.com/watch?v=" + string(e.VideoID) + "&list=" + h.ID,
	})
	f.inserted = append(f.inserted, e)
	return id, nil
}

func (f *fakePlaylists) MoveEntry(ctx context.Context, h domain.PlaylistHandle, entryID string, videoID domain.VideoID, position int) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	list := f.entries[h.ID]
	for i, e := range list {
		if e.id != entryID {
			continue
		}
		if e.videoID != videoID {
			return fmt.Errorf("entry %s holds %s, not %s", entryID, e.videoID, videoID)
		}
		list = append(list[:i], list[i+1:]...)
		pos := position - 1
		list = append(list[:pos], append([]fakeEntry{e}, list[pos:]...)...)
		f.entries[h.ID] = list
		return nil
	}
	return fmt.Errorf("entry %s not found", entryID)
}

func (f *fakePlaylists) order(playlistID string) []domain.VideoID {
	var ids []domain.VideoID
	for _, e := range f.entries[playlistID] {
		ids = append(ids, e.videoID)
	}
	return ids
}

func (f *fakePlaylists) seed(playlistID string, ids ...domain.VideoID) {
	for _, id := range ids {
		f.nextID++
		f.entries[playlistID] = append(f.entries[playlistID], fakeEntry{
			id:      "PLI" + strconv.Itoa(f.nextID),
			videoID: id,
			link:    "https://www.youtube.com/watch?v=" + string(id) + "&feature=youtube_gdata",
		})
	}
}

func ytItem(id, title string, score int) domain.FeedItem {
	return domain.FeedItem{
		Domain: "youtube.com",
		URL:    "https://www.youtube.com/watch?v=" + id,
		Title:  title,
		Score:  score,
	}
}
