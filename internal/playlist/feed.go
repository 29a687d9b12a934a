package playlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/qepting91/reddit-leanback/internal/domain"
	"github.com/qepting91/reddit-leanback/internal/extract"
)

const (
	// MaxTitleLength caps the title stored with each playlist entry.
	MaxTitleLength = 100
	// DefaultListingLimit is how many items are requested per subreddit.
	DefaultListingLimit = 25
)

// DefaultDomains are the link domains treated as hosted videos.
var DefaultDomains = []string{"youtube.com", "youtu.be", "m.youtube.com"}

// Processor copies one subreddit's video links into a playlist.
type Processor struct {
	Collector    domain.Collector
	Playlists    domain.PlaylistService
	Pacer        *Pacer
	Domains      []string
	ListingLimit int
	Logger       *slog.Logger

	// OnAdd, when set, sees every successful insertion.
	OnAdd func(domain.Addition)
}

// Process fetches the subreddit listing and inserts every new video into the
// playlist, moving each to the front. Items are applied oldest first, so the
// newest ends up at position 1. set is extended as videos are added.
func (p *Processor) Process(ctx context.Context, playlistName, subreddit string, h domain.PlaylistHandle, set domain.ContentSet) (int, error) {
	logger := p.logger().With("playlist", playlistName, "subreddit", subreddit)

	limit := p.ListingLimit
	if limit <= 0 {
		limit = DefaultListingLimit
	}
	items, err := p.Collector.FetchListing(ctx, subreddit, limit)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", subreddit, err)
	}
	logger.Info("Adding videos", "items", len(items))

	items = slices.Clone(items)
	slices.Reverse(items)

	added := 0
	for _, item := range items {
		if !p.isVideoDomain(item.Domain) {
			continue
		}

		id, err := extract.Extract(item.URL)
		if errors.Is(err, extract.ErrNoMatch) {
			logger.Debug("No video id in link, skipping", "url", item.URL)
			continue
		}
		if err != nil {
			logger.Error("Malformed video id", "url", item.URL, "err", err)
			return added, err
		}

		if set.Has(id) {
			logger.Debug("Already in playlist", "video_id", id)
			continue
		}

		entry := domain.NewEntry{
			VideoID:     id,
			Title:       TruncateTitle(item.Title),
			Description: "score: " + strconv.Itoa(item.Score),
		}
		entryID, err := p.insertAtFront(ctx, h, entry)
		if entryID != "" {
			// the entry exists remotely even when the move failed
			set.Add(id)
			added++
			if err != nil {
				logger.Error("Video added but not moved to front", "video_id", id, "entry_id", entryID, "uri", h.URI())
			} else {
				logger.Info("Added video", "video_id", id, "entry_id", entryID, "uri", h.URI())
			}
			if p.OnAdd != nil {
				p.OnAdd(domain.Addition{
					Playlist:  playlistName,
					Subreddit: subreddit,
					VideoID:   id,
					EntryID:   entryID,
					Title:     entry.Title,
					Score:     item.Score,
				})
			}
		}
		if err != nil {
			return added, fmt.Errorf("add %s to %q: %w", id, playlistName, err)
		}
	}
	return added, nil
}

// insertAtFront returns the new entry's id whenever the insert succeeded,
// including when the follow-up move fails.
func (p *Processor) insertAtFront(ctx context.Context, h domain.PlaylistHandle, e domain.NewEntry) (string, error) {
	if err := p.Pacer.Wait(ctx); err != nil {
		return "", err
	}
	entryID, err := p.Playlists.InsertEntry(ctx, h, e)
	if err != nil {
		return "", fmt.Errorf("insert: %w", err)
	}
	if err := p.Playlists.MoveEntry(ctx, h, entryID, e.VideoID, 1); err != nil {
		return entryID, fmt.Errorf("move entry %s to front: %w", entryID, err)
	}
	return entryID, nil
}

func (p *Processor) isVideoDomain(d string) bool {
	domains := p.Domains
	if len(domains) == 0 {
		domains = DefaultDomains
	}
	d = normalizeDomain(d)
	for _, want := range domains {
		if d == normalizeDomain(want) {
			return true
		}
	}
	return false
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func normalizeDomain(d string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
}

// TruncateTitle cuts a title to MaxTitleLength characters.
func TruncateTitle(title string) string {
	r := []rune(title)
	if len(r) <= MaxTitleLength {
		return title
	}
	return string(r[:MaxTitleLength])
}
