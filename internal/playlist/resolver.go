// Package playlist reconciles video-host playlists with subreddit feeds.
package playlist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qepting91/reddit-leanback/internal/domain"
)

// DefaultDescription is attached to playlists created by the sync.
const DefaultDescription = "Automatically created playlist for Reddit Leanback"

// Resolve finds the playlist titled name in existing, creating it when absent.
// Titles compare exactly. The bool reports whether a playlist was created.
func Resolve(ctx context.Context, svc domain.PlaylistService, name string, existing []domain.Playlist) (domain.PlaylistHandle, bool, error) {
	for _, p := range existing {
		if p.Title == name {
			return domain.HandleFromID(p.ID), false, nil
		}
	}

	h, err := svc.CreatePlaylist(ctx, name, DefaultDescription)
	if err != nil {
		return domain.PlaylistHandle{}, false, fmt.Errorf("create playlist %q: %w", name, err)
	}
	return h, true, nil
}

// Resolved is the outcome of resolving one configured playlist.
type Resolved struct {
	Handle  domain.PlaylistHandle
	Created bool
}

// ResolveAll lists the account's playlists once and resolves every configured playlist.
func ResolveAll(ctx context.Context, svc domain.PlaylistService, specs []domain.PlaylistSpec, logger *slog.Logger) (map[string]Resolved, error) {
	if logger == nil {
		logger = slog.Default()
	}

	existing, err := svc.ListPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	logger.Info("Gathering playlist information", "existing", len(existing))

	out := make(map[string]Resolved, len(specs))
	for _, spec := range specs {
		if _, ok := out[spec.Name]; ok {
			continue
		}
		h, created, err := Resolve(ctx, svc, spec.Name, existing)
		if err != nil {
			return nil, err
		}
		if created {
			logger.Info("Playlist not found, created", "playlist", spec.Name, "uri", h.URI())
			// Later specs must not create the same title again
			existing = append(existing, domain.Playlist{ID: h.ID, Title: spec.Name})
		} else {
			logger.Info("Found playlist", "playlist", spec.Name, "uri", h.URI())
		}
		out[spec.Name] = Resolved{Handle: h, Created: created}
	}
	return out, nil
}
