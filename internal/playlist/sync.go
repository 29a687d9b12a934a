package playlist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qepting91/reddit-leanback/internal/domain"
)

// PlaylistResult summarizes one playlist's part of a run.
type PlaylistResult struct {
	Name      string
	HandleURI string
	Created   bool
	Existing  int
	Added     int
}

// Summary is the outcome of a full run.
type Summary struct {
	RunID     string
	Playlists []PlaylistResult
	Added     []domain.Addition
}

// Syncer drives a run over every configured playlist.
type Syncer struct {
	Playlists domain.PlaylistService
	Processor *Processor
	Logger    *slog.Logger
	RunID     string
}

// Run resolves every playlist, then for each one builds its content set and
// processes its subreddits in order. The first fault stops the run; remote
// changes already made stay in place.
func (s *Syncer) Run(ctx context.Context, specs []domain.PlaylistSpec) (Summary, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	summary := Summary{RunID: s.RunID}

	resolved, err := ResolveAll(ctx, s.Playlists, specs, logger)
	if err != nil {
		return summary, err
	}

	// per-run copy so the caller's Processor is left as given
	proc := *s.Processor
	onAdd := s.Processor.OnAdd
	proc.OnAdd = func(a domain.Addition) {
		summary.Added = append(summary.Added, a)
		if onAdd != nil {
			onAdd(a)
		}
	}

	logger.Info("Fetching new videos")
	for _, spec := range specs {
		r := resolved[spec.Name]
		logger.Info("Processing playlist", "playlist", spec.Name)

		set, err := ListContent(ctx, s.Playlists, r.Handle)
		if err != nil {
			return summary, fmt.Errorf("playlist %q: %w", spec.Name, err)
		}
		result := PlaylistResult{
			Name:      spec.Name,
			HandleURI: r.Handle.URI(),
			Created:   r.Created,
			Existing:  set.Len(),
		}
		logger.Info("Playlist content listed", "playlist", spec.Name, "videos", set.Len())

		for _, sub := range spec.Subreddits {
			n, err := proc.Process(ctx, spec.Name, sub, r.Handle, set)
			result.Added += n
			if err != nil {
				summary.Playlists = append(summary.Playlists, result)
				return summary, err
			}
		}
		summary.Playlists = append(summary.Playlists, result)
	}

	logger.Info("Sync complete", "added", len(summary.Added))
	return summary, nil
}
