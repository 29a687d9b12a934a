package playlist

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/qepting91/reddit-leanback/internal/domain"
	"github.com/qepting91/reddit-leanback/internal/extract"
)

// Pages walks a playlist's entries one page at a time. Iteration stops after
// the last page or at the first error, which is yielded.
func Pages(ctx context.Context, svc domain.PlaylistService, h domain.PlaylistHandle) iter.Seq2[domain.EntryPage, error] {
	return func(yield func(domain.EntryPage, error) bool) {
		token := ""
		for {
			page, err := svc.ListEntries(ctx, h, token)
			if err != nil {
				yield(domain.EntryPage{}, fmt.Errorf("list entries of %s: %w", h.ID, err))
				return
			}
			if !yield(page, nil) {
				return
			}
			if page.NextPageToken == "" || page.NextPageToken == token {
				return
			}
			token = page.NextPageToken
		}
	}
}

// ListContent collects the identifiers of every available video in the playlist.
// Entries without a link are skipped, as are links holding no identifier.
func ListContent(ctx context.Context, svc domain.PlaylistService, h domain.PlaylistHandle) (domain.ContentSet, error) {
	set := make(domain.ContentSet)
	for page, err := range Pages(ctx, svc, h) {
		if err != nil {
			return nil, err
		}
		for _, e := range page.Entries {
			if e.Link == "" {
				continue
			}
			id, err := extract.Extract(e.Link)
			if errors.Is(err, extract.ErrNoMatch) {
				continue
			}
			if err != nil {
				return nil, err
			}
			set.Add(id)
		}
	}
	return set, nil
}
