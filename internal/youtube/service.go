// Package youtube implements the playlist operations on the YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/qepting91/reddit-leanback/internal/domain"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Sentinel errors for playlist operations.
var (
	ErrRateLimited = errors.New("youtube: rate limited")
	ErrNoEntryID   = errors.New("youtube: insert returned no entry id")
)

// APIError wraps a failed Data API call.
type APIError struct {
	Op          string
	Err         error
	RateLimited bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("youtube %s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is matches ErrRateLimited for quota and rate-limit rejections.
func (e *APIError) Is(target error) bool {
	return target == ErrRateLimited && e.RateLimited
}

const (
	pageSize       = 50
	maxNoteLength  = 280
	videoKind      = "youtube#video"
	defaultPrivacy = "private"
)

// titles the API substitutes for videos that are gone
var unavailableTitles = map[string]bool{
	"Deleted video": true,
	"Private video": true,
}

// Service implements domain.PlaylistService for the authenticated account.
type Service struct {
	svc     *youtube.Service
	Privacy string
}

// New creates the API service. Pass option.WithHTTPClient with an
// authorized client; writes need OAuth.
func New(ctx context.Context, opts ...option.ClientOption) (*Service, error) {
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &Service{svc: svc, Privacy: defaultPrivacy}, nil
}

// ListPlaylists returns every playlist owned by the account.
func (s *Service) ListPlaylists(ctx context.Context) ([]domain.Playlist, error) {
	var out []domain.Playlist
	pageToken := ""
	for {
		resp, err := s.svc.Playlists.List([]string{"snippet"}).
			Mine(true).
			MaxResults(pageSize).
			PageToken(pageToken).
			Context(ctx).
			Do()
		if err != nil {
			return nil, classify("list playlists", err)
		}
		for _, p := range resp.Items {
			pl := domain.Playlist{ID: p.Id}
			if p.Snippet != nil {
				pl.Title = p.Snippet.Title
			}
			out = append(out, pl)
		}
		if resp.NextPageToken == "" {
			return out, nil
		}
		pageToken = resp.NextPageToken
	}
}

// CreatePlaylist creates a playlist with the service's privacy setting.
func (s *Service) CreatePlaylist(ctx context.Context, title, description string) (domain.PlaylistHandle, error) {
	privacy := s.Privacy
	if privacy == "" {
		privacy = defaultPrivacy
	}
	p := &youtube.Playlist{
		Snippet: &youtube.PlaylistSnippet{Title: title, Description: description},
		Status:  &youtube.PlaylistStatus{PrivacyStatus: privacy},
	}
	created, err := s.svc.Playlists.Insert([]string{"snippet", "status"}, p).Context(ctx).Do()
	if err != nil {
		return domain.PlaylistHandle{}, classify("create playlist", err)
	}
	return domain.HandleFromID(created.Id), nil
}

// ListEntries returns one page of playlist items. A playlist the API cannot
// find reads as empty.
func (s *Service) ListEntries(ctx context.Context, h domain.PlaylistHandle, pageToken string) (domain.EntryPage, error) {
	resp, err := s.svc.PlaylistItems.List([]string{"snippet", "contentDetails", "status"}).
		PlaylistId(h.ID).
		MaxResults(pageSize).
		PageToken(pageToken).
		Context(ctx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
			return domain.EntryPage{}, nil
		}
		return domain.EntryPage{}, classify("list playlist items", err)
	}

	page := domain.EntryPage{NextPageToken: resp.NextPageToken}
	for _, item := range resp.Items {
		page.Entries = append(page.Entries, domain.Entry{
			ID:   item.Id,
			Link: displayLink(item, h.ID),
		})
	}
	return page, nil
}

// displayLink is the watch URL of an item, or "" when its video is gone.
func displayLink(item *youtube.PlaylistItem, playlistID string) string {
	var videoID string
	if item.ContentDetails != nil {
		videoID = item.ContentDetails.VideoId
	}
	if item.Snippet != nil {
		if unavailableTitles[item.Snippet.Title] {
			return ""
		}
		if videoID == "" && item.Snippet.ResourceId != nil {
			videoID = item.Snippet.ResourceId.VideoId
		}
	}
	if item.Status != nil && item.Status.PrivacyStatus == "privacyStatusUnspecified" {
		return ""
	}
	if videoID == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + videoID + "&list=" + playlistID
}

// InsertEntry appends a video. Title and description travel in the item note,
// the only free-text field a playlist item carries.
func (s *Service) InsertEntry(ctx context.Context, h domain.PlaylistHandle, e domain.NewEntry) (string, error) {
	item := &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: h.ID,
			ResourceId: &youtube.ResourceId{Kind: videoKind, VideoId: string(e.VideoID)},
		},
		ContentDetails: &youtube.PlaylistItemContentDetails{
			Note: note(e.Title, e.Description),
		},
	}
	created, err := s.svc.PlaylistItems.Insert([]string{"snippet", "contentDetails"}, item).Context(ctx).Do()
	if err != nil {
		return "", classify("insert playlist item", err)
	}
	if created.Id == "" {
		return "", &APIError{Op: "insert playlist item", Err: ErrNoEntryID}
	}
	return created.Id, nil
}

// MoveEntry sets an item's position. position is 1-based; the API counts from 0.
func (s *Service) MoveEntry(ctx context.Context, h domain.PlaylistHandle, entryID string, videoID domain.VideoID, position int) error {
	if position < 1 {
		return fmt.Errorf("youtube: invalid position %d", position)
	}
	item := &youtube.PlaylistItem{
		Id: entryID,
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: h.ID,
			ResourceId: &youtube.ResourceId{Kind: videoKind, VideoId: string(videoID)},
			Position:   int64(position - 1),
			// position 0 is the zero value and would be dropped otherwise
			ForceSendFields: []string{"Position"},
		},
	}
	if _, err := s.svc.PlaylistItems.Update([]string{"snippet"}, item).Context(ctx).Do(); err != nil {
		return classify("update playlist item", err)
	}
	return nil
}

func note(title, description string) string {
	n := strings.TrimSpace(title + "\n" + description)
	r := []rune(n)
	if len(r) > maxNoteLength {
		n = string(r[:maxNoteLength])
	}
	return n
}

func classify(op string, err error) error {
	apiErr := &APIError{Op: op, Err: err}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == http.StatusTooManyRequests {
			apiErr.RateLimited = true
		}
		for _, item := range gerr.Errors {
			switch item.Reason {
			case "quotaExceeded", "rateLimitExceeded", "userRateLimitExceeded":
				apiErr.RateLimited = true
			}
		}
	}
	return apiErr
}
