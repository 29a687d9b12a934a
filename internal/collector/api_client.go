package collector

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"
	"github.com/qepting91/reddit-leanback/internal/domain"
	"golang.org/x/time/rate"
)

// APIClient reads listings through Reddit's authenticated API.
type APIClient struct {
	client  *reddit.Client
	limiter *rate.Limiter
}

func NewAPIClient(id, secret, user, pass, userAgent string) (*APIClient, error) {
	creds := reddit.Credentials{ID: id, Secret: secret, Username: user, Password: pass}

	client, err := reddit.NewClient(creds, reddit.WithUserAgent(userAgent))
	if err != nil {
		return nil, err
	}

	// API Rate Limit: ~60 reqs/min (safe buffer)
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)

	return &APIClient{client: client, limiter: limiter}, nil
}

// FetchListing returns the listing the public <path>.json endpoint serves:
// hot by default, or the sort named by the path's last segment.
func (ac *APIClient) FetchListing(ctx context.Context, subredditPath string, limit int) ([]domain.FeedItem, error) {
	if err := ac.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	name, sort := SplitListingPath(subredditPath)
	list := &reddit.ListOptions{Limit: limit}

	var posts []*reddit.Post
	var err error
	switch sort {
	case "new":
		posts, _, err = ac.client.Subreddit.NewPosts(ctx, name, list)
	case "rising":
		posts, _, err = ac.client.Subreddit.RisingPosts(ctx, name, list)
	case "top":
		posts, _, err = ac.client.Subreddit.TopPosts(ctx, name, &reddit.ListPostOptions{ListOptions: *list})
	case "controversial":
		posts, _, err = ac.client.Subreddit.ControversialPosts(ctx, name, &reddit.ListPostOptions{ListOptions: *list})
	default:
		posts, _, err = ac.client.Subreddit.HotPosts(ctx, name, list)
	}
	if err != nil {
		return nil, fmt.Errorf("authenticated api error: %w", err)
	}

	items := make([]domain.FeedItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, domain.FeedItem{
			ID:        p.ID,
			Subreddit: p.SubredditNamePrefixed,
			Author:    p.Author,
			Domain:    LinkDomain(p.URL),
			URL:       p.URL,
			Title:     p.Title,
			Score:     p.Score,
		})
	}
	return items, nil
}

// SubredditName turns "/r/videos" into "videos" and "/r/aww+funny/top"
// into "aww+funny".
func SubredditName(subredditPath string) string {
	name, _ := SplitListingPath(subredditPath)
	return name
}

// SplitListingPath separates a listing path into its subreddit part and its
// sort ("" when the path names no sort).
func SplitListingPath(subredditPath string) (name, sort string) {
	p := strings.Trim(subredditPath, "/")
	p = strings.TrimPrefix(p, "r/")
	name, sort, _ = strings.Cut(p, "/")
	return name, sort
}

// LinkDomain mirrors the listing's domain field: the link host without "www.".
func LinkDomain(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
