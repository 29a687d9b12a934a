package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/qepting91/reddit-leanback/internal/domain"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the feed host used when none is configured.
const DefaultBaseURL = "https://www.reddit.com"

// PublicClient reads a subreddit's public JSON listing.
type PublicClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	baseURL    string
}

type redditJSONResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				ID        string `json:"id"`
				Domain    string `json:"domain"`
				URL       string `json:"url"`
				Title     string `json:"title"`
				Score     int    `json:"score"`
				Subreddit string `json:"subreddit_name_prefixed"`
				Author    string `json:"author"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func NewPublicClient(baseURL, userAgent string, timeout time.Duration) (*PublicClient, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("feed base url: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PublicClient{
		httpClient: &http.Client{Timeout: timeout},
		// Public JSON Limit: 1 req / 2 seconds (Stricter)
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
		userAgent: userAgent,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}, nil
}

// FetchListing GETs <base><path>.json and returns its items in listing order.
func (pc *PublicClient) FetchListing(ctx context.Context, subredditPath string, limit int) ([]domain.FeedItem, error) {
	if err := pc.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := pc.baseURL + "/" + strings.Trim(subredditPath, "/") + ".json"
	if limit > 0 {
		u += "?limit=" + strconv.Itoa(limit)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if pc.userAgent != "" {
		req.Header.Set("User-Agent", pc.userAgent)
	}

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit public access status: %d", resp.StatusCode)
	}

	var rResp redditJSONResponse
	if err := json.NewDecoder(resp.Body).Decode(&rResp); err != nil {
		return nil, fmt.Errorf("decode %s listing: %w", subredditPath, err)
	}

	items := make([]domain.FeedItem, 0, len(rResp.Data.Children))
	for _, child := range rResp.Data.Children {
		d := child.Data
		items = append(items, domain.FeedItem{
			ID:        d.ID,
			Subreddit: d.Subreddit,
			Author:    d.Author,
			Domain:    d.Domain,
			URL:       d.URL,
			Title:     d.Title,
			Score:     d.Score,
		})
	}
	return items, nil
}
