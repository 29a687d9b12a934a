package collector

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/qepting91/reddit-leanback/internal/domain"
)

// MockClient implements domain.Collector but returns fake data
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

// FetchListing returns limit fake posts, alternating video and text links.
// IDs derive from the subreddit so repeated calls return the same listing.
func (mc *MockClient) FetchListing(ctx context.Context, subredditPath string, limit int) ([]domain.FeedItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := SubredditName(subredditPath)
	h := fnv.New32a()
	h.Write([]byte(name))
	seed := h.Sum32()

	items := make([]domain.FeedItem, 0, limit)
	for i := 0; i < limit; i++ {
		item := domain.FeedItem{
			ID:        fmt.Sprintf("mock_%s_%d", name, i),
			Subreddit: "r/" + name,
			Author:    "simulated_user",
			Title:     fmt.Sprintf("[%s] Simulated post #%d", name, i),
			Score:     limit - i,
		}
		if i%2 == 0 {
			item.Domain = "youtube.com"
			item.URL = fmt.Sprintf("https://www.youtube.com/watch?v=m%08x%02d", seed, i%100)
		} else {
			item.Domain = "self." + name
			item.URL = "http://localhost/mock-url"
		}
		items = append(items, item)
	}
	return items, nil
}
