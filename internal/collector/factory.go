package collector

import (
	"fmt"
	"time"

	"github.com/qepting91/reddit-leanback/internal/domain"
)

// Collector modes.
const (
	ModePublic = "public"
	ModeAPI    = "api"
	ModeMock   = "mock"
)

// Options selects and configures a collector.
type Options struct {
	Mode      string
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Reddit API credentials, used in api mode
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// NewCollector selects the correct implementation based on the mode
func NewCollector(opts Options) (domain.Collector, error) {
	switch opts.Mode {
	case ModeAPI:
		if opts.ClientID == "" || opts.ClientSecret == "" {
			return nil, fmt.Errorf("REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET are required for api mode")
		}
		return NewAPIClient(opts.ClientID, opts.ClientSecret, opts.Username, opts.Password, opts.UserAgent)
	case ModePublic, "":
		if opts.UserAgent == "" {
			return nil, fmt.Errorf("REDDIT_USER_AGENT is required for public mode")
		}
		return NewPublicClient(opts.BaseURL, opts.UserAgent, opts.Timeout)
	case ModeMock:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown COLLECTOR_MODE: %s (use 'api', 'public', or 'mock')", opts.Mode)
	}
}
