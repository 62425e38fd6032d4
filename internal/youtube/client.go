package youtube

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	yt "google.golang.org/api/youtube/v3"
	"google.golang.org/api/option"

	"github.com/joodicator/youtube-sync-2/internal/retry"
)

const (
	defaultYtdlpPath    = "yt-dlp"
	defaultYtdlpTimeout = 10 * time.Minute
	defaultAPIRate      = 1.0 // requests per second against the Data API
)

// ClientConfig configures a Client.
type ClientConfig struct {
	// APIKey is the YouTube Data API v3 key. When empty, FetchItemDetail
	// returns ErrNoAPIKey; playlist listing still works.
	APIKey string
	// YtdlpPath is the path to the yt-dlp executable. Defaults to "yt-dlp".
	YtdlpPath string
	// YtdlpTimeout is the maximum time for one yt-dlp invocation.
	YtdlpTimeout time.Duration
	// APIRate is the Data API request rate in requests per second.
	APIRate float64
	// Retry holds retry behavior for remote calls.
	Retry *retry.Config
}

// Client implements Provider. Playlist membership is fetched with yt-dlp's
// flat playlist mode; per-item detail uses the Data API behind a token
// bucket rate limiter.
type Client struct {
	ytdlpPath    string
	ytdlpTimeout time.Duration
	service      *yt.Service
	limiter      *rate.Limiter
	retryCfg     retry.Config
}

// NewClient creates a Client. Construction succeeds without an API key;
// only detail fetches require one.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	c := &Client{
		ytdlpPath:    cfg.YtdlpPath,
		ytdlpTimeout: cfg.YtdlpTimeout,
		retryCfg:     retry.DefaultConfig(),
	}
	if c.ytdlpPath == "" {
		c.ytdlpPath = defaultYtdlpPath
	}
	if c.ytdlpTimeout == 0 {
		c.ytdlpTimeout = defaultYtdlpTimeout
	}
	if cfg.Retry != nil {
		c.retryCfg = *cfg.Retry
	}

	rps := cfg.APIRate
	if rps <= 0 {
		rps = defaultAPIRate
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), 1)

	if cfg.APIKey != "" {
		service, err := yt.NewService(ctx, option.WithAPIKey(cfg.APIKey))
		if err != nil {
			return nil, &ProviderError{Source: "api", Err: err}
		}
		c.service = service
	}

	return c, nil
}
