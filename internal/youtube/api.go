package youtube

import (
	"context"
	"errors"
	"strings"

	"github.com/joodicator/youtube-sync-2/internal/retry"
)

// FetchItemDetail fetches minimal detail for a single video id from the
// Data API. part selects which detail is populated (PartSnippet or
// PartContentDetails). A (nil, nil) return means the API knows nothing
// about the id; callers treat that as "no enrichment available".
func (c *Client) FetchItemDetail(ctx context.Context, id, part string) (*ItemDetail, error) {
	if c.service == nil {
		return nil, ErrNoAPIKey
	}

	var detail *ItemDetail
	err := retry.Do(ctx, c.retryCfg, apiErrorClassifier, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		resp, err := c.service.Videos.List([]string{part}).Id(id).Context(ctx).Do()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return &ProviderError{Source: "api", URL: id, Err: err}
		}

		if len(resp.Items) == 0 {
			detail = nil
			return nil
		}

		item := resp.Items[0]
		detail = &ItemDetail{}
		if item.Snippet != nil {
			detail.Title = item.Snippet.Title
		}
		if item.ContentDetails != nil && item.ContentDetails.RegionRestriction != nil {
			detail.BlockedRegions = item.ContentDetails.RegionRestriction.Blocked
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// apiErrorClassifier determines if a Data API error is retryable.
func apiErrorClassifier(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	// Rate limit and quota errors back off and retry.
	if strings.Contains(err.Error(), "quotaExceeded") || strings.Contains(err.Error(), "rateLimitExceeded") {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrNetworkTimeout) {
		return true
	}

	// Default to retryable for unknown errors
	return true
}
