package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/joodicator/youtube-sync-2/internal/retry"
)

// FetchPlaylist fetches the ordered membership of the playlist at url using
// yt-dlp's flat playlist mode. Entries keep their raw titles, so deleted or
// private members arrive with their placeholder sentinel titles intact.
func (c *Client) FetchPlaylist(ctx context.Context, url string) (*Playlist, error) {
	if err := c.checkInstalled(ctx); err != nil {
		return nil, err
	}

	var playlist *Playlist
	err := retry.Do(ctx, c.retryCfg, ytdlpErrorClassifier, func(ctx context.Context) error {
		args := []string{
			"--flat-playlist",
			"-J", // JSON output
			"--no-warnings",
			url,
		}

		cmdCtx, cancel := context.WithTimeout(ctx, c.ytdlpTimeout)
		defer cancel()

		cmd := exec.CommandContext(cmdCtx, c.ytdlpPath, args...)

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			if cmdCtx.Err() == context.DeadlineExceeded {
				return &ProviderError{Source: "ytdlp", URL: url, Err: ErrNetworkTimeout}
			}
			if cmdCtx.Err() == context.Canceled {
				return &ProviderError{Source: "ytdlp", URL: url, Err: context.Canceled}
			}

			errMsg := stderr.String()
			if strings.Contains(errMsg, "does not exist") || strings.Contains(errMsg, "not found") {
				return &ProviderError{Source: "ytdlp", URL: url, Err: ErrPlaylistNotFound}
			}
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "rate") {
				return &ProviderError{Source: "ytdlp", URL: url, Err: ErrRateLimited}
			}

			return &ProviderError{Source: "ytdlp", URL: url,
				Err: fmt.Errorf("yt-dlp failed: %w: %s", err, errMsg)}
		}

		parsed, parseErr := parseFlatPlaylist(stdout.Bytes())
		if parseErr != nil {
			return &ProviderError{Source: "ytdlp", URL: url, Err: parseErr}
		}
		playlist = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return playlist, nil
}

// checkInstalled verifies that yt-dlp is available.
func (c *Client) checkInstalled(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, c.ytdlpPath, "--version")
	if err := cmd.Run(); err != nil {
		return &ProviderError{Source: "ytdlp", Err: ErrYtdlpNotInstalled}
	}
	return nil
}

// flatPlaylist is yt-dlp's JSON output for --flat-playlist -J.
type flatPlaylist struct {
	Type    string      `json:"_type"`
	Title   string      `json:"title"`
	Entries []flatEntry `json:"entries"`
}

// flatEntry is a single member in flat playlist output.
type flatEntry struct {
	Type  string `json:"_type"`
	ID    string `json:"id"`
	Title string `json:"title"`
}

func parseFlatPlaylist(data []byte) (*Playlist, error) {
	var raw flatPlaylist
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yt-dlp output: %w", err)
	}
	if raw.Type != "" && raw.Type != "playlist" {
		return nil, fmt.Errorf("unexpected yt-dlp result type %q", raw.Type)
	}

	playlist := &Playlist{Title: raw.Title, Entries: make([]Entry, 0, len(raw.Entries))}
	for _, e := range raw.Entries {
		playlist.Entries = append(playlist.Entries, Entry{ID: e.ID, Title: e.Title, Type: e.Type})
	}
	return playlist, nil
}

// ytdlpErrorClassifier determines if a yt-dlp error is retryable.
func ytdlpErrorClassifier(err error) bool {
	if err == nil {
		return false
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		switch {
		case errors.Is(provErr.Err, ErrPlaylistNotFound),
			errors.Is(provErr.Err, ErrYtdlpNotInstalled),
			errors.Is(provErr.Err, context.Canceled):
			return false
		default:
			// Retryable: rate limit, timeout, network errors
			return true
		}
	}

	return retry.IsRetryable(err)
}
