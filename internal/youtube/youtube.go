// Package youtube implements the remote collaborators of the
// reconciliation engine: the playlist/metadata provider and the bulk media
// downloader. Playlist membership is listed with a yt-dlp subprocess;
// per-item detail comes from the YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
)

// Detail parts accepted by FetchItemDetail.
const (
	PartSnippet        = "snippet"
	PartContentDetails = "contentDetails"
)

// Entry is one member of a fetched playlist, in playlist order.
type Entry struct {
	ID    string
	Title string
	Type  string
}

// Playlist is the resolved membership of a remote playlist.
type Playlist struct {
	Title   string
	Entries []Entry
}

// ItemDetail is the minimal per-video detail used for enrichment. A nil
// ItemDetail with a nil error means the provider returned no data for the
// video (deleted, never existed).
type ItemDetail struct {
	// Title is the real video title (snippet part).
	Title string
	// BlockedRegions lists region codes the video is blocked in
	// (contentDetails part).
	BlockedRegions []string
}

// Provider fetches remote playlist membership and per-item detail.
type Provider interface {
	FetchPlaylist(ctx context.Context, url string) (*Playlist, error)
	FetchItemDetail(ctx context.Context, id, part string) (*ItemDetail, error)
}

// Sentinel errors.
var (
	// ErrYtdlpNotInstalled indicates the yt-dlp binary was not found.
	ErrYtdlpNotInstalled = errors.New("youtube: yt-dlp not installed")
	// ErrPlaylistNotFound indicates the playlist does not exist.
	ErrPlaylistNotFound = errors.New("youtube: playlist not found")
	// ErrRateLimited indicates the remote refused the request for rate reasons.
	ErrRateLimited = errors.New("youtube: rate limited")
	// ErrNetworkTimeout indicates a network timeout occurred.
	ErrNetworkTimeout = errors.New("youtube: network timeout")
	// ErrNoAPIKey indicates detail fetching is unavailable because no Data
	// API key is configured. Enrichment treats this as a soft failure.
	ErrNoAPIKey = errors.New("youtube: no API key configured")
)

// ProviderError wraps errors from a remote fetch with source context.
type ProviderError struct {
	// Source identifies the fetch path: "ytdlp" or "api".
	Source string
	// URL is the playlist URL or video id involved.
	URL string
	// Err is the underlying error.
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("youtube: %s %s: %v", e.Source, e.URL, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
