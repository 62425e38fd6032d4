package reconcile

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/joodicator/youtube-sync-2/internal/storage"
	"github.com/joodicator/youtube-sync-2/internal/video"
	"github.com/joodicator/youtube-sync-2/internal/youtube"
)

// EnumerateOptions controls one enumeration pass.
type EnumerateOptions struct {
	// RefreshPlaylists bypasses the playlist cache, forcing re-enumeration
	// of each playlist's membership from the provider.
	RefreshPlaylists bool
	// ExcludeUnavailable drops members whose raw record is already
	// recognizably unavailable before any enrichment is spent on them.
	ExcludeUnavailable bool
}

// Enumerator resolves playlist URLs into ordered, enriched records.
type Enumerator struct {
	Provider youtube.Provider
	Cache    *storage.Cache
	Post     *Postprocessor
	Log      *log.Logger
}

// Enumerate materializes the member records of every playlist in order.
// Each playlist's resolved membership is cached wholesale after it is fully
// post-processed; a cross-playlist memo reuses enriched copies of items
// appearing in more than one playlist, and a run-wide seen set keeps each
// identifier from being returned twice even though every playlist's cache
// entry records its own membership.
func (e *Enumerator) Enumerate(ctx context.Context, urls []string, opts EnumerateOptions) ([]video.Record, error) {
	memo := make(map[string]video.Record)
	seen := make(map[string]bool)

	var out []video.Record
	for _, url := range urls {
		members, err := e.playlistMembers(ctx, url, memo, opts)
		if err != nil {
			return nil, err
		}
		for _, rec := range members {
			if seen[rec.ID] {
				continue
			}
			if opts.ExcludeUnavailable && rec.Unavailable() {
				continue
			}
			seen[rec.ID] = true
			out = append(out, rec)
		}
	}
	return out, nil
}

// playlistMembers returns the fully post-processed membership of one
// playlist, from the cache when permitted, otherwise freshly fetched.
func (e *Enumerator) playlistMembers(ctx context.Context, url string, memo map[string]video.Record, opts EnumerateOptions) ([]video.Record, error) {
	if !opts.RefreshPlaylists {
		if cached, ok := e.Cache.Playlist(url); ok {
			e.Log.Debug("playlist cache hit", "url", url, "members", len(cached))
			for _, rec := range cached {
				if _, ok := memo[rec.ID]; !ok {
					memo[rec.ID] = rec.Clone()
				}
			}
			return cached, nil
		}
	}

	playlist, err := e.Provider.FetchPlaylist(ctx, url)
	if err != nil {
		return nil, err
	}
	e.Log.Info("fetched playlist", "url", url, "title", playlist.Title, "members", len(playlist.Entries))

	members := make([]video.Record, 0, len(playlist.Entries))
	for i, entry := range playlist.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if enriched, ok := memo[entry.ID]; ok {
			// Seen in an earlier playlist this run: reuse the enriched copy
			// under this playlist's own context.
			rec := enriched.Clone()
			rec.Playlist = playlist.Title
			rec.Index = i
			members = append(members, rec)
			continue
		}

		rec := video.Record{ID: entry.ID, Title: entry.Title, Playlist: playlist.Title, Index: i}
		if opts.ExcludeUnavailable && rec.Unavailable() {
			// Skipped entirely: never enriched, never memoized, never cached.
			continue
		}
		e.Post.Process(ctx, &rec)
		memo[rec.ID] = rec.Clone()
		members = append(members, rec)
	}

	e.Cache.PutPlaylist(url, members)
	return members, nil
}
