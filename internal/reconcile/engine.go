package reconcile

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/joodicator/youtube-sync-2/internal/archive"
	"github.com/joodicator/youtube-sync-2/internal/storage"
	"github.com/joodicator/youtube-sync-2/internal/video"
	"github.com/joodicator/youtube-sync-2/internal/youtube"
)

// itemKeyPrefix builds the cache key space for direct identifier lookups.
const itemKeyPrefix = "https://youtube.com/watch?v="

// Engine reconciles the local archive against the remote playlists. All
// collaborators are injected; the engine owns no global state and performs
// exactly one cache checkpoint per run.
type Engine struct {
	// Root is the archive directory; Exclude lists root-relative path
	// prefixes to skip when scanning.
	Root    string
	Exclude []string

	Provider   youtube.Provider
	Cache      *storage.Cache
	Downloader *youtube.Downloader
	Log        *log.Logger

	// Regions are required region codes; records blocked in any of them are
	// marked unavailable during enrichment.
	Regions []string

	// RefreshPlaylists bypasses cached playlist memberships.
	// RefreshItems bypasses cached identifier lookups.
	RefreshPlaylists bool
	RefreshItems     bool

	// Login and ExtraArgs are forwarded to the downloader in sync mode.
	Login     *youtube.Credentials
	ExtraArgs []string

	// Out receives shell commands and download progress headers; Err the
	// human-readable accounting. They default to stdout and stderr.
	Out io.Writer
	Err io.Writer
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	// Queued lists the records handed to the downloader.
	Queued []video.Record
	// Failed lists queued records for which no complete file exists after
	// the download finished.
	Failed []video.Record
}

// Check classifies every enumerated record and every archived file, prints
// the accounting and the rename commands, and returns the classification.
// The cache is checkpointed once, after classification, so identifier
// lookups made for stray files are persisted alongside playlist
// memberships.
func (e *Engine) Check(ctx context.Context, urls []string) (*Report, error) {
	runLog := e.Log.With("run", uuid.NewString())

	files, err := archive.Scan(e.Root, e.Exclude)
	if err != nil {
		return nil, err
	}
	runLog.Info("scanned archive", "root", e.Root, "files", len(files))

	post := &Postprocessor{Provider: e.Provider, Regions: e.Regions, Log: runLog}
	enum := &Enumerator{Provider: e.Provider, Cache: e.Cache, Post: post, Log: runLog}
	records, err := enum.Enumerate(ctx, urls, EnumerateOptions{
		RefreshPlaylists: e.RefreshPlaylists,
	})
	if err != nil {
		return nil, err
	}

	report := &Report{}
	consumed := make(map[string]bool)
	for _, rec := range records {
		var paths []string
		for _, f := range files {
			if video.Match(f, &rec) {
				paths = append(paths, f.Path)
				consumed[f.Path] = true
			}
		}
		switch {
		case len(paths) > 0 && rec.Unavailable():
			report.MatchedUnavailable = append(report.MatchedUnavailable, Match{Record: rec, Files: paths})
		case len(paths) > 0:
			report.MatchedAvailable = append(report.MatchedAvailable, Match{Record: rec, Files: paths})
		case rec.Unavailable():
			report.UnmatchedUnavailable = append(report.UnmatchedUnavailable, rec)
		default:
			report.UnmatchedAvailable = append(report.UnmatchedAvailable, rec)
		}
	}

	for _, f := range files {
		if consumed[f.Path] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, ok := video.ExtractID(f.Name)
		if !ok {
			report.UnmatchedFiles = append(report.UnmatchedFiles, f.Path)
			continue
		}
		rec := e.lookupByID(ctx, id, post, runLog)
		if rec.Unavailable() {
			report.LookupUnavailable = append(report.LookupUnavailable, Lookup{Path: f.Path, Record: rec})
		} else {
			report.LookupAvailable = append(report.LookupAvailable, Lookup{Path: f.Path, Record: rec})
		}
	}

	if err := e.Cache.Save(); err != nil {
		return nil, err
	}
	playlists, items := e.Cache.Len()
	runLog.Info("cache checkpoint", "playlists", playlists, "items", items)

	report.Print(e.out(), e.errw())
	return report, nil
}

// lookupByID resolves a filename-derived identifier to a record, through
// the item cache unless a refresh is forced. Lookups that fail outright
// yield a transient unavailable record that is reported but never cached;
// lookups the provider answers with no data yield a deleted-video record
// that is cached like any other.
func (e *Engine) lookupByID(ctx context.Context, id string, post *Postprocessor, runLog *log.Logger) video.Record {
	key := itemKeyPrefix + id
	if !e.RefreshItems {
		if rec, ok := e.Cache.Item(key); ok {
			return rec
		}
	}

	detail, err := e.Provider.FetchItemDetail(ctx, id, youtube.PartSnippet)
	if err != nil {
		runLog.Warn("item lookup failed", "id", id, "err", err)
		return video.Record{ID: id, Title: err.Error(), Bad: true, Postproc: video.PostprocDone}
	}
	if detail == nil {
		rec := video.Record{ID: id, Title: "[Deleted Video]", Bad: true, Postproc: video.PostprocDone}
		e.Cache.PutItem(key, rec)
		return rec
	}

	rec := video.Record{ID: id, Title: detail.Title}
	post.Process(ctx, &rec)
	e.Cache.PutItem(key, rec)
	return rec
}

// Sync downloads every enumerated available record with no matching file,
// then verifies the downloads by re-scanning the archive. The cache is
// checkpointed before the download starts, so an interrupted download does
// not discard the enumeration work.
func (e *Engine) Sync(ctx context.Context, urls []string) (*SyncResult, error) {
	runLog := e.Log.With("run", uuid.NewString())

	files, err := archive.Scan(e.Root, e.Exclude)
	if err != nil {
		return nil, err
	}

	post := &Postprocessor{Provider: e.Provider, Regions: e.Regions, Log: runLog}
	enum := &Enumerator{Provider: e.Provider, Cache: e.Cache, Post: post, Log: runLog}
	records, err := enum.Enumerate(ctx, urls, EnumerateOptions{
		RefreshPlaylists:   e.RefreshPlaylists,
		ExcludeUnavailable: true,
	})
	if err != nil {
		return nil, err
	}

	var worklist []video.Record
	for _, rec := range records {
		if !anyFileMatchesID(files, rec.ID) {
			worklist = append(worklist, rec)
		}
	}

	if err := e.Cache.Save(); err != nil {
		return nil, err
	}

	res := &SyncResult{Queued: worklist}
	if len(worklist) == 0 {
		fmt.Fprintln(e.errw(), "\nNo videos to download.")
		return res, nil
	}

	fmt.Fprintf(e.out(), "Downloading %d videos.\n", len(worklist))
	ids := make([]string, len(worklist))
	for i, rec := range worklist {
		ids[i] = rec.ID
	}
	runLog.Info("starting download", "videos", len(ids))
	dlErr := e.Downloader.Download(ctx, ids, youtube.DownloadOptions{
		OutputTemplate: filepath.Join(e.Root, "new", "%(title)s.%(id)s.%(ext)s"),
		Login:          e.Login,
		ExtraArgs:      e.ExtraArgs,
		Output:         e.errw(),
	})

	// Success is judged by what actually landed on disk, even when the
	// downloader itself reported a failure.
	files, err = archive.Scan(e.Root, e.Exclude)
	if err != nil {
		return nil, err
	}
	for _, rec := range worklist {
		if !anyCompleteFileMatchesID(files, rec.ID) {
			res.Failed = append(res.Failed, rec)
		}
	}

	if len(res.Failed) > 0 {
		fmt.Fprintf(e.errw(), "\nThe following %d videos (of %d) failed to download:\n",
			len(res.Failed), len(res.Queued))
		for _, rec := range res.Failed {
			fmt.Fprintln(e.errw(), describe(&rec))
		}
	} else {
		fmt.Fprintf(e.errw(), "\nAll %d videos successfully downloaded.\n", len(res.Queued))
	}
	return res, dlErr
}

// anyFileMatchesID uses only the delimited identifier rule: titles change
// between runs, identifiers do not, and a false negative here merely
// re-downloads a video.
func anyFileMatchesID(files []video.File, id string) bool {
	for _, f := range files {
		if video.MatchID(f.Name, id) {
			return true
		}
	}
	return false
}

// anyCompleteFileMatchesID additionally rejects partial artifacts, so a
// leftover format fragment never counts as a successful download.
func anyCompleteFileMatchesID(files []video.File, id string) bool {
	for _, f := range files {
		if archive.Complete(f.Name) && video.MatchID(f.Name, id) {
			return true
		}
	}
	return false
}

func (e *Engine) out() io.Writer {
	if e.Out != nil {
		return e.Out
	}
	return os.Stdout
}

func (e *Engine) errw() io.Writer {
	if e.Err != nil {
		return e.Err
	}
	return os.Stderr
}
