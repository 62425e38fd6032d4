// Package video defines the item record model shared by the playlist
// enumerator, the file matcher and the reconciliation engine.
package video

import "regexp"

// PostprocDone is the terminal enrichment level. A record at this level is
// fully post-processed and enrichment becomes a no-op.
const PostprocDone = 5

// Record represents one remote video entry, either a playlist member or a
// video looked up directly by identifier.
type Record struct {
	// ID is the provider's stable video identifier. It is the primary
	// matching key and is case-sensitive.
	ID string `json:"id"`

	// Title is the display title. For unavailable entries the raw title may
	// be a placeholder sentinel until enrichment recovers the real one.
	Title string `json:"title"`

	// Bad marks the record unavailable when set during post-processing
	// (extraction failure, region block). Sentinel titles mark records
	// unavailable even when Bad is false.
	Bad bool `json:"bad,omitempty"`

	// ErrorNote holds a human-readable unavailability reason, present only
	// when the record became unavailable via post-processing.
	ErrorNote string `json:"error_note,omitempty"`

	// Playlist is the title of the enclosing playlist and Index the 0-based
	// position within it. Playlist is empty for records discovered via
	// filename-derived lookup, in which case Index is meaningless.
	Playlist string `json:"playlist,omitempty"`
	Index    int    `json:"index,omitempty"`

	// Postproc is the monotonic enrichment level guarding idempotent
	// post-processing.
	Postproc int `json:"postproc,omitempty"`
}

// sentinelTitle matches the provider's placeholder titles for entries that
// have been deleted or made private. Exact phrase, optional surrounding
// brackets, case-insensitive.
var sentinelTitle = regexp.MustCompile(`(?i)^\[?(deleted|private) video\]?$`)

// Unavailable reports whether the record refers to a video that cannot be
// fetched: either the raw title is a deleted/private sentinel, or
// post-processing has flagged it explicitly.
func (r *Record) Unavailable() bool {
	return r.Bad || sentinelTitle.MatchString(r.Title)
}

// Listed reports whether the record came from playlist enumeration rather
// than a direct identifier lookup.
func (r *Record) Listed() bool {
	return r.Playlist != ""
}

// Clone returns a copy of the record. The cache stores clones so that later
// enrichment never mutates a cached snapshot.
func (r *Record) Clone() Record {
	return *r
}

// File represents one local media file found under the archive root.
// Immutable once enumerated.
type File struct {
	Path string
	Name string
}
