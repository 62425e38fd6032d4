// Package reconcile implements the reconciliation engine: playlist
// enumeration, record enrichment, file/record matching and the
// classification buckets behind the check and sync commands.
package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/joodicator/youtube-sync-2/internal/video"
	"github.com/joodicator/youtube-sync-2/internal/youtube"
)

// Postprocessor enriches records in place. Enrichment is idempotent: once a
// record reaches the terminal level it is never touched again, so records
// replayed from the cache cost no remote calls.
type Postprocessor struct {
	Provider youtube.Provider
	// Regions are the required region codes, upper-case. When non-empty,
	// available records are checked for region blocks.
	Regions []string
	Log     *log.Logger
}

// Process post-processes rec. Detail fetch failures are soft: the record
// stays usable with whatever title it already has. Callers check ctx
// between records; Process itself never fails the run.
func (p *Postprocessor) Process(ctx context.Context, rec *video.Record) {
	if rec.Postproc >= video.PostprocDone {
		return
	}
	rec.Postproc = video.PostprocDone

	switch {
	case rec.Unavailable() && rec.ErrorNote == "":
		p.recoverTitle(ctx, rec)
	case len(p.Regions) > 0:
		p.checkRegions(ctx, rec)
	}
}

// recoverTitle replaces an unavailable record's placeholder title with the
// real one, keeping the placeholder as the error note.
func (p *Postprocessor) recoverTitle(ctx context.Context, rec *video.Record) {
	detail, err := p.Provider.FetchItemDetail(ctx, rec.ID, youtube.PartSnippet)
	if err != nil {
		p.Log.Warn("title recovery failed", "id", rec.ID, "err", err)
		return
	}
	if detail == nil {
		return
	}
	rec.ErrorNote = rec.Title
	rec.Title = detail.Title
	rec.Bad = true
}

// checkRegions marks the record unavailable when any required region code
// appears in its blocked list.
func (p *Postprocessor) checkRegions(ctx context.Context, rec *video.Record) {
	detail, err := p.Provider.FetchItemDetail(ctx, rec.ID, youtube.PartContentDetails)
	if err != nil {
		p.Log.Warn("region check failed", "id", rec.ID, "err", err)
		return
	}
	if detail == nil {
		return
	}

	blocked := detail.BlockedRegions
	var needed []string
	for _, region := range p.Regions {
		for _, b := range blocked {
			if region == b {
				needed = append(needed, region)
				break
			}
		}
	}
	if len(needed) == 0 {
		return
	}

	limit := len(needed)
	if limit < 10 {
		limit = 10
	}
	var blockedIn string
	if len(blocked) < limit {
		blockedIn = strings.Join(blocked, ",")
	} else {
		blockedIn = fmt.Sprintf("%d regions including %s", len(blocked), strings.Join(needed, ","))
	}
	rec.ErrorNote = "[Blocked in " + blockedIn + "]"
	rec.Bad = true
}
