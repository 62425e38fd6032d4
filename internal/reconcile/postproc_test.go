package reconcile

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/joodicator/youtube-sync-2/internal/video"
	"github.com/joodicator/youtube-sync-2/internal/youtube"
)

// fakeProvider serves canned playlists and item details, counting calls so
// tests can assert cache and memo behavior.
type fakeProvider struct {
	playlists     map[string]*youtube.Playlist
	details       map[string]*youtube.ItemDetail
	detailErrs    map[string]error
	playlistCalls map[string]int
	detailCalls   map[string]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		playlists:     make(map[string]*youtube.Playlist),
		details:       make(map[string]*youtube.ItemDetail),
		detailErrs:    make(map[string]error),
		playlistCalls: make(map[string]int),
		detailCalls:   make(map[string]int),
	}
}

func (p *fakeProvider) FetchPlaylist(ctx context.Context, url string) (*youtube.Playlist, error) {
	p.playlistCalls[url]++
	pl, ok := p.playlists[url]
	if !ok {
		return nil, youtube.ErrPlaylistNotFound
	}
	return pl, nil
}

func (p *fakeProvider) FetchItemDetail(ctx context.Context, id, part string) (*youtube.ItemDetail, error) {
	p.detailCalls[id]++
	if err := p.detailErrs[id]; err != nil {
		return nil, err
	}
	return p.details[id], nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestProcessIdempotent(t *testing.T) {
	provider := newFakeProvider()
	post := &Postprocessor{Provider: provider, Regions: []string{"DE"}, Log: testLogger()}

	rec := video.Record{ID: "dQw4w9WgXcQ", Title: "[Private Video]", Postproc: video.PostprocDone}
	before := rec
	post.Process(context.Background(), &rec)

	if rec != before {
		t.Errorf("Process() mutated a terminal record: %+v", rec)
	}
	if provider.detailCalls["dQw4w9WgXcQ"] != 0 {
		t.Errorf("detail calls = %d, want 0", provider.detailCalls["dQw4w9WgXcQ"])
	}
}

func TestProcessRecoversTitle(t *testing.T) {
	provider := newFakeProvider()
	provider.details["dQw4w9WgXcQ"] = &youtube.ItemDetail{Title: "Never Gonna Give You Up"}
	post := &Postprocessor{Provider: provider, Log: testLogger()}

	rec := video.Record{ID: "dQw4w9WgXcQ", Title: "[Private Video]"}
	post.Process(context.Background(), &rec)

	if rec.Title != "Never Gonna Give You Up" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.ErrorNote != "[Private Video]" {
		t.Errorf("ErrorNote = %q", rec.ErrorNote)
	}
	if !rec.Bad || rec.Postproc != video.PostprocDone {
		t.Errorf("Bad = %v, Postproc = %d", rec.Bad, rec.Postproc)
	}
}

func TestProcessRecoveryFailureIsSoft(t *testing.T) {
	provider := newFakeProvider()
	provider.detailErrs["dQw4w9WgXcQ"] = youtube.ErrRateLimited
	post := &Postprocessor{Provider: provider, Log: testLogger()}

	rec := video.Record{ID: "dQw4w9WgXcQ", Title: "[Deleted Video]"}
	post.Process(context.Background(), &rec)

	if rec.Title != "[Deleted Video]" || rec.ErrorNote != "" {
		t.Errorf("record changed despite lookup failure: %+v", rec)
	}
	if rec.Postproc != video.PostprocDone {
		t.Errorf("Postproc = %d, want terminal", rec.Postproc)
	}
}

func TestProcessRegionBlock(t *testing.T) {
	many := []string{"AA", "AB", "AC", "AD", "AE", "AF", "AG", "AH", "AI", "DE", "FR", "GB"}

	tests := []struct {
		name     string
		regions  []string
		blocked  []string
		wantNote string
		wantBad  bool
	}{
		{
			name:    "no overlap",
			regions: []string{"DE"},
			blocked: []string{"FR", "GB"},
		},
		{
			name:     "few blocked regions enumerated",
			regions:  []string{"DE", "US"},
			blocked:  []string{"DE", "FR"},
			wantNote: "[Blocked in DE,FR]",
			wantBad:  true,
		},
		{
			name:     "many blocked regions summarized",
			regions:  []string{"DE", "FR"},
			blocked:  many,
			wantNote: "[Blocked in 12 regions including DE,FR]",
			wantBad:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newFakeProvider()
			provider.details["dQw4w9WgXcQ"] = &youtube.ItemDetail{BlockedRegions: tt.blocked}
			post := &Postprocessor{Provider: provider, Regions: tt.regions, Log: testLogger()}

			rec := video.Record{ID: "dQw4w9WgXcQ", Title: "Some Video"}
			post.Process(context.Background(), &rec)

			if rec.ErrorNote != tt.wantNote {
				t.Errorf("ErrorNote = %q, want %q", rec.ErrorNote, tt.wantNote)
			}
			if rec.Bad != tt.wantBad {
				t.Errorf("Bad = %v, want %v", rec.Bad, tt.wantBad)
			}
		})
	}
}

func TestProcessNoRegionsNoDetailCall(t *testing.T) {
	provider := newFakeProvider()
	post := &Postprocessor{Provider: provider, Log: testLogger()}

	rec := video.Record{ID: "dQw4w9WgXcQ", Title: "Some Video"}
	post.Process(context.Background(), &rec)

	if provider.detailCalls["dQw4w9WgXcQ"] != 0 {
		t.Errorf("detail calls = %d, want 0", provider.detailCalls["dQw4w9WgXcQ"])
	}
	if rec.Postproc != video.PostprocDone {
		t.Errorf("Postproc = %d, want terminal", rec.Postproc)
	}
}
