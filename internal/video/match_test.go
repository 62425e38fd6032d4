package video

import (
	"slices"
	"testing"
)

func TestMatchID(t *testing.T) {
	tests := []struct {
		name string
		file string
		id   string
		want bool
	}{
		{"suffix with extension", "Foo-Bar.V1abcdefghi.mp4", "V1abcdefghi", true},
		{"delimited by dots", "clip.dQw4w9WgXcQ.webm", "dQw4w9WgXcQ", true},
		{"whole name", "dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"underscore and colon delimiters", "a_dQw4w9WgXcQ:rest", "dQw4w9WgXcQ", true},
		{"hyphen delimiters", "a-dQw4w9WgXcQ-b", "dQw4w9WgXcQ", true},
		{"embedded in longer identifier", "clip.xdQw4w9WgXcQy.webm", "dQw4w9WgXcQ", false},
		{"prefix of longer identifier", "clip.dQw4w9WgXcQZ.webm", "dQw4w9WgXcQ", false},
		{"case differs", "clip.dqw4w9wgxcq.webm", "dQw4w9WgXcQ", false},
		{"absent", "some-other-video.mp4", "dQw4w9WgXcQ", false},
		{"second occurrence delimited", "xdQw4w9WgXcQ.dQw4w9WgXcQ.mp4", "dQw4w9WgXcQ", true},
		{"empty id", "clip.mp4", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchID(tt.file, tt.id); got != tt.want {
				t.Errorf("MatchID(%q, %q) = %v, want %v", tt.file, tt.id, got, tt.want)
			}
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"My Video! (2021)", []string{"my", "video", "2021"}},
		{"my-video-2021", []string{"my", "video", "2021"}},
		{"  ", nil},
		{"Foo Bar", []string{"foo", "bar"}},
	}

	for _, tt := range tests {
		got := NormalizeTitle(tt.in)
		if !slices.Equal(got, tt.want) {
			t.Errorf("NormalizeTitle(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMatchTitleFallback(t *testing.T) {
	rec := &Record{ID: "abcdefghijk", Title: "My Video! (2021)"}

	if !Match(File{Name: "my-video-2021.mp4"}, rec) {
		t.Error("normalized title should match against filename stem")
	}
	if Match(File{Name: "my-video.mp4"}, rec) {
		t.Error("differing word sequence should not match")
	}
	if Match(File{Name: "video-my-2021.mp4"}, rec) {
		t.Error("word order must be preserved")
	}

	// Fallback is disabled for unavailable records: their titles are
	// placeholder text.
	bad := &Record{ID: "abcdefghijk", Title: "my video 2021", Bad: true}
	if Match(File{Name: "my-video-2021.mp4"}, bad) {
		t.Error("title fallback must be skipped for unavailable records")
	}

	// The identifier rule still applies regardless of availability.
	if !Match(File{Name: "clip.abcdefghijk.mp4"}, bad) {
		t.Error("identifier match should succeed for unavailable records")
	}
}

func TestExtractID(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		wantID string
		wantOK bool
	}{
		{"id with extension", "clip.dQw4w9WgXcQ.webm", "dQw4w9WgXcQ", true},
		{"id without extension", "clip.dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"excluded marker dot", "clip.ex.dQw4w9WgXcQ.mp4", "dQw4w9WgXcQ", true},
		{"excluded marker colon", "clip.ex:dQw4w9WgXcQ.mp4", "dQw4w9WgXcQ", true},
		{"no trailing id", "Some Video Title.mp4", "", false},
		{"id too short", "clip.abc123.mp4", "", false},
		{"bare name", "README", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractID(tt.file)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("ExtractID(%q) = %q, %v, want %q, %v", tt.file, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestRecordUnavailable(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want bool
	}{
		{"plain title", Record{Title: "Foo Bar"}, false},
		{"deleted sentinel", Record{Title: "[Deleted Video]"}, true},
		{"private sentinel", Record{Title: "[Private video]"}, true},
		{"sentinel without brackets", Record{Title: "Deleted video"}, true},
		{"sentinel different case", Record{Title: "[DELETED VIDEO]"}, true},
		{"sentinel inside longer title", Record{Title: "not a [Deleted Video] really"}, false},
		{"explicit bad flag", Record{Title: "Foo Bar", Bad: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Unavailable(); got != tt.want {
				t.Errorf("Unavailable() = %v, want %v", got, tt.want)
			}
		})
	}
}
