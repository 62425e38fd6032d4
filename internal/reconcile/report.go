package reconcile

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/joodicator/youtube-sync-2/internal/video"
)

// Match is a record together with the archive files matched to it.
type Match struct {
	Record video.Record
	Files  []string
}

// Lookup is a file matched to a record found by identifier lookup rather
// than playlist enumeration.
type Lookup struct {
	Path   string
	Record video.Record
}

// Report is the classification produced by a check run. Every enumerated
// record lands in exactly one of the four record buckets, and every scanned
// file is matched to a record, resolved by identifier lookup, or listed
// under UnmatchedFiles.
type Report struct {
	MatchedAvailable     []Match
	MatchedUnavailable   []Match
	UnmatchedAvailable   []video.Record
	UnmatchedUnavailable []video.Record
	LookupAvailable      []Lookup
	LookupUnavailable    []Lookup
	UnmatchedFiles       []string
}

// Print writes the human-readable accounting to errw and the rename shell
// commands to out, so the command output can be piped straight into a shell
// while the accounting stays on the terminal.
func (r *Report) Print(out, errw io.Writer) {
	fmt.Fprintf(errw, "\n=== %d listed video(s) online and archived: ===\n", len(r.MatchedAvailable))
	for _, m := range r.MatchedAvailable {
		printVideoFiles(out, errw, &m.Record, m.Files)
	}

	fmt.Fprintf(errw, "\n=== %d listed video(s) not online but archived: ===\n", len(r.MatchedUnavailable))
	for _, m := range r.MatchedUnavailable {
		printVideoFiles(out, errw, &m.Record, m.Files)
	}

	fmt.Fprintf(errw, "\n=== %d unlisted video(s) not online but archived: ===\n", len(r.LookupUnavailable))
	for _, l := range r.LookupUnavailable {
		printVideoFiles(out, errw, &l.Record, []string{l.Path})
	}

	fmt.Fprintf(errw, "\n=== %d unlisted video(s) online and archived: ===\n", len(r.LookupAvailable))
	for _, l := range r.LookupAvailable {
		printVideoFiles(out, errw, &l.Record, []string{l.Path})
	}

	fmt.Fprintf(errw, "\n=== %d listed video(s) online but not archived: ===\n", len(r.UnmatchedAvailable))
	for _, rec := range r.UnmatchedAvailable {
		fmt.Fprintln(errw, describe(&rec))
	}

	fmt.Fprintf(errw, "\n=== %d listed video(s) not online and not archived: ===\n", len(r.UnmatchedUnavailable))
	for _, rec := range r.UnmatchedUnavailable {
		fmt.Fprintln(errw, describe(&rec))
	}

	multi := r.multiFile()
	fmt.Fprintf(errw, "\n=== %d video(s) with multiple matching files: ===\n", len(multi))
	for _, m := range multi {
		printVideoFiles(out, errw, &m.Record, m.Files)
	}

	fmt.Fprintf(errw, "\n=== %d file(s) not matching any video: ===\n", len(r.UnmatchedFiles))
	for _, path := range r.UnmatchedFiles {
		fmt.Fprintf(errw, " File: %s\n", path)
	}
}

// multiFile lists the matched records claimed by more than one file, the
// usual sign of duplicate downloads.
func (r *Report) multiFile() []Match {
	var multi []Match
	for _, m := range r.MatchedUnavailable {
		if len(m.Files) > 1 {
			multi = append(multi, m)
		}
	}
	for _, m := range r.MatchedAvailable {
		if len(m.Files) > 1 {
			multi = append(multi, m)
		}
	}
	return multi
}

func printVideoFiles(out, errw io.Writer, rec *video.Record, files []string) {
	fmt.Fprintln(errw)
	fmt.Fprintln(errw, describe(rec))
	for _, path := range files {
		fmt.Fprintf(errw, " File: %s\n", path)
		printRename(out, path, rec)
	}
}

// describe renders one record line: identifier, playlist context when
// listed, unavailability note when present, then the title.
func describe(rec *video.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Video: %s, ", rec.ID)
	if rec.Listed() {
		prefix := []rune(rec.Playlist)
		if len(prefix) > 3 {
			prefix = prefix[:3]
		}
		fmt.Fprintf(&b, "%s#%03d, ", string(prefix), rec.Index+1)
	}
	if rec.ErrorNote != "" {
		fmt.Fprintf(&b, "%s, ", rec.ErrorNote)
	}
	b.WriteString(rec.Title)
	return b.String()
}

// printRename emits an mv command bringing path to the canonical form: the
// identifier embedded as a ".ID" suffix before the extension, with an "ex."
// marker when the record is unavailable. Nothing is printed when the path
// is already canonical.
func printRename(out io.Writer, path string, rec *video.Record) {
	target := renameTarget(path, rec)
	if target == path {
		return
	}
	fmt.Fprintf(out, "mv %s \\\n   %s\n\n", shellQuote(path), shellQuote(target))
}

func renameTarget(path string, rec *video.Record) string {
	suffix := "." + rec.ID
	if rec.Unavailable() {
		suffix = ".ex" + suffix
	}
	if strings.Contains(path, rec.ID) {
		re := regexp.MustCompile(`[-_.](?:ex[:.])?` + regexp.QuoteMeta(rec.ID))
		return re.ReplaceAllString(path, suffix)
	}
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[:i] + suffix + path[i:]
	}
	return path + suffix
}

// shellQuote single-quotes s for POSIX shells.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
