package video

import (
	"regexp"
	"slices"
	"strings"
)

// idTail matches a trailing video identifier in a filename: a dot, an
// optional "ex." or "ex:" exclusion marker, exactly 11 identifier
// characters, and an optional file extension.
var idTail = regexp.MustCompile(`\.(?:ex[:.])?([\w-]{11})(?:\.[a-zA-Z0-9]+)?$`)

// wordRun extracts the word runs used for normalized title comparison.
var wordRun = regexp.MustCompile(`\w+`)

// extSuffix matches a final ".ext" segment of a filename.
var extSuffix = regexp.MustCompile(`\.[^.]+$`)

// MatchID reports whether id occurs in name as a delimited token: bounded
// on each side by the start or end of the string or by one of the
// punctuation characters '.', '-', '_', ':'. The id itself is compared
// case-sensitively, so one identifier never matches inside a longer one.
func MatchID(name, id string) bool {
	if id == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(name[from:], id)
		if i < 0 {
			return false
		}
		i += from
		end := i + len(id)
		if (i == 0 || isDelim(name[i-1])) && (end == len(name) || isDelim(name[end])) {
			return true
		}
		from = i + 1
	}
}

func isDelim(c byte) bool {
	switch c {
	case '.', '-', '_', ':':
		return true
	}
	return false
}

// Match reports whether file corresponds to rec. The primary rule is the
// delimited identifier token; the fallback compares the normalized word
// sequence of the filename stem against the normalized title. The fallback
// is skipped for unavailable records, whose titles are placeholder text.
func Match(file File, rec *Record) bool {
	if MatchID(file.Name, rec.ID) {
		return true
	}
	if rec.Unavailable() {
		return false
	}
	return slices.Equal(NormalizeTitle(stripExt(file.Name)), NormalizeTitle(rec.Title))
}

// ExtractID extracts a trailing video identifier from a filename, as used
// for direct lookup of files that matched no enumerated record.
func ExtractID(name string) (string, bool) {
	m := idTail.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// NormalizeTitle lower-cases s and splits it into its word runs, discarding
// all other characters. Word order is preserved.
func NormalizeTitle(s string) []string {
	return wordRun.FindAllString(strings.ToLower(s), -1)
}

func stripExt(name string) string {
	return extSuffix.ReplaceAllString(name, "")
}
