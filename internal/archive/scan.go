// Package archive enumerates the local video archive on disk.
package archive

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joodicator/youtube-sync-2/internal/video"
)

// fragmentMark matches a yt-dlp format-fragment segment in a filename,
// e.g. the ".f137." in "Title.dQw4w9WgXcQ.f137.mp4".
var fragmentMark = regexp.MustCompile(`\.f\d+\.`)

// Scan recursively lists the files under root, producing one video.File per
// regular file. Paths whose root-relative form begins with one of the
// exclude prefixes are skipped, as are the contents of excluded
// directories. Returned paths are relative to root.
func Scan(root string, exclude []string) ([]video.File, error) {
	var files []video.File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if excluded(rel, exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, video.File{Path: rel, Name: d.Name()})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return files, nil
}

func excluded(rel string, exclude []string) bool {
	for _, prefix := range exclude {
		if prefix != "" && strings.HasPrefix(rel, prefix) {
			return true
		}
	}
	return false
}

// Complete reports whether name looks like a fully downloaded media file
// rather than a partial artifact left behind by the downloader. Format
// fragments (".f137.") and in-progress suffixes are rejected.
func Complete(name string) bool {
	if strings.HasSuffix(name, ".part") || strings.HasSuffix(name, ".ytdl") {
		return false
	}
	return !fragmentMark.MatchString(name)
}
