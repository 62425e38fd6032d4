package youtube

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// mockRecorder writes a shell script that records its arguments to a file.
func mockRecorder(t *testing.T) (script, argsFile string) {
	t.Helper()
	dir := t.TempDir()
	script = filepath.Join(dir, "yt-dlp")
	argsFile = filepath.Join(dir, "args.txt")
	body := `#!/bin/sh
printf '%s\n' "$@" > ` + argsFile + `
exit 0
`
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatal(err)
	}
	return script, argsFile
}

func TestDownloadArguments(t *testing.T) {
	script, argsFile := mockRecorder(t)

	d := &Downloader{Path: script}
	var out bytes.Buffer
	err := d.Download(context.Background(), []string{"dQw4w9WgXcQ", "abcdefghijk"}, DownloadOptions{
		OutputTemplate: "new/%(title)s.%(id)s.%(ext)s",
		Login:          &Credentials{Username: "alice", Password: "hunter2"},
		ExtraArgs:      []string{"--format", "best"},
		Output:         &out,
	})
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	raw, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	args := strings.Split(strings.TrimSpace(string(raw)), "\n")

	want := []string{
		"--output", "new/%(title)s.%(id)s.%(ext)s",
		"--max-filesize", "100M",
		"--ignore-errors",
		"--username", "alice",
		"--password", "hunter2",
		"--format", "best",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://youtu.be/abcdefghijk",
	}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestDownloadEmptyWorklist(t *testing.T) {
	d := &Downloader{Path: filepath.Join(t.TempDir(), "never-invoked")}
	if err := d.Download(context.Background(), nil, DownloadOptions{}); err != nil {
		t.Errorf("Download() with empty worklist error = %v", err)
	}
}

func TestDownloadMissingBinary(t *testing.T) {
	d := &Downloader{Path: filepath.Join(t.TempDir(), "missing")}
	err := d.Download(context.Background(), []string{"dQw4w9WgXcQ"}, DownloadOptions{OutputTemplate: "x"})
	if err == nil {
		t.Error("Download() with missing binary should fail")
	}
}
