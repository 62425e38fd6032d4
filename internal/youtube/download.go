package youtube

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"
)

const defaultMaxFilesize = "100M"

// Credentials holds an optional account login forwarded to yt-dlp.
type Credentials struct {
	Username string
	Password string
}

// DownloadOptions configures one bulk download invocation.
type DownloadOptions struct {
	// OutputTemplate is the yt-dlp output template, e.g.
	// "new/%(title)s.%(id)s.%(ext)s".
	OutputTemplate string
	// MaxFilesize caps the size of each downloaded file. Defaults to 100M.
	MaxFilesize string
	// Login is forwarded as --username/--password when set.
	Login *Credentials
	// ExtraArgs are passed to yt-dlp verbatim, after the standard arguments.
	ExtraArgs []string
	// Output receives yt-dlp's progress output. Defaults to os.Stderr.
	Output io.Writer
}

// Downloader invokes yt-dlp to fetch a batch of videos. Downloads are
// best-effort: yt-dlp runs with --ignore-errors and partial failures do
// not surface here. Callers verify success by re-scanning the filesystem.
type Downloader struct {
	// Path is the path to the yt-dlp executable. Defaults to "yt-dlp".
	Path string
	// Timeout is the maximum time for the whole batch. Zero means no limit
	// beyond the caller's context.
	Timeout time.Duration
}

// NewDownloader creates a Downloader with default settings.
func NewDownloader() *Downloader {
	return &Downloader{Path: defaultYtdlpPath}
}

// Download fetches the given video ids in one yt-dlp invocation. The
// returned error reports only invocation-level failures (binary missing,
// context canceled); per-video failures are deliberately not reported.
func (d *Downloader) Download(ctx context.Context, ids []string, opts DownloadOptions) error {
	if len(ids) == 0 {
		return nil
	}

	path := d.Path
	if path == "" {
		path = defaultYtdlpPath
	}

	maxSize := opts.MaxFilesize
	if maxSize == "" {
		maxSize = defaultMaxFilesize
	}

	args := []string{
		"--output", opts.OutputTemplate,
		"--max-filesize", maxSize,
		"--ignore-errors",
	}
	if opts.Login != nil {
		args = append(args, "--username", opts.Login.Username, "--password", opts.Login.Password)
	}
	args = append(args, opts.ExtraArgs...)
	for _, id := range ids {
		args = append(args, "https://youtu.be/"+id)
	}

	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, lookErr := exec.LookPath(path); lookErr != nil {
			return ErrYtdlpNotInstalled
		}
		return &ProviderError{Source: "ytdlp", Err: err}
	}
	return nil
}
