package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/joodicator/youtube-sync-2/internal/config"
	"github.com/joodicator/youtube-sync-2/internal/reconcile"
	"github.com/joodicator/youtube-sync-2/internal/retry"
	"github.com/joodicator/youtube-sync-2/internal/storage"
	"github.com/joodicator/youtube-sync-2/internal/youtube"
)

// Runner holds the dependencies shared by the command actions. The engine
// itself is built per invocation from the resolved configuration.
type Runner struct {
	logger *log.Logger
	argv   []string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// RunnerOpts configures a Runner; zero fields fall back to the process
// standard streams and arguments.
type RunnerOpts struct {
	Logger *log.Logger
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner creates a Runner with the provided options.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stderr)
	}
	if opts.Args == nil {
		opts.Args = os.Args
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Runner{
		logger: opts.Logger,
		argv:   opts.Args,
		stdin:  opts.Stdin,
		stdout: opts.Stdout,
		stderr: opts.Stderr,
	}
}

// commonFlags are shared by the check and sync commands.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to the configuration file",
		},
		&cli.StringSliceFlag{
			Name:    "exclude",
			Aliases: []string{"x"},
			Usage:   "path prefix to skip when scanning the archive (repeatable)",
		},
		&cli.StringFlag{
			Name:    "username",
			Aliases: []string{"u"},
			Usage:   "account login name forwarded to the downloader",
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "account password; prompted for when --username is set without it",
		},
	}
}

// buildEngine resolves configuration and constructs the engine with its
// collaborators. All state lives in the returned engine; nothing is global.
func (r *Runner) buildEngine(ctx context.Context, cmd *cli.Command) (*reconcile.Engine, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	apiKey, err := cfg.ResolveAPIKey()
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		r.logger.Warn("no Data API key configured; item detail lookups are disabled")
	}

	cache, err := storage.Open(cfg.CachePath)
	if err != nil {
		return nil, err
	}

	retryCfg := retry.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff.Std(),
		MaxBackoff:     cfg.MaxBackoff.Std(),
		Multiplier:     cfg.BackoffMultiplier,
		JitterFraction: retry.DefaultConfig().JitterFraction,
	}
	client, err := youtube.NewClient(ctx, youtube.ClientConfig{
		APIKey:       apiKey,
		YtdlpPath:    cfg.YtdlpPath,
		YtdlpTimeout: cfg.YtdlpTimeout.Std(),
		APIRate:      cfg.APIRate,
		Retry:        &retryCfg,
	})
	if err != nil {
		return nil, err
	}

	login, err := r.login(cmd)
	if err != nil {
		return nil, err
	}

	return &reconcile.Engine{
		Root:       ".",
		Exclude:    cmd.StringSlice("exclude"),
		Provider:   client,
		Cache:      cache,
		Downloader: &youtube.Downloader{Path: cfg.YtdlpPath},
		Log:        r.logger,
		Login:      login,
		Out:        r.stdout,
		Err:        r.stderr,
	}, nil
}

// login assembles downloader credentials, prompting for the password when
// only the username was given.
func (r *Runner) login(cmd *cli.Command) (*youtube.Credentials, error) {
	username := cmd.String("username")
	if username == "" {
		return nil, nil
	}
	password := cmd.String("password")
	if password == "" {
		fmt.Fprintf(r.stderr, "Enter password for %s: ", username)
		scanner := bufio.NewScanner(r.stdin)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("read password: %w", err)
			}
			return nil, fmt.Errorf("read password: unexpected end of input")
		}
		password = scanner.Text()
	}
	return &youtube.Credentials{Username: username, Password: password}, nil
}

// parseRefresh validates the --refresh flag against the modes a command
// supports and returns the playlist and item bypass switches.
func parseRefresh(value string, allowAll bool) (playlists, items bool, err error) {
	switch value {
	case "none":
		return false, false, nil
	case "playlists":
		return true, false, nil
	case "all":
		if allowAll {
			return true, true, nil
		}
	}
	return false, false, fmt.Errorf("invalid --refresh value %q", value)
}

// parseRegions splits a comma-separated region code list, upper-casing the
// codes the way the provider reports them.
func parseRegions(value string) []string {
	var regions []string
	for _, code := range strings.Split(value, ",") {
		code = strings.TrimSpace(code)
		if code != "" {
			regions = append(regions, strings.ToUpper(code))
		}
	}
	return regions
}

// splitArgs separates the parsed positional arguments into playlist URLs
// and pass-through downloader arguments. The flag parser consumes the "--"
// terminator before actions run and hands back one flat argument list, so
// the terminator's position is recovered from the raw process arguments:
// everything after it in argv is the pass-through tail of the parsed list.
func splitArgs(parsed, argv []string) (urls, passthrough []string) {
	for i, arg := range argv {
		if arg == "--" {
			passthrough = argv[i+1:]
			break
		}
	}
	n := len(parsed) - len(passthrough)
	if n < 0 {
		n = 0
	}
	return parsed[:n], passthrough
}
