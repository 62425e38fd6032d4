package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Download playlist videos missing from the local archive",
		ArgsUsage: "PLAYLIST... [-- YTDLP-ARGS...]",
		Description: "Downloads any playlist videos not present under the current directory " +
			"into new/, then verifies that each queued video produced a complete file. " +
			"Archived filenames must contain the video identifier as a delimited token. " +
			"Arguments after \"--\" are passed verbatim to yt-dlp.",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:  "refresh",
				Value: "playlists",
				Usage: "bypass the local playlist metadata cache (none, playlists)",
			},
		),
		Action: r.Sync,
	}
}

// Sync runs the download mode.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	urls, passthrough := splitArgs(cmd.Args().Slice(), r.argv)
	if len(urls) == 0 {
		return fmt.Errorf("at least one playlist URL is required")
	}

	refreshPlaylists, _, err := parseRefresh(cmd.String("refresh"), false)
	if err != nil {
		return err
	}

	engine, err := r.buildEngine(ctx, cmd)
	if err != nil {
		return err
	}
	engine.RefreshPlaylists = refreshPlaylists
	engine.ExtraArgs = passthrough

	_, err = engine.Sync(ctx, urls)
	return err
}
