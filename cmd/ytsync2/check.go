package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func checkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Print the archival status of every playlist entry and local file",
		ArgsUsage: "PLAYLIST...",
		Description: "Prints to stderr a labeled accounting of the archival status of all " +
			"playlist entries and files under the current directory, and to stdout a " +
			"shell script renaming archived files to embed their video identifier.",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:  "refresh",
				Value: "playlists",
				Usage: "bypass the local playlist and/or video metadata cache (none, playlists, all)",
			},
			&cli.StringFlag{
				Name:  "need-regions",
				Usage: "comma-separated region codes the videos must be watchable in",
			},
		),
		Action: r.Check,
	}
}

// Check runs the inspection mode: classify, report, emit rename commands.
func (r *Runner) Check(ctx context.Context, cmd *cli.Command) error {
	urls := cmd.Args().Slice()
	if len(urls) == 0 {
		return fmt.Errorf("at least one playlist URL is required")
	}

	refreshPlaylists, refreshItems, err := parseRefresh(cmd.String("refresh"), true)
	if err != nil {
		return err
	}

	engine, err := r.buildEngine(ctx, cmd)
	if err != nil {
		return err
	}
	engine.RefreshPlaylists = refreshPlaylists
	engine.RefreshItems = refreshItems
	engine.Regions = parseRegions(cmd.String("need-regions"))

	_, err = engine.Check(ctx, urls)
	return err
}
