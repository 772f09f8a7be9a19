package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
)

func cmdRun() *cli.Command {
	var pipeCfg pipelineConfig

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Poll watched repositories once and exit",
		Flags:   pipeCfg.flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			p, err := newPipeline(ctx, &pipeCfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := p.Close(); err != nil {
					logger.Error("Failed to close state store", "error", err)
				}
			}()

			updates, err := p.watch.Run(ctx)
			rep := p.publish.Publish(ctx, updates)
			if err != nil {
				return err
			}

			if rep == nil {
				color.New(color.Faint).Println("No new releases")
				return nil
			}

			color.New(color.FgGreen, color.Bold).Printf("%d new release(s)\n", len(updates))
			for _, u := range updates {
				fmt.Printf("  %s %s\n", color.CyanString(u.Release.Repo), u.Release.TagName)
			}
			fmt.Println("Report:", filepath.Join(pipeCfg.report.Dir, rep.Filename()))

			return nil
		},
	}
}
