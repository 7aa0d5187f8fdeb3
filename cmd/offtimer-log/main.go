// Command offtimer-log is a tool for viewing and analyzing offtimer event logs.
//
// Event logs are written by offtimer when started with -event-log; the
// history database is written with -history.
//
// Usage:
//
//	offtimer-log <command> [flags] <file.olog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//	history  List cycles recorded in a history database
//
// Examples:
//
//	# View one cycle
//	offtimer-log view --cycle 3f2a9c1e-... events.olog
//
//	# View only failures
//	offtimer-log view --kind fail events.olog
//
//	# Export to CSV
//	offtimer-log export --format csv -o events.csv events.olog
//
//	# Show statistics
//	offtimer-log stats events.olog
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/offtimer/offtimer-go/cmd/offtimer-log/commands"
	"github.com/offtimer/offtimer-go/pkg/version"
)

var (
	cycleID    string
	kind       string
	format     string
	outputPath string
	limit      int
)

var errMissingFile = errors.New("missing log file argument")

var filterFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "cycle, c",
		Usage:       "only show events of this cycle ID",
		Destination: &cycleID,
	},
	cli.StringFlag{
		Name:        "kind, k",
		Usage:       "only show events of this kind (arm, reject, tick, cancel, complete, fail)",
		Destination: &kind,
	},
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "offtimer-log"
	app.HelpName = "offtimer-log"
	app.Usage = "view and analyze offtimer event logs"
	app.Version = version.Current
	app.UsageText = "offtimer-log <command> [flags] <file.olog>"
	app.Commands = []cli.Command{
		{
			Name:      "view",
			Aliases:   []string{"v"},
			Usage:     "view log file in human-readable format",
			ArgsUsage: "<file.olog>",
			Flags:     filterFlags,
			Action:    view,
		},
		{
			Name:      "export",
			Aliases:   []string{"e"},
			Usage:     "export log file to JSONL or CSV",
			ArgsUsage: "<file.olog>",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "format, f",
					Usage:       "output format: jsonl or csv",
					Value:       "jsonl",
					Destination: &format,
				},
				cli.StringFlag{
					Name:        "output, o",
					Usage:       "write to this file instead of stdout",
					Destination: &outputPath,
				},
			},
			Action: export,
		},
		{
			Name:      "filter",
			Usage:     "filter log file and write to new file",
			ArgsUsage: "<file.olog>",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:        "output, o",
					Usage:       "output log file (required)",
					Destination: &outputPath,
				},
			}, filterFlags...),
			Action: filter,
		},
		{
			Name:      "stats",
			Aliases:   []string{"s"},
			Usage:     "show statistics about the log file",
			ArgsUsage: "<file.olog>",
			Action:    stats,
		},
		{
			Name:      "history",
			Usage:     "list cycles recorded in a history database",
			ArgsUsage: "<history.db>",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:        "limit, n",
					Usage:       "show at most this many cycles (0 for all)",
					Value:       20,
					Destination: &limit,
				},
			},
			Action: showHistory,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "offtimer-log: %v\n", err)
		os.Exit(1)
	}
}

func fileArg(ctx *cli.Context) (string, error) {
	path := ctx.Args().First()
	if path == "" {
		cli.ShowCommandHelp(ctx, ctx.Command.Name)
		return "", errMissingFile
	}
	return path, nil
}

func view(ctx *cli.Context) error {
	path, err := fileArg(ctx)
	if err != nil {
		return err
	}
	f, err := commands.NewFilter(cycleID, kind)
	if err != nil {
		return err
	}
	return commands.RunView(path, f, ctx.App.Writer)
}

func export(ctx *cli.Context) error {
	path, err := fileArg(ctx)
	if err != nil {
		return err
	}

	var w io.Writer = ctx.App.Writer
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return commands.RunExport(path, format, w)
}

func filter(ctx *cli.Context) error {
	path, err := fileArg(ctx)
	if err != nil {
		return err
	}
	if outputPath == "" {
		return errors.New("--output is required")
	}
	f, err := commands.NewFilter(cycleID, kind)
	if err != nil {
		return err
	}
	n, err := commands.RunFilter(path, outputPath, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Wrote %d events to %s\n", n, outputPath)
	return nil
}

func stats(ctx *cli.Context) error {
	path, err := fileArg(ctx)
	if err != nil {
		return err
	}
	return commands.RunStats(path, ctx.App.Writer)
}

func showHistory(ctx *cli.Context) error {
	path, err := fileArg(ctx)
	if err != nil {
		return err
	}
	return commands.RunHistory(path, limit, ctx.App.Writer)
}
