package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/rlch/bspec/runner"
)

func tailCommand() *cli.Command {
	return &cli.Command{
		Name:      "tail",
		Usage:     "Re-render a JSON event stream",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format (dots, verbose, json, pretty, tui)",
			},
		},
		Action: runTail,
	}
}

// runTail reads the newline-delimited events another run wrote with the
// json format and replays them through a local formatter. Piping a stored
// stream into the TUI gives the live view after the fact.
func runTail(ctx context.Context, cmd *cli.Command) error {
	in := io.Reader(os.Stdin)

	if path := cmd.Args().First(); path != "" {
		f, err := os.Open(path) //nolint:gosec // G304: file path from user input is expected
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		in = f
	}

	handler, err := tailHandler(cmd)
	if err != nil {
		return err
	}

	result := runner.NewResult()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		event, ok, err := runner.DecodeEvent(line)
		if err != nil {
			_ = handler.Err(fmt.Sprintf("skipping malformed line: %v", err))
			continue
		}

		if !ok {
			continue
		}

		result.Add(event)

		if err := handler.Event(ctx, event, result); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	result.Finish()

	if summarizer, ok := handler.(runner.Summarizer); ok {
		_ = summarizer.Summary(result)
	}

	if !result.Ok() {
		return cli.Exit("", 1)
	}

	return nil
}

// tailHandler picks the output handler: the flag wins, then the config
// default, then the TUI on a terminal and dots everywhere else.
func tailHandler(cmd *cli.Command) (runner.Handler, error) {
	format := cmd.String("format")

	if format == "" {
		if cfg := loadConfig(); cfg != nil {
			format = cfg.Format
		}
	}

	if format == "" {
		if isatty.IsTerminal(os.Stdout.Fd()) {
			format = "tui"
		} else {
			format = "dots"
		}
	}

	if format == "tui" {
		tui := runner.NewTUIHandler(os.Stdout, os.Stderr)

		if err := tui.Start(); err != nil {
			return nil, fmt.Errorf("starting TUI: %w", err)
		}

		return tui, nil
	}

	return runner.NewFormatHandler(runner.NewFormatter(format, os.Stdout), os.Stderr), nil
}
