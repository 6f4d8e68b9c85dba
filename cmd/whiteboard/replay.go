package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/example/whiteboard/internal/script"
	"github.com/sirupsen/logrus"
)

// replayCmd runs a script against a fresh board, optionally saving the
// result.
type replayCmd struct {
	*root
	fs     *flag.FlagSet
	width  int
	height int
	strict bool
	output string
	status bool
	file   string
}

func (c *replayCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseReplayCmd(args []string, r *root) (*replayCmd, error) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	c := &replayCmd{root: r.subcommand("replay"), fs: fs}
	fs.Usage = usageFunc(c)
	r.canvasFlags(fs, &c.width, &c.height)
	fs.BoolVar(&c.strict, "strict", false, "treat ignored commands (undo with no history, blank text) as errors")
	fs.StringVar(&c.output, "output", "", "save the final board to this PNG file")
	fs.BoolVar(&c.status, "status", false, "print the status line after the script finishes")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
		c.file = "-"
	case 1:
		c.file = fs.Arg(0)
	default:
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *replayCmd) Run() error {
	in := c.stdin
	name := "stdin"
	if c.file != "-" {
		f, err := os.Open(c.file)
		if err != nil {
			return fmt.Errorf("replay: %w", err)
		}
		defer f.Close()
		in, name = f, c.file
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return c.replay(ctx, in, name)
}

func (c *replayCmd) replay(ctx context.Context, in io.Reader, name string) error {
	eng := c.newEngine(c.width, c.height)
	x := c.exporter()
	runner := &script.Runner{Engine: eng, Out: c.stdout, Strict: c.strict, Exporter: x}
	if err := runner.Run(ctx, in); err != nil {
		return fmt.Errorf("replay %s: %w", name, err)
	}
	if c.status {
		fmt.Fprintln(c.stdout, eng.Status())
	}
	if c.output != "" {
		path, err := x.Save(eng.ExportSnapshot(), c.output)
		if err != nil {
			return fmt.Errorf("replay %s: %w", name, err)
		}
		logrus.WithField("path", path).Debug("replay result written")
	}
	return nil
}
