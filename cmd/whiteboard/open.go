package main

import (
	"flag"

	"github.com/example/whiteboard/internal/app"
)

// openCmd shows a board in a desktop window.
type openCmd struct {
	*root
	fs     *flag.FlagSet
	width  int
	height int
	output string
}

func (o *openCmd) FlagSet() *flag.FlagSet {
	return o.fs
}

func parseOpenCmd(args []string, r *root) (*openCmd, error) {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	o := &openCmd{root: r.subcommand("open"), fs: fs}
	fs.Usage = usageFunc(o)
	r.canvasFlags(fs, &o.width, &o.height)
	fs.StringVar(&o.output, "output", "", "file written by Ctrl+S (default: a new file in the save directory)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: o}
	}
	return o, nil
}

func (o *openCmd) Run() error {
	eng := o.newEngine(o.width, o.height)
	app.New(eng,
		app.WithTheme(o.activeTheme),
		app.WithExporter(o.exporter()),
		app.WithOutput(o.output),
	).Run()
	return nil
}
