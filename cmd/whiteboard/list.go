package main

import (
	"flag"
	"fmt"

	"github.com/example/whiteboard/internal/engine"
	"github.com/example/whiteboard/internal/palette"
)

type colorsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	cmd := &colorsCmd{root: r.subcommand("colors"), fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	entries := palette.Entries()
	fmt.Fprintln(c.stdout, "available palette colors (* marks the default color):")
	defaultIdx := palette.Index(c.cfg().Tools.Color)
	for idx, entry := range entries {
		marker := " "
		if idx == defaultIdx {
			marker = "*"
		}
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", entry.Color.R, entry.Color.G, entry.Color.B)
		fmt.Fprintf(c.stdout, "%s %2d: %-10s %s %s\n", marker, idx, entry.Name, palette.Hex(entry.Color), block)
	}
	if defaultIdx < 0 {
		fmt.Fprintf(c.stdout, "* default color %s is not in the palette\n", palette.Hex(c.cfg().Tools.Color))
	}
	return nil
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

type toolsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseToolsCmd(args []string, r *root) (*toolsCmd, error) {
	fs := flag.NewFlagSet("tools", flag.ExitOnError)
	cmd := &toolsCmd{root: r.subcommand("tools"), fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *toolsCmd) Run() error {
	def := c.cfg().ToolConfig()
	fmt.Fprintln(c.stdout, "available tools (* marks the default tool):")
	for _, t := range engine.Tools() {
		marker := " "
		if t == def.Tool {
			marker = "*"
		}
		fmt.Fprintf(c.stdout, "%s %-10s %s\n", marker, t, t.Title())
	}
	fmt.Fprintf(c.stdout, "stroke width %d-%dpx (default %gpx)\n", engine.MinStrokeWidth, engine.MaxStrokeWidth, def.StrokeWidth)
	fmt.Fprintf(c.stdout, "font size %d-%dpx (default %gpx)\n", engine.MinFontSize, engine.MaxFontSize, def.FontSize)
	return nil
}

func (c *toolsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
