package main

import (
	"bufio"
	"flag"
	"fmt"
	"strings"

	"github.com/example/whiteboard/internal/engine"
	"github.com/example/whiteboard/internal/script"
)

// commandList collects repeated -e flags.
type commandList []string

func (c *commandList) String() string { return strings.Join(*c, "; ") }

func (c *commandList) Set(v string) error {
	*c = append(*c, v)
	return nil
}

// interactiveCmd reads script commands from stdin against one board and
// reports errors without stopping.
type interactiveCmd struct {
	*root
	fs     *flag.FlagSet
	width  int
	height int
	strict bool
	execs  commandList

	eng    *engine.Engine
	runner *script.Runner
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	i := &interactiveCmd{root: r.subcommand("interactive"), fs: fs}
	fs.Usage = usageFunc(i)
	r.canvasFlags(fs, &i.width, &i.height)
	fs.BoolVar(&i.strict, "strict", false, "report ignored commands as errors")
	fs.Var(&i.execs, "e", "execute a command in immediate mode (may be specified multiple times)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: i}
	}
	return i, nil
}

func (i *interactiveCmd) ensureSession() {
	if i.runner != nil {
		return
	}
	i.eng = i.newEngine(i.width, i.height)
	i.runner = &script.Runner{Engine: i.eng, Out: i.stdout, Strict: i.strict, Exporter: i.exporter()}
}

// executeLine runs one line and reports whether the session should end.
func (i *interactiveCmd) executeLine(line string) (bool, error) {
	i.ensureSession()
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false, nil
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprint(i.stdout, (&UsageError{of: i}).Error())
		return false, nil
	}
	return false, i.runner.Exec(line)
}

func (i *interactiveCmd) Run() error {
	if len(i.execs) > 0 {
		for _, cmd := range i.execs {
			done, err := i.executeLine(cmd)
			if err != nil {
				return fmt.Errorf("%s: %w", cmd, err)
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(i.stdout, "Enter commands (type 'exit' to quit)")
	scanner := bufio.NewScanner(i.stdin)
	for {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := i.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(i.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}
