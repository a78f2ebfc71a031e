package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nsqlite/sqlabstract"
	"github.com/nsqlite/sqlabstract/internal/log"
	"github.com/nsqlite/sqlabstract/internal/styled"
	"github.com/nsqlite/sqlabstract/internal/util/sysutil"
	"github.com/peterh/liner"
)

// errUsage is returned by commands called with the wrong arguments.
var errUsage = errors.New("wrong arguments")

type Repl struct {
	ctx         context.Context
	stop        context.CancelFunc
	db          *sqlabstract.Database
	logger      log.Logger
	out         io.Writer
	historyPath string
}

func NewRepl(
	ctx context.Context,
	stop context.CancelFunc,
	db *sqlabstract.Database,
	logger log.Logger,
	out io.Writer,
) (Repl, error) {
	if !logger.IsInitialized() {
		return Repl{}, errors.New("logger is required")
	}
	if db == nil {
		return Repl{}, errors.New("database is required")
	}

	return Repl{
		ctx:         ctx,
		stop:        stop,
		db:          db,
		logger:      logger,
		out:         out,
		historyPath: filepath.Join(os.TempDir(), ".sqlabstract_history"),
	}, nil
}

func (r *Repl) Start() error {
	tables, err := r.db.Tables(r.ctx)
	if err != nil {
		return fmt.Errorf("failed to read registry of %s: %w", r.db.Filename(), err)
	}

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "Opened %s with %d registered tables\n", r.db.Filename(), len(tables))
	fmt.Fprintln(r.out, `Enter ".help" for usage hints and ".quit" or "CTRL+C" to quit`)
	fmt.Fprintln(r.out)

	for {
		select {
		case <-r.ctx.Done():
			return nil
		default:
			if quit := r.execute(r.prompt()); quit {
				r.Shutdown()
				return nil
			}
		}
	}
}

// Shutdown stops the REPL.
func (r *Repl) Shutdown() {
	r.stop()
}

// execute runs a single input line and reports whether the shell should
// exit.
func (r *Repl) execute(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}

	args, err := splitArgs(input)
	if err != nil {
		r.printError(err)
		return false
	}

	name := strings.ToLower(args[0])
	switch name {
	case "exit", ".exit", ".quit":
		return true
	case "clear", ".clear":
		sysutil.ClearTerminal()
		return false
	case "help", ".help":
		cmdHelp(r)
		return false
	}

	cmd, found := findCommand(name)
	if !found {
		fmt.Fprintln(r.out, "Unknown command, type .help for usage hints")
		return false
	}

	if err := cmd.run(r, args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			err = fmt.Errorf("usage: %s", cmd.name)
		}
		r.logger.WarnNs(log.NsCLI, "command failed", log.KV{
			"command": cmd.autocomplete,
			"error":   err.Error(),
		})
		r.printError(err)
	}
	return false
}

func (r *Repl) printError(err error) {
	styled.ErrorColor().Fprintf(r.out, "Error: %s\n", err)
}

// splitArgs splits a command line on spaces. Single or double quotes group
// words and are removed.
func splitArgs(line string) ([]string, error) {
	args := []string{}
	current := strings.Builder{}
	inArg := false
	var quote rune

	for _, c := range line {
		switch {
		case quote != 0 && c == quote:
			quote = 0
		case quote != 0:
			current.WriteRune(c)
		case c == '\'' || c == '"':
			quote, inArg = c, true
		case c == ' ' || c == '\t':
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(c)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote %q", quote)
	}
	if inArg {
		args = append(args, current.String())
	}
	return args, nil
}

// prompt shows the prompt and reads the input from the user.
func (r *Repl) prompt() string {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(r.complete)

	if file, err := os.Open(r.historyPath); err == nil {
		_, _ = line.ReadHistory(file)
		file.Close()
	}

	input, err := line.Prompt("sqlabstract> ")
	if err != nil {
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Fprintln(r.out, "CTRL+C pressed, exiting...")
			return ".quit"
		}
		return ""
	}

	line.AppendHistory(input)
	if file, err := os.Create(r.historyPath); err == nil {
		_, _ = line.WriteHistory(file)
		file.Close()
	}

	return input
}
