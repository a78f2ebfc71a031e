package repl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlabstract/internal/styled"
)

type dotCmd struct {
	name         string
	autocomplete string
	help         string
	args         string
	run          func(r *Repl, args []string) error
}

func cmdHelpCommands() []dotCmd {
	cmds := []dotCmd{
		{name: ".tables", autocomplete: ".tables", help: "List all registered tables", run: cmdTables},
		{name: ".plot", autocomplete: ".plot", help: "Print every table of the database", run: cmdPlot},
		{name: ".show [table]", autocomplete: ".show", help: "Print the rows of a table", args: "table (required)", run: cmdShow},
		{name: ".columns [table]", autocomplete: ".columns", help: "List the registered columns of a table", args: "table (required)", run: cmdColumns},
		{name: ".count [table]", autocomplete: ".count", help: "Count the number of rows in a table", args: "table (required)", run: cmdCount},
		{name: ".create [table] [col:type]...", autocomplete: ".create", help: "Create a table", args: "table, one or more col:type", run: cmdCreate},
		{name: ".drop [table]", autocomplete: ".drop", help: "Delete a table and its registry entry", args: "table (required)", run: cmdDrop},
		{name: ".insert [table] [col=value]...", autocomplete: ".insert", help: "Insert a row, missing columns are NULL", args: "table, one or more col=value", run: cmdInsert},
		{name: ".query [table] [col=value]", autocomplete: ".query", help: "Show rows where a column equals a value", args: "table, condition", run: cmdQuery},
		{name: ".where [table] [col] [op] [value]", autocomplete: ".where", help: "Show rows matching a comparison (= != < <= > >= LIKE)", args: "table, column, operator, value", run: cmdWhere},
		{name: ".update [table] [col=value] [attr=value]", autocomplete: ".update", help: "Set attr on every row matching the condition", args: "table, condition, assignment", run: cmdUpdate},
		{name: ".delete [table] [col=value]", autocomplete: ".delete", help: "Delete every row matching the condition", args: "table, condition", run: cmdDelete},
		{name: ".import [table] [file.csv]", autocomplete: ".import", help: "Insert the records of a CSV file whose header names the columns", args: "table, file", run: cmdImport},

		{name: ".clear", autocomplete: ".clear", help: "Clear the terminal screen"},
		{name: ".help", autocomplete: ".help", help: "Show the help message"},
		{name: ".quit", autocomplete: ".quit", help: "Exit the application"},
		{name: ".exit", autocomplete: ".exit", help: "Exit the application"},
		{name: "CTRL+c", help: "Exit the application"},
	}

	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].name < cmds[j].name
	})

	return cmds
}

// findCommand returns the runnable command named name, e.g. ".show".
func findCommand(name string) (dotCmd, bool) {
	for _, cmd := range cmdHelpCommands() {
		if cmd.autocomplete == name && cmd.run != nil {
			return cmd, true
		}
	}
	return dotCmd{}, false
}

func cmdHelp(r *Repl) {
	fmt.Fprintln(r.out, "Available commands:")
	cmds := cmdHelpCommands()

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Command", "Description", "Arguments"})

	for _, cmd := range cmds {
		tw.AppendRow(table.Row{cmd.name, cmd.help, cmd.args})
	}

	fmt.Fprintln(r.out, tw.Render())
	styled.DimmedColor().Fprintln(r.out, `Quote arguments containing spaces, e.g. .insert people "name=Ann Lee"`)
}

// complete suggests commands for the first word and table names after it.
func (r *Repl) complete(line string) []string {
	cmd, rest, hasArgs := strings.Cut(line, " ")
	if !hasArgs {
		results := []string{}
		for _, c := range cmdHelpCommands() {
			if c.autocomplete != "" && strings.HasPrefix(c.autocomplete, strings.ToLower(cmd)) {
				results = append(results, c.autocomplete)
			}
		}
		return results
	}

	if strings.Contains(rest, " ") {
		return nil
	}

	tables, err := r.db.Tables(r.ctx)
	if err != nil {
		return nil
	}

	results := []string{}
	for _, t := range tables {
		if strings.HasPrefix(t, rest) {
			results = append(results, cmd+" "+t)
		}
	}
	return results
}
