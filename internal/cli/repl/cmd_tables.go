package repl

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlabstract"
	"github.com/nsqlite/sqlabstract/internal/styled"
	"github.com/nsqlite/sqlabstract/internal/util/numutil"
	"github.com/nsqlite/sqlabstract/storage"
)

func cmdTables(r *Repl, args []string) error {
	if len(args) != 0 {
		return errUsage
	}

	tables, err := r.db.Tables(r.ctx)
	if err != nil {
		return err
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Table", "Columns"})
	for _, t := range tables {
		columns, err := r.db.Columns(r.ctx, t)
		if err != nil {
			return err
		}
		tw.AppendRow(table.Row{t, len(columns)})
	}

	fmt.Fprintln(r.out, tw.Render())
	return nil
}

func cmdPlot(r *Repl, args []string) error {
	if len(args) != 0 {
		return errUsage
	}

	err := r.db.Plot(r.ctx, r.out)
	if errors.Is(err, sqlabstract.ErrNoTables) {
		return nil
	}
	return err
}

func cmdShow(r *Repl, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	err := r.db.VisualizeTable(r.ctx, r.out, args[0])
	if errors.Is(err, storage.ErrEmptyTable) {
		return nil
	}
	return err
}

func cmdColumns(r *Repl, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	columns, err := r.db.Columns(r.ctx, args[0])
	if err != nil {
		return err
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"#", "Column"})
	for i, c := range columns {
		tw.AppendRow(table.Row{i + 1, c})
	}

	fmt.Fprintln(r.out, tw.Render())
	return nil
}

func cmdCount(r *Repl, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	exists, err := r.db.TableExists(r.ctx, args[0])
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", storage.ErrTableNotFound, args[0])
	}

	rows, err := r.db.GetTable(r.ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%s rows\n", numutil.IntWithCommas(len(rows)))
	return nil
}

// printRows renders rows of a table with its registered header.
func printRows(r *Repl, tableName string, rows []storage.Row) error {
	columns, err := r.db.Columns(r.ctx, tableName)
	if err != nil {
		return err
	}

	tw := styled.NewTableWriter()
	header := table.Row{}
	for _, c := range columns {
		header = append(header, c)
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		cells := table.Row{}
		for _, v := range row {
			cells = append(cells, storage.FormatValue(v))
		}
		tw.AppendRow(cells)
	}

	fmt.Fprintln(r.out, tw.Render())
	styled.DimmedColor().Fprintf(r.out, "%s rows\n", numutil.IntWithCommas(len(rows)))
	return nil
}
