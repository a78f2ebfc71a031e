package storage

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlabstract/internal/styled"
)

// VisualizeTable writes table as a bordered text table to w. When the table
// has no rows (or is not registered) it writes "This table is empty" and
// returns ErrEmptyTable.
func (s *Store) VisualizeTable(ctx context.Context, w io.Writer, table string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.getTable(ctx, s.db, table)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "This table is empty")
		return fmt.Errorf("%w: %s", ErrEmptyTable, table)
	}

	_, columns, err := s.requireEntry(ctx, s.db, table)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, RenderTable(columns, rows))
	return nil
}

// RenderTable draws rows under the given header.
func RenderTable(columns []string, rows []Row) string {
	tw := styled.NewTextTableWriter(len(columns))

	header := make(table.Row, 0, len(columns))
	for _, c := range columns {
		header = append(header, c)
	}
	tw.AppendHeader(header)

	for _, r := range rows {
		cells := make(table.Row, 0, len(r))
		for _, v := range r {
			cells = append(cells, FormatValue(v))
		}
		tw.AppendRow(cells)
	}

	return tw.Render()
}

// FormatValue renders a scanned column value for display.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		if utf8.Valid(val) {
			return string(val)
		}
		return fmt.Sprintf("x'%x'", val)
	default:
		return fmt.Sprint(val)
	}
}
