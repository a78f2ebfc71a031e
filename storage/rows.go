package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/nsqlite/sqlabstract/internal/log"
)

// Row is a table row, values in column order.
type Row []any

// Values maps column names to the values of a row being inserted.
type Values map[string]any

// tuple orders values by columns, filling absent columns with nil.
func (v Values) tuple(table string, columns []string) ([]any, error) {
	for column := range v {
		if !slices.Contains(columns, column) {
			return nil, fmt.Errorf("%w: %s.%s", ErrColumnNotFound, table, column)
		}
	}

	tuple := make([]any, len(columns))
	for i, column := range columns {
		tuple[i] = v[column]
	}
	return tuple, nil
}

func quoteColumns(columns []string) []string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdentifier(c)
	}
	return quoted
}

// checkWritable rejects row writes that would bypass the registry bookkeeping.
func checkWritable(table string) error {
	if isRegistry(table) {
		return fmt.Errorf("%w: rows of %s are managed by the store", ErrReservedTable, table)
	}
	return validateIdentifier(table)
}

// checkPredicate validates p against the registered columns of table.
func checkPredicate(table string, columns []string, p Predicate) error {
	if err := p.validate(); err != nil {
		return err
	}
	if !slices.Contains(columns, p.Column) {
		return fmt.Errorf("%w: %s.%s", ErrColumnNotFound, table, p.Column)
	}
	return nil
}

// hasTuple reports whether a row equal to tuple exists. IS is used so NULLs
// compare equal and the column affinity applies to every value.
func (s *Store) hasTuple(
	ctx context.Context, q sqlx.QueryerContext, table string, columns []string, tuple []any,
) (bool, error) {
	conds := make([]string, len(columns))
	for i, c := range quoteColumns(columns) {
		conds[i] = c + " IS ?"
	}

	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE %s",
		quoteIdentifier(table), strings.Join(conds, " AND "),
	)
	n, err := s.count(ctx, q, "look up row", query, tuple...)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Insert adds a row to a registered table. Columns missing from values are
// stored as NULL. A row identical to an existing one is rejected with
// ErrDuplicateRow.
func (s *Store) Insert(ctx context.Context, table string, values Values) error {
	if err := checkWritable(table); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		_, columns, err := s.requireEntry(ctx, tx, table)
		if err != nil {
			return err
		}

		tuple, err := values.tuple(table, columns)
		if err != nil {
			return err
		}

		duplicate, err := s.hasTuple(ctx, tx, table, columns, tuple)
		if err != nil {
			return err
		}
		if duplicate {
			return fmt.Errorf("%w: %s", ErrDuplicateRow, table)
		}

		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
		query := fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s)",
			quoteIdentifier(table), strings.Join(quoteColumns(columns), ", "), placeholders,
		)
		_, err = s.exec(ctx, tx, "insert row", query, tuple...)
		return err
	})
}

// Query returns the rows of table whose field equals value.
func (s *Store) Query(ctx context.Context, table string, field string, value any) ([]Row, error) {
	return s.Where(ctx, table, Eq(field, value))
}

// Where returns the rows of table matching p, in rowid order.
func (s *Store) Where(ctx context.Context, table string, p Predicate) ([]Row, error) {
	if err := validateIdentifier(table); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, columns, err := s.requireEntry(ctx, s.db, table)
	if err != nil {
		return nil, err
	}
	if err := checkPredicate(table, columns, p); err != nil {
		return nil, err
	}

	clause, param := p.clause()
	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE %s ORDER BY rowid", quoteIdentifier(table), clause,
	)
	return s.selectRows(ctx, s.db, "query table", query, param)
}

// GetTable returns every row of table in rowid order. An unregistered table
// yields an empty slice and no error.
func (s *Store) GetTable(ctx context.Context, table string) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getTable(ctx, s.db, table)
}

func (s *Store) getTable(ctx context.Context, q sqlx.QueryerContext, table string) ([]Row, error) {
	_, found, err := s.lookupEntry(ctx, q, table)
	if err != nil {
		return nil, err
	}
	if !found {
		return []Row{}, nil
	}

	query := fmt.Sprintf("SELECT * FROM %s ORDER BY rowid", quoteIdentifier(table))
	return s.selectRows(ctx, q, "read table", query)
}

// EntryExists reports whether a row equal to entry, column by column, is
// present in table. Unregistered tables and entries of the wrong length are
// never present.
func (s *Store) EntryExists(ctx context.Context, table string, entry []any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found, err := s.lookupEntry(ctx, s.db, table)
	if err != nil || !found {
		return false, err
	}
	columns, err := e.columnList()
	if err != nil {
		return false, err
	}
	if len(entry) != len(columns) {
		return false, nil
	}

	return s.hasTuple(ctx, s.db, table, columns, entry)
}

// Update sets attribute to newValue on every row matching cond and returns
// how many rows changed. No match yields ErrNoMatchingRow and no change.
func (s *Store) Update(
	ctx context.Context, table string, cond Predicate, attribute string, newValue any,
) (int64, error) {
	if err := checkWritable(table); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		_, columns, err := s.requireEntry(ctx, tx, table)
		if err != nil {
			return err
		}
		if err := checkPredicate(table, columns, cond); err != nil {
			return err
		}
		if !slices.Contains(columns, attribute) {
			return fmt.Errorf("%w: %s.%s", ErrColumnNotFound, table, attribute)
		}

		clause, param := cond.clause()
		if err := s.requireMatch(ctx, tx, table, cond, clause, param); err != nil {
			return err
		}

		query := fmt.Sprintf(
			"UPDATE %s SET %s = ? WHERE %s",
			quoteIdentifier(table), quoteIdentifier(attribute), clause,
		)
		result, err := s.exec(ctx, tx, "update rows", query, newValue, param)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		if err != nil {
			return engineErr("count updated rows", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.DebugNs(log.NsStorage, "rows updated", log.KV{
		"store":    s.id,
		"table":    table,
		"affected": affected,
	})
	return affected, nil
}

// DeleteEntry deletes every row matching cond and returns how many were
// removed. No match yields ErrNoMatchingRow.
func (s *Store) DeleteEntry(ctx context.Context, table string, cond Predicate) (int64, error) {
	if err := checkWritable(table); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		_, columns, err := s.requireEntry(ctx, tx, table)
		if err != nil {
			return err
		}
		if err := checkPredicate(table, columns, cond); err != nil {
			return err
		}

		clause, param := cond.clause()
		if err := s.requireMatch(ctx, tx, table, cond, clause, param); err != nil {
			return err
		}

		query := fmt.Sprintf("DELETE FROM %s WHERE %s", quoteIdentifier(table), clause)
		result, err := s.exec(ctx, tx, "delete rows", query, param)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		if err != nil {
			return engineErr("count deleted rows", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.DebugNs(log.NsStorage, "rows deleted", log.KV{
		"store":    s.id,
		"table":    table,
		"affected": affected,
	})
	return affected, nil
}

func (s *Store) requireMatch(
	ctx context.Context, q sqlx.QueryerContext, table string, cond Predicate, clause string, param any,
) error {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", quoteIdentifier(table), clause)
	n, err := s.count(ctx, q, "match rows", query, param)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s where %s", ErrNoMatchingRow, table, cond)
	}
	return nil
}
