package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/nsqlite/sqlabstract/internal/log"
)

// Field is a column declaration: a name and a SQLite type such as "TEXT"
// or "INTEGER PRIMARY KEY".
type Field struct {
	Name string
	Type string
}

// createTableStmt validates the schema and builds its CREATE TABLE statement
// along with the ordered column names.
func createTableStmt(name string, fields []Field) (string, []string, error) {
	if err := validateIdentifier(name); err != nil {
		return "", nil, err
	}
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("%w: table %s has no fields", ErrInvalidSchema, name)
	}

	seen := make(map[string]bool, len(fields))
	columns := make([]string, 0, len(fields))
	defs := make([]string, 0, len(fields))
	for _, f := range fields {
		if err := validateIdentifier(f.Name); err != nil {
			return "", nil, err
		}
		if err := validateType(f.Type); err != nil {
			return "", nil, err
		}

		key := strings.ToLower(f.Name)
		if seen[key] {
			return "", nil, fmt.Errorf("%w: duplicate field %s", ErrInvalidSchema, f.Name)
		}
		seen[key] = true

		columns = append(columns, f.Name)
		defs = append(defs, strings.TrimSpace(quoteIdentifier(f.Name)+" "+f.Type))
	}

	stmt := fmt.Sprintf(
		"CREATE TABLE %s (\n\t%s\n)", quoteIdentifier(name), strings.Join(defs, ",\n\t"),
	)
	return stmt, columns, nil
}

// CreateTable creates the table and records it in the registry. Both happen
// in one transaction.
func (s *Store) CreateTable(ctx context.Context, name string, fields []Field) error {
	stmt, columns, err := createTableStmt(name, fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		_, found, err := s.lookupEntry(ctx, tx, name)
		if err != nil {
			return err
		}
		if found {
			return fmt.Errorf("%w: %s", ErrTableAlreadyExists, name)
		}

		if _, err := s.exec(ctx, tx, "create table", stmt); err != nil {
			return err
		}
		return s.addEntry(ctx, tx, name, columns)
	})
	if err != nil {
		return err
	}

	s.logger.InfoNs(log.NsStorage, "table created", log.KV{
		"store":   s.id,
		"table":   name,
		"columns": columns,
	})
	return nil
}

// TableExists reports whether the registry has an entry for name.
func (s *Store) TableExists(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found, err := s.lookupEntry(ctx, s.db, name)
	return found, err
}

// Columns returns the registered column names of a table, in order.
func (s *Store) Columns(ctx context.Context, name string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, columns, err := s.requireEntry(ctx, s.db, name)
	return columns, err
}

// Tables returns the names of every registered table, the registry first.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.listEntries(ctx, s.db)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}

// DeleteTable drops a table and removes its registry entry in one
// transaction. The registry itself can never be dropped.
func (s *Store) DeleteTable(ctx context.Context, name string) error {
	if isRegistry(name) {
		return fmt.Errorf("%w: %s cannot be deleted", ErrReservedTable, name)
	}
	if err := validateIdentifier(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		_, found, err := s.lookupEntry(ctx, tx, name)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrTableNotFound, name)
		}

		if _, err := s.exec(ctx, tx, "drop table", "DROP TABLE "+quoteIdentifier(name)); err != nil {
			return err
		}
		return s.removeEntry(ctx, tx, name)
	})
	if err != nil {
		return err
	}

	s.logger.InfoNs(log.NsStorage, "table deleted", log.KV{
		"store": s.id,
		"table": name,
	})
	return nil
}
