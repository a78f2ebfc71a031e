package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	"github.com/nsqlite/sqlabstract/internal/log"
)

// RegistryTable is the reserved table holding one row per table.
const RegistryTable = "tables"

// registryColumns is the column list of the registry table itself.
var registryColumns = []string{"name", "columns"}

// isRegistry reports whether name refers to the registry table.
func isRegistry(name string) bool {
	return strings.EqualFold(name, RegistryTable)
}

// registryEntry is a row of the registry table.
type registryEntry struct {
	Name    string `db:"name"`
	Columns string `db:"columns"`
}

// columnList decodes the JSON column list of the entry.
func (e registryEntry) columnList() ([]string, error) {
	return decodeColumns(e.Columns)
}

func encodeColumns(columns []string) (string, error) {
	b, err := json.Marshal(columns)
	if err != nil {
		return "", fmt.Errorf("failed to encode column list: %w", err)
	}
	return string(b), nil
}

func decodeColumns(raw string) ([]string, error) {
	columns := []string{}
	if err := json.Unmarshal([]byte(raw), &columns); err != nil {
		return nil, fmt.Errorf("failed to decode column list %q: %w", raw, err)
	}
	return columns, nil
}

// lookupEntry returns the registry entry for name, if any. Names compare
// case-insensitively, like SQLite identifiers.
func (s *Store) lookupEntry(
	ctx context.Context, q sqlx.QueryerContext, name string,
) (registryEntry, bool, error) {
	entry := registryEntry{}
	query := `SELECT name, columns FROM "tables" WHERE name = ? COLLATE NOCASE LIMIT 1`
	s.logStatement(query, name)

	err := sqlx.GetContext(ctx, q, &entry, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return registryEntry{}, false, nil
	}
	if err != nil {
		return registryEntry{}, false, engineErr("look up table in registry", err)
	}
	return entry, true, nil
}

// requireEntry is lookupEntry turning a missing entry into ErrTableNotFound.
func (s *Store) requireEntry(
	ctx context.Context, q sqlx.QueryerContext, name string,
) (registryEntry, []string, error) {
	entry, found, err := s.lookupEntry(ctx, q, name)
	if err != nil {
		return registryEntry{}, nil, err
	}
	if !found {
		return registryEntry{}, nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}

	columns, err := entry.columnList()
	if err != nil {
		return registryEntry{}, nil, err
	}
	return entry, columns, nil
}

// listEntries returns every registry entry in registration order.
func (s *Store) listEntries(
	ctx context.Context, q sqlx.QueryerContext,
) ([]registryEntry, error) {
	entries := []registryEntry{}
	query := `SELECT name, columns FROM "tables" ORDER BY rowid`
	s.logStatement(query)

	if err := sqlx.SelectContext(ctx, q, &entries, query); err != nil {
		return nil, engineErr("list registry", err)
	}
	return entries, nil
}

func (s *Store) addEntry(
	ctx context.Context, e sqlx.ExecerContext, name string, columns []string,
) error {
	encoded, err := encodeColumns(columns)
	if err != nil {
		return err
	}

	_, err = s.exec(
		ctx, e, "register table",
		`INSERT INTO "tables" (name, columns) VALUES (?, ?)`, name, encoded,
	)
	if err != nil {
		return err
	}

	s.logger.DebugNs(log.NsRegistry, "table registered", log.KV{
		"store":   s.id,
		"table":   name,
		"columns": columns,
	})
	return nil
}

func (s *Store) removeEntry(
	ctx context.Context, e sqlx.ExecerContext, name string,
) error {
	_, err := s.exec(
		ctx, e, "unregister table", `DELETE FROM "tables" WHERE name = ? COLLATE NOCASE`, name,
	)
	if err != nil {
		return err
	}

	s.logger.DebugNs(log.NsRegistry, "table unregistered", log.KV{
		"store": s.id,
		"table": name,
	})
	return nil
}
