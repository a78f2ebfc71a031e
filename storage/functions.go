package storage

import (
	"context"
	"errors"
	"io"
)

// withStore opens a Store on filename for the duration of fn and always
// closes it.
func withStore(ctx context.Context, filename string, fn func(s *Store) error) (err error) {
	s, err := Open(ctx, Config{Filename: filename})
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()

	return fn(s)
}

// Init creates the registry in filename if it does not exist yet.
func Init(ctx context.Context, filename string) error {
	// Open already initializes the registry.
	return withStore(ctx, filename, func(*Store) error { return nil })
}

// CreateTable creates a table in filename. See Store.CreateTable.
func CreateTable(ctx context.Context, filename string, name string, fields []Field) error {
	return withStore(ctx, filename, func(s *Store) error {
		return s.CreateTable(ctx, name, fields)
	})
}

// TableExists reports whether filename registers the table.
func TableExists(ctx context.Context, filename string, name string) (bool, error) {
	var exists bool
	err := withStore(ctx, filename, func(s *Store) (err error) {
		exists, err = s.TableExists(ctx, name)
		return err
	})
	return exists, err
}

// DeleteTable drops a table from filename. See Store.DeleteTable.
func DeleteTable(ctx context.Context, filename string, name string) error {
	return withStore(ctx, filename, func(s *Store) error {
		return s.DeleteTable(ctx, name)
	})
}

// Insert adds a row to a table of filename. See Store.Insert.
func Insert(ctx context.Context, filename string, table string, values Values) error {
	return withStore(ctx, filename, func(s *Store) error {
		return s.Insert(ctx, table, values)
	})
}

// Query returns the rows of table whose field equals value.
func Query(ctx context.Context, filename string, table string, field string, value any) ([]Row, error) {
	var rows []Row
	err := withStore(ctx, filename, func(s *Store) (err error) {
		rows, err = s.Query(ctx, table, field, value)
		return err
	})
	return rows, err
}

// GetTable returns every row of table, or an empty slice if it is absent.
func GetTable(ctx context.Context, filename string, table string) ([]Row, error) {
	var rows []Row
	err := withStore(ctx, filename, func(s *Store) (err error) {
		rows, err = s.GetTable(ctx, table)
		return err
	})
	return rows, err
}

// Update sets attribute on the rows matching cond. See Store.Update.
func Update(
	ctx context.Context, filename string, table string, cond Predicate, attribute string, newValue any,
) (int64, error) {
	var affected int64
	err := withStore(ctx, filename, func(s *Store) (err error) {
		affected, err = s.Update(ctx, table, cond, attribute, newValue)
		return err
	})
	return affected, err
}

// DeleteEntry deletes the rows matching cond. See Store.DeleteEntry.
func DeleteEntry(ctx context.Context, filename string, table string, cond Predicate) (int64, error) {
	var affected int64
	err := withStore(ctx, filename, func(s *Store) (err error) {
		affected, err = s.DeleteEntry(ctx, table, cond)
		return err
	})
	return affected, err
}

// EntryExists reports whether the exact row is present in table.
func EntryExists(ctx context.Context, filename string, table string, entry []any) (bool, error) {
	var exists bool
	err := withStore(ctx, filename, func(s *Store) (err error) {
		exists, err = s.EntryExists(ctx, table, entry)
		return err
	})
	return exists, err
}

// VisualizeTable writes table of filename to w. See Store.VisualizeTable.
func VisualizeTable(ctx context.Context, filename string, w io.Writer, table string) error {
	return withStore(ctx, filename, func(s *Store) error {
		return s.VisualizeTable(ctx, w, table)
	})
}
