package sqlabstract

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nsqlite/sqlabstract/storage"
)

// ErrNoTables is returned by Plot when the registry lists no table.
var ErrNoTables = errors.New("no table exists in this database")

// Database is bound to a single SQLite file and forwards every operation to
// its storage.Store.
type Database struct {
	filename string
	store    *storage.Store
}

// Open opens (creating if needed) and initializes the database file.
func Open(ctx context.Context, filename string) (*Database, error) {
	return OpenConfig(ctx, storage.Config{Filename: filename})
}

// OpenConfig is Open with full control over the store configuration.
func OpenConfig(ctx context.Context, config storage.Config) (*Database, error) {
	store, err := storage.Open(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", config.Filename, err)
	}

	return &Database{
		filename: config.Filename,
		store:    store,
	}, nil
}

// Filename returns the file the Database is bound to.
func (db *Database) Filename() string {
	return db.filename
}

// Close releases the underlying connection.
func (db *Database) Close() error {
	return db.store.Close()
}

// Init recreates the registry if it went missing. Open already calls it.
func (db *Database) Init(ctx context.Context) error {
	return db.store.Init(ctx)
}

// CreateTable creates a table and registers its columns.
func (db *Database) CreateTable(ctx context.Context, name string, fields []storage.Field) error {
	return db.store.CreateTable(ctx, name, fields)
}

// TableExists reports whether the table is registered.
func (db *Database) TableExists(ctx context.Context, name string) (bool, error) {
	return db.store.TableExists(ctx, name)
}

// Columns returns the registered columns of a table, in order.
func (db *Database) Columns(ctx context.Context, table string) ([]string, error) {
	return db.store.Columns(ctx, table)
}

// DeleteTable drops a table and its registry entry.
func (db *Database) DeleteTable(ctx context.Context, name string) error {
	return db.store.DeleteTable(ctx, name)
}

// Insert adds a row unless an identical one exists.
func (db *Database) Insert(ctx context.Context, table string, values storage.Values) error {
	return db.store.Insert(ctx, table, values)
}

// Query returns the rows whose field equals value.
func (db *Database) Query(ctx context.Context, table string, field string, value any) ([]storage.Row, error) {
	return db.store.Query(ctx, table, field, value)
}

// Where returns the rows matching p.
func (db *Database) Where(ctx context.Context, table string, p storage.Predicate) ([]storage.Row, error) {
	return db.store.Where(ctx, table, p)
}

// GetTable returns every row of a table, or none if it is absent.
func (db *Database) GetTable(ctx context.Context, table string) ([]storage.Row, error) {
	return db.store.GetTable(ctx, table)
}

// Update sets attribute on every row matching cond.
func (db *Database) Update(
	ctx context.Context, table string, cond storage.Predicate, attribute string, newValue any,
) (int64, error) {
	return db.store.Update(ctx, table, cond, attribute, newValue)
}

// DeleteEntry deletes every row matching cond.
func (db *Database) DeleteEntry(ctx context.Context, table string, cond storage.Predicate) (int64, error) {
	return db.store.DeleteEntry(ctx, table, cond)
}

// EntryExists reports whether the exact row is present.
func (db *Database) EntryExists(ctx context.Context, table string, entry []any) (bool, error) {
	return db.store.EntryExists(ctx, table, entry)
}

// VisualizeTable writes a table as a bordered text table to w.
func (db *Database) VisualizeTable(ctx context.Context, w io.Writer, table string) error {
	return db.store.VisualizeTable(ctx, w, table)
}

// Tables returns the name of every registered table, "tables" included.
func (db *Database) Tables(ctx context.Context) ([]string, error) {
	return db.store.Tables(ctx)
}

// Plot writes every table to w, each preceded by its name. Empty tables
// print their placeholder message and do not stop the plot.
func (db *Database) Plot(ctx context.Context, w io.Writer) error {
	tables, err := db.Tables(ctx)
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		fmt.Fprintln(w, "No table exists in this database")
		return ErrNoTables
	}

	for _, table := range tables {
		fmt.Fprintf(w, "\n%s\n", table)
		err := db.VisualizeTable(ctx, w, table)
		if err != nil && !errors.Is(err, storage.ErrEmptyTable) {
			return err
		}
	}

	return nil
}
