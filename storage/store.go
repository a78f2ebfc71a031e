package storage

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/nsqlite/sqlabstract/internal/log"
)

// Config represents the configuration for a Store.
type Config struct {
	// Filename is the SQLite file, created if absent. ":memory:" opens a
	// private in-memory database.
	Filename string
	// LogWriter receives JSON logs. Nil discards them.
	LogWriter io.Writer
	// Debug also logs every statement executed.
	Debug bool
	// DisableOptimizations skips the WAL and cache pragmas on open.
	DisableOptimizations bool
}

// Store is a registry-aware handle on one SQLite file. It holds a single
// connection and is safe for concurrent use; operations run one at a time.
type Store struct {
	Config
	id     uuid.UUID
	logger log.Logger
	db     *sqlx.DB
	mu     sync.Mutex
}

// Open opens the database file and makes sure the registry exists.
func Open(ctx context.Context, config Config) (*Store, error) {
	if config.Filename == "" {
		return nil, errors.New("database filename is required")
	}

	logger := log.NewLogger(config.LogWriter)
	if config.Debug {
		logger = log.NewDebugLogger(config.LogWriter)
	}

	db, err := sqlx.Open("sqlite3", createDSN(config.Filename, config.DisableOptimizations))
	if err != nil {
		return nil, engineErr("open database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, engineErr("ping database", err)
	}
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)
	db.SetMaxIdleConns(1)
	db.SetMaxOpenConns(1)

	s := &Store{
		Config: config,
		id:     uuid.New(),
		logger: logger,
		db:     db,
	}

	if err := s.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.InfoNs(log.NsStorage, "store opened", log.KV{
		"store":    s.id,
		"filename": config.Filename,
	})
	return s, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return engineErr("close database", err)
	}

	s.logger.InfoNs(log.NsStorage, "store closed", log.KV{"store": s.id})
	return nil
}

// Init creates the registry table and its own entry when missing. Calling it
// on an initialized file is a no-op.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var count int
		query := `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ? COLLATE NOCASE`
		s.logStatement(query, RegistryTable)
		if err := sqlx.GetContext(ctx, tx, &count, query, RegistryTable); err != nil {
			return engineErr("check registry", err)
		}
		if count > 0 {
			return nil
		}

		_, err := s.exec(
			ctx, tx, "create registry",
			`CREATE TABLE "tables" (name TEXT, columns TEXT)`,
		)
		if err != nil {
			return err
		}
		if err := s.addEntry(ctx, tx, RegistryTable, registryColumns); err != nil {
			return err
		}

		s.logger.InfoNs(log.NsRegistry, "registry initialized", log.KV{"store": s.id})
		return nil
	})
}

// inTx runs fn inside a transaction, committing only if fn succeeds.
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return engineErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return engineErr("commit transaction", err)
	}
	return nil
}

func (s *Store) logStatement(query string, params ...any) {
	s.logger.DebugNs(log.NsStorage, "executing statement", log.KV{
		"store":  s.id,
		"sql":    query,
		"params": len(params),
	})
}

// exec executes a write statement, wrapping engine failures as op.
func (s *Store) exec(
	ctx context.Context, e sqlx.ExecerContext, op string, query string, params ...any,
) (sql.Result, error) {
	s.logStatement(query, params...)

	result, err := e.ExecContext(ctx, query, params...)
	if err != nil {
		return nil, engineErr(op, err)
	}
	return result, nil
}

// selectRows runs a read statement and scans every row in column order.
func (s *Store) selectRows(
	ctx context.Context, q sqlx.QueryerContext, op string, query string, params ...any,
) ([]Row, error) {
	s.logStatement(query, params...)

	rows, err := q.QueryxContext(ctx, query, params...)
	if err != nil {
		return nil, engineErr(op, err)
	}
	defer rows.Close()

	result := []Row{}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, engineErr(op, err)
		}
		result = append(result, Row(values))
	}
	if err := rows.Err(); err != nil {
		return nil, engineErr(op, err)
	}

	return result, nil
}

// count runs a COUNT(*) style statement.
func (s *Store) count(
	ctx context.Context, q sqlx.QueryerContext, op string, query string, params ...any,
) (int64, error) {
	s.logStatement(query, params...)

	var n int64
	if err := sqlx.GetContext(ctx, q, &n, query, params...); err != nil {
		return 0, engineErr(op, err)
	}
	return n, nil
}

