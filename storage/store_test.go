package storage

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var peopleFields = []Field{
	{Name: "id", Type: "INTEGER"},
	{Name: "name", Type: "TEXT"},
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), Config{
		Filename: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newPeopleStore(t *testing.T) *Store {
	t.Helper()

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateTable(ctx, "people", peopleFields))
	require.NoError(t, s.Insert(ctx, "people", Values{"id": 1, "name": "Ann"}))
	require.NoError(t, s.Insert(ctx, "people", Values{"id": 2, "name": "Bob"}))
	return s
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("RequiresFilename", func(t *testing.T) {
		_, err := Open(ctx, Config{})
		assert.Error(t, err)
	})

	t.Run("FreshFileListsRegistry", func(t *testing.T) {
		s := newTestStore(t)

		tables, err := s.Tables(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []string{"tables"}, tables)

		columns, err := s.Columns(ctx, RegistryTable)
		assert.NoError(t, err)
		assert.Equal(t, []string{"name", "columns"}, columns)
	})

	t.Run("InitIsIdempotent", func(t *testing.T) {
		s := newTestStore(t)
		assert.NoError(t, s.Init(ctx))
		assert.NoError(t, s.Init(ctx))

		rows, err := s.GetTable(ctx, RegistryTable)
		assert.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("ReopenKeepsData", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "reopen.db")
		s, err := Open(ctx, Config{Filename: filename})
		require.NoError(t, err)
		require.NoError(t, s.CreateTable(ctx, "people", peopleFields))
		require.NoError(t, s.Close())

		s, err = Open(ctx, Config{Filename: filename})
		require.NoError(t, err)
		defer s.Close()

		tables, err := s.Tables(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []string{"tables", "people"}, tables)
	})

	t.Run("InMemory", func(t *testing.T) {
		s, err := Open(ctx, Config{Filename: ":memory:", DisableOptimizations: true})
		require.NoError(t, err)
		defer s.Close()

		assert.NoError(t, s.CreateTable(ctx, "people", peopleFields))
		exists, err := s.TableExists(ctx, "people")
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("DebugLogsStatements", func(t *testing.T) {
		buf := &bytes.Buffer{}
		s, err := Open(ctx, Config{
			Filename:  filepath.Join(t.TempDir(), "log.db"),
			LogWriter: buf,
			Debug:     true,
		})
		require.NoError(t, err)
		defer s.Close()

		assert.Contains(t, buf.String(), `"msg":"store opened"`)
		assert.Contains(t, buf.String(), `"msg":"executing statement"`)
	})
}

func TestCreateTable(t *testing.T) {
	ctx := context.Background()

	t.Run("RegistersColumnsInOrder", func(t *testing.T) {
		s := newTestStore(t)
		fields := []Field{
			{Name: "zeta", Type: "TEXT"},
			{Name: "alpha", Type: "INTEGER"},
			{Name: "mid", Type: "REAL"},
		}
		require.NoError(t, s.CreateTable(ctx, "ordered", fields))

		exists, err := s.TableExists(ctx, "ordered")
		assert.NoError(t, err)
		assert.True(t, exists)

		columns, err := s.Columns(ctx, "ordered")
		assert.NoError(t, err)
		assert.Equal(t, []string{"zeta", "alpha", "mid"}, columns)
	})

	t.Run("AlreadyExists", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.CreateTable(ctx, "people", peopleFields))

		err := s.CreateTable(ctx, "people", peopleFields)
		assert.ErrorIs(t, err, ErrTableAlreadyExists)

		tables, err := s.Tables(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []string{"tables", "people"}, tables)
	})

	t.Run("AlreadyExistsIgnoresCase", func(t *testing.T) {
		s := newPeopleStore(t)

		assert.ErrorIs(t, s.CreateTable(ctx, "People", peopleFields), ErrTableAlreadyExists)
		assert.ErrorIs(t, s.CreateTable(ctx, "TABLES", peopleFields), ErrTableAlreadyExists)

		exists, err := s.TableExists(ctx, "PEOPLE")
		assert.NoError(t, err)
		assert.True(t, exists)

		columns, err := s.Columns(ctx, "People")
		assert.NoError(t, err)
		assert.Equal(t, []string{"id", "name"}, columns)
	})

	t.Run("RegistryNameTaken", func(t *testing.T) {
		s := newTestStore(t)
		err := s.CreateTable(ctx, RegistryTable, peopleFields)
		assert.ErrorIs(t, err, ErrTableAlreadyExists)
	})

	t.Run("InvalidSchema", func(t *testing.T) {
		s := newTestStore(t)

		assert.ErrorIs(t, s.CreateTable(ctx, "empty", nil), ErrInvalidSchema)
		assert.ErrorIs(t, s.CreateTable(ctx, "dup", []Field{
			{Name: "id", Type: "INTEGER"},
			{Name: "ID", Type: "TEXT"},
		}), ErrInvalidSchema)
		assert.ErrorIs(t, s.CreateTable(ctx, "bad name", peopleFields), ErrInvalidIdentifier)
		assert.ErrorIs(t, s.CreateTable(ctx, "bad_type", []Field{
			{Name: "id", Type: "INTEGER); DROP TABLE tables; --"},
		}), ErrInvalidSchema)
		assert.ErrorIs(t, s.CreateTable(ctx, "hidden", []Field{
			{Name: "id", Type: "INTEGER, hidden TEXT"},
		}), ErrInvalidSchema)

		tables, err := s.Tables(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []string{"tables"}, tables)
	})

	t.Run("EngineFailureLeavesRegistryUntouched", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.db.Exec(`CREATE TABLE ghost (id INTEGER)`)
		require.NoError(t, err)

		err = s.CreateTable(ctx, "ghost", peopleFields)
		var engineError *EngineError
		assert.True(t, errors.As(err, &engineError))

		exists, err := s.TableExists(ctx, "ghost")
		assert.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestDeleteTable(t *testing.T) {
	ctx := context.Background()

	t.Run("DropsTableAndEntry", func(t *testing.T) {
		s := newPeopleStore(t)
		require.NoError(t, s.DeleteTable(ctx, "people"))

		exists, err := s.TableExists(ctx, "people")
		assert.NoError(t, err)
		assert.False(t, exists)

		var count int
		require.NoError(t, s.db.Get(&count, `SELECT COUNT(*) FROM sqlite_master WHERE name = 'people'`))
		assert.Zero(t, count)

		assert.NoError(t, s.CreateTable(ctx, "people", peopleFields))
	})

	t.Run("NotFound", func(t *testing.T) {
		s := newTestStore(t)
		assert.ErrorIs(t, s.DeleteTable(ctx, "people"), ErrTableNotFound)
	})

	t.Run("IgnoresCase", func(t *testing.T) {
		s := newPeopleStore(t)
		require.NoError(t, s.DeleteTable(ctx, "PEOPLE"))

		tables, err := s.Tables(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []string{"tables"}, tables)

		assert.NoError(t, s.CreateTable(ctx, "people", peopleFields))
	})

	t.Run("RegistryIsProtected", func(t *testing.T) {
		s := newPeopleStore(t)
		assert.ErrorIs(t, s.DeleteTable(ctx, RegistryTable), ErrReservedTable)
		assert.ErrorIs(t, s.DeleteTable(ctx, "Tables"), ErrReservedTable)
		assert.ErrorIs(t, s.Insert(ctx, "TABLES", Values{"name": "x"}), ErrReservedTable)
		require.NoError(t, s.DeleteTable(ctx, "people"))
		assert.ErrorIs(t, s.DeleteTable(ctx, RegistryTable), ErrReservedTable)

		tables, err := s.Tables(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []string{"tables"}, tables)
	})
}

func TestInsert(t *testing.T) {
	ctx := context.Background()

	t.Run("GetTableInInsertionOrder", func(t *testing.T) {
		s := newPeopleStore(t)

		rows, err := s.GetTable(ctx, "people")
		assert.NoError(t, err)
		assert.Equal(t, []Row{{int64(1), "Ann"}, {int64(2), "Bob"}}, rows)
	})

	t.Run("DuplicateRejected", func(t *testing.T) {
		s := newPeopleStore(t)

		err := s.Insert(ctx, "people", Values{"id": 1, "name": "Ann"})
		assert.ErrorIs(t, err, ErrDuplicateRow)

		rows, err := s.GetTable(ctx, "people")
		assert.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("DifferentInOneFieldAccepted", func(t *testing.T) {
		s := newPeopleStore(t)

		assert.NoError(t, s.Insert(ctx, "people", Values{"id": 1, "name": "Anna"}))
		assert.NoError(t, s.Insert(ctx, "people", Values{"id": 3, "name": "Ann"}))
	})

	t.Run("AffinityAppliesToDuplicateCheck", func(t *testing.T) {
		s := newPeopleStore(t)
		err := s.Insert(ctx, "people", Values{"id": "1", "name": "Ann"})
		assert.ErrorIs(t, err, ErrDuplicateRow)
	})

	t.Run("MissingColumnsAreNull", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.CreateTable(ctx, "people", peopleFields))

		assert.NoError(t, s.Insert(ctx, "people", Values{"id": 7}))
		assert.ErrorIs(t, s.Insert(ctx, "people", Values{"id": 7}), ErrDuplicateRow)

		rows, err := s.GetTable(ctx, "people")
		assert.NoError(t, err)
		assert.Equal(t, []Row{{int64(7), nil}}, rows)
	})

	t.Run("TableNotFound", func(t *testing.T) {
		s := newTestStore(t)
		err := s.Insert(ctx, "people", Values{"id": 1})
		assert.ErrorIs(t, err, ErrTableNotFound)
	})

	t.Run("UnknownColumn", func(t *testing.T) {
		s := newPeopleStore(t)
		err := s.Insert(ctx, "people", Values{"id": 3, "age": 40})
		assert.ErrorIs(t, err, ErrColumnNotFound)
	})

	t.Run("RegistryRowsAreManaged", func(t *testing.T) {
		s := newTestStore(t)
		err := s.Insert(ctx, RegistryTable, Values{"name": "ghost", "columns": `["id"]`})
		assert.ErrorIs(t, err, ErrReservedTable)
	})
}

func TestQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.CreateTable(ctx, "things", peopleFields))
		require.NoError(t, s.Insert(ctx, "things", Values{"id": 1, "name": "a"}))

		rows, err := s.Query(ctx, "things", "id", 1)
		assert.NoError(t, err)
		assert.Equal(t, []Row{{int64(1), "a"}}, rows)
	})

	t.Run("NoMatch", func(t *testing.T) {
		s := newPeopleStore(t)
		rows, err := s.Query(ctx, "people", "name", "Zed")
		assert.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("UnknownColumn", func(t *testing.T) {
		s := newPeopleStore(t)
		_, err := s.Query(ctx, "people", "age", 1)
		assert.ErrorIs(t, err, ErrColumnNotFound)
	})

	t.Run("TableNotFound", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.Query(ctx, "people", "id", 1)
		assert.ErrorIs(t, err, ErrTableNotFound)
	})

	t.Run("Where", func(t *testing.T) {
		s := newPeopleStore(t)

		rows, err := s.Where(ctx, "people", Predicate{Column: "id", Operator: OpGt, Value: 1})
		assert.NoError(t, err)
		assert.Equal(t, []Row{{int64(2), "Bob"}}, rows)

		rows, err = s.Where(ctx, "people", Predicate{Column: "name", Operator: OpLike, Value: "%o%"})
		assert.NoError(t, err)
		assert.Equal(t, []Row{{int64(2), "Bob"}}, rows)
	})
}

func TestGetTable(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingTableIsEmpty", func(t *testing.T) {
		s := newTestStore(t)
		rows, err := s.GetTable(ctx, "nope")
		assert.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("RegistryRows", func(t *testing.T) {
		s := newPeopleStore(t)
		rows, err := s.GetTable(ctx, RegistryTable)
		assert.NoError(t, err)
		assert.Equal(t, []Row{
			{"tables", `["name","columns"]`},
			{"people", `["id","name"]`},
		}, rows)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("NoMatchLeavesRowsUnchanged", func(t *testing.T) {
		s := newPeopleStore(t)

		affected, err := s.Update(ctx, "people", Eq("id", 9), "name", "Zed")
		assert.ErrorIs(t, err, ErrNoMatchingRow)
		assert.Zero(t, affected)

		rows, err := s.GetTable(ctx, "people")
		assert.NoError(t, err)
		assert.Equal(t, []Row{{int64(1), "Ann"}, {int64(2), "Bob"}}, rows)
	})

	t.Run("AppliesToEveryMatch", func(t *testing.T) {
		s := newPeopleStore(t)
		require.NoError(t, s.Insert(ctx, "people", Values{"id": 3, "name": "Ann"}))

		affected, err := s.Update(ctx, "people", Eq("name", "Ann"), "name", "Anne")
		assert.NoError(t, err)
		assert.EqualValues(t, 2, affected)

		rows, err := s.GetTable(ctx, "people")
		assert.NoError(t, err)
		assert.Equal(t, []Row{{int64(1), "Anne"}, {int64(2), "Bob"}, {int64(3), "Anne"}}, rows)
	})

	t.Run("LegacyCondition", func(t *testing.T) {
		s := newPeopleStore(t)
		cond, err := ParseCondition("id='2'")
		require.NoError(t, err)

		affected, err := s.Update(ctx, "people", cond, "name", "Robert")
		assert.NoError(t, err)
		assert.EqualValues(t, 1, affected)

		rows, err := s.Query(ctx, "people", "id", 2)
		assert.NoError(t, err)
		assert.Equal(t, []Row{{int64(2), "Robert"}}, rows)
	})

	t.Run("UnknownAttribute", func(t *testing.T) {
		s := newPeopleStore(t)
		_, err := s.Update(ctx, "people", Eq("id", 1), "age", 3)
		assert.ErrorIs(t, err, ErrColumnNotFound)
	})

	t.Run("RegistryRowsAreManaged", func(t *testing.T) {
		s := newPeopleStore(t)
		_, err := s.Update(ctx, RegistryTable, Eq("name", "people"), "name", "ghost")
		assert.ErrorIs(t, err, ErrReservedTable)
	})
}

func TestDeleteEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("NoMatch", func(t *testing.T) {
		s := newPeopleStore(t)
		affected, err := s.DeleteEntry(ctx, "people", Eq("id", 5))
		assert.ErrorIs(t, err, ErrNoMatchingRow)
		assert.Zero(t, affected)
	})

	t.Run("DeletesMatches", func(t *testing.T) {
		s := newPeopleStore(t)
		affected, err := s.DeleteEntry(ctx, "people", Predicate{Column: "id", Operator: OpLe, Value: 1})
		assert.NoError(t, err)
		assert.EqualValues(t, 1, affected)

		rows, err := s.GetTable(ctx, "people")
		assert.NoError(t, err)
		assert.Equal(t, []Row{{int64(2), "Bob"}}, rows)
	})

	t.Run("TableNotFound", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.DeleteEntry(ctx, "people", Eq("id", 1))
		assert.ErrorIs(t, err, ErrTableNotFound)
	})
}

func TestEntryExists(t *testing.T) {
	ctx := context.Background()
	s := newPeopleStore(t)

	tests := []struct {
		name     string
		table    string
		entry    []any
		expected bool
	}{
		{name: "present", table: "people", entry: []any{1, "Ann"}, expected: true},
		{name: "one field differs", table: "people", entry: []any{1, "Bob"}},
		{name: "wrong order", table: "people", entry: []any{"Ann", 1}},
		{name: "too short", table: "people", entry: []any{1}},
		{name: "missing table", table: "nope", entry: []any{1, "Ann"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := s.EntryExists(ctx, tt.table, tt.entry)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, exists)
		})
	}
}

func TestStoreConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.CreateTable(ctx, "counters", []Field{{Name: "n", Type: "INTEGER"}}))

	const goroutines = 20
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Insert(ctx, "counters", Values{"n": i}))
		}(i)
	}
	wg.Wait()

	rows, err := s.GetTable(ctx, "counters")
	assert.NoError(t, err)
	assert.Len(t, rows, goroutines)
}
