// Package sqlabstract is a small convenience layer over an embedded SQLite
// file. A Database creates tables from ordered field lists, keeps a registry
// of them in the reserved "tables" table, and offers simplified insert,
// query, update and delete calls plus a text rendering of every table.
//
//	db, err := sqlabstract.Open(ctx, "app.db")
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	err = db.CreateTable(ctx, "people", []storage.Field{
//		{Name: "id", Type: "INTEGER"},
//		{Name: "name", Type: "TEXT"},
//	})
//	err = db.Insert(ctx, "people", storage.Values{"id": 1, "name": "Ann"})
//	rows, err := db.Query(ctx, "people", "id", 1)
//
// Operations report failures through the sentinel errors of the storage
// package (storage.ErrTableNotFound, storage.ErrDuplicateRow, ...), so a nil
// error means the operation took effect.
package sqlabstract
