package sqlabstract_test

import (
	"context"
	"fmt"
	"os"

	"github.com/nsqlite/sqlabstract"
	"github.com/nsqlite/sqlabstract/storage"
)

func Example() {
	ctx := context.Background()

	db, err := sqlabstract.Open(ctx, ":memory:")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer db.Close()

	_ = db.CreateTable(ctx, "people", []storage.Field{
		{Name: "id", Type: "INTEGER"},
		{Name: "name", Type: "TEXT"},
	})
	_ = db.Insert(ctx, "people", storage.Values{"id": 1, "name": "Ann"})
	_ = db.Insert(ctx, "people", storage.Values{"id": 2, "name": "Bob"})

	_ = db.VisualizeTable(ctx, os.Stdout, "people")
	// Output:
	// +----+------+
	// | id | name |
	// +----+------+
	// | 1  | Ann  |
	// +----+------+
	// | 2  | Bob  |
	// +----+------+
}
