package repl

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"github.com/nsqlite/sqlabstract/internal/cli/progress"
	"github.com/nsqlite/sqlabstract/internal/log"
	"github.com/nsqlite/sqlabstract/internal/styled"
	"github.com/nsqlite/sqlabstract/internal/util/numutil"
	"github.com/nsqlite/sqlabstract/storage"
)

// cmdImport inserts every record of a CSV file. The header row names the
// columns; duplicate rows are skipped and counted.
func cmdImport(r *Repl, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	tableName, path := args[0], args[1]

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%s has no header row", path)
	}
	header, records := records[0], records[1:]
	if len(records) == 0 {
		fmt.Fprintln(r.out, "OK, 0 rows inserted")
		return nil
	}

	bar := progress.NewBar(r.out, fmt.Sprintf("Importing into %s", tableName), len(records))
	inserted, duplicates := 0, 0
	for _, record := range records {
		values := storage.Values{}
		for j, column := range header {
			values[column] = record[j]
		}

		err := r.db.Insert(r.ctx, tableName, values)
		switch {
		case errors.Is(err, storage.ErrDuplicateRow):
			duplicates++
		case err != nil:
			failed := bar.Current() + 1
			bar.Finish()
			return fmt.Errorf("record %d: %w", failed, err)
		default:
			inserted++
		}
		bar.Inc()
	}
	processed := bar.Current()
	bar.Finish()

	r.logger.InfoNs(log.NsCLI, "csv imported", log.KV{
		"table":      tableName,
		"file":       path,
		"records":    processed,
		"inserted":   inserted,
		"duplicates": duplicates,
	})

	fmt.Fprintf(r.out, "OK, %s rows inserted\n", numutil.IntWithCommas(inserted))
	if duplicates > 0 {
		styled.DimmedColor().Fprintf(r.out, "%s duplicate rows skipped\n", numutil.IntWithCommas(duplicates))
	}
	return nil
}
