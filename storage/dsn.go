package storage

import (
	"fmt"
	"net/url"
)

// createDSN builds the go-sqlite3 data source name for the given file.
func createDSN(filename string, disableOptimizations bool) string {
	qp := url.Values{}
	qp.Add("_foreign_keys", "true")
	qp.Add("_busy_timeout", "5000")
	// Every write transaction reads first; taking the write lock at BEGIN
	// lets the busy timeout apply instead of failing on lock upgrade.
	qp.Add("_txlock", "immediate")

	if !disableOptimizations {
		qp.Add("_journal_mode", "WAL")
		qp.Add("_synchronous", "NORMAL")
		qp.Add("_cache_size", "10000")
	}

	return fmt.Sprintf("file:%s?%s", filename, qp.Encode())
}
