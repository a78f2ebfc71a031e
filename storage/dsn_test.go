package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateDSN(t *testing.T) {
	tests := []struct {
		name                 string
		filename             string
		disableOptimizations bool
		expected             string
	}{
		{
			name:     "with optimizations",
			filename: "data/app.db",
			expected: "file:data/app.db?_busy_timeout=5000&_cache_size=10000&_foreign_keys=true&_journal_mode=WAL&_synchronous=NORMAL&_txlock=immediate",
		},
		{
			name:                 "without optimizations",
			filename:             "app.db",
			disableOptimizations: true,
			expected:             "file:app.db?_busy_timeout=5000&_foreign_keys=true&_txlock=immediate",
		},
		{
			name:                 "in memory",
			filename:             ":memory:",
			disableOptimizations: true,
			expected:             "file::memory:?_busy_timeout=5000&_foreign_keys=true&_txlock=immediate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, createDSN(tt.filename, tt.disableOptimizations))
		})
	}
}
