package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBar(t *testing.T) {
	buf := &bytes.Buffer{}
	bar := NewBar(buf, "Importing people", 3)

	bar.Inc()
	bar.Inc()
	assert.EqualValues(t, 2, bar.Current())

	bar.Inc()
	bar.Finish()
	assert.EqualValues(t, 3, bar.Current())
	assert.Contains(t, buf.String(), "Importing people")
}
