// Package progress provides a really simple progress bar for long running
// shell commands.
package progress

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Bar counts processed items out of a known total.
type Bar struct {
	pb *progressbar.ProgressBar
}

// NewBar returns a bar writing to w.
func NewBar(w io.Writer, description string, maxItems int) *Bar {
	pb := progressbar.NewOptions(
		maxItems,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(w, "\n") }),
	)
	_ = pb.Set(0)

	return &Bar{pb: pb}
}

func (b *Bar) Inc() {
	_ = b.pb.Add(1)
}

// Current returns how many items were counted so far.
func (b *Bar) Current() int64 {
	return b.pb.State().CurrentNum
}

func (b *Bar) Finish() {
	_ = b.pb.Finish()
	_ = b.pb.Close()
}
