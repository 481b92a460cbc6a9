// Package progress renders terminal progress bars for long-running loops.
package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/naka-gawa/github-lifecycle/internal/usecase"
)

// Bars starts one progress bar per loop on w.
type Bars struct {
	w io.Writer
}

// New creates Bars writing to w, usually os.Stderr.
func New(w io.Writer) *Bars {
	return &Bars{w: w}
}

// Start implements usecase.ProgressReporter.
func (b *Bars) Start(description string, total int) usecase.ProgressTracker {
	if total <= 0 {
		return emptyTracker{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(b.w) }),
	)
	return &tracker{bar: bar}
}

type tracker struct {
	bar *progressbar.ProgressBar
}

func (t *tracker) Increment() { _ = t.bar.Add(1) }
func (t *tracker) Finish()    { _ = t.bar.Finish() }

type emptyTracker struct{}

func (emptyTracker) Increment() {}
func (emptyTracker) Finish()    {}
