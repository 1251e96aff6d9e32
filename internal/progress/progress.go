// Package progress shows a spinner while a spreadsheet import or export runs.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a spinner for operations with no known length.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
	w     io.Writer
	done  chan struct{}
	spun  chan struct{}
}

// NewSpinner creates a spinner on stderr.
func NewSpinner(label string) *Tracker {
	return NewSpinnerTo(os.Stderr, label)
}

// NewSpinnerTo creates a spinner on w.
func NewSpinnerTo(w io.Writer, label string) *Tracker {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar, label: label, w: w}
}

// Start animates the spinner until one of the Finish methods is called.
func (t *Tracker) Start() {
	t.done = make(chan struct{})
	t.spun = make(chan struct{})
	go func(done <-chan struct{}, spun chan<- struct{}) {
		defer close(spun)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				t.bar.Add(1)
			}
		}
	}(t.done, t.spun)
}

func (t *Tracker) stop() {
	if t.done != nil {
		close(t.done)
		<-t.spun
		t.done = nil
	}
	t.bar.Finish()
	t.bar.Clear()
}

// FinishSuccess clears the spinner completely (no output).
func (t *Tracker) FinishSuccess() {
	t.stop()
}

// FinishError clears the spinner and prints an error line.
func (t *Tracker) FinishError(err error) {
	t.stop()
	fmt.Fprintf(t.w, "  %s error: %v\n", t.label, err)
}

// Run shows a spinner on w for the duration of fn.
func Run(w io.Writer, label string, fn func() error) error {
	t := NewSpinnerTo(w, label)
	t.Start()
	if err := fn(); err != nil {
		t.stop()
		return err
	}
	t.FinishSuccess()
	return nil
}
