// Package progress renders terminal activity indicators for long
// sequences of API calls. It wraps a spinner for work of unknown
// length and a counting bar when the total is known up front, behind
// one type so commands can stay oblivious to which of the two runs.
package progress

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/schollz/progressbar/v3"
)

// Indicator drives at most one spinner or bar at a time. A disabled
// indicator turns every method into a no-op, which is how JSON output
// and non-interactive runs stay clean.
type Indicator struct {
	out     io.Writer
	enabled bool
	spin    *spinner.Spinner
	bar     *progressbar.ProgressBar
}

// New returns an indicator writing to out. Pass enabled=false when the
// output is not a terminal or machine-readable output was requested.
func New(out io.Writer, enabled bool) *Indicator {
	return &Indicator{out: out, enabled: enabled}
}

// Start spins with the given label until Stop or StartCount is called.
func (p *Indicator) Start(label string) {
	if !p.enabled {
		return
	}

	p.Stop()

	p.spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(p.out))
	p.spin.Suffix = " " + label
	p.spin.Start()
}

// StartCount switches to a counting bar over total steps.
func (p *Indicator) StartCount(total int, label string) {
	if !p.enabled {
		return
	}

	p.Stop()

	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
}

// Advance moves the bar forward one step.
func (p *Indicator) Advance() {
	if p.bar == nil {
		return
	}

	_ = p.bar.Add(1)
}

// Stop tears down whichever indicator is running and clears its line.
func (p *Indicator) Stop() {
	if p.spin != nil {
		p.spin.Stop()
		p.spin = nil
	}

	if p.bar != nil {
		_ = p.bar.Finish()
		_ = p.bar.Clear()
		p.bar = nil
	}
}
