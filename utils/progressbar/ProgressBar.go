// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"strings"
	"time"
)

// ProgressBar prints training progress to the terminal. Updates are
// received on a channel and rendered by a background goroutine so that
// the caller never blocks on terminal output.
type ProgressBar struct {
	width int
	max   int

	progress chan int
	done     chan struct{}
	closed   bool
	current  int

	updateEvery time.Duration
}

// New returns a new progress bar that is width characters wide and
// reaches 100% once Add has accumulated max progress.
func New(width, max int, updateEvery time.Duration) *ProgressBar {
	return &ProgressBar{
		width:       width,
		max:         max,
		progress:    make(chan int, 16),
		done:        make(chan struct{}),
		updateEvery: updateEvery,
	}
}

// Add advances the bar by n units of progress
func (p *ProgressBar) Add(n int) {
	if p.closed {
		return
	}
	select {
	case p.progress <- n:
	default:
		// Never block training on terminal output
	}
}

// Close stops the display and jumps to the next terminal line
func (p *ProgressBar) Close() {
	if p.closed {
		panic("close: close on closed progress bar")
	}
	p.closed = true
	close(p.done)
	fmt.Println()
}

// Display starts rendering the progress bar. It should only be called
// once.
func (p *ProgressBar) Display() {
	go func() {
		tick := time.NewTicker(p.updateEvery)
		defer tick.Stop()

		var elapsed time.Duration
		for {
			select {
			case n := <-p.progress:
				p.current += n
				if p.current > p.max {
					p.current = p.max
				}
			case <-tick.C:
				elapsed += p.updateEvery
				p.render(elapsed)
			case <-p.done:
				return
			}
		}
	}()
}

// render draws the bar in place on the current terminal line
func (p *ProgressBar) render(elapsed time.Duration) {
	filled := 0
	if p.max > 0 {
		filled = p.current * p.width / p.max
	}

	var bar strings.Builder
	bar.WriteString("|")
	bar.WriteString(strings.Repeat("█", filled))
	bar.WriteString(strings.Repeat(" ", p.width-filled))
	fmt.Printf("\r%v| [%.2f%% | elapsed: %v]", bar.String(),
		float64(p.current)/float64(p.max)*100, elapsed)
}
