// Package search debounces keystrokes into remote name queries.
//
// Every keystroke restarts a quiet-period timer. When the timer expires the
// latest term is issued as a Query carrying a monotonically increasing
// sequence number; responses are accepted only for the newest sequence, so a
// slow answer to an earlier query never overwrites a later one.
package search

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultQuiet is the quiet period applied when none is configured.
const DefaultQuiet = 350 * time.Millisecond

// QuietMsg is delivered when the quiet period after an input ends.
type QuietMsg struct {
	Gen uint64
}

// Query is a term due to be sent to the catalog.
type Query struct {
	Seq  uint64
	Term string
}

// Debouncer is driven from a Bubble Tea Update loop and is not safe for
// concurrent use.
type Debouncer struct {
	quiet time.Duration
	clock Clock

	gen    uint64
	term   string
	timer  Timer
	cancel chan struct{}

	seq    uint64
	issued uint64
}

// New returns a debouncer with the given quiet period. A nil clock uses
// RealClock; a non-positive quiet uses DefaultQuiet.
func New(quiet time.Duration, clock Clock) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Debouncer{quiet: quiet, clock: clock}
}

// Input records the current text of the search field and restarts the
// quiet period. The returned command yields a QuietMsg when the period ends
// or nil if a later Input or Cancel supersedes it.
func (d *Debouncer) Input(term string) tea.Cmd {
	d.stop()
	d.gen++
	d.term = term

	fire := make(chan struct{}, 1)
	cancel := make(chan struct{})
	d.cancel = cancel
	d.timer = d.clock.AfterFunc(d.quiet, func() {
		fire <- struct{}{}
	})

	gen := d.gen
	return func() tea.Msg {
		select {
		case <-fire:
			return QuietMsg{Gen: gen}
		case <-cancel:
			return nil
		}
	}
}

// Expire turns a quiet-period expiry into a Query. It reports false for
// expiries superseded by later input. An empty or blank term yields a Query
// with an empty Term, which callers treat as leaving search mode.
func (d *Debouncer) Expire(msg QuietMsg) (Query, bool) {
	if msg.Gen != d.gen || d.timer == nil {
		return Query{}, false
	}
	d.timer = nil
	d.cancel = nil
	d.seq++
	d.issued = d.seq
	return Query{Seq: d.seq, Term: strings.TrimSpace(d.term)}, true
}

// Accept reports whether a response for seq is the newest issued query.
func (d *Debouncer) Accept(seq uint64) bool {
	return seq != 0 && seq == d.issued
}

// Cancel abandons any pending quiet period and invalidates every issued
// query.
func (d *Debouncer) Cancel() {
	d.stop()
	d.gen++
	d.term = ""
	d.issued = 0
}

// Pending reports whether a quiet period is running.
func (d *Debouncer) Pending() bool { return d.timer != nil }

// Term returns the most recent input.
func (d *Debouncer) Term() string { return d.term }

func (d *Debouncer) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		close(d.cancel)
		d.cancel = nil
	}
}
