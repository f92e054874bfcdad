// Package overlay models the detail panel as an explicit state machine.
//
// The panel moves Hidden -> Showing on selection and Showing -> Hiding on
// close; Hiding -> Hidden happens when the exit animation's frame arrives.
// The panel counts as open, and captures input, from the moment Show is
// accepted until it is fully Hidden again.
package overlay

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/dossier/internal/catalog"
)

// DefaultAnimation is the entry and exit animation duration.
const DefaultAnimation = 180 * time.Millisecond

// Status is the coarse overlay state.
type Status int

const (
	Hidden Status = iota
	Showing
	Hiding
)

func (s Status) String() string {
	switch s {
	case Showing:
		return "showing"
	case Hiding:
		return "hiding"
	default:
		return "hidden"
	}
}

// Phase refines Showing into the entry animation and the settled panel.
type Phase int

const (
	Entering Phase = iota
	Settled
)

// FrameMsg marks the end of an animation. Frames from a superseded
// transition are ignored.
type FrameMsg struct {
	Gen uint64
}

// State is the render model of the overlay.
type State struct {
	Status Status
	Phase  Phase
	Entry  catalog.Entry
}

// Machine is driven from a Bubble Tea Update loop.
type Machine struct {
	duration time.Duration
	gen      uint64
	status   Status
	phase    Phase
	entry    catalog.Entry
}

// New returns a hidden overlay. A non-positive duration uses
// DefaultAnimation.
func New(duration time.Duration) *Machine {
	if duration <= 0 {
		duration = DefaultAnimation
	}
	return &Machine{duration: duration}
}

// Show opens the overlay for entry. While another transition owns the
// overlay the selection is ignored and nil is returned, with one exception:
// showing the entry that is currently hiding cancels the exit.
func (m *Machine) Show(entry catalog.Entry) tea.Cmd {
	switch m.status {
	case Hidden:
		m.entry = entry
		m.status = Showing
		m.phase = Entering
		return m.frame()
	case Hiding:
		if entry.ID != m.entry.ID {
			return nil
		}
		// Bumping the generation drops the pending exit frame.
		m.gen++
		m.status = Showing
		m.phase = Settled
		return nil
	default:
		return nil
	}
}

// Close starts the exit animation. It is a no-op unless the overlay is
// Showing.
func (m *Machine) Close() tea.Cmd {
	if m.status != Showing {
		return nil
	}
	m.status = Hiding
	return m.frame()
}

// Handle applies an animation frame. It reports whether the frame belonged
// to the current transition.
func (m *Machine) Handle(msg FrameMsg) bool {
	if msg.Gen != m.gen {
		return false
	}
	switch m.status {
	case Showing:
		if m.phase != Entering {
			return false
		}
		m.phase = Settled
		return true
	case Hiding:
		m.status = Hidden
		m.phase = Entering
		m.entry = catalog.Entry{}
		return true
	default:
		return false
	}
}

// Open reports whether the overlay captures input.
func (m *Machine) Open() bool { return m.status != Hidden }

// Selected returns the entry on display, if any.
func (m *Machine) Selected() (catalog.Entry, bool) {
	if m.status == Hidden {
		return catalog.Entry{}, false
	}
	return m.entry, true
}

// State returns the render model.
func (m *Machine) State() State {
	return State{Status: m.status, Phase: m.phase, Entry: m.entry}
}

// Duration returns the animation length.
func (m *Machine) Duration() time.Duration { return m.duration }

func (m *Machine) frame() tea.Cmd {
	m.gen++
	gen := m.gen
	return tea.Tick(m.duration, func(time.Time) tea.Msg {
		return FrameMsg{Gen: gen}
	})
}
