package overlay

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/dossier/internal/catalog"
)

var (
	rick  = catalog.Entry{ID: 1, Name: "Rick Sanchez"}
	morty = catalog.Entry{ID: 2, Name: "Morty Smith"}
)

func frameOf(t *testing.T, cmd tea.Cmd) FrameMsg {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected an animation command")
	}
	msg, ok := cmd().(FrameMsg)
	if !ok {
		t.Fatalf("command produced %T, want FrameMsg", msg)
	}
	return msg
}

func TestMachine_FullCycle(t *testing.T) {
	m := New(time.Millisecond)

	enter := m.Show(rick)
	if !m.Open() {
		t.Fatalf("overlay should be open as soon as Show is accepted")
	}
	if s := m.State(); s.Status != Showing || s.Phase != Entering {
		t.Fatalf("state after Show = %+v", s)
	}
	if !m.Handle(frameOf(t, enter)) || m.State().Phase != Settled {
		t.Fatalf("entry frame did not settle the overlay")
	}

	exit := m.Close()
	if s := m.State(); s.Status != Hiding {
		t.Fatalf("status after Close = %v, want hiding", s.Status)
	}
	if e, ok := m.Selected(); !ok || e.ID != rick.ID {
		t.Fatalf("selection cleared before the exit animation finished")
	}

	if !m.Handle(frameOf(t, exit)) {
		t.Fatalf("exit frame rejected")
	}
	if m.Open() {
		t.Fatalf("overlay still open after exit frame")
	}
	if _, ok := m.Selected(); ok {
		t.Fatalf("selection not cleared when hidden")
	}
}

func TestMachine_NoReselectionMidTransition(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, m *Machine)
	}{
		{"entering", func(t *testing.T, m *Machine) { m.Show(rick) }},
		{"settled", func(t *testing.T, m *Machine) { m.Handle(frameOf(t, m.Show(rick))) }},
		{"hiding", func(t *testing.T, m *Machine) {
			m.Handle(frameOf(t, m.Show(rick)))
			m.Close()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(time.Millisecond)
			tt.setup(t, m)
			before := m.State()

			if cmd := m.Show(morty); cmd != nil {
				t.Fatalf("Show(morty) returned a command")
			}
			if e, _ := m.Selected(); e.ID != rick.ID {
				t.Fatalf("selected = %d, want rick", e.ID)
			}
			after := m.State()
			if after.Status != before.Status || after.Phase != before.Phase || after.Entry.ID != before.Entry.ID {
				t.Fatalf("state changed: %v/%v -> %v/%v", before.Status, before.Phase, after.Status, after.Phase)
			}
		})
	}
}

func TestMachine_ReshowCancelsExit(t *testing.T) {
	m := New(time.Millisecond)
	m.Handle(frameOf(t, m.Show(rick)))
	exit := m.Close()

	if cmd := m.Show(rick); cmd != nil {
		t.Fatalf("re-show of the hiding entry should not animate")
	}
	if s := m.State(); s.Status != Showing || s.Phase != Settled {
		t.Fatalf("state after re-show = %+v, want settled", s)
	}

	if m.Handle(frameOf(t, exit)) {
		t.Fatalf("cancelled exit frame was applied")
	}
	if !m.Open() {
		t.Fatalf("cancelled exit closed the overlay")
	}
}

func TestMachine_CloseIgnoredUnlessShowing(t *testing.T) {
	m := New(time.Millisecond)
	if m.Close() != nil {
		t.Fatalf("Close on hidden overlay returned a command")
	}
	m.Handle(frameOf(t, m.Show(rick)))
	m.Close()
	if m.Close() != nil {
		t.Fatalf("second Close while hiding returned a command")
	}
}

func TestMachine_StaleFrameDropped(t *testing.T) {
	m := New(time.Millisecond)
	enter := m.Show(rick)
	msg := frameOf(t, enter)
	m.Handle(msg)
	if m.Handle(msg) {
		t.Fatalf("duplicate frame applied")
	}
	if m.Handle(FrameMsg{Gen: msg.Gen + 10}) {
		t.Fatalf("unknown frame applied")
	}
}

func TestNew_DefaultDuration(t *testing.T) {
	if d := New(0).Duration(); d != DefaultAnimation {
		t.Fatalf("duration = %v, want %v", d, DefaultAnimation)
	}
}
