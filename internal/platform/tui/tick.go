// Package tui is the Bubble Tea front end: solo play, split-screen
// versus, network play, the menu and the scoreboard.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/starstrike/internal/core"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// holdTicks is how long a movement key stays down after its last press.
// Terminals report key presses and auto-repeats but never releases.
const holdTicks = 12

// heldInput turns key presses into per-tick input frames. Movement keys
// are held for holdTicks; everything else lasts exactly one tick.
type heldInput struct {
	frame core.InputFrame
	hold  map[core.Action]int
}

func newHeldInput() heldInput {
	return heldInput{
		frame: core.NewInputFrame(),
		hold:  make(map[core.Action]int),
	}
}

func (h *heldInput) press(a core.Action) {
	switch a {
	case core.ActionNone:
	case core.ActionLeft:
		delete(h.hold, core.ActionRight)
		h.hold[a] = holdTicks
	case core.ActionRight:
		delete(h.hold, core.ActionLeft)
		h.hold[a] = holdTicks
	default:
		h.frame.Set(a)
	}
}

// next returns the input for the coming tick and ages held keys.
func (h *heldInput) next() core.InputFrame {
	f := h.frame.Clone()
	for a, n := range h.hold {
		f.Set(a)
		if n <= 1 {
			delete(h.hold, a)
		} else {
			h.hold[a] = n - 1
		}
	}
	h.frame.Clear()
	return f
}
