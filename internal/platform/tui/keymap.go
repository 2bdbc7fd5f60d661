package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/starstrike/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action for a solo game, where
// both the arrows and WASD steer the ship.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case "a", "left", "h":
		return core.ActionLeft, false
	case "d", "right", "l":
		return core.ActionRight, false
	case " ", "z", "x":
		return core.ActionFire, false
	case "enter":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "p":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}

	return core.ActionNone, false
}

// MapVersusKey splits one keyboard between two players: player one on
// A/D and Space, player two on the arrows and Enter. Returns player 0
// for keys that belong to neither side.
func (km *KeyMapper) MapVersusKey(msg tea.KeyMsg) (core.PlayerID, core.Action) {
	switch msg.String() {
	case "a":
		return core.Player1, core.ActionLeft
	case "d":
		return core.Player1, core.ActionRight
	case " ", "w":
		return core.Player1, core.ActionFire
	case "left":
		return core.Player2, core.ActionLeft
	case "right":
		return core.Player2, core.ActionRight
	case "enter", "up":
		return core.Player2, core.ActionFire
	}
	return 0, core.ActionNone
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
