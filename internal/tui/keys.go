package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/manabcodes/bangladesh-election-poll/internal/poll"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Submit key.Binding
	Open   key.Binding
	Back   key.Binding
	Reload key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Choose: key.NewBinding(
			key.WithKeys(" ", "space", "x"),
			key.WithHelp("space", "choose"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "all results"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// stateHelp implements help.KeyMap for the bindings live in one state.
type stateHelp []key.Binding

func (h stateHelp) ShortHelp() []key.Binding { return h }

func (h stateHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

// forState lists the bindings for s. Submit is left out until something is chosen.
func (k keyMap) forState(s poll.State, chosen bool) stateHelp {
	switch s {
	case poll.StateSelect:
		return stateHelp{k.Up, k.Down, k.Open, k.Quit}
	case poll.StateVerify, poll.StateVote:
		if !chosen {
			return stateHelp{k.Up, k.Down, k.Choose, k.Back, k.Quit}
		}
		return stateHelp{k.Up, k.Down, k.Choose, k.Submit, k.Back, k.Quit}
	case poll.StateBlocked:
		return stateHelp{k.Open, k.Quit}
	case poll.StateResults:
		return stateHelp{k.Reload, k.Quit}
	default:
		return stateHelp{k.Quit}
	}
}
