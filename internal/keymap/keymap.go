package keymap

import (
	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/robinovitch61/vl/internal/viewport"
)

type KeyMap struct {
	Append     key.Binding
	Change     key.Binding
	Copy       key.Binding
	Help       key.Binding
	Insert     key.Binding
	Left       key.Binding
	MoveDown   key.Binding
	MoveUp     key.Binding
	Position   key.Binding
	Quit       key.Binding
	Remove     key.Binding
	Reset      key.Binding
	Right      key.Binding
	Save       key.Binding
	ToggleTall key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Append: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "append item"),
		),
		Change: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "rename current item"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy current item"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "show/hide help"),
		),
		Insert: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "insert before current"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "item to the left"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("ctrl+j", "shift+down"),
			key.WithHelp("ctrl+j", "move current item down"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("ctrl+k", "shift+up"),
			key.WithHelp("ctrl+k", "move current item up"),
		),
		Position: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "position view at current item"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove current item"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset model"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "item to the right"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save layout to file"),
		),
		ToggleTall: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle current item tall"),
		),
	}
}

// PositionKeyBindings describes each position mode key
func PositionKeyBindings(km KeyMap) []key.Binding {
	return []key.Binding{
		km.Position,
		WithDesc(WithKeys(km.Position, "1"), "beginning"),
		WithDesc(WithKeys(km.Position, "2"), "center"),
		WithDesc(WithKeys(km.Position, "3"), "end"),
		WithDesc(WithKeys(km.Position, "4"), "visible"),
		WithDesc(WithKeys(km.Position, "5"), "contain"),
	}
}

// PositionModes maps the position keys to view position modes
var PositionModes = map[string]viewport.PositionMode{
	"1": viewport.Beginning,
	"2": viewport.Center,
	"3": viewport.End,
	"4": viewport.Visible,
	"5": viewport.Contain,
}

func GlobalKeyBindings(km KeyMap) []key.Binding {
	vp := viewport.DefaultKeyMap()
	return []key.Binding{
		vp.Up,
		vp.Down,
		km.Left,
		km.Right,
		vp.PageUp,
		vp.PageDown,
		vp.HalfPageUp,
		vp.HalfPageDown,
		vp.Top,
		vp.Bottom,
		vp.FlickUp,
		vp.FlickDown,
		km.Insert,
		km.Append,
		km.Remove,
		km.MoveUp,
		km.MoveDown,
		km.Change,
		km.ToggleTall,
		km.Reset,
		km.Copy,
		km.Save,
		km.Quit,
		km.Help,
	}
}

func WithKeys(k key.Binding, keys string) key.Binding {
	newK := k
	newK.SetHelp(keys, k.Help().Desc)
	return newK
}

func WithDesc(k key.Binding, d string) key.Binding {
	newK := k
	newK.SetHelp(newK.Help().Key, d)
	return newK
}
