package internal

// NOTE: Searching for `// #` will walk you through the main flow of the application

import (
	"errors"
	"fmt"
	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wrap"
	"github.com/robinovitch61/vl/internal/command"
	"github.com/robinovitch61/vl/internal/constants"
	"github.com/robinovitch61/vl/internal/dev"
	"github.com/robinovitch61/vl/internal/fileio"
	"github.com/robinovitch61/vl/internal/help"
	"github.com/robinovitch61/vl/internal/keymap"
	"github.com/robinovitch61/vl/internal/listview"
	"github.com/robinovitch61/vl/internal/message"
	"github.com/robinovitch61/vl/internal/model"
	"github.com/robinovitch61/vl/internal/render"
	"github.com/robinovitch61/vl/internal/style"
	"github.com/robinovitch61/vl/internal/toast"
	"github.com/robinovitch61/vl/internal/util"
	"github.com/robinovitch61/vl/internal/viewport"
	"strings"
	"time"
)

var errNoCurrentItem = errors.New("no current item")

type Model struct {
	config        Config
	keyMap        keymap.KeyMap
	styles        style.Styles
	width, height int
	initialized   bool
	nextItem      func() model.Item
	source        *model.RoleList
	incremental   *model.Incremental
	view          *listview.View
	renderer      *render.Renderer
	toast         toast.Model
	err           error
	lastViewErr   error
	helpText      string
	topBarHeight  int // assumed constant
	framing       bool
	incubating    bool
	lastFrame     time.Time
}

func InitialModel(c Config) Model {
	if c.IncubateBatchSize <= 0 {
		c.IncubateBatchSize = constants.IncubateBatchSize
	}
	return Model{
		config:   c,
		keyMap:   c.KeyMap,
		styles:   style.DefaultStyles(),
		nextItem: newItemSource(),
	}
}

// newItemSource numbers items in creation order
func newItemSource() func() model.Item {
	n := 0
	return func() model.Item {
		it := demoItem(n)
		n++
		return it
	}
}

func (m Model) Init() (tea.Model, tea.Cmd) {
	return m, nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	dev.DebugUpdateMsg("App", msg)
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	// #2: Every message first brings running transitions up to date, so animations started while handling it
	// begin now rather than at the last frame
	if _, isFrame := msg.(message.FrameMsg); m.initialized && !isFrame {
		m.advance(time.Now())
	}

	switch msg := msg.(type) {
	case message.CleanupCompleteMsg:
		return m, tea.Quit

	// #3: The user presses a key. Keys move the current item, scroll the view, or edit the model. Edits notify the
	// view synchronously, so by the time the key is handled the view has reconciled them
	case tea.KeyMsg:
		m, cmd = m.handleKeyMsg(msg)
		cmds = append(cmds, cmd)

	case tea.MouseWheelMsg:
		m = m.handleWheel(msg.Mouse())

	case tea.MouseClickMsg:
		m = m.handleClick(msg.Mouse())

	case message.ErrMsg:
		m.err = msg.Err

	// #1: WindowSizeMsg arrives once on startup, then again every time the window is resized. The first one builds
	// the model and the view, since the view needs its size to know what to materialize
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if !m.initialized {
			m = initializedModel(m)
		} else {
			m.view.SetSize(m.listSize())
		}

	// #4: While a flick or a transition runs, frames move them along
	case message.FrameMsg:
		m = m.handleFrame(msg.Time)

	// #5: Asynchronous creations complete a few at a time, so a large refill never blocks a frame
	case message.IncubateMsg:
		m.incubating = false
		if n := m.view.Incubate(m.config.IncubateBatchSize); n > 0 {
			dev.Debug(fmt.Sprintf("incubated %d instances, %d pending", n, len(m.view.Pending())))
		}

	case fileio.SaveCompleteMsg:
		toastMsg := msg.SuccessMessage
		if toastMsg == "" {
			toastMsg = msg.ErrMessage
		}
		m, cmd = m.withToast(toastMsg)
		cmds = append(cmds, cmd)

	case command.ContentCopiedToClipboardMsg:
		toastMsg := fmt.Sprintf("Copied %q to clipboard", msg.Content)
		if msg.Err != nil {
			dev.Error(msg.Err, "copying to clipboard")
			toastMsg = fmt.Sprintf("Error copying to clipboard: %s", msg.Err.Error())
		}
		m, cmd = m.withToast(toastMsg)
		cmds = append(cmds, cmd)

	case toast.TimeoutMsg:
		m.toast, cmd = m.toast.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.initialized {
		m, cmd = m.scheduled()
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.err != nil {
		errString := wrap.String(m.err.Error(), m.width)
		return lipgloss.JoinVertical(
			lipgloss.Left,
			"Error - if this seems wrong, consider opening an issue",
			"https://github.com/robinovitch61/vl/issues/new",
			"",
			"ctrl+c to quit",
			"",
			errString,
		)
	}
	if !m.initialized {
		return ""
	}
	topBar := m.topBar()
	if m.helpText != "" {
		centeredHelp := lipgloss.Place(m.width, m.height-m.topBarHeight, lipgloss.Center, lipgloss.Center, m.helpText)
		return lipgloss.JoinVertical(lipgloss.Left, topBar, centeredHelp)
	}
	viewLines := strings.Split(topBar, "\n")
	w, h := m.listSize()
	if frame := render.Frame(m.view.Snapshot(), m.renderer, m.styles, int(w), int(h)); frame != "" {
		viewLines = append(viewLines, strings.Split(frame, "\n")...)
	}
	if toastHeight := m.toast.ViewHeight(); m.toast.Visible && toastHeight > 0 && len(viewLines) > toastHeight {
		viewLines = viewLines[:len(viewLines)-toastHeight]
		viewLines = append(viewLines, strings.Split(m.toast.View(), "\n")...)
	}
	return strings.Join(viewLines, "\n")
}

func (m Model) topBar() string {
	padding := "   "

	left := m.styles.TopBar.Render(fmt.Sprintf("vl %s", m.config.Version))
	if m.view != nil {
		current := "none"
		if cur := m.view.CurrentIndex(); cur >= 0 {
			current = fmt.Sprintf("%d", cur)
		}
		left += fmt.Sprintf("%s%d items%scurrent %s", padding, m.view.Count(), padding, current)
		if m.incremental != nil && m.incremental.CanFetchMore() {
			left += fmt.Sprintf("%s%d/%d loaded", padding, m.incremental.Count(), m.source.Count())
		}
		if pending := len(m.view.Pending()); pending > 0 {
			left += padding + style.Inverse.Render(fmt.Sprintf("[%d PENDING]", pending))
		}
	}

	right := fmt.Sprintf("%s to quit / %s for help", m.keyMap.Quit.Help().Key, m.keyMap.Help.Help().Key)
	toJoin := []string{left}
	if lipgloss.Width(left)+len(padding)+len(right) < m.width {
		toJoin = append(toJoin, right)
	} else {
		toJoin = append(toJoin, strings.Repeat(" ", len(right)))
	}
	return util.JoinWithEqualSpacing(m.width, toJoin...)
}

// listSize is the terminal below the top bar
func (m Model) listSize() (width, height float64) {
	return float64(m.width), float64(max(m.height-m.topBarHeight, 0))
}

func (m Model) withToast(text string) (Model, tea.Cmd) {
	m.toast = toast.New(text, style.Inverse)
	return m, m.toast.TimeoutCmd(constants.ToastDuration)
}

// scheduled starts the frame and incubation ticks the view needs, keeping at most one of each outstanding
func (m Model) scheduled() (Model, tea.Cmd) {
	var cmds []tea.Cmd
	if err := m.view.LastError(); err != nil && err != m.lastViewErr {
		m.lastViewErr = err
		var cmd tea.Cmd
		m, cmd = m.withToast(fmt.Sprintf("Rejected model notification: %v", err))
		cmds = append(cmds, cmd)
	}
	if !m.framing && (m.view.Flicking() || m.renderer.Running() > 0) {
		m.framing = true
		m.lastFrame = time.Now()
		cmds = append(cmds, tea.Tick(constants.FrameInterval, func(t time.Time) tea.Msg { return message.FrameMsg{Time: t} }))
	}
	if !m.incubating && len(m.view.Pending()) > 0 {
		m.incubating = true
		cmds = append(cmds, tea.Tick(constants.IncubateInterval, func(time.Time) tea.Msg { return message.IncubateMsg{} }))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleFrame(now time.Time) Model {
	m.framing = false
	if m.view.Flicking() {
		m.view.Tick(now.Sub(m.lastFrame).Seconds())
	}
	m.advance(now)
	return m
}

// advance moves animations on to now, completing the transitions that ended
func (m Model) advance(now time.Time) {
	for _, a := range m.renderer.Advance(now) {
		m.view.Transitions().Finished(a.ID, a.Instance)
	}
}

// cleanupCmd stops the view listening to the model before quitting
func (m Model) cleanupCmd() tea.Cmd {
	if m.view != nil {
		m.view.Close()
	}
	if m.incremental != nil {
		m.incremental.Close()
	}
	return func() tea.Msg { return message.CleanupCompleteMsg{} }
}

// tea.KeyMsg handling
// ---

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	dev.Debug(fmt.Sprintf("App keyMsg: %v", msg))
	defer dev.Debug("App keyMsg complete")

	// #6: The user exits. The view stops listening to the model before the program quits
	if key.Matches(msg, m.keyMap.Quit) {
		return m, m.cleanupCmd()
	}

	// ignore key messages other than exit if an error is present
	if m.err != nil || !m.initialized {
		return m, nil
	}

	// if help text visible, pressing any key will dismiss it
	if m.helpText != "" {
		m.helpText = ""
		return m, nil
	}

	if key.Matches(msg, m.keyMap.Help) {
		m.helpText = help.MakeHelp(m.keyMap, style.KeyHelpStyle)
		return m, nil
	}

	if key.Matches(msg, m.keyMap.Copy) {
		inst, ok := m.view.CurrentItem()
		if !ok {
			return m.withToast("Nothing to copy: " + errNoCurrentItem.Error())
		}
		return m, command.CopyContentToClipboardCmd(render.Text(inst))
	}

	if key.Matches(msg, m.keyMap.Save) {
		return m, fileio.SaveLayoutCmd(m.config.SaveDir, render.Describe(m.view.Snapshot()))
	}

	if m.handleNavigationKeyMsg(msg) {
		return m, nil
	}
	return m.handleEditKeyMsg(msg)
}

func (m Model) horizontal() bool {
	return m.config.View.Orientation == listview.Horizontal
}

func (m Model) rightToLeft() bool {
	return m.horizontal() && m.config.View.LayoutDirection == listview.RightToLeft
}

// handleNavigationKeyMsg moves the current item or the view, returning false for keys it does not handle
func (m Model) handleNavigationKeyMsg(msg tea.KeyMsg) bool {
	vp := viewport.DefaultKeyMap()
	from, to := m.view.VisibleRegion()
	viewSize := to - from

	switch {
	case key.Matches(msg, vp.Up):
		m.view.DecrementCurrentIndex()
	case key.Matches(msg, vp.Down):
		m.view.IncrementCurrentIndex()
	case key.Matches(msg, m.keyMap.Left):
		if m.rightToLeft() {
			m.view.IncrementCurrentIndex()
		} else {
			m.view.DecrementCurrentIndex()
		}
	case key.Matches(msg, m.keyMap.Right):
		if m.rightToLeft() {
			m.view.DecrementCurrentIndex()
		} else {
			m.view.IncrementCurrentIndex()
		}
	case key.Matches(msg, vp.PageDown):
		m.scrollBy(viewSize)
	case key.Matches(msg, vp.PageUp):
		m.scrollBy(-viewSize)
	case key.Matches(msg, vp.HalfPageDown):
		m.scrollBy(viewSize / 2)
	case key.Matches(msg, vp.HalfPageUp):
		m.scrollBy(-viewSize / 2)
	case key.Matches(msg, vp.Top):
		m.view.SetCurrentIndex(0)
		m.view.PositionViewAtBeginning()
	case key.Matches(msg, vp.Bottom):
		m.view.SetCurrentIndex(m.view.Count() - 1)
		m.view.PositionViewAtEnd()
	case key.Matches(msg, vp.FlickDown):
		m.view.Flick(constants.FlickVelocity)
	case key.Matches(msg, vp.FlickUp):
		m.view.Flick(-constants.FlickVelocity)
	case key.Matches(msg, m.keyMap.Position):
		if mode, ok := keymap.PositionModes[msg.String()]; ok {
			m.view.PositionViewAtIndex(m.view.CurrentIndex(), mode)
		}
	default:
		return false
	}
	return true
}

// scrollBy drags the content by delta and lets go, so the view settles within its extents
func (m Model) scrollBy(delta float64) {
	m.view.Drag(delta)
	m.view.EndDrag()
}

func (m Model) handleEditKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Insert):
		return m.edit("insert", func(cur int) error {
			return m.source.Insert(max(cur, 0), m.nextItem())
		})
	case key.Matches(msg, m.keyMap.Append):
		return m.edit("append", func(int) error {
			m.source.Append(m.nextItem())
			return nil
		})
	case key.Matches(msg, m.keyMap.Remove):
		return m.edit("remove", func(cur int) error {
			if cur < 0 {
				return errNoCurrentItem
			}
			return m.source.Remove(cur, 1)
		})
	case key.Matches(msg, m.keyMap.MoveUp):
		return m.edit("move up", func(cur int) error {
			if cur < 0 {
				return errNoCurrentItem
			}
			if cur == 0 {
				return nil
			}
			return m.source.Move(cur, cur-1, 1)
		})
	case key.Matches(msg, m.keyMap.MoveDown):
		return m.edit("move down", func(cur int) error {
			if cur < 0 {
				return errNoCurrentItem
			}
			if cur+1 >= m.view.Count() {
				return nil
			}
			return m.source.Move(cur, cur+1, 1)
		})
	case key.Matches(msg, m.keyMap.Change):
		return m.edit("rename", func(cur int) error {
			if cur < 0 {
				return errNoCurrentItem
			}
			return m.source.Set(cur, render.NameRole, renamed(m.source.ItemAt(cur).String(render.NameRole)))
		})
	case key.Matches(msg, m.keyMap.ToggleTall):
		return m.edit("toggle tall", func(cur int) error {
			if cur < 0 {
				return errNoCurrentItem
			}
			lines := constants.TallLines
			if n, ok := m.source.ItemAt(cur).Value(render.LinesRole).(int); ok && n > 1 {
				lines = 1
			}
			return m.source.Set(cur, render.LinesRole, lines)
		})
	case key.Matches(msg, m.keyMap.Reset):
		return m.edit("reset", func(int) error {
			items := make([]model.Item, m.source.Count())
			for i := range items {
				items[i] = m.nextItem()
			}
			m.source.ResetItems(items)
			return nil
		})
	}
	return m, nil
}

// edit applies fn to the model with the current index, reporting a failure in a toast
func (m Model) edit(description string, fn func(cur int) error) (Model, tea.Cmd) {
	cur := m.view.CurrentIndex()
	if err := fn(cur); err != nil {
		dev.Warn("edit failed", "edit", description, "current", cur, "err", err)
		return m.withToast(fmt.Sprintf("Could not %s: %v", description, err))
	}
	dev.Debug(fmt.Sprintf("%s at %d, count now %d", description, cur, m.view.Count()))
	return m, nil
}

// renamed marks a name as changed, or unmarks it
func renamed(name string) string {
	if strings.HasSuffix(name, " *") {
		return strings.TrimSuffix(name, " *")
	}
	return name + " *"
}

// mouse handling
// ---

func (m Model) handleWheel(mouse tea.Mouse) Model {
	if !m.initialized {
		return m
	}
	switch mouse.Button {
	case tea.MouseWheelUp, tea.MouseWheelLeft:
		m.scrollBy(-constants.WheelStep)
	case tea.MouseWheelDown, tea.MouseWheelRight:
		m.scrollBy(constants.WheelStep)
	}
	return m
}

// handleClick makes the clicked item current
func (m Model) handleClick(mouse tea.Mouse) Model {
	if !m.initialized || mouse.Button != tea.MouseLeft {
		return m
	}
	x, y := float64(mouse.X), float64(mouse.Y-m.topBarHeight)
	if m.horizontal() {
		x += m.view.ContentX()
	} else {
		y += m.view.ContentY()
	}
	if i := m.view.IndexAt(x, y); i >= 0 {
		m.view.SetCurrentIndex(i)
	}
	return m
}
