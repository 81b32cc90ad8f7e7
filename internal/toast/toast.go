package toast

import (
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/google/uuid"
	"github.com/robinovitch61/vl/internal/dev"
	"time"
)

type Model struct {
	ID           uuid.UUID
	message      string
	Visible      bool
	messageStyle lipgloss.Style
}

func New(message string, messageStyle lipgloss.Style) Model {
	return Model{
		ID:           uuid.New(),
		message:      message,
		Visible:      true,
		messageStyle: messageStyle,
	}
}

// TimeoutCmd hides the toast after d
func (m Model) TimeoutCmd(d time.Duration) tea.Cmd {
	id := m.ID
	return tea.Tick(d, func(time.Time) tea.Msg { return TimeoutMsg{ID: id} })
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	dev.DebugUpdateMsg("Toast", msg)
	switch msg := msg.(type) {
	case TimeoutMsg:
		// a newer toast replaced this one
		if msg.ID != m.ID {
			return m, nil
		}
		m.Visible = false
	}
	return m, nil
}

func (m Model) View() string {
	if m.Visible {
		return m.messageStyle.Render(m.message)
	}
	return ""
}

func (m Model) ViewHeight() int {
	return lipgloss.Height(m.View())
}

type TimeoutMsg struct {
	ID uuid.UUID
}
