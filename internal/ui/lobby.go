package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// CountsMsg carries fresh lobby counts. A negative count is unknown.
type CountsMsg struct {
	Online int
	Queued int
}

// AssignedMsg ends the lobby with a room.
type AssignedMsg struct {
	RoomID       string
	Participants []string
}

// FailedMsg ends the lobby with an error.
type FailedMsg struct {
	Err error
}

// LobbyModel shows a waiting spinner with live counts until a room is
// assigned, the wait fails, or the user quits.
type LobbyModel struct {
	userID    string
	spinner   spinner.Model
	online    int
	queued    int
	room      *AssignedMsg
	err       error
	cancelled bool
}

func NewLobby(userID string) *LobbyModel {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = SpinnerStyle

	return &LobbyModel{
		userID:  userID,
		spinner: s,
		online:  -1,
		queued:  -1,
	}
}

func (m *LobbyModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *LobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		}

	case CountsMsg:
		if msg.Online >= 0 {
			m.online = msg.Online
		}
		if msg.Queued >= 0 {
			m.queued = msg.Queued
		}

	case AssignedMsg:
		m.room = &msg
		return m, tea.Quit

	case FailedMsg:
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *LobbyModel) View() string {
	if m.Done() {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s %s %s\n\n",
		m.spinner.View(), TitleStyle.Render("Waiting for a partner as"), BoldStyle.Render(m.userID))
	fmt.Fprintf(&b, "  %s Online:   %s\n", IconOnline, CountStyle.Render(formatCount(m.online)))
	fmt.Fprintf(&b, "  %s In queue: %s\n", IconWaiting, CountStyle.Render(formatCount(m.queued)))
	b.WriteString("\n" + MutedStyle.Render("Press q to leave the queue"))
	return b.String()
}

// Done reports whether the lobby has reached a final state.
func (m *LobbyModel) Done() bool {
	return m.cancelled || m.room != nil || m.err != nil
}

// Result returns the outcome once the program has exited.
func (m *LobbyModel) Result() (room *AssignedMsg, cancelled bool, err error) {
	return m.room, m.cancelled, m.err
}

func formatCount(n int) string {
	if n < 0 {
		return "-"
	}
	return fmt.Sprintf("%d", n)
}
