package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RoomView renders the assigned room as a box holding the room ID and a
// participant table. self is highlighted.
func RoomView(roomID, self string, participants []string) string {
	rows := make([][]string, 0, len(participants))
	for i, p := range participants {
		who := IconPeer + " " + p
		if p == self {
			who += " (you)"
		}
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), who})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Primary)).
		Headers("#", "Participant").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case row%2 == 0:
				return TableRowStyle
			default:
				return TableRowAltStyle
			}
		})

	content := fmt.Sprintf("%s Partner found!\n\n%s Room ID: %s\n\n%s",
		IconSuccess,
		IconRoom, BoldStyle.Foreground(Primary).Render(roomID),
		tbl.Render(),
	)

	return SuccessBoxStyle.Render(content)
}

func RenderRoom(roomID, self string, participants []string) {
	fmt.Println(RoomView(roomID, self, participants))
}
