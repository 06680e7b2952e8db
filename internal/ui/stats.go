package ui

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pairup/matchmaker/internal/matchmaking"
)

// StatsView renders a server stats snapshot as a table.
func StatsView(server string, s matchmaking.Stats) string {
	t := table.NewWriter()
	t.SetTitle("Matchmaker")
	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignCenter
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Server", server},
		{"Online users", s.Online},
		{"Connections", s.Connections},
		{"Waiting in queue", s.Queued},
		{"Rooms created", s.Rooms},
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	return t.Render()
}

func RenderStats(server string, s matchmaking.Stats) {
	fmt.Println(StatsView(server, s))
}
