package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pairup/matchmaker/internal/client"
	"github.com/pairup/matchmaker/internal/config"
	"github.com/pairup/matchmaker/internal/matchmaking"
	"github.com/pairup/matchmaker/internal/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show live counts from a running server",
	Long: `Fetch the online, queue and room counts from a running matchmaker.

Examples:
  matchmaker stats
  matchmaker stats --server wss://match.example.com/ws`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadClient(config.ClientOptions{ServerURL: flagServer})
		if err != nil {
			return client.NewError("load config", err)
		}

		url := cfg.StatsURL()
		req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, nil)
		if err != nil {
			return client.NewError("fetch stats", err)
		}

		httpClient := &http.Client{Timeout: 10 * time.Second}
		resp, err := httpClient.Do(req)
		if err != nil {
			return client.NewError("fetch stats", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return client.WrapError("fetch stats", client.ErrServerRejected, resp.Status)
		}

		var stats matchmaking.Stats
		if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
			return client.NewError("decode stats", err)
		}

		fmt.Println()
		ui.RenderStats(url, stats)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&flagServer, "server", "s", "", "Matchmaker websocket URL (env MATCHMAKER_SERVER)")
}
