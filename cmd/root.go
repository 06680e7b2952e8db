package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pairup/matchmaker/internal/logging"
	"github.com/pairup/matchmaker/internal/ui"
	"github.com/pairup/matchmaker/internal/version"
)

var (
	flagLogLevel  string
	flagLogFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "matchmaker",
	Short: "Anonymous two-person matchmaking over websockets",
	Long: `Matchmaker pairs anonymous users two at a time. Clients announce an ID,
join a waiting queue, and are placed in a room with the next person in line.

Run "matchmaker serve" to start the server, "matchmaker join" to wait for a
partner from the terminal, and "matchmaker stats" to inspect a running server.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env file is normal
		_ = godotenv.Load()
		logging.Init(logging.Options{Level: flagLogLevel, Format: flagLogFormat})
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.PrintError(err.Error())
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (env LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: text or json (env LOG_FORMAT)")
}
