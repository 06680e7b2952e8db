package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/pairup/matchmaker/internal/config"
	"github.com/pairup/matchmaker/internal/events"
	"github.com/pairup/matchmaker/internal/matchmaking"
	"github.com/pairup/matchmaker/internal/server"
)

var (
	flagConfigFile  string
	flagAddr        string
	flagTick        time.Duration
	flagOrigins     []string
	flagSendBuffer  int
	flagNATSURL     string
	flagNATSSubject string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the matchmaking server",
	Long: `Run the matchmaking server.

Settings are read from flags, then MATCHMAKER_* environment variables, then
the optional YAML file given with --config.

Examples:
  matchmaker serve
  matchmaker serve --addr :8080 --tick 2s
  matchmaker serve --config matchmaker.yaml --nats-url nats://localhost:4222`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(config.Options{
			File:           flagConfigFile,
			Addr:           flagAddr,
			TickInterval:   flagTick,
			AllowedOrigins: flagOrigins,
			SendBuffer:     flagSendBuffer,
			NATSURL:        flagNATSURL,
			NATSSubject:    flagNATSSubject,
		})
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return serve(cmd, cfg)
	},
}

func serve(cmd *cobra.Command, cfg *config.Server) error {
	ctx := cmd.Context()
	logger := slog.Default()

	publisher, err := events.New(cfg.NATSURL, cfg.NATSSubject, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("closing room publisher", "error", err)
		}
	}()

	hub := matchmaking.NewHub(matchmaking.Options{
		TickInterval: cfg.TickInterval,
		Publisher:    publisher,
		Logger:       logger,
	})

	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(ctx)
	}()

	err = server.New(cfg, hub, logger).ListenAndServe(ctx)
	if err != nil {
		// The hub only stops with ctx, so a failed bind must not wait on it
		return err
	}

	<-hubDone
	logger.Info("matchmaker stopped")
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&flagConfigFile, "config", "c", "", "YAML config file")
	serveCmd.Flags().StringVarP(&flagAddr, "addr", "a", "", "Listen address (default \":4000\")")
	serveCmd.Flags().DurationVarP(&flagTick, "tick", "t", 0, "Matchmaking interval (default 5s)")
	serveCmd.Flags().StringSliceVarP(&flagOrigins, "origin", "o", nil, "Allowed browser origin, repeatable; \"*\" allows any")
	serveCmd.Flags().IntVar(&flagSendBuffer, "send-buffer", 0, "Outbound messages buffered per connection (default 256)")
	serveCmd.Flags().StringVar(&flagNATSURL, "nats-url", "", "NATS server for room events; disabled when empty")
	serveCmd.Flags().StringVar(&flagNATSSubject, "nats-subject", "", "NATS subject for room events (default \"matchmaker.rooms\")")
}
