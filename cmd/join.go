package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pairup/matchmaker/internal/client"
	"github.com/pairup/matchmaker/internal/config"
	"github.com/pairup/matchmaker/internal/ui"
)

var (
	flagServer  string
	flagUserID  string
	flagCodec   string
	flagTimeout time.Duration
	flagPlain   bool
)

var joinCmd = &cobra.Command{
	Use:     "join",
	Aliases: []string{"j"},
	Short:   "Wait in the queue for a partner",
	Long: `Announce an anonymous ID, join the waiting queue, and wait until the
matchmaker assigns a room. Pressing q or Ctrl+C leaves the queue.

Examples:
  matchmaker join
  matchmaker join --id alice --timeout 2m
  matchmaker join --server wss://match.example.com/ws --codec msgpack --plain`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadClient(config.ClientOptions{
			ServerURL: flagServer,
			Codec:     flagCodec,
		})
		if err != nil {
			return client.NewError("load config", err)
		}

		userID := flagUserID
		if userID == "" {
			userID = uuid.NewString()
		}
		return join(cmd.Context(), cfg, userID)
	},
}

func join(ctx context.Context, cfg *config.Client, userID string) error {
	stopSpinner := ui.RunConnectionSpinner("Connecting to matchmaker...")
	c, err := client.Dial(ctx, cfg, slog.Default())
	stopSpinner()
	if err != nil {
		return err
	}
	defer c.Close()
	ui.PrintSuccess("Connected to " + cfg.ServerURL)

	session := client.NewSession(c, userID)
	if err := session.Announce(); err != nil {
		return err
	}
	if err := session.JoinQueue(); err != nil {
		return err
	}

	waitCtx := ctx
	if flagTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, flagTimeout)
		defer cancel()
	}

	var (
		room      *client.Assignment
		cancelled bool
	)
	if flagPlain {
		room, cancelled, err = waitPlain(waitCtx, session)
	} else {
		room, cancelled, err = waitInteractive(waitCtx, session)
	}

	if room == nil {
		// Stop waiting cleanly so this ID is not paired behind our back
		// A closed connection already took the entry with it
		if leaveErr := session.LeaveQueue(); leaveErr != nil && !errors.Is(leaveErr, client.ErrConnectionClosed) {
			ui.PrintWarning(fmt.Sprintf("Could not leave the queue: %v", leaveErr))
		}
	}
	switch {
	case err != nil:
		return err
	case cancelled:
		ui.PrintInfo("Left the queue.")
		return nil
	}

	fmt.Println()
	ui.RenderRoom(room.RoomID, userID, room.Participants)
	return nil
}

func waitInteractive(ctx context.Context, session *client.Session) (*client.Assignment, bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewLobby(session.UserID())
	p := tea.NewProgram(model)

	go func() {
		room, err := session.Wait(ctx, func(c client.Counts) {
			p.Send(ui.CountsMsg{Online: c.Online, Queued: c.Queued})
		})
		if err != nil {
			p.Send(ui.FailedMsg{Err: err})
			return
		}
		p.Send(ui.AssignedMsg{RoomID: room.RoomID, Participants: room.Participants})
	}()

	if _, err := p.Run(); err != nil {
		return nil, false, fmt.Errorf("lobby ui: %w", err)
	}

	assigned, cancelled, err := model.Result()
	if err != nil {
		if err = interrupted(err); err == nil {
			return nil, true, nil
		}
		return nil, false, err
	}
	if cancelled {
		return nil, true, nil
	}
	return &client.Assignment{RoomID: assigned.RoomID, Participants: assigned.Participants}, false, nil
}

func waitPlain(ctx context.Context, session *client.Session) (*client.Assignment, bool, error) {
	ui.PrintInfof("Waiting for a partner as %s (Ctrl+C to leave)", session.UserID())

	room, err := session.Wait(ctx, func(c client.Counts) {
		fmt.Printf("  %s online: %s  in queue: %s\n", ui.IconOnline, countText(c.Online), countText(c.Queued))
	})
	if err != nil {
		if err = interrupted(err); err == nil {
			return nil, true, nil
		}
		return nil, false, err
	}
	return room, false, nil
}

// interrupted maps a Ctrl+C cancellation to a clean exit.
func interrupted(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func countText(n int) string {
	if n < 0 {
		return "-"
	}
	return fmt.Sprint(n)
}

func init() {
	rootCmd.AddCommand(joinCmd)

	joinCmd.Flags().StringVarP(&flagServer, "server", "s", "", "Matchmaker websocket URL (env MATCHMAKER_SERVER)")
	joinCmd.Flags().StringVarP(&flagUserID, "id", "i", "", "ID to announce; a random one is generated when empty")
	joinCmd.Flags().StringVar(&flagCodec, "codec", "", "Wire codec: json or msgpack (env MATCHMAKER_CODEC)")
	joinCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Give up after waiting this long; 0 waits forever")
	joinCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print plain lines instead of the interactive view")
}
