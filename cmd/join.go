package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"os/user"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/watchroom/watchroom/color"
	"github.com/watchroom/watchroom/config"
	"github.com/watchroom/watchroom/history"
	"github.com/watchroom/watchroom/icon"
	"github.com/watchroom/watchroom/key"
	"github.com/watchroom/watchroom/log"
	"github.com/watchroom/watchroom/player"
	"github.com/watchroom/watchroom/session"
	"github.com/watchroom/watchroom/style"
	"github.com/watchroom/watchroom/tui"
)

func init() {
	rootCmd.AddCommand(joinCmd)

	joinCmd.Flags().StringP("username", "u", "", "Name shown to the other participants")
	lo.Must0(viper.BindPFlag(key.RelayUsername, joinCmd.Flags().Lookup("username")))

	joinCmd.Flags().StringP("relay", "r", "", "Websocket endpoint of the relay")
	lo.Must0(viper.BindPFlag(key.RelayURL, joinCmd.Flags().Lookup("relay")))

	joinCmd.Flags().Bool("headless", false, "Print room updates as lines and read links from stdin instead of the TUI")
	joinCmd.Flags().BoolP("continue", "c", false, "Rejoin the most recently joined room")
}

var joinCmd = &cobra.Command{
	Use:   "join [room]",
	Short: "Join a room, creating it if needed",
	Long: `Join a room on the relay and open mpv. Playback follows the room; whatever you do
in mpv is shared with everyone else. Without a room name a new one is made up.`,
	Args: cobra.MaximumNArgs(1),
	Example: `  watchroom join movie-night -u ana
  watchroom join --continue
  watchroom join --headless -r wss://relay.example.com/ws`,
	Run: func(cmd *cobra.Command, args []string) {
		target, err := resolveTarget(cmd, args)
		handleErr(err)

		CheckDependencies()

		if backend := viper.GetString(key.Player); backend != "mpv" {
			handleErr(fmt.Errorf("unsupported player %q, only mpv is available", backend))
		}

		mpv := player.NewMPV(player.Options{YtdlFormat: viper.GetString(key.PlayerYtdlFormat)})
		handleErr(mpv.Start())

		if viper.GetBool(key.HistorySaveOnJoin) {
			if err := history.Save(target.Room, target.Relay, target.Username); err != nil {
				log.Warnf("save room history: %v", err)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := session.Options{
			RelayURL:       target.Relay,
			Room:           target.Room,
			Username:       target.Username,
			Adapter:        mpv,
			Grace:          config.Duration(key.SyncGrace),
			SettleMax:      config.Duration(key.SyncSettleMax),
			PollInterval:   config.Duration(key.SyncPollInterval),
			ReconnectDelay: config.Duration(key.RelayReconnectDelay),
			SeekThreshold:  viper.GetFloat64(key.SyncSeekThreshold),
		}

		if lo.Must(cmd.Flags().GetBool("headless")) {
			err = runHeadless(ctx, opts, os.Stdin)
		} else {
			err = runInteractive(ctx, opts)
		}

		// handleErr exits, so the player is closed first
		closePlayer(mpv)
		handleErr(err)
	},
}

// resolveTarget picks the room, relay and username from arguments, flags, history and
// configuration, in that order.
func resolveTarget(cmd *cobra.Command, args []string) (*history.SavedRoom, error) {
	target := &history.SavedRoom{
		Relay:    viper.GetString(key.RelayURL),
		Username: viper.GetString(key.RelayUsername),
	}

	if lo.Must(cmd.Flags().GetBool("continue")) {
		if len(args) > 0 {
			return nil, errors.New("--continue does not take a room name")
		}

		last, err := history.Last()
		if err != nil {
			return nil, err
		}
		saved, ok := last.Get()
		if !ok {
			return nil, errors.New("no room joined yet")
		}

		target.Room = saved.Room
		if !cmd.Flags().Changed("relay") {
			target.Relay = saved.Relay
		}
		if !cmd.Flags().Changed("username") && saved.Username != "" {
			target.Username = saved.Username
		}
	} else if len(args) > 0 {
		target.Room = strings.TrimSpace(args[0])
	}

	if target.Room == "" {
		target.Room = newRoomName()
	}
	if target.Username == "" {
		if u, err := user.Current(); err == nil {
			target.Username = u.Username
		}
	}

	return target, nil
}

func newRoomName() string {
	return "room-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
}

func runInteractive(ctx context.Context, opts session.Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ui := tui.New(&tui.Options{Room: opts.Room, Relay: opts.RelayURL, Username: opts.Username})
	opts.View = ui
	s := session.New(opts)
	ui.Bind(s)

	ended := make(chan error, 1)
	go func() {
		err := s.Run(ctx)
		if errors.Is(err, session.ErrPlayerClosed) {
			err = nil
		}
		ui.Finish(err)
		ended <- err
	}()

	if err := ui.Run(); err != nil {
		return err
	}

	cancel()
	return <-ended
}

// runHeadless prints room updates and reads commands from in: a link queues a video, a
// number plays that queue entry.
func runHeadless(ctx context.Context, opts session.Options, in io.Reader) error {
	log.Console()

	opts.View = tui.NewPrinter(os.Stdout)
	s := session.New(opts)

	fmt.Printf("%s joined %s as %s\n",
		icon.Get(icon.Success),
		style.Fg(color.Purple)(opts.Room),
		style.Fg(color.Yellow)(opts.Username),
	)
	fmt.Println(style.Faint("paste a link to queue it, or a number to play that entry"))

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			if n, err := strconv.Atoi(line); err == nil {
				s.PlaySpecific(n - 1)
			} else {
				s.AddToQueue(line)
			}
		}
	}()

	err := s.Run(ctx)
	if errors.Is(err, session.ErrPlayerClosed) {
		return nil
	}
	return err
}

func closePlayer(p player.Adapter) {
	if err := p.Close(); err != nil {
		log.Warnf("close player: %v", err)
	}
}
