package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/watchroom/watchroom/color"
	"github.com/watchroom/watchroom/hub"
	"github.com/watchroom/watchroom/icon"
	"github.com/watchroom/watchroom/key"
	"github.com/watchroom/watchroom/log"
	"github.com/watchroom/watchroom/style"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "Address to bind, host:port")
	lo.Must0(viper.BindPFlag(key.RelayListen, serveCmd.Flags().Lookup("listen")))
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a relay for rooms to meet on",
	Long: `Run an in-memory relay. Rooms are created when the first participant joins and
are lost when the relay stops. Participants connect to ws://<address>/ws.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		log.Console()

		addr := viper.GetString(key.RelayListen)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("%s relay listening on %s\n",
			icon.Get(icon.Success),
			style.Fg(color.Purple)(addr),
		)

		handleErr(hub.New().ListenAndServe(ctx, addr))
	},
}
