package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/watchroom/watchroom/color"
	"github.com/watchroom/watchroom/history"
	"github.com/watchroom/watchroom/icon"
	"github.com/watchroom/watchroom/style"
	"github.com/watchroom/watchroom/util"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringP("filter", "f", "", "Only show rooms whose name matches, fuzzily")
	historyCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	historyCmd.Flags().Bool("clear", false, "Forget every room")
	historyCmd.Flags().StringP("remove", "r", "", "Forget the named room on every relay")
	historyCmd.MarkFlagsMutuallyExclusive("filter", "clear", "remove")

	historyCmd.SetOut(os.Stdout)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the rooms you joined, most recent first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("clear")) {
			handleErr(history.Clear())
			cmd.Printf("%s history cleared\n", style.Fg(color.Green)(icon.Get(icon.Success)))
			return
		}

		if name := lo.Must(cmd.Flags().GetString("remove")); name != "" {
			removed, err := forgetRoom(name)
			handleErr(err)
			cmd.Printf("%s forgot %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), util.Quantify(removed, "room", "rooms"))
			return
		}

		rooms, err := history.Filter(lo.Must(cmd.Flags().GetString("filter")))
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(rooms))
			return
		}

		if len(rooms) == 0 {
			cmd.Println(style.Faint("no rooms"))
			return
		}

		for _, room := range rooms {
			cmd.Printf("%s %s %s\n",
				style.Fg(color.Purple)(room.Room),
				style.Faint(fmt.Sprintf("on %s as %s", room.Relay, lo.Ternary(room.Username == "", "?", room.Username))),
				style.Faint(room.JoinedAt.Format("2006-01-02 15:04")),
			)
		}
	},
}

// forgetRoom removes every remembered entry for name and reports how many there were.
func forgetRoom(name string) (int, error) {
	rooms, err := history.Sorted()
	if err != nil {
		return 0, err
	}

	matches := lo.Filter(rooms, func(r *history.SavedRoom, _ int) bool { return r.Room == name })
	if len(matches) == 0 {
		return 0, fmt.Errorf("no remembered room named %q", name)
	}

	for _, room := range matches {
		if err := history.Remove(room); err != nil {
			return 0, err
		}
	}
	return len(matches), nil
}
