package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/watchroom/watchroom/protocol"
)

// payloads maps every event name to the shape of its data.
var payloads = map[string]any{
	protocol.EventJoin:              &protocol.Join{},
	protocol.EventAddToQueue:        &protocol.AddToQueue{},
	protocol.EventPlaySpecificVideo: &protocol.PlaySpecificVideo{},
	protocol.EventPlayerEvent:       &protocol.PlayerEvent{},
	protocol.EventSyncState:         &protocol.SyncState{},
	protocol.EventStateChange:       &protocol.StateChange{},
	protocol.EventQueueUpdate:       &protocol.QueueUpdate{},
	protocol.EventUserListUpdate:    &protocol.UserListUpdate{},
}

func completionEvents(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(payloads), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(protocolCmd)
	protocolCmd.AddCommand(protocolSchemaCmd)
	protocolCmd.AddCommand(protocolEventsCmd)

	protocolEventsCmd.SetOut(os.Stdout)
}

var protocolCmd = &cobra.Command{
	Use:   "protocol",
	Short: "Describe the messages exchanged with the relay",
}

var protocolEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List event names",
	Run: func(cmd *cobra.Command, args []string) {
		events := lo.Keys(payloads)
		sort.Strings(events)
		for _, event := range events {
			cmd.Println(event)
		}
	},
}

var protocolSchemaCmd = &cobra.Command{
	Use:               "schema [event]",
	Short:             "Print the JSON schema of the envelope, or of one event's data",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionEvents,
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true

		var schema *jsonschema.Schema
		if len(args) == 0 {
			schema = reflector.Reflect(&protocol.Envelope{})
		} else {
			payload, ok := payloads[args[0]]
			if !ok {
				handleErr(fmt.Errorf("unknown event %q", args[0]))
			}
			schema = reflector.Reflect(payload)
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}
