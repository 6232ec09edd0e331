// Av2bridge links an AV2 surround processor to the living room.
//
// The daemon owns the processor's RS232 port and keeps a cached copy of
// the processor state, synchronised at startup and updated from the
// processor's own status pushes. Around that core it runs three optional
// collaborators:
//
//   - an HDMI-CEC bridge, so the TV's volume keys and standby reach the
//     processor and the TV's volume overlay tracks it
//   - a media player activity poller, waking the processor and selecting
//     its input when playback starts
//   - an HTTP/WebSocket monitor API for dashboards and the av2tui client
//
// Usage:
//
//	av2bridge run [flags]
//
// See 'av2bridge run --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/av2bridge/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "av2bridge",
	Short: "AV2 surround processor control bridge",
	Long: `A control bridge for the AV2 surround processor's RS232 port.

The bridge keeps the processor, the TV (over HDMI-CEC) and the local
media player in step: TV volume keys drive the processor, playback wakes
it on the right input, and a WebSocket API exposes its state.

For the interactive terminal client, use the separate 'av2tui' utility.`,
	Version: version.Version,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("av2bridge %s (commit: %s)\n", version.Version, version.Commit)
	},
}
