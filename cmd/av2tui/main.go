// Av2tui is an interactive terminal client for the av2bridge daemon.
//
// It connects to the bridge's WebSocket API and shows the processor's
// live state: power, volume, input, decode mode and the menu settings.
// Volume, mute, power and input selection are controlled from the
// keyboard.
//
// Usage:
//
//	av2tui [--addr host:port]
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/muurk/av2bridge/internal/logging"
	"github.com/muurk/av2bridge/internal/tui"
	"github.com/muurk/av2bridge/internal/version"
)

var addr string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "av2tui",
	Short: "Terminal client for the AV2 bridge",
	Long: `An interactive terminal client for the av2bridge daemon.

Connects to the bridge's WebSocket API and controls the processor from
the keyboard. The bridge address can usually be left at the default; the
daemon advertises itself on the LAN as _av2bridge._tcp for other
clients.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		// Silent by default; set AV2BRIDGE_LOG_LEVEL to debug the client.
		_ = logging.InitializeFromEnv()

		program := tea.NewProgram(tui.NewModel(addr), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("terminal client failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().StringVar(&addr, "addr", "localhost:8090", "Bridge monitor API address")
}
