package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/i3tags/internal/daemon"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the tag engine",
	Long: `Run the tag engine against the running i3 instance.

Bindings reach the engine through i3's binding events. Bind keys to a nop
command that starts with the marker, for example:

  bindsym $mod+t nop i3tags activate
  bindsym $mod+Shift+t nop i3tags retag`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.Flags().String("config", "", "Config file path (default: ~/.config/i3tags/config.yaml)")
	daemonCmd.Flags().Bool("json-log", false, "Write logs as JSON")
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	socket, _ := cmd.Flags().GetString("socket")
	jsonLog, _ := cmd.Flags().GetBool("json-log")

	level := new(slog.LevelVar)
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if jsonLog {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	return daemon.Run(cmd.Context(), daemon.Options{
		ConfigPath: configPath,
		IPCSocket:  socket,
		Level:      level,
		Logger:     logger,
	})
}
