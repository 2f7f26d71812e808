package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/1broseidon/i3tags/internal/tui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		status, err := newClient(cmd).GetStatus()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "daemon_running: %v\n", status.DaemonRunning)
		fmt.Fprintf(out, "marker:         %s\n", status.Marker)
		fmt.Fprintf(out, "tags:           %d\n", status.TagCount)
		fmt.Fprintf(out, "focused_tag:    %s\n", status.FocusedTag)
		fmt.Fprintf(out, "previous_tag:   %s\n", status.PreviousTag)
		fmt.Fprintf(out, "overlay:        %v\n", status.OverlayEnabled)
		fmt.Fprintf(out, "prompt_backend: %s\n", status.PromptBackend)
		fmt.Fprintf(out, "dropped_events: %d\n", status.DroppedEvents)
		fmt.Fprintf(out, "uptime_seconds: %d\n", status.UptimeSeconds)
		return nil
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Print the tag tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		data, err := newClient(cmd).GetTags()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch format {
		case "pretty":
			fmt.Fprint(out, tui.RenderTagTree(data, isTerminal(out)))
			return nil
		case "yaml":
			return printYAML(out, data)
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(data)
		default:
			return fmt.Errorf("unsupported format: %s (use pretty, yaml or json)", format)
		}
	},
}

var switchCmd = &cobra.Command{
	Use:   "switch <tag>",
	Short: "Switch to a tag",
	Long:  "Switch to a tag, gathering its windows onto its workspace. Switching to the focused tag goes back to the previous one.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient(cmd).Switch(args[0])
	},
}

var runCmd = &cobra.Command{
	Use:   "run <token>...",
	Short: "Run engine tokens as if a binding fired",
	Long: `Run engine tokens as if a binding fired.

Tokens: activate, reset, mode, switch, retag, branch, title, exit, quit.
switch and branch take their tag name from --symbol.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol, _ := cmd.Flags().GetString("symbol")
		return newClient(cmd).Run(strings.Join(args, " "), symbol)
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the daemon configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := newClient(cmd).Reload(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "reloaded")
		return nil
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Rebuild the tag tree from i3 marks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return newClient(cmd).Reconcile()
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and switch tags interactively",
	Long: `Browse and switch tags interactively.

Keys:
  enter, s   Switch to the selected tag
  r          Show the overlay (activate)
  t          Retag the focused window
  /          Filter tags
  q, esc     Quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return tui.Run(newClient(cmd))
	},
}

func init() {
	tagsCmd.Flags().String("format", "pretty", "Output format: pretty, yaml or json")
	runCmd.Flags().String("symbol", "", "Key symbol standing in for the binding key")
	rootCmd.AddCommand(statusCmd, tagsCmd, switchCmd, runCmd, reloadCmd, reconcileCmd, tuiCmd)
}
