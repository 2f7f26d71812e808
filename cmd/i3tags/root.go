package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/i3tags/internal/ipc"
)

// Set by the release build.
var (
	version = "dev"
	commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:           "i3tags",
	Short:         "Tag overlay for i3",
	Long:          "i3tags groups i3 windows into tags, independent of workspaces, and moves them together when you switch tags.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", version, commit)
	rootCmd.PersistentFlags().String("socket", "", "Control socket path (default: $I3TAGS_SOCKET or the runtime dir)")
}

// newClient returns a control socket client honoring --socket.
func newClient(cmd *cobra.Command) *ipc.Client {
	path, _ := cmd.Flags().GetString("socket")
	if path != "" {
		return ipc.NewClientAt(path)
	}
	return ipc.NewClient()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
