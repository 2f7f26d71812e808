// Package mcp exposes the daemon's tag tree to MCP clients over stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/i3tags/internal/ipc"
)

const (
	ServerName    = "i3tags"
	ServerVersion = "0.1.0"
)

// Daemon is the control surface the tools call. *ipc.Client implements it.
type Daemon interface {
	GetTags() (*ipc.TagsData, error)
	GetStatus() (*ipc.StatusData, error)
	Switch(tag string) error
	Run(tokens, symbol string) error
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server for i3tags.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates a server that forwards tool calls to daemon.
func NewServer(daemon Daemon) *Server {
	s := &Server{daemon: daemon}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_tags",
		Description: "List the i3tags tag tree: every tag with its member windows (id, title, class, focus and urgency). Windows can belong to several tags.",
	}, s.handleListTags)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_tag",
		Description: "Switch to a tag. Windows of the tag that are on other workspaces are moved onto the tag's workspace first. Switching to the focused tag returns to the previous one.",
	}, s.handleSwitchTag)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_tokens",
		Description: "Run engine tokens as if an i3 binding had fired (activate, reset, mode, switch, retag, branch, title, quit). retag and title open a prompt and wait for the user.",
	}, s.handleRunTokens)
}
