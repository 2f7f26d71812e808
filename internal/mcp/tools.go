package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/i3tags/internal/ipc"
)

func (s *Server) handleListTags(_ context.Context, _ *mcpsdk.CallToolRequest, args ListTagsInput) (*mcpsdk.CallToolResult, ListTagsOutput, error) {
	data, err := s.daemon.GetTags()
	if err != nil {
		return nil, ListTagsOutput{}, err
	}
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, ListTagsOutput{}, err
	}

	tags := data.Tags
	if args.Tag != "" {
		tags = nil
		for _, tag := range data.Tags {
			if tag.Name == args.Tag {
				tags = append(tags, tag)
			}
		}
		if len(tags) == 0 {
			return nil, ListTagsOutput{}, fmt.Errorf("tag %q not found", args.Tag)
		}
	}
	if tags == nil {
		tags = []ipc.TagInfo{}
	}

	return nil, ListTagsOutput{
		FocusedTag:  status.FocusedTag,
		PreviousTag: status.PreviousTag,
		Tags:        tags,
	}, nil
}

func (s *Server) handleSwitchTag(_ context.Context, _ *mcpsdk.CallToolRequest, args SwitchTagInput) (*mcpsdk.CallToolResult, SwitchTagOutput, error) {
	tag := strings.TrimSpace(args.Tag)
	if tag == "" {
		return nil, SwitchTagOutput{}, fmt.Errorf("tag is required")
	}
	if err := s.daemon.Switch(tag); err != nil {
		return nil, SwitchTagOutput{}, err
	}
	return nil, SwitchTagOutput{FocusedTag: s.focusedTag()}, nil
}

func (s *Server) handleRunTokens(_ context.Context, _ *mcpsdk.CallToolRequest, args RunTokensInput) (*mcpsdk.CallToolResult, RunTokensOutput, error) {
	tokens := strings.Join(strings.Fields(args.Tokens), " ")
	if tokens == "" {
		return nil, RunTokensOutput{}, fmt.Errorf("tokens are required")
	}
	if err := s.daemon.Run(tokens, args.Symbol); err != nil {
		return nil, RunTokensOutput{}, err
	}
	return nil, RunTokensOutput{Tokens: tokens, FocusedTag: s.focusedTag()}, nil
}

// focusedTag is best effort: a quit token stops the daemon before it can answer.
func (s *Server) focusedTag() string {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return ""
	}
	return status.FocusedTag
}
