package mcp

import "github.com/1broseidon/i3tags/internal/ipc"

// ListTagsInput is the input for the list_tags tool.
type ListTagsInput struct {
	Tag string `json:"tag,omitempty" jsonschema:"Only return the tag with this name"`
}

// ListTagsOutput is the output for the list_tags tool.
type ListTagsOutput struct {
	FocusedTag  string        `json:"focused_tag"`
	PreviousTag string        `json:"previous_tag"`
	Tags        []ipc.TagInfo `json:"tags"`
}

// SwitchTagInput is the input for the switch_tag tool.
type SwitchTagInput struct {
	Tag string `json:"tag" jsonschema:"Name of the tag to switch to. Switching to the focused tag toggles back to the previous one."`
}

// SwitchTagOutput is the output for the switch_tag tool.
type SwitchTagOutput struct {
	FocusedTag string `json:"focused_tag"`
}

// RunTokensInput is the input for the run_tokens tool.
type RunTokensInput struct {
	Tokens string `json:"tokens" jsonschema:"Space separated engine tokens as they would follow the marker in an i3 binding, e.g. 'activate' or 'branch'"`
	Symbol string `json:"symbol,omitempty" jsonschema:"Key symbol standing in for the binding key; switch and branch use it as the tag name"`
}

// RunTokensOutput is the output for the run_tokens tool.
type RunTokensOutput struct {
	Tokens     string `json:"tokens"`
	FocusedTag string `json:"focused_tag"`
}
