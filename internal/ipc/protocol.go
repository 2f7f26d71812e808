package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/i3tags/internal/tree"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload    CommandType = "RELOAD"
	CommandGetStatus CommandType = "GET_STATUS"
	CommandGetTags   CommandType = "GET_TAGS"
	CommandRun       CommandType = "RUN"
	CommandSwitch    CommandType = "SWITCH"
	CommandReconcile CommandType = "RECONCILE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Marker         string `json:"marker" yaml:"marker"`
	TagCount       int    `json:"tag_count" yaml:"tag_count"`
	FocusedTag     string `json:"focused_tag" yaml:"focused_tag"`
	PreviousTag    string `json:"previous_tag" yaml:"previous_tag"`
	DroppedEvents  int64  `json:"dropped_events" yaml:"dropped_events"`
	OverlayEnabled bool   `json:"overlay_enabled" yaml:"overlay_enabled"`
	PromptBackend  string `json:"prompt_backend" yaml:"prompt_backend"`
	UptimeSeconds  int64  `json:"uptime_seconds" yaml:"uptime_seconds"`
	DaemonRunning  bool   `json:"daemon_running" yaml:"daemon_running"`
}

// WindowInfo is one member window of a tag.
type WindowInfo struct {
	ID      int64  `json:"id" yaml:"id"`
	Window  uint32 `json:"window,omitempty" yaml:"window,omitempty"`
	Name    string `json:"name" yaml:"name"`
	Class   string `json:"class,omitempty" yaml:"class,omitempty"`
	Focused bool   `json:"focused,omitempty" yaml:"focused,omitempty"`
	Urgent  bool   `json:"urgent,omitempty" yaml:"urgent,omitempty"`
}

// TagInfo is one tag with its windows in tree order.
type TagInfo struct {
	ID      int64        `json:"id" yaml:"id"`
	Name    string       `json:"name" yaml:"name"`
	Focused bool         `json:"focused,omitempty" yaml:"focused,omitempty"`
	Windows []WindowInfo `json:"windows" yaml:"windows"`
}

// TagsData represents the data returned by GET_TAGS
type TagsData struct {
	Tags []TagInfo `json:"tags" yaml:"tags"`
}

// RunPayload carries binding tokens, as they would follow the marker.
type RunPayload struct {
	Tokens string `json:"tokens"`
	// Symbol stands in for the key symbol of a binding, used by switch and branch.
	Symbol string `json:"symbol,omitempty"`
}

// SwitchPayload names the tag to switch to.
type SwitchPayload struct {
	Tag string `json:"tag"`
}

// TagsFromTree flattens a tag tree snapshot.
func TagsFromTree(snapshot *tree.Node) TagsData {
	data := TagsData{Tags: []TagInfo{}}
	if snapshot == nil {
		return data
	}
	for _, tag := range snapshot.Tags() {
		info := TagInfo{
			ID:      tag.ID,
			Name:    tag.Name,
			Focused: tag.Focused,
			Windows: []WindowInfo{},
		}
		for w := range tag.Leaves() {
			info.Windows = append(info.Windows, WindowInfo{
				ID:      w.ID,
				Window:  w.Window,
				Name:    w.Name,
				Class:   w.WindowClass,
				Focused: w.Focused,
				Urgent:  w.Urgent,
			})
		}
		data.Tags = append(data.Tags, info)
	}
	return data
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
