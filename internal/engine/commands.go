package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/i3tags/internal/wm"
)

// DefaultMarker is the binding command marker used when none is configured.
const DefaultMarker = "i3tags"

// Token names recognized in binding commands.
const (
	TokenReset    = "reset"
	TokenActivate = "activate"
	TokenTags     = "tags"
	TokenMode     = "mode"
	TokenSwitch   = "switch"
	TokenRetag    = "retag"
	TokenBranch   = "branch"
	TokenTitle    = "title"
)

// ParseTokens extracts the engine's tokens from a binding command. Everything
// between the marker and the next ';' is split on whitespace. A command
// without the marker yields nil.
func ParseTokens(marker, command string) []string {
	if marker == "" {
		return nil
	}
	idx := strings.Index(command, marker)
	if idx < 0 {
		return nil
	}
	rest := command[idx+len(marker):]
	if semi := strings.IndexByte(rest, ';'); semi >= 0 {
		rest = rest[:semi]
	}
	tokens := strings.Fields(rest)
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// HandleBinding dispatches every token of ev in order. A failing token does
// not stop the tokens after it; the failures are joined into the returned
// error. ErrQuit stops dispatch immediately.
func (e *Engine) HandleBinding(ctx context.Context, ev wm.BindingEvent) error {
	tokens := ParseTokens(e.marker, ev.Command)
	if len(tokens) == 0 {
		return nil
	}
	e.logger.Debug("binding", "tokens", tokens, "symbol", ev.Symbol)

	var errs []error
	for _, token := range tokens {
		err := e.dispatch(ctx, token, ev)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrQuit) {
			return err
		}
		errs = append(errs, fmt.Errorf("%s: %w", token, err))
	}
	return errors.Join(errs...)
}

func (e *Engine) dispatch(ctx context.Context, token string, ev wm.BindingEvent) error {
	switch token {
	case TokenReset:
		e.presenter.Reset()
		return nil
	case TokenActivate, TokenTags:
		return e.Activate(ctx)
	case TokenMode:
		e.presenter.ShowModeHint(ev.Command)
		return nil
	case TokenSwitch:
		return e.SwitchTagFromEvent(ctx, ev)
	case TokenRetag:
		return e.Retag(ctx)
	case TokenBranch:
		return e.Branch(ctx, ev.Symbol)
	case TokenTitle:
		return e.Retitle(ctx)
	default:
		e.logger.Debug("ignoring unknown token", "token", token)
		return nil
	}
}

// Activate reconciles and shows the result. When reconciliation fails the
// presentation is cleared instead, so no stale overlay stays on screen.
func (e *Engine) Activate(ctx context.Context) error {
	if err := e.UpdateTagTree(ctx); err != nil {
		e.presenter.Reset()
		return err
	}
	e.presenter.ShowTags(e.Snapshot())
	return nil
}
