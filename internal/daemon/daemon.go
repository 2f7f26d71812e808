// Package daemon wires the tag engine to i3, the overlay, the prompt
// launcher and the control socket, and runs the event loop.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/i3tags/internal/config"
	"github.com/1broseidon/i3tags/internal/engine"
	"github.com/1broseidon/i3tags/internal/ipc"
	"github.com/1broseidon/i3tags/internal/overlay"
	"github.com/1broseidon/i3tags/internal/palette"
	"github.com/1broseidon/i3tags/internal/wm"
	"github.com/1broseidon/i3tags/internal/x11"
)

// Options configures Run.
type Options struct {
	// ConfigPath is the root config file; empty means the default location.
	ConfigPath string
	// IPCSocket overrides the control socket path.
	IPCSocket string
	Level     *slog.LevelVar
	Logger    *slog.Logger
}

// Run starts the daemon and blocks until it is interrupted or the user quits.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := opts.Level
	if level == nil {
		level = new(slog.LevelVar)
	}

	path := opts.ConfigPath
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return err
		}
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := res.Config
	level.Set(cfg.SlogLevel())
	logger.Info("configuration loaded", "path", path, "marker", cfg.Marker, "files", len(res.Files))

	if cfg.Display != "" {
		os.Setenv("DISPLAY", cfg.Display)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := wm.NewClient(wm.ClientOptions{
		SocketPath:    cfg.SocketPath,
		SwitchCommand: cfg.SwitchCommand,
		Logger:        logger.With("component", "wm"),
	})

	// X is optional: without it there is no overlay and titles are only
	// renamed in the tag tree.
	var renderer overlay.Renderer = overlay.Nop{}
	var renamer engine.Renamer
	conn, err := x11.NewConnection()
	if err != nil {
		logger.Warn("X11 unavailable, overlay and title writes disabled", "error", err)
	} else {
		defer conn.Close()
		go conn.EventLoop()
		renamer = conn
		if cfg.Overlay.Enabled {
			renderer = overlay.NewPanel(conn, overlay.PanelOptions{
				Font:    cfg.Overlay.Font,
				OffsetY: cfg.Overlay.OffsetY,
				Colors:  overlayColors(cfg.Overlay.Colors),
			})
		}
	}

	prompter, err := palette.NewBackend(cfg.PromptBackend)
	promptName := ""
	if err != nil {
		logger.Warn("no prompt backend, retag and title are unavailable", "error", err)
		prompter = nil
	} else {
		promptName = prompter.Name()
	}

	presenterCtx, stopPresenter := context.WithCancel(ctx)
	defer stopPresenter()
	presenter := overlay.New(renderer, prompter, overlay.Options{
		Colors: overlayColors(cfg.Overlay.Colors),
		Logger: logger.With("component", "overlay"),
	})
	go presenter.Run(presenterCtx)

	listener := wm.Listen(ctx, logger.With("component", "listener"))
	defer listener.Close()

	eng := engine.New(client, presenter, engine.Options{
		Marker:      cfg.Marker,
		RetagPrompt: cfg.RetagPrompt,
		TitlePrompt: cfg.TitlePrompt,
		Renamer:     renamer,
		Listener:    listener,
		Logger:      logger.With("component", "engine"),
	})
	if err := eng.Init(ctx); err != nil {
		return err
	}

	actor := NewActor(eng, listener.Events(), ActorOptions{
		Config: cfg,
		Load: func() (*config.Config, error) {
			res, err := config.LoadFromPath(path)
			if err != nil {
				return nil, err
			}
			return res.Config, nil
		},
		Dropped:       listener.Dropped,
		PromptBackend: promptName,
		Level:         level,
		Logger:        logger.With("component", "actor"),
	})

	server, err := ipc.NewServer(opts.IPCSocket, actor, logger.With("component", "ipc"))
	if err != nil {
		return err
	}
	if err := server.Start(ctx); err != nil {
		return err
	}
	defer server.Stop()

	watchReloads(ctx, res, actor, logger)

	logger.Info("i3tags daemon started", "socket", server.SocketPath(), "prompt_backend", promptName)
	err = actor.Run(ctx)
	if errors.Is(err, ErrSubscriptionClosed) {
		return fmt.Errorf("lost connection to i3: %w", err)
	}
	return err
}

// watchReloads forwards SIGHUP and config file changes to the actor.
func watchReloads(ctx context.Context, res *config.LoadResult, actor *Actor, logger *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)

	changes, err := config.Watch(ctx, res, logger.With("component", "config"))
	if err != nil {
		logger.Debug("config hot reload disabled", "error", err)
	}

	go func() {
		defer signal.Stop(hup)
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				logger.Info("received SIGHUP, reloading config")
				actor.TriggerReload()
			case _, ok := <-changes:
				if !ok {
					changes = nil
					continue
				}
				logger.Info("config file changed, reloading")
				actor.TriggerReload()
			}
		}
	}()
}

func overlayColors(c config.Colors) overlay.Colors {
	return overlay.Colors{
		Text:       uint32(c.Text),
		Background: uint32(c.Background),
		Focused:    uint32(c.Focused),
		Urgent:     uint32(c.Urgent),
	}
}
