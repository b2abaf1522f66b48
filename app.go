package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pleimann/camel-touch/internal/action"
	"github.com/pleimann/camel-touch/internal/config"
	"github.com/pleimann/camel-touch/internal/display"
	"github.com/pleimann/camel-touch/internal/gesture"
	"github.com/pleimann/camel-touch/internal/hid"
	"github.com/pleimann/camel-touch/internal/pty"
)

// pending key sequences between the gesture loop and the PTY writer
const actionQueueSize = 32

type App struct {
	config         *config.Config
	logger         *slog.Logger
	hidDevice      *hid.Device
	gestureEngine  *gesture.Engine
	actionMapper   *action.Mapper
	actionExecutor *action.Executor
	ptyManager     *pty.Manager
	displayManager *display.Manager
	watcher        *config.Watcher

	actions chan []string
	workers sync.WaitGroup
}

func newApp(configPath string, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if err := action.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid key binding: %w", err)
	}

	app := &App{
		config:  cfg,
		logger:  logger,
		actions: make(chan []string, actionQueueSize),
	}

	hidDevice, err := hid.NewDevice(cfg.Device.VendorID, cfg.Device.ProductID, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open HID device: %w", err)
	}
	app.hidDevice = hidDevice

	app.actionMapper = action.NewMapper(cfg)

	ptyManager, err := pty.NewManager(cfg.TUI.Command, cfg.TUI.Args, cfg.TUI.WorkingDir, logger)
	if err != nil {
		hidDevice.Close()
		return nil, fmt.Errorf("failed to create PTY manager: %w", err)
	}
	app.ptyManager = ptyManager

	writer := pty.NewWriter(ptyManager, time.Duration(cfg.TUI.KeyDelayMs)*time.Millisecond)
	app.actionExecutor = action.NewExecutor(writer, logger)

	app.gestureEngine = gesture.NewEngine(cfg, logger, app.onGesture)
	app.displayManager = display.NewManager(cfg.Display, cfg.Surface, hidDevice, logger)

	watcher, err := config.NewWatcher(configPath, cfg, logger)
	if err != nil {
		// hot reload is optional
		logger.Warn("config hot reload disabled", "error", err)
	} else {
		watcher.OnReload(app.reload)
		app.watcher = watcher
	}

	return app, nil
}

// onGesture runs on the gesture loop. It reports whether the gesture was
// bound, which lets a bound long press swallow the drag that follows and a
// bound fling suppress kinetic scrolling.
func (a *App) onGesture(g gesture.Gesture) bool {
	a.displayManager.ShowGesture(g)

	keys := a.actionMapper.Map(g)
	a.logger.Debug("gesture", "gesture", g.String(), "keys", keys)
	if len(keys) == 0 {
		return false
	}

	select {
	case a.actions <- keys:
	default:
		a.logger.Warn("action queue full, dropping gesture", "gesture", g.String())
	}
	return true
}

func (a *App) runActions() {
	defer a.workers.Done()
	for keys := range a.actions {
		if err := a.actionExecutor.Execute(keys); err != nil {
			a.logger.Warn("failed to execute action", "keys", keys, "error", err)
		}
	}
}

func (a *App) reload(cfg *config.Config) {
	if err := action.Validate(cfg); err != nil {
		a.logger.Error("ignoring reloaded config", "error", err)
		return
	}
	a.actionMapper.Reload(cfg)
	a.gestureEngine.Reconfigure(cfg)
	a.logger.Info("config reloaded", "zones", len(cfg.Zones))
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.ptyManager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start PTY: %w", err)
	}

	a.workers.Add(1)
	go a.runActions()

	a.displayManager.Start(ctx, a.ptyManager)
	a.gestureEngine.Start(ctx)
	if a.watcher != nil {
		a.watcher.Start()
	}

	events := make(chan hid.Event, 64)
	readDone := make(chan error, 1)
	go func() {
		readDone <- a.readLoop(ctx, events)
	}()

	var err error
	for running := true; running; {
		select {
		case <-ctx.Done():
			running = false
		case <-a.ptyManager.Exited():
			a.logger.Info("TUI exited, shutting down")
			running = false
		case err = <-readDone:
			running = false
		case event := <-events:
			a.gestureEngine.ProcessEvent(event)
		}
	}

	cancel()
	a.shutdown()
	return err
}

// readLoop reads pointer reports until ctx ends, reopening the device
// whenever it disappears
func (a *App) readLoop(ctx context.Context, events chan<- hid.Event) error {
	poll := time.Duration(a.config.Device.PollIntervalMs) * time.Millisecond
	if poll <= 0 {
		poll = time.Second
	}

	for {
		err := a.hidDevice.ReadEvents(ctx, events)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, hid.ErrClosed) {
			return err
		}

		a.logger.Warn("HID read failed", "error", err)
		// the contact in flight never gets its Up
		a.gestureEngine.Reset()

		if err := a.hidDevice.WaitForDevice(ctx, poll); err != nil {
			return nil
		}
		a.displayManager.ForceRefresh()
	}
}

func (a *App) shutdown() {
	a.logger.Debug("shutting down")
	if a.watcher != nil {
		a.watcher.Stop()
	}
	a.gestureEngine.Stop()
	close(a.actions)
	a.workers.Wait()
	a.displayManager.Stop()
	a.ptyManager.Stop()
	a.hidDevice.Close()
}
