package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pleimann/camel-touch/internal/action"
	"github.com/pleimann/camel-touch/internal/config"
	"github.com/pleimann/camel-touch/internal/gesture"
	"github.com/pleimann/camel-touch/internal/hid"
	"github.com/pleimann/camel-touch/internal/logging"
	"github.com/pleimann/camel-touch/internal/ui"
)

// runMonitor handles the monitor subcommand: gestures are recognized and
// shown but no TUI is started and no keys are sent
func runMonitor(args []string) {
	fs := flag.NewFlagSet("monitor", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	verbose := fs.Bool("verbose", false, "write debug logs to monitor.log")
	fs.Usage = printUsage

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}

	// the terminal belongs to the monitor view
	logger := logging.Discard()
	if *verbose {
		f, err := tea.LogToFile("monitor.log", "")
		if err != nil {
			ui.PrintFatalError("Failed to open log file", err.Error())
			os.Exit(1)
		}
		defer f.Close()
		if logger, err = newLogger(cfg, true, f); err != nil {
			ui.PrintFatalError("Invalid logging config", err.Error())
			os.Exit(1)
		}
	}

	device, err := hid.NewDevice(cfg.Device.VendorID, cfg.Device.ProductID, logger)
	if err != nil {
		ui.PrintFatalError("Failed to open HID device", err.Error())
		os.Exit(1)
	}
	defer device.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mapper := action.NewMapper(cfg)
	name := fmt.Sprintf("0x%04X:0x%04X", cfg.Device.VendorID, cfg.Device.ProductID)
	p := tea.NewProgram(ui.NewMonitor(name), tea.WithContext(ctx))

	gestures := make(chan tea.Msg, 64)
	go forward(ctx, gestures, p.Send)

	engine := gesture.NewEngine(cfg, logger, func(g gesture.Gesture) bool {
		select {
		case gestures <- ui.GestureMsg{Gesture: g, At: time.Now()}:
		case <-ctx.Done():
		}
		// behave as the middleware would with these bindings
		return len(mapper.Map(g)) > 0
	})
	engine.Start(ctx)
	defer engine.Stop()

	go monitorDevice(ctx, device, engine, p, cfg.Device.PollIntervalMs)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		ui.PrintFatalError("Monitor failed", err.Error())
		os.Exit(1)
	}
}

// forward delivers messages to send one at a time, in the order they were
// queued, until ctx is done
func forward(ctx context.Context, in <-chan tea.Msg, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-in:
			send(msg)
		}
	}
}

func monitorDevice(ctx context.Context, device *hid.Device, engine *gesture.Engine, p *tea.Program, pollMs int) {
	poll := time.Duration(pollMs) * time.Millisecond
	if poll <= 0 {
		poll = time.Second
	}

	events := make(chan hid.Event, 64)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-events:
				engine.ProcessEvent(ev)
				p.Send(ui.PointerMsg{Event: gesture.PointerEventFromHID(ev)})
			}
		}
	}()

	for {
		err := device.ReadEvents(ctx, events)
		if ctx.Err() != nil {
			return
		}
		engine.Reset()
		p.Send(ui.DeviceMsg{Connected: false, Err: err})

		if device.WaitForDevice(ctx, poll) != nil {
			return
		}
		p.Send(ui.DeviceMsg{Connected: true})
	}
}
