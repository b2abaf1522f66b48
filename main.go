package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/pleimann/camel-touch/internal/config"
	"github.com/pleimann/camel-touch/internal/configpush"
	"github.com/pleimann/camel-touch/internal/hid"
	"github.com/pleimann/camel-touch/internal/logging"
	"github.com/pleimann/camel-touch/internal/ui"
)

const Version = "0.2.0"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "list-devices":
			runListDevices()
			return
		case "set-device", "select-device":
			runSetDevice(os.Args[2:])
			return
		case "config-push":
			runConfigPush(os.Args[2:])
			return
		case "monitor":
			runMonitor(os.Args[2:])
			return
		case "help", "-h", "--help":
			printUsage()
			os.Exit(0)
		}
	}

	configPath := flag.String("config", "config.yaml", "path to configuration file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	version := flag.Bool("version", false, "print version and exit")

	flag.Usage = printUsage
	flag.Parse()

	if *version {
		ui.PrintVersion(Version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}

	logger, err := newLogger(cfg, *verbose, nil)
	if err != nil {
		ui.PrintFatalError("Invalid logging config", err.Error())
		os.Exit(1)
	}
	slog.SetDefault(logger)

	logger.Debug("configuration loaded",
		"path", *configPath,
		"vendor_id", fmt.Sprintf("0x%04X", cfg.Device.VendorID),
		"product_id", fmt.Sprintf("0x%04X", cfg.Device.ProductID),
		"tui", cfg.TUI.Command,
		"zones", len(cfg.Zones))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(*configPath, cfg, logger)
	if err != nil {
		ui.PrintFatalError("Failed to initialize application", err.Error())
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("application error", "error", err)
		os.Exit(1)
	}

	logger.Debug("shutdown complete")
}

func printUsage() {
	ui.PrintUsage(Version)
}

// newLogger builds the process logger from the logging section. verbose
// forces debug level.
func newLogger(cfg *config.Config, verbose bool, out *os.File) (*slog.Logger, error) {
	opts := logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	if verbose {
		opts.Level = "debug"
	}
	if out != nil {
		opts.Output = out
	}
	return logging.New(opts)
}

// runListDevices handles the list-devices subcommand
func runListDevices() {
	devices, err := hid.ListDevices()
	if err != nil {
		ui.PrintFatalError("Failed to list devices", err.Error())
		os.Exit(1)
	}
	ui.PrintDeviceList(ui.SortDevices(toUIDevices(devices)))
}

func toUIDevices(devices []hid.DeviceInfo) []ui.DeviceInfo {
	out := make([]ui.DeviceInfo, 0, len(devices))
	for _, d := range devices {
		out = append(out, ui.DeviceInfo{
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			Manufacturer: d.Manufacturer,
			Product:      d.Product,
			Digitizer:    d.IsDigitizer(),
		})
	}
	return out
}

// runSetDevice handles the set-device subcommand
func runSetDevice(args []string) {
	fs := flag.NewFlagSet("set-device", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	fs.Usage = ui.PrintSetDeviceUsage

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	remaining := fs.Args()

	var vendorID, productID uint16

	switch len(remaining) {
	case 0:
		device, err := selectDevice()
		if err != nil {
			ui.PrintFatalError("Device selection failed", err.Error())
			os.Exit(1)
		}
		if device == nil {
			fmt.Println(ui.Muted("No device selected"))
			os.Exit(0)
		}
		vendorID, productID = device.VendorID, device.ProductID

	case 1:
		ui.PrintFatalError("Invalid arguments", "Both vendor_id and product_id must be provided, or neither")
		os.Exit(1)

	default:
		vid, err := parseID(remaining[0])
		if err != nil {
			ui.PrintFatalError("Invalid vendor_id", fmt.Sprintf("%q: %v", remaining[0], err))
			os.Exit(1)
		}
		pid, err := parseID(remaining[1])
		if err != nil {
			ui.PrintFatalError("Invalid product_id", fmt.Sprintf("%q: %v", remaining[1], err))
			os.Exit(1)
		}
		vendorID, productID = vid, pid

		if info, _ := hid.FindDevice(vid, pid); info == nil {
			fmt.Println(ui.Warning("Device is not connected, saving anyway"))
		} else if !info.IsDigitizer() {
			fmt.Println(ui.Warning("Device does not report a touch digitizer interface"))
		}
	}

	if config.Exists(*configPath) {
		if err := config.UpdateDeviceIDs(*configPath, vendorID, productID); err != nil {
			ui.PrintFatalError("Failed to update config", err.Error())
			os.Exit(1)
		}
		ui.PrintDeviceUpdated(*configPath, vendorID, productID)
	} else {
		if err := config.CreateDefaultConfig(*configPath, vendorID, productID); err != nil {
			ui.PrintFatalError("Failed to create config", err.Error())
			os.Exit(1)
		}
		ui.PrintDeviceCreated(*configPath, vendorID, productID)
	}
}

// runConfigPush handles the config-push subcommand
func runConfigPush(args []string) {
	fs := flag.NewFlagSet("config-push", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	fs.Usage = ui.PrintConfigPushUsage

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	ui.PrintConfigPushProgress(fmt.Sprintf("Reading config from %s...", *configPath))

	cfg, err := config.Load(*configPath)
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}

	ui.PrintConfigPushProgress(fmt.Sprintf("Converting %d zone(s)...", len(cfg.Zones)))

	mountPoint, err := configpush.FindCIRCUITPY()
	if err != nil {
		ui.PrintFatalError("Failed to find device", err.Error())
		os.Exit(1)
	}

	ui.PrintConfigPushProgress(fmt.Sprintf("Found CIRCUITPY at %s", mountPoint))

	if err := configpush.PushTo(mountPoint, cfg); err != nil {
		ui.PrintFatalError("Failed to push config", err.Error())
		os.Exit(1)
	}

	ui.PrintConfigPushSuccess(filepath.Join(mountPoint, configpush.ConfigFile), len(cfg.Zones))
}

// parseID parses a vendor or product ID from string (supports hex with 0x prefix or decimal)
func parseID(s string) (uint16, error) {
	s = strings.TrimSpace(s)

	base := 10
	if strings.HasPrefix(strings.ToLower(s), "0x") {
		s, base = s[2:], 16
	}

	val, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, err
	}
	return uint16(val), nil
}

// selectDevice displays an interactive device selection menu
func selectDevice() (*ui.DeviceInfo, error) {
	devices, err := hid.ListDevices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	var known []hid.DeviceInfo
	for _, d := range devices {
		if d.VendorID != 0 || d.ProductID != 0 {
			known = append(known, d)
		}
	}
	if len(known) == 0 {
		return nil, fmt.Errorf("no identifiable HID devices found")
	}

	return ui.SelectDevice(ui.SortDevices(toUIDevices(known)))
}
