package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pleimann/camel-touch/internal/utils"
)

type example struct {
	args string
	desc string
}

func command(args string) string {
	if args == "" {
		return utils.ExecutableName()
	}
	return utils.ExecutableName() + " " + args
}

func printSection(title string, items []string) {
	fmt.Println(Bold(title))
	for _, item := range items {
		fmt.Printf("  %s\n", item)
	}
	fmt.Println()
}

func printExamples(examples []example) {
	fmt.Println(Bold("Examples"))

	cmdStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	width := 0
	for _, ex := range examples {
		width = max(width, len(command(ex.args)))
	}
	for _, ex := range examples {
		cmd := command(ex.args)
		padding := strings.Repeat(" ", width-len(cmd)+2)
		fmt.Printf("  %s%s%s\n", cmdStyle.Render(cmd), padding, Muted(ex.desc))
	}
	fmt.Println()
}

func banner(version string, versionColor lipgloss.Color) string {
	name := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Render(utils.ExecutableName())

	tag := lipgloss.NewStyle().
		Foreground(versionColor).
		Render("v" + version)

	return name + " " + tag
}

// PrintUsage displays the styled help/usage text
func PrintUsage(version string) {
	fmt.Println(banner(version, ColorMuted))
	fmt.Println(Muted("Touchpad gesture middleware for TUI applications"))
	fmt.Println()

	printSection("Usage", []string{
		command("[flags]") + "              Run the middleware",
		command("monitor [flags]") + "      Show recognized gestures live",
		command("list-devices") + "         List available HID devices",
		command("set-device [args]") + "    Configure the HID device",
		command("config-push") + "          Push surface settings to the CircuitPython device",
		command("help") + "                 Show this help message",
	})

	printSection("Flags", []string{
		"-config string    Path to configuration file (default \"config.yaml\")",
		"-verbose          Enable debug logging",
		"-version          Print version and exit",
	})

	fmt.Println(Bold("Commands"))
	cmdStyle := lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
	for _, c := range []struct {
		name  string
		lines []string
	}{
		{"monitor", []string{"Recognize gestures without starting the TUI, for tuning timings"}},
		{"list-devices", []string{"List available HID devices, touch digitizers first"}},
		{"set-device", []string{
			"Set the HID device in the config file",
			"Run " + Code(command("set-device --help")) + " for more information",
		}},
		{"config-push", []string{
			"Push surface, timing and zone settings to the CircuitPython device",
			"Run " + Code(command("config-push --help")) + " for more information",
		}},
	} {
		fmt.Printf("  %s\n", cmdStyle.Render(c.name))
		for _, line := range c.lines {
			fmt.Printf("      %s\n", line)
		}
		fmt.Println()
	}

	printExamples([]example{
		{"", "Run with default config.yaml"},
		{"-config my.yaml", "Run with custom config file"},
		{"monitor -verbose", "Watch gestures and recognizer logs"},
		{"list-devices", "List connected HID devices"},
		{"set-device", "Interactive device selection"},
		{"set-device 0x1234 0x5678", "Set device by vendor/product ID"},
	})
}

// PrintSetDeviceUsage displays the styled help text for set-device subcommand
func PrintSetDeviceUsage() {
	fmt.Println(Bold("Usage:"), command("set-device [options] [vendor_id product_id]"))
	fmt.Println()
	fmt.Println("Set the HID device in the configuration file.")
	fmt.Println()
	fmt.Println(Muted("If vendor_id and product_id are provided, updates the config directly."))
	fmt.Println(Muted("Otherwise, displays a list of connected devices to choose from."))
	fmt.Println()

	fmt.Println(Bold("Arguments"))
	fmt.Printf("  %s    Device vendor ID (hex with 0x prefix or decimal)\n", SubtitleStyle.Render("vendor_id"))
	fmt.Printf("  %s   Device product ID (hex with 0x prefix or decimal)\n", SubtitleStyle.Render("product_id"))
	fmt.Println()

	fmt.Println(Bold("Options"))
	fmt.Printf("  %s    Path to configuration file (default \"config.yaml\")\n", SubtitleStyle.Render("-config string"))
	fmt.Println()

	printExamples([]example{
		{"set-device", "Interactive selection"},
		{"set-device 0x1234 0x5678", "Set IDs directly"},
		{"set-device -config my.yaml", "Use different config"},
	})
}

// PrintConfigPushUsage displays the styled help text for config-push subcommand
func PrintConfigPushUsage() {
	fmt.Println(Bold("Usage:"), command("config-push [options]"))
	fmt.Println()
	fmt.Println("Push touch surface settings to the CircuitPython device.")
	fmt.Println()
	fmt.Println(Muted("Writes surface size, timing and zone bindings from config.yaml"))
	fmt.Println(Muted("to config.py on the CIRCUITPY drive."))
	fmt.Println()

	fmt.Println(Bold("Options"))
	fmt.Printf("  %s    Path to configuration file (default \"config.yaml\")\n", SubtitleStyle.Render("-config string"))
	fmt.Println()

	printExamples([]example{
		{"config-push", "Push using default config.yaml"},
		{"config-push -config my.yaml", "Push using custom config"},
	})
}

// PrintVersion displays the styled version information
func PrintVersion(version string) {
	fmt.Println(banner(version, ColorSuccess))
}

// PrintError displays a styled error message
func PrintError(message string) {
	fmt.Println(Error(message))
}

// PrintFatalError displays a styled fatal error message with context
func PrintFatalError(context, message string) {
	fmt.Println()
	fmt.Println(Error(context))
	fmt.Printf("  %s\n", Muted(message))
	fmt.Println()
}

// PrintConfigPushProgress prints progress during config push
func PrintConfigPushProgress(message string) {
	fmt.Printf("  %s %s\n", Muted("→"), message)
}

// PrintConfigPushSuccess prints the success message after config push
func PrintConfigPushSuccess(path string, zoneCount int) {
	fmt.Println()
	fmt.Println(Success("Configuration pushed successfully"))
	fmt.Printf("  %s %s\n", Muted("Location:"), path)
	fmt.Printf("  %s %d zone(s) configured\n", Muted("Zones:"), zoneCount)
	fmt.Println()
	fmt.Println(Muted("CircuitPython reloads config.py automatically."))
}
