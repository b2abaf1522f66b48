// Package configpush writes the firmware side of the configuration to a
// CircuitPython drive.
package configpush

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"text/template"

	"github.com/pleimann/camel-touch/internal/action"
	"github.com/pleimann/camel-touch/internal/config"
)

// ConfigFile is the module the firmware imports on boot
const ConfigFile = "config.py"

// ErrNotFound is returned when no CIRCUITPY volume is mounted
var ErrNotFound = errors.New("CIRCUITPY drive not found")

var modifierCodes = []struct {
	set  func(action.KeyPress) bool
	code string
}{
	{func(k action.KeyPress) bool { return k.Ctrl }, "CONTROL"},
	{func(k action.KeyPress) bool { return k.Alt }, "ALT"},
	{func(k action.KeyPress) bool { return k.Shift }, "SHIFT"},
	{func(k action.KeyPress) bool { return k.Meta }, "GUI"},
}

// adafruit_hid Keycode names for keys that are not a letter
var keycodeNames = map[string]string{
	"enter": "ENTER", "return": "ENTER",
	"esc": "ESCAPE", "escape": "ESCAPE",
	"tab":       "TAB",
	"space":     "SPACEBAR",
	"backspace": "BACKSPACE",
	"delete":    "DELETE", "del": "DELETE",
	"insert": "INSERT", "ins": "INSERT",
	"home":   "HOME",
	"end":    "END",
	"pageup": "PAGE_UP", "pgup": "PAGE_UP",
	"pagedown": "PAGE_DOWN", "pgdn": "PAGE_DOWN",
	"up":    "UP_ARROW",
	"down":  "DOWN_ARROW",
	"left":  "LEFT_ARROW",
	"right": "RIGHT_ARROW",
	"1":     "ONE", "2": "TWO", "3": "THREE", "4": "FOUR", "5": "FIVE",
	"6": "SIX", "7": "SEVEN", "8": "EIGHT", "9": "NINE", "0": "ZERO",
	"-": "MINUS", "=": "EQUALS",
	"[": "LEFT_BRACKET", "]": "RIGHT_BRACKET", "\\": "BACKSLASH",
	";": "SEMICOLON", "'": "QUOTE", "`": "GRAVE_ACCENT",
	",": "COMMA", ".": "PERIOD", "/": "FORWARD_SLASH",
}

func init() {
	for i := 1; i <= 12; i++ {
		keycodeNames["f"+strconv.Itoa(i)] = "F" + strconv.Itoa(i)
	}
}

// ParseKeyToKeycodes converts a key string such as "ctrl+c" into the
// adafruit_hid Keycode names to press together
func ParseKeyToKeycodes(s string) ([]string, error) {
	kp, err := action.ParseKey(s)
	if err != nil {
		return nil, err
	}

	var codes []string
	for _, m := range modifierCodes {
		if m.set(kp) {
			codes = append(codes, m.code)
		}
	}

	if name, ok := keycodeNames[kp.Key]; ok {
		return append(codes, name), nil
	}
	if len(kp.Key) == 1 && kp.Key[0] >= 'a' && kp.Key[0] <= 'z' {
		return append(codes, strings.ToUpper(kp.Key)), nil
	}
	return nil, fmt.Errorf("key %q has no HID keycode", kp.Key)
}

func pythonKeys(a *config.KeyAction) (string, error) {
	combos := make([]string, 0, len(a.Keys))
	for _, k := range a.Keys {
		codes, err := ParseKeyToKeycodes(k)
		if err != nil {
			return "", err
		}
		for i, c := range codes {
			codes[i] = "Keycode." + c
		}
		combos = append(combos, "["+strings.Join(codes, ", ")+"]")
	}
	return "[" + strings.Join(combos, ", ") + "]", nil
}

type zoneView struct {
	config.Zone
	Bindings []bindingView
}

type bindingView struct {
	Name string
	Keys string
}

var pythonTemplate = template.Must(template.New(ConfigFile).Funcs(template.FuncMap{
	"num": func(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) },
}).Parse(`# Generated by camel-touch. Do not edit.
from adafruit_hid.keycode import Keycode

SURFACE = {
    "width": {{.Surface.Width}},
    "height": {{.Surface.Height}},
    "report_rate_hz": {{.Surface.ReportRateHz}},
}

TIMING = {
    "long_press_timeout_ms": {{.Timing.LongPressTimeoutMs}},
    "double_tap_timeout_ms": {{.Timing.DoubleTapTimeoutMs}},
    "tap_timeout_ms": {{.Timing.TapTimeoutMs}},
    "touch_slop_px": {{num .Timing.TouchSlopPx}},
    "double_tap_slop_px": {{num .Timing.DoubleTapSlopPx}},
}

# Used when no host is attached
ZONES = [
{{- range .Zones}}
    {  # {{.Name}}
        "x": {{.X}}, "y": {{.Y}}, "width": {{.Width}}, "height": {{.Height}},
{{- range .Bindings}}
        "{{.Name}}": {{.Keys}},
{{- end}}
    },
{{- end}}
]
`))

// GeneratePythonConfig renders config.py for the firmware
func GeneratePythonConfig(cfg *config.Config) (string, error) {
	zones := make([]zoneView, 0, len(cfg.Zones))
	for _, z := range cfg.Zones {
		zv := zoneView{Zone: z}
		for _, b := range []struct {
			name string
			keys *config.KeyAction
		}{
			{"tap", z.Tap},
			{"double_tap", z.DoubleTap},
			{"long_press", z.LongPress},
		} {
			if b.keys == nil || len(b.keys.Keys) == 0 {
				continue
			}
			py, err := pythonKeys(b.keys)
			if err != nil {
				return "", fmt.Errorf("zone %s %s: %w", z.Name, b.name, err)
			}
			zv.Bindings = append(zv.Bindings, bindingView{Name: b.name, Keys: py})
		}
		zones = append(zones, zv)
	}

	var buf bytes.Buffer
	err := pythonTemplate.Execute(&buf, struct {
		Surface config.SurfaceConfig
		Timing  config.TimingConfig
		Zones   []zoneView
	}{cfg.Surface, cfg.Timing, zones})
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", ConfigFile, err)
	}
	return buf.String(), nil
}

// mountCandidates lists where CIRCUITPY is usually mounted on this OS
func mountCandidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"/Volumes/CIRCUITPY"}
	case "windows":
		var out []string
		for d := 'D'; d <= 'Z'; d++ {
			out = append(out, string(d)+`:\`)
		}
		return out
	default:
		user := os.Getenv("USER")
		return []string{
			filepath.Join("/media", user, "CIRCUITPY"),
			filepath.Join("/run/media", user, "CIRCUITPY"),
			"/media/CIRCUITPY",
			"/mnt/CIRCUITPY",
		}
	}
}

// FindCIRCUITPY returns the mount point of the CircuitPython drive
func FindCIRCUITPY() (string, error) {
	return findMount(mountCandidates())
}

func findMount(candidates []string) (string, error) {
	for _, dir := range candidates {
		// boot_out.txt is written by CircuitPython on every boot
		if _, err := os.Stat(filepath.Join(dir, "boot_out.txt")); err == nil {
			return dir, nil
		}
	}
	return "", ErrNotFound
}

// PushTo writes config.py into dir. The file is replaced in one rename so
// the firmware never reloads a partial file.
func PushTo(dir string, cfg *config.Config) error {
	content, err := GeneratePythonConfig(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".config-*.py")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(dir, ConfigFile)); err != nil {
		return fmt.Errorf("failed to install %s: %w", ConfigFile, err)
	}
	return nil
}
