package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Device   DeviceConfig  `yaml:"device"`
	Surface  SurfaceConfig `yaml:"surface"`
	Timing   TimingConfig  `yaml:"timing"`
	Kinetic  KineticConfig `yaml:"kinetic"`
	TUI      TUIConfig     `yaml:"tui"`
	Gestures Bindings      `yaml:"gestures"`
	Zones    []Zone        `yaml:"zones"`
	Display  DisplayConfig `yaml:"display"`
	Logging  LoggingConfig `yaml:"logging"`
}

type DeviceConfig struct {
	VendorID       uint16 `yaml:"vendor_id"`
	ProductID      uint16 `yaml:"product_id"`
	PollIntervalMs int    `yaml:"poll_interval_ms"`
}

// SurfaceConfig describes the touch surface in device pixels
type SurfaceConfig struct {
	Width        int `yaml:"width"`
	Height       int `yaml:"height"`
	ReportRateHz int `yaml:"report_rate_hz"`
}

type TimingConfig struct {
	LongPressTimeoutMs int     `yaml:"long_press_timeout_ms"`
	DoubleTapTimeoutMs int     `yaml:"double_tap_timeout_ms"`
	TapTimeoutMs       int     `yaml:"tap_timeout_ms"`
	TouchSlopPx        float64 `yaml:"touch_slop_px"`
	DoubleTapSlopPx    float64 `yaml:"double_tap_slop_px"`
	MaxFlingVelocity   float64 `yaml:"max_fling_velocity"`
	MinFlingVelocity   float64 `yaml:"min_fling_velocity"`
	// ScrollStep is the fraction of the surface a drag must cover to emit
	// one scroll gesture.
	ScrollStep float64 `yaml:"scroll_step"`
}

// KineticConfig controls the inertial scroll that follows a fling
type KineticConfig struct {
	Enabled    bool   `yaml:"enabled"`
	DurationMs int    `yaml:"duration_ms"`
	TickMs     int    `yaml:"tick_ms"`
	Ease       string `yaml:"ease"`
}

type TUIConfig struct {
	Command    string   `yaml:"command"`
	Args       []string `yaml:"args"`
	WorkingDir string   `yaml:"working_dir,omitempty"`
	KeyDelayMs int      `yaml:"key_delay_ms,omitempty"`
}

type KeyAction struct {
	Keys []string `yaml:"keys"`
}

// DirectionalKeys binds one action per direction
type DirectionalKeys struct {
	Up    *KeyAction `yaml:"up,omitempty"`
	Down  *KeyAction `yaml:"down,omitempty"`
	Left  *KeyAction `yaml:"left,omitempty"`
	Right *KeyAction `yaml:"right,omitempty"`
}

// Bindings maps gestures on the whole surface to key actions
type Bindings struct {
	Tap       *KeyAction      `yaml:"tap,omitempty"`
	DoubleTap *KeyAction      `yaml:"double_tap,omitempty"`
	LongPress *KeyAction      `yaml:"long_press,omitempty"`
	Scroll    DirectionalKeys `yaml:"scroll,omitempty"`
	Fling     DirectionalKeys `yaml:"fling,omitempty"`
}

// Zone is a named rectangle of the surface with its own tap bindings.
// Zones listed first win when they overlap.
type Zone struct {
	Name      string     `yaml:"name"`
	X         int        `yaml:"x"`
	Y         int        `yaml:"y"`
	Width     int        `yaml:"width"`
	Height    int        `yaml:"height"`
	Tap       *KeyAction `yaml:"tap,omitempty"`
	DoubleTap *KeyAction `yaml:"double_tap,omitempty"`
	LongPress *KeyAction `yaml:"long_press,omitempty"`
}

// Contains reports whether the point x, y lies inside the zone
func (z Zone) Contains(x, y float64) bool {
	return x >= float64(z.X) && x < float64(z.X+z.Width) &&
		y >= float64(z.Y) && y < float64(z.Y+z.Height)
}

type DisplayConfig struct {
	Width            int             `yaml:"width"`
	Height           int             `yaml:"height"`
	UpdateIntervalMs int             `yaml:"update_interval_ms"`
	Regions          []DisplayRegion `yaml:"regions,omitempty"`
}

type DisplayRegion struct {
	Name    string `yaml:"name"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Source  string `yaml:"source"`
	Content string `yaml:"content,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validateTiming(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Device.VendorID == 0 {
		return fmt.Errorf("device.vendor_id is required")
	}
	if c.Device.ProductID == 0 {
		return fmt.Errorf("device.product_id is required")
	}
	if c.TUI.Command == "" {
		return fmt.Errorf("tui.command is required")
	}
	if c.Surface.Width < 0 || c.Surface.Height < 0 {
		return fmt.Errorf("surface size must not be negative")
	}

	seen := make(map[string]bool)
	for i, zone := range c.Zones {
		if zone.Name == "" {
			return fmt.Errorf("zone %d must have a name", i)
		}
		if seen[zone.Name] {
			return fmt.Errorf("duplicate zone name: %s", zone.Name)
		}
		seen[zone.Name] = true
		if zone.Width <= 0 || zone.Height <= 0 {
			return fmt.Errorf("zone %s must have a positive size", zone.Name)
		}
	}

	for _, region := range c.Display.Regions {
		switch region.Source {
		case "static", "tui_status", "gesture", "system":
		default:
			return fmt.Errorf("display region %s: unknown source %q", region.Name, region.Source)
		}
	}

	return nil
}

func (c *Config) validateTiming() error {
	t := c.Timing
	if t.LongPressTimeoutMs < 0 || t.DoubleTapTimeoutMs < 0 || t.TapTimeoutMs < 0 {
		return fmt.Errorf("timing timeouts must not be negative")
	}
	if t.TapTimeoutMs > t.LongPressTimeoutMs {
		return fmt.Errorf("timing.tap_timeout_ms (%d) must not exceed timing.long_press_timeout_ms (%d)",
			t.TapTimeoutMs, t.LongPressTimeoutMs)
	}
	if t.TouchSlopPx < 0 || t.DoubleTapSlopPx < 0 {
		return fmt.Errorf("timing slop values must not be negative")
	}
	if t.MinFlingVelocity > t.MaxFlingVelocity {
		return fmt.Errorf("timing.min_fling_velocity must not exceed timing.max_fling_velocity")
	}
	if t.MinFlingVelocity < 0 {
		return fmt.Errorf("timing.min_fling_velocity must not be negative")
	}
	if t.ScrollStep < 0 || t.ScrollStep > 1 {
		return fmt.Errorf("timing.scroll_step must be a fraction of the surface (0, 1]")
	}
	if c.Kinetic.DurationMs < 0 || c.Kinetic.TickMs < 0 {
		return fmt.Errorf("kinetic.duration_ms and kinetic.tick_ms must not be negative")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Device.PollIntervalMs == 0 {
		c.Device.PollIntervalMs = 10
	}
	if c.Surface.Width == 0 {
		c.Surface.Width = 1024
	}
	if c.Surface.Height == 0 {
		c.Surface.Height = 768
	}
	if c.Surface.ReportRateHz == 0 {
		c.Surface.ReportRateHz = 100
	}
	if c.Timing.LongPressTimeoutMs == 0 {
		c.Timing.LongPressTimeoutMs = 500
	}
	if c.Timing.DoubleTapTimeoutMs == 0 {
		c.Timing.DoubleTapTimeoutMs = 300
	}
	if c.Timing.TapTimeoutMs == 0 {
		c.Timing.TapTimeoutMs = 100
	}
	if c.Timing.TouchSlopPx == 0 {
		c.Timing.TouchSlopPx = 8
	}
	if c.Timing.DoubleTapSlopPx == 0 {
		c.Timing.DoubleTapSlopPx = 100
	}
	if c.Timing.MaxFlingVelocity == 0 {
		c.Timing.MaxFlingVelocity = 8000
	}
	if c.Timing.MinFlingVelocity == 0 {
		c.Timing.MinFlingVelocity = 50
	}
	if c.Timing.ScrollStep == 0 {
		c.Timing.ScrollStep = 0.1
	}
	if c.Kinetic.DurationMs == 0 {
		c.Kinetic.DurationMs = 600
	}
	if c.Kinetic.TickMs == 0 {
		c.Kinetic.TickMs = 30
	}
	if c.Kinetic.Ease == "" {
		c.Kinetic.Ease = "out_cubic"
	}
	if c.Display.Width == 0 {
		c.Display.Width = 128
	}
	if c.Display.Height == 0 {
		c.Display.Height = 64
	}
	if c.Display.UpdateIntervalMs == 0 {
		c.Display.UpdateIntervalMs = 100
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// UpdateDeviceIDs updates the vendor_id and product_id in a config file
// while preserving the rest of the file structure and comments
func UpdateDeviceIDs(path string, vendorID, productID uint16) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content := string(data)

	// vendor_id: 0x1234 or vendor_id: 1234
	vendorRegex := regexp.MustCompile(`(?m)^(\s*vendor_id:\s*)(?:0x[0-9A-Fa-f]+|\d+)`)
	content = vendorRegex.ReplaceAllString(content, fmt.Sprintf("${1}0x%04X", vendorID))

	productRegex := regexp.MustCompile(`(?m)^(\s*product_id:\s*)(?:0x[0-9A-Fa-f]+|\d+)`)
	content = productRegex.ReplaceAllString(content, fmt.Sprintf("${1}0x%04X", productID))

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateDefaultConfig creates a new config file with default values and the specified device
func CreateDefaultConfig(path string, vendorID, productID uint16) error {
	content := fmt.Sprintf(`# Camel Touch Configuration

device:
  vendor_id: 0x%04X
  product_id: 0x%04X
  poll_interval_ms: 10

surface:
  width: 1024
  height: 768
  report_rate_hz: 100

timing:
  long_press_timeout_ms: 500
  double_tap_timeout_ms: 300
  tap_timeout_ms: 100
  touch_slop_px: 8
  double_tap_slop_px: 100
  max_fling_velocity: 8000
  min_fling_velocity: 50
  scroll_step: 0.1

kinetic:
  enabled: true
  duration_ms: 600

tui:
  command: "your-tui-app"
  args: []

gestures:
  tap:
    keys: ["enter"]
  double_tap:
    keys: ["space"]
  long_press:
    keys: ["esc"]
  scroll:
    up: {keys: ["up"]}
    down: {keys: ["down"]}
  fling:
    left: {keys: ["pageup"]}
    right: {keys: ["pagedown"]}

display:
  width: 128
  height: 64
  update_interval_ms: 100

logging:
  level: info
  format: text
`, vendorID, productID)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// Exists checks if a config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
