package action

import (
	"fmt"
	"sync"

	"github.com/pleimann/camel-touch/internal/config"
	"github.com/pleimann/camel-touch/internal/gesture"
)

// Mapper maps gestures to key sequences based on configuration.
// Zone bindings take precedence over surface-wide ones.
type Mapper struct {
	mu       sync.RWMutex
	global   map[string][]string            // gesture.Key() -> keys
	zoneKeys map[string]map[string][]string // zone -> gesture.Key() -> keys
}

// NewMapper creates a new action mapper from configuration
func NewMapper(cfg *config.Config) *Mapper {
	m := &Mapper{}
	m.global, m.zoneKeys = build(cfg)
	return m
}

func build(cfg *config.Config) (map[string][]string, map[string]map[string][]string) {
	global := make(map[string][]string)
	zones := make(map[string]map[string][]string)

	b := cfg.Gestures
	bind(global, gesture.GestureTap.String(), b.Tap)
	bind(global, gesture.GestureDoubleTap.String(), b.DoubleTap)
	bind(global, gesture.GestureLongPress.String(), b.LongPress)
	bindDirectional(global, gesture.GestureScroll, b.Scroll)
	bindDirectional(global, gesture.GestureFling, b.Fling)

	for _, z := range cfg.Zones {
		keys := make(map[string][]string)
		bind(keys, gesture.GestureTap.String(), z.Tap)
		bind(keys, gesture.GestureDoubleTap.String(), z.DoubleTap)
		bind(keys, gesture.GestureLongPress.String(), z.LongPress)
		if len(keys) > 0 {
			zones[z.Name] = keys
		}
	}

	return global, zones
}

func bind(m map[string][]string, key string, a *config.KeyAction) {
	if a != nil && len(a.Keys) > 0 {
		m[key] = a.Keys
	}
}

func bindDirectional(m map[string][]string, t gesture.GestureType, d config.DirectionalKeys) {
	for dir, a := range map[gesture.Direction]*config.KeyAction{
		gesture.DirectionUp:    d.Up,
		gesture.DirectionDown:  d.Down,
		gesture.DirectionLeft:  d.Left,
		gesture.DirectionRight: d.Right,
	} {
		bind(m, gesture.Gesture{Type: t, Direction: dir}.Key(), a)
	}
}

// Map returns the key sequence for a gesture, or nil if not mapped
func (m *Mapper) Map(g gesture.Gesture) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := g.Key()
	if g.Zone != "" {
		if keys, ok := m.zoneKeys[g.Zone][key]; ok {
			return keys
		}
	}
	return m.global[key]
}

// Reload updates the mapper with new configuration
func (m *Mapper) Reload(cfg *config.Config) {
	global, zones := build(cfg)

	m.mu.Lock()
	m.global, m.zoneKeys = global, zones
	m.mu.Unlock()
}

// Validate checks that every bound key string parses
func Validate(cfg *config.Config) error {
	global, zones := build(cfg)
	for name, keys := range global {
		if err := ValidateKeys(keys); err != nil {
			return fmt.Errorf("gestures.%s: %w", name, err)
		}
	}
	for zone, bindings := range zones {
		for name, keys := range bindings {
			if err := ValidateKeys(keys); err != nil {
				return fmt.Errorf("zone %s %s: %w", zone, name, err)
			}
		}
	}
	return nil
}
