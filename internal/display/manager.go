package display

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pleimann/camel-touch/internal/config"
	"github.com/pleimann/camel-touch/internal/gesture"
	"github.com/pleimann/camel-touch/internal/hid"
)

// Region sources
const (
	SourceStatic    = "static"
	SourceTUIStatus = "tui_status"
	SourceGesture   = "gesture"
	SourceSystem    = "system"
)

// DeviceWriter is the interface for sending frames to the device
type DeviceWriter interface {
	SendFrame(frame *hid.DisplayFrame) error
}

// StatusSource supplies the text shown in tui_status regions
type StatusSource interface {
	StatusLine() string
}

// Manager manages the OLED display, orchestrating rendering and updates
type Manager struct {
	config   config.DisplayConfig
	surface  config.SurfaceConfig
	device   DeviceWriter
	logger   *slog.Logger
	renderer *Renderer
	encoder  *FrameEncoder
	now      func() time.Time

	mu      sync.Mutex
	regions []*regionState
	last    []byte // bitmap most recently sent
	lastG   *gesture.Gesture
	cancel  context.CancelFunc
	done    chan struct{}
}

type regionState struct {
	config  config.DisplayRegion
	content string
	dirty   bool
}

// NewManager creates a new display manager. surface is used to place the
// touch marker in gesture regions.
func NewManager(cfg config.DisplayConfig, surface config.SurfaceConfig, device DeviceWriter, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		config:   cfg,
		surface:  surface,
		device:   device,
		logger:   logger.With("component", "display"),
		renderer: NewRenderer(cfg.Width, cfg.Height),
		encoder:  NewFrameEncoder(cfg.Width, cfg.Height),
		now:      time.Now,
	}

	for _, rc := range cfg.Regions {
		m.regions = append(m.regions, &regionState{
			config:  rc,
			content: rc.Content,
			dirty:   true,
		})
	}

	return m
}

// Start starts the display update loop. status may be nil.
func (m *Manager) Start(ctx context.Context, status StatusSource) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	m.mu.Lock()
	m.cancel = cancel
	m.done = done
	m.mu.Unlock()

	interval := time.Duration(m.config.UpdateIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.update(status)
			}
		}
	}()
}

// Stop stops the display update loop and clears the screen
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	if err := m.device.SendFrame(m.encoder.EncodeClear()); err != nil {
		m.logger.Debug("failed to clear display", "error", err)
	}
}

// SetRegionContent sets the content of a named region
func (m *Manager) SetRegionContent(name, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.regions {
		if r.config.Name == name {
			r.set(content)
		}
	}
}

// ShowGesture updates gesture regions with the latest recognized gesture
func (m *Manager) ShowGesture(g gesture.Gesture) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastG = &g
	m.setSource(SourceGesture, g.String())
}

func (m *Manager) setSource(source, content string) {
	for _, r := range m.regions {
		if r.config.Source == source {
			r.set(content)
		}
	}
}

func (r *regionState) set(content string) {
	if r.content != content {
		r.content = content
		r.dirty = true
	}
}

// ForceRefresh redraws every region and resends the whole screen on the
// next update
func (m *Manager) ForceRefresh() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.regions {
		r.dirty = true
	}
	m.last = nil
}

// update performs a display update cycle
func (m *Manager) update(status StatusSource) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if status != nil {
		if line := status.StatusLine(); line != "" {
			m.setSource(SourceTUIStatus, line)
		}
	}
	m.setSource(SourceSystem, m.now().Format("15:04"))

	dirty := false
	for _, r := range m.regions {
		if r.dirty {
			m.renderer.ClearRect(r.config.X, r.config.Y, r.config.Width, r.config.Height)
			m.renderRegion(r)
			r.dirty = false
			dirty = true
		}
	}
	if !dirty {
		return
	}

	bitmap := m.renderer.Bitmap()
	frames := m.encoder.ChangedChunks(m.last, bitmap)
	for _, frame := range frames {
		if err := m.device.SendFrame(frame); err != nil {
			m.logger.Warn("failed to send display frame", "y", frame.Y, "error", err)
			// resend everything next time
			for _, r := range m.regions {
				r.dirty = true
			}
			m.last = nil
			return
		}
	}
	m.last = bitmap
}

// renderRegion renders a single region to the frame buffer
func (m *Manager) renderRegion(r *regionState) {
	cfg := r.config
	lh := m.renderer.LineHeight()
	baseline := cfg.Y + m.renderer.Ascent()

	switch cfg.Source {
	case SourceStatic, SourceTUIStatus:
		m.renderer.DrawTextWrapped(cfg.X+2, baseline, cfg.Width-4, cfg.Height/lh, r.content)

	case SourceSystem:
		m.renderer.DrawText(cfg.X+2, baseline, r.content)

	case SourceGesture:
		m.renderer.DrawText(cfg.X+2, baseline, r.content)
		if m.lastG != nil && m.surface.Width > 0 && m.surface.Height > 0 && cfg.Height > lh {
			// touch marker below the label, scaled from surface coordinates
			top := cfg.Y + lh
			px := cfg.X + int(m.lastG.X/float64(m.surface.Width)*float64(cfg.Width-1))
			py := top + int(m.lastG.Y/float64(m.surface.Height)*float64(cfg.Y+cfg.Height-1-top))
			m.renderer.DrawCross(px, py, 2)
		}
	}
}
