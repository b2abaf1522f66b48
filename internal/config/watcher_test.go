package config

import (
	"os"
	"testing"
	"time"

	"github.com/pleimann/camel-touch/internal/logging"
)

func TestWatcherReload(t *testing.T) {
	path := writeConfig(t, minimalConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	reloaded := make(chan *Config, 8)
	w.OnReload(func(c *Config) { reloaded <- c })
	w.Start()
	defer w.Stop()

	// an invalid file keeps the last good config
	if err := os.WriteFile(path, []byte("device: [broken"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if w.Get() != cfg {
		t.Fatal("invalid config replaced the current one")
	}

	updated := minimalConfig + "\ntiming:\n  touch_slop_px: 20\n"
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatal(err)
	}

	// a write can be observed half done, so wait for the final content
	timeout := time.After(2 * time.Second)
	for {
		select {
		case c := <-reloaded:
			if c.Timing.TouchSlopPx != 20 {
				continue
			}
			if got := w.Get().Timing.TouchSlopPx; got != 20 {
				t.Errorf("Get().Timing.TouchSlopPx = %v, want 20", got)
			}
			return
		case <-timeout:
			t.Fatal("no reload after the config file changed")
		}
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	path := writeConfig(t, minimalConfig)
	w, err := NewWatcher(path, &Config{}, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.Start()
	w.Stop()
	w.Stop()
}
