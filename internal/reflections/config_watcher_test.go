package reflections

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigWatcherReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reflections.yaml")
	if err := SaveConfig(path, PerformanceConfig()); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	var got []Config
	w, err := NewConfigWatcher(path, func(c Config) error {
		got = append(got, c)
		return nil
	})
	if err != nil {
		t.Fatalf("NewConfigWatcher failed: %v", err)
	}
	defer w.Close()

	if err := w.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if len(got) != 1 || got[0].DownsamplingFactor != 2 {
		t.Errorf("Unexpected applied configs %+v", got)
	}

	os.WriteFile(path, []byte("downsamplingFactor: 0\n"), 0o644)
	if err := w.Reload(); err == nil {
		t.Error("Invalid file should be rejected")
	}
	if len(got) != 1 {
		t.Error("Rejected config should not be applied")
	}
}

func TestConfigWatcherFeedsFeature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reflections.json")
	SaveConfig(path, DefaultConfig())

	applied := make(chan Config, 4)
	w, err := NewConfigWatcher(path, func(c Config) error {
		applied <- c
		return nil
	})
	if err != nil {
		t.Fatalf("NewConfigWatcher failed: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// unrelated files in the same directory are ignored
	SaveConfig(filepath.Join(filepath.Dir(path), "other.json"), PerformanceConfig())
	SaveConfig(path, HighQualityConfig())

	timeout := time.After(5 * time.Second)
	for {
		select {
		case c := <-applied:
			if c.DownsamplingFactor == 2 {
				t.Fatal("Events for other files should be ignored")
			}
			if c.PrimaryRayCount == 16 {
				return
			}
		case <-timeout:
			t.Fatal("Timed out waiting for the config reload")
		}
	}
}
