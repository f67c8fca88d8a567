//go:build profile

package prof

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStart_CPUAndHeap(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		CPU:  filepath.Join(dir, "cpu.prof"),
		Heap: filepath.Join(dir, "heap.prof"),
	}

	stop, err := Start(cfg)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !Active() {
		t.Error("Active() = false during session")
	}

	if _, err := Start(cfg); !errors.Is(err, ErrActive) {
		t.Errorf("second Start() error = %v, want %v", err, ErrActive)
	}

	stop()
	stop()
	if Active() {
		t.Error("Active() = true after stop")
	}

	for _, path := range []string{cfg.CPU, cfg.Heap} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", path)
		}
	}
}

func TestStart_InvalidPath(t *testing.T) {
	_, err := Start(Config{CPU: "/nonexistent/directory/cpu.prof"})
	if err == nil {
		t.Fatal("Start() error = nil, want error for invalid path")
	}
	if Active() {
		t.Error("failed Start left a session active")
	}
}

func TestWrite(t *testing.T) {
	tests := []string{"heap", "allocs", "goroutine", "threadcreate", "block", "mutex"}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name+".prof")
			if err := Write(name, path); err != nil {
				t.Fatalf("Write(%s) error = %v", name, err)
			}
			if info, err := os.Stat(path); err != nil || info.Size() == 0 {
				t.Errorf("Write(%s) produced no data (err=%v)", name, err)
			}
		})
	}
}

func TestWrite_InvalidProfile(t *testing.T) {
	err := Write("nonexistent", filepath.Join(t.TempDir(), "x.prof"))
	if !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("Write() error = %v, want %v", err, ErrInvalidProfile)
	}
}
