package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// Runtime is what `mockpay start` records about the detached server.
type Runtime struct {
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"startedAt"`
	DataDir   string    `json:"dataDir"`
}

// ReadRuntime returns nil, nil when no runtime file exists.
func ReadRuntime(path string) (*Runtime, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read runtime: %w", err)
	}
	var rt Runtime
	if err := json.Unmarshal(b, &rt); err != nil {
		return nil, fmt.Errorf("decode runtime: %w", err)
	}
	return &rt, nil
}

func WriteRuntime(path string, rt Runtime) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create runtime dir: %w", err)
	}
	b, err := json.MarshalIndent(rt, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// ClearRuntime removes the runtime file; a missing file is not an error.
func ClearRuntime(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear runtime: %w", err)
	}
	return nil
}

// pidRunning probes pid with signal 0.
func pidRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}
