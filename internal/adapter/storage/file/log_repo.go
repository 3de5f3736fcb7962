package file

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"mockpay/internal/adapter/storage/memory"
	"mockpay/internal/core/domain"
)

// LogRepo implements ports.LogRepository as an append-only JSON-lines file.
// The file is compacted down to the retained entries once it holds twice
// the capacity.
type LogRepo struct {
	mem      *memory.LogRepo
	capacity int

	mu    sync.Mutex
	path  string
	file  *os.File
	lines int
}

func openLogRepo(path string, capacity int) (*LogRepo, error) {
	if capacity <= 0 {
		capacity = memory.DefaultLogCapacity
	}
	entries, err := readLogLines(path)
	if err != nil {
		return nil, err
	}

	r := &LogRepo{mem: memory.NewLogRepo(capacity), capacity: capacity, path: path}
	r.mem.Load(entries)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.compactLocked(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *LogRepo) Create(ctx context.Context, entry *domain.LogEntry) error {
	if err := r.mem.Create(ctx, entry); err != nil {
		return err
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal log entry: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return errors.New("log file closed")
	}
	if _, err := r.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append log entry: %w", err)
	}
	r.lines++
	if r.lines >= 2*r.capacity {
		return r.compactLocked()
	}
	return nil
}

func (r *LogRepo) List(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	return r.mem.List(ctx, limit)
}

func (r *LogRepo) DeleteAll(ctx context.Context) error {
	if err := r.mem.DeleteAll(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.compactLocked()
}

// Close releases the file handle. Later writes fail.
func (r *LogRepo) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// compactLocked rewrites the file with the retained entries and reopens it
// for appending.
func (r *LogRepo) compactLocked() error {
	entries, err := r.mem.List(context.Background(), 0)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range entries {
		if err := enc.Encode(&entries[i]); err != nil {
			return fmt.Errorf("marshal log entry: %w", err)
		}
	}

	if r.file != nil {
		_ = r.file.Close()
		r.file = nil
	}
	if err := writeAtomic(r.path, buf.Bytes()); err != nil {
		return err
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	r.file = f
	r.lines = len(entries)
	return nil
}

// readLogLines skips lines that do not parse, such as a torn final write.
func readLogLines(path string) ([]domain.LogEntry, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	var entries []domain.LogEntry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var e domain.LogEntry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}
	return entries, nil
}
