// Package file keeps the ledger, settings and logs under the data directory
// so a restarted server picks up where the previous one stopped. Reads are
// served from the memory stores; every write is flushed to disk before it
// returns.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"mockpay/internal/adapter/storage/memory"
	"mockpay/internal/core/domain"

	"github.com/rs/zerolog"
)

const (
	settingsFile     = "settings.json"
	transactionsFile = "transactions.json"
	transfersFile    = "transfers.json"
	webhooksFile     = "webhooks.json"
	logsFile         = "logs.jsonl"
)

// Store bundles the file-backed repositories rooted at one directory.
type Store struct {
	Settings     *SettingsStore
	Transactions *TransactionRepo
	Transfers    *TransferRepo
	Webhooks     *WebhookRepo
	Logs         *LogRepo

	dir string
}

// Open creates dir if needed and loads whatever a previous run left there.
func Open(dir string, logCapacity int, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{
		dir:          dir,
		Settings:     &SettingsStore{mem: memory.NewSettingsStore(), file: newJSONFile(dir, settingsFile)},
		Transactions: &TransactionRepo{mem: memory.NewTransactionRepo(), file: newJSONFile(dir, transactionsFile)},
		Transfers:    &TransferRepo{mem: memory.NewTransferRepo(), file: newJSONFile(dir, transfersFile)},
		Webhooks:     &WebhookRepo{mem: memory.NewWebhookRepo(), file: newJSONFile(dir, webhooksFile)},
	}
	if err := s.load(); err != nil {
		return nil, err
	}

	logs, err := openLogRepo(filepath.Join(dir, logsFile), logCapacity)
	if err != nil {
		return nil, err
	}
	s.Logs = logs

	log.Info().
		Str("dir", dir).
		Int("transactions", len(s.Transactions.mem.Snapshot())).
		Int("webhooks", len(s.Webhooks.mem.Snapshot())).
		Msg("File storage opened")
	return s, nil
}

func (s *Store) load() error {
	settings := map[string][]byte{}
	if err := s.Settings.file.load(&settings); err != nil {
		return err
	}
	s.Settings.mem.Load(settings)

	var txns []domain.Transaction
	if err := s.Transactions.file.load(&txns); err != nil {
		return err
	}
	s.Transactions.mem.Load(txns)

	var transfers []domain.Transfer
	if err := s.Transfers.file.load(&transfers); err != nil {
		return err
	}
	s.Transfers.mem.Load(transfers)

	var deliveries []domain.WebhookDelivery
	if err := s.Webhooks.file.load(&deliveries); err != nil {
		return err
	}
	s.Webhooks.mem.Load(deliveries)
	return nil
}

// Close releases the log file.
func (s *Store) Close() error {
	if s.Logs == nil {
		return nil
	}
	return s.Logs.Close()
}

// HealthCheck reports whether the data directory is still reachable.
func (s *Store) HealthCheck() *HealthCheck {
	return &HealthCheck{dir: s.dir}
}

// HealthCheck implements ports.HealthChecker for the file store.
type HealthCheck struct {
	dir string
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	info, err := os.Stat(h.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", h.dir)
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "file"
}

// jsonFile is one collection persisted as a single JSON document.
type jsonFile struct {
	mu   sync.Mutex
	path string
}

func newJSONFile(dir, name string) *jsonFile {
	return &jsonFile{path: filepath.Join(dir, name)}
}

// load leaves v untouched when the file is missing or empty.
func (f *jsonFile) load(v interface{}) error {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(f.path), err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(f.path), err)
	}
	return nil
}

// save takes the snapshot under the file lock, so whichever writer goes
// last writes the newest state.
func (f *jsonFile) save(snapshot func() interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(f.path), err)
	}
	return writeAtomic(f.path, data)
}

// writeAtomic writes through a temp file so a crash never leaves a torn file.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
