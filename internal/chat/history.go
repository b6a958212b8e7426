package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	historyDir  = ".vulnai"
	historyFile = "transcript.json"
)

// maxPersistedExchanges bounds the audit log on disk.
const maxPersistedExchanges = 1000

// HistoryPath returns the transcript audit-log path, creating
// ~/.vulnai if needed.
func HistoryPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	dir := filepath.Join(homeDir, historyDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating state directory: %w", err)
	}

	return filepath.Join(dir, historyFile), nil
}

// SaveHistory persists the transcript to path with an atomic write
// (temp file + rename) under a file lock, so concurrent console
// instances cannot interleave partial writes. Only the newest
// maxPersistedExchanges entries are kept.
func SaveHistory(path string, exchanges []Exchange) error {
	if len(exchanges) > maxPersistedExchanges {
		exchanges = exchanges[len(exchanges)-maxPersistedExchanges:]
	}

	data, err := json.MarshalIndent(exchanges, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding transcript: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking transcript: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing transcript: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing transcript: %w", err)
	}
	return nil
}

// LoadHistory reads a persisted transcript. A missing file returns an
// empty transcript; that is not an error.
func LoadHistory(path string) ([]Exchange, error) {
	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("locking transcript: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading transcript: %w", err)
	}

	var exchanges []Exchange
	if err := json.Unmarshal(data, &exchanges); err != nil {
		return nil, fmt.Errorf("decoding transcript: %w", err)
	}
	return exchanges, nil
}
