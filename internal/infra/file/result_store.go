package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"quiz-runner/internal/domain"
)

// ResultStore appends session results to a pretty-printed JSON array on disk.
// The whole log is rewritten on every append through a temp file and a rename,
// so a failed write leaves the previous log intact. A single writer is assumed.
type ResultStore struct {
	path string
	mu   sync.Mutex
}

func NewResultStore(path string) *ResultStore {
	return &ResultStore{path: path}
}

func (s *ResultStore) Path() string {
	return s.path
}

// Append adds entry to the configured log.
func (s *ResultStore) Append(ctx context.Context, entry domain.ResultEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return AppendTo(s.path, entry)
}

// List returns every entry in the configured log, oldest first.
func (s *ResultStore) List() ([]domain.ResultEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := readLog(s.path)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.ResultEntry, 0, len(raw))
	for i, msg := range raw {
		var entry domain.ResultEntry
		if err := json.Unmarshal(msg, &entry); err != nil {
			return nil, &domain.CorruptLogError{Path: s.path, Err: fmt.Errorf("entry %d: %w", i, err)}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// AppendTo adds entry to the log at path. A missing or empty log starts a new
// one; prior entries are carried over untouched.
func AppendTo(path string, entry domain.ResultEntry) error {
	entries, err := readLog(path)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	entries = append(entries, encoded)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result log: %w", err)
	}
	return writeAtomic(path, append(data, '\n'))
}

func readLog(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read result log %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] != '[' {
		return nil, &domain.CorruptLogError{Path: path, Err: errors.New("not a JSON array")}
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, &domain.CorruptLogError{Path: path, Err: err}
	}
	// Entries are carried over byte for byte, but each must still be a result.
	for i, msg := range entries {
		if err := checkEntry(msg); err != nil {
			return nil, &domain.CorruptLogError{Path: path, Err: fmt.Errorf("entry %d: %w", i, err)}
		}
	}
	return entries, nil
}

func checkEntry(msg json.RawMessage) error {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errors.New("not a JSON object")
	}
	var entry domain.ResultEntry
	return json.Unmarshal(trimmed, &entry)
}

func writeAtomic(path string, data []byte) (err error) {
	mode := fs.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp result log: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write result log: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync result log: %w", err)
	}
	if err = tmp.Chmod(mode); err != nil {
		return fmt.Errorf("chmod result log: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close result log: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace result log: %w", err)
	}
	return nil
}
