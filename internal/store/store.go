// Package store persists session values as one JSON file per key.
package store

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// Keys used by the session.
const (
	KeyCourses         = "courses"
	KeyPreviousCGPA    = "previousCgpa"
	KeyPreviousCredits = "previousCredits"
	KeyTheme           = "theme"
)

// Keys lists every key the store manages.
var Keys = []string{KeyCourses, KeyPreviousCGPA, KeyPreviousCredits, KeyTheme}

var (
	// ErrNotFound is returned when a key has never been written.
	ErrNotFound = errors.New("key not found")
	// ErrCorrupt is returned when an entry cannot be trusted.
	ErrCorrupt = errors.New("corrupt entry")
)

// Store is a file-backed key/value store.
type Store struct {
	dir string

	mu           sync.Mutex
	fingerprints map[string]uint64
}

// Entry is the on-disk envelope around a stored value.
type Entry struct {
	Hash      string          `json:"hash"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{
		dir:          dir,
		fingerprints: make(map[string]uint64),
	}, nil
}

// Dir returns the directory holding the entries.
func (s *Store) Dir() string {
	return s.dir
}

// HashBytes computes a BLAKE3 hash of bytes and returns it as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Get returns the value stored under key. A missing entry yields
// ErrNotFound; an unreadable or tampered one yields ErrCorrupt.
func (s *Store) Get(key string) ([]byte, error) {
	raw, err := os.ReadFile(s.keyPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", key, ErrCorrupt, err)
	}
	if len(entry.Data) == 0 || entry.Hash != HashBytes(entry.Data) {
		return nil, fmt.Errorf("%s: %w: hash mismatch", key, ErrCorrupt)
	}

	s.mu.Lock()
	s.fingerprints[key] = xxhash.Sum64(entry.Data)
	s.mu.Unlock()

	return entry.Data, nil
}

// Set stores a JSON value under key. It reports whether the file was
// written; an unchanged value already on disk is skipped.
func (s *Store) Set(key string, data []byte) (bool, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return false, fmt.Errorf("%s: value is not JSON: %w", key, err)
	}
	value := buf.Bytes()
	fp := xxhash.Sum64(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.keyPath(key)
	if prev, ok := s.fingerprints[key]; ok && prev == fp {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}

	entry := Entry{
		Hash:      HashBytes(value),
		Timestamp: time.Now().UTC(),
		Data:      value,
	}
	entryData, err := json.Marshal(entry)
	if err != nil {
		return false, err
	}

	// Write through a temp file so readers never see half an entry.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, entryData, 0600); err != nil {
		return false, err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return false, err
	}

	s.fingerprints[key] = fp
	return true, nil
}

// GetJSON decodes the value under key into v.
func (s *Store) GetJSON(key string, v any) error {
	data, err := s.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w: %v", key, ErrCorrupt, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func (s *Store) SetJSON(key string, v any) (bool, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	return s.Set(key, data)
}

// Delete removes an entry. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	delete(s.fingerprints, key)
	s.mu.Unlock()

	if err := os.Remove(s.keyPath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// KeyForPath maps an entry file back to its key, or "" for foreign files.
func KeyForPath(path string) string {
	base := filepath.Base(path)
	for _, key := range Keys {
		if base == key+".json" {
			return key
		}
	}
	return ""
}

func (s *Store) keyPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Stats describes the entries on disk.
type Stats struct {
	Entries   int       `json:"entries"`
	TotalSize int64     `json:"total_size"`
	Updated   time.Time `json:"updated"`
}

// GetStats returns statistics about the stored entries.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}
	for _, key := range Keys {
		info, err := os.Stat(s.keyPath(key))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		stats.Entries++
		stats.TotalSize += info.Size()
		if info.ModTime().After(stats.Updated) {
			stats.Updated = info.ModTime()
		}
	}
	return stats, nil
}
