// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package seedlist persists the user's collection of seed strings and tracks
// which seed is currently active. It has no knowledge of the seed wire
// format; entries are opaque strings validated only when a caller decodes
// them.
package seedlist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/seedkit/seedkit/utils/logging"
	"github.com/seedkit/seedkit/utils/perms"
)

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemStore)(nil)

	errEmptyEntry = errors.New("empty seed list entry")
)

// Store supplies candidate seed strings and accepts new ones. Entries are
// not guaranteed to be valid seeds.
type Store interface {
	// Load returns the stored entries in order.
	Load() ([]string, error)

	// Append stores a new entry. Appending an entry already present is a
	// no-op.
	Append(entry string) error
}

// FileStore keeps one seed string per line in a plain text file, so users
// can edit the list with any text editor.
type FileStore struct {
	lock sync.Mutex
	path string
	log  logging.Logger
}

func NewFileStore(path string, log logging.Logger) *FileStore {
	return &FileStore{
		path: path,
		log:  log,
	}
}

// Load reads the list, skipping blank lines and stripping surrounding
// whitespace. A missing file is an empty list; it is created on the first
// Append.
func (s *FileStore) Load() ([]string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	content, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("couldn't read seed list %q: %w", s.path, err)
	}
	return splitEntries(string(content)), nil
}

// Append adds [entry] to the end of the list unless it is already present.
func (s *FileStore) Append(entry string) error {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return errEmptyEntry
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), perms.ReadWriteExecute); err != nil {
		return fmt.Errorf("couldn't create seed list directory: %w", err)
	}

	content, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("couldn't read seed list %q: %w", s.path, err)
	}

	for _, existing := range splitEntries(string(content)) {
		if existing == entry {
			s.log.Debug("seed already stored",
				zap.String("seed", entry),
			)
			return nil
		}
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, perms.ReadWrite)
	if err != nil {
		return fmt.Errorf("couldn't open seed list %q: %w", s.path, err)
	}
	defer file.Close()

	// Users edit this file by hand; tolerate a missing final newline.
	line := entry + "\n"
	if len(content) > 0 && content[len(content)-1] != '\n' {
		line = "\n" + line
	}
	if _, err := file.WriteString(line); err != nil {
		return fmt.Errorf("couldn't append to seed list %q: %w", s.path, err)
	}

	s.log.Info("stored seed",
		zap.String("seed", entry),
		zap.String("path", s.path),
	)
	return nil
}

// MemStore is an in-memory Store for tests and ephemeral use.
type MemStore struct {
	lock    sync.Mutex
	entries []string
}

func (s *MemStore) Load() ([]string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	entries := make([]string, len(s.entries))
	copy(entries, s.entries)
	return entries, nil
}

func (s *MemStore) Append(entry string) error {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return errEmptyEntry
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	for _, existing := range s.entries {
		if existing == entry {
			return nil
		}
	}
	s.entries = append(s.entries, entry)
	return nil
}

func splitEntries(content string) []string {
	var entries []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			entries = append(entries, line)
		}
	}
	return entries
}
