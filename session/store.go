// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Store is a flat string key/value store.
//
// Implementations must be concurrently safe.
type Store interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any existing value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key.  Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// MemoryStore is an in memory Store.  The zero value is ready to use.
type MemoryStore struct {
	m sync.Mutex
	c map[string]string
}

// ensure that MemoryStore implements the Store interface
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: map[string]string{}}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.m.Lock()
	defer s.m.Unlock()
	v, ok := s.c[key]
	return v, ok, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	const op = "session.(MemoryStore).Set"
	if key == "" {
		return fmt.Errorf("%s: key is empty: %w", op, ErrInvalidParameter)
	}
	s.m.Lock()
	defer s.m.Unlock()
	if s.c == nil {
		s.c = map[string]string{}
	}
	s.c[key] = value
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.m.Lock()
	defer s.m.Unlock()
	delete(s.c, key)
	return nil
}

// FileStore is a Store kept in a single JSON file, rewritten on every change.
type FileStore struct {
	m    sync.Mutex
	path string
}

// ensure that FileStore implements the Store interface
var _ Store = (*FileStore)(nil)

// NewFileStore returns a FileStore backed by path.  The file is created on
// the first Set.
func NewFileStore(path string) (*FileStore, error) {
	const op = "session.NewFileStore"
	if path == "" {
		return nil, fmt.Errorf("%s: path is empty: %w", op, ErrInvalidParameter)
	}
	return &FileStore{path: path}, nil
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	const op = "session.(FileStore).Get"
	s.m.Lock()
	defer s.m.Unlock()
	c, err := s.load()
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	v, ok := c[key]
	return v, ok, nil
}

// Set implements Store.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	const op = "session.(FileStore).Set"
	if key == "" {
		return fmt.Errorf("%s: key is empty: %w", op, ErrInvalidParameter)
	}
	s.m.Lock()
	defer s.m.Unlock()
	c, err := s.load()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c[key] = value
	if err := s.save(c); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete implements Store.
func (s *FileStore) Delete(_ context.Context, key string) error {
	const op = "session.(FileStore).Delete"
	s.m.Lock()
	defer s.m.Unlock()
	c, err := s.load()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, ok := c[key]; !ok {
		return nil
	}
	delete(c, key)
	if err := s.save(c); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *FileStore) load() (map[string]string, error) {
	c := map[string]string{}
	b, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("unable to read %s: %w", s.path, err)
	}
	if len(b) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", s.path, err)
	}
	return c, nil
}

func (s *FileStore) save(c map[string]string) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode store: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp")
	if err != nil {
		return fmt.Errorf("unable to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("unable to replace %s: %w", s.path, err)
	}
	return nil
}
