// Package content manages local editorial overrides of home page sections.
// Each override is a JSON object stored as <section>.json in one directory.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/nfrund/propertyhub/internal/domain"
)

const ext = ".json"

// Store reads and writes override files through an afero filesystem.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(fsys afero.Fs, dir string) *Store {
	return &Store{fs: fsys, dir: dir}
}

// Dir returns the override directory.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads every override. A missing directory means no overrides.
func (s *Store) Load(ctx context.Context) (map[string]map[string]any, error) {
	sections, err := s.Sections()
	if err != nil {
		return nil, err
	}

	out := make(map[string]map[string]any, len(sections))
	for _, name := range sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := s.Get(name)
		if err != nil {
			return nil, err
		}
		out[name] = c
	}
	return out, nil
}

// Sections lists the sections that have an override, sorted.
func (s *Store) Sections() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := SectionOf(e.Name()); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Get reads one override.
func (s *Store) Get(section string) (map[string]any, error) {
	path, err := s.path(section)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("override %s: %w", section, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read override %s: %w", section, err)
	}

	var c map[string]any
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode override %s: %w", section, err)
	}
	if c == nil {
		c = map[string]any{}
	}
	return c, nil
}

// Save writes an override through a temporary file and a rename, so a
// watcher never reads a partial file.
func (s *Store) Save(section string, c map[string]any) error {
	path, err := s.path(section)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode override %s: %w", section, err)
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create content dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write override %s: %w", section, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("replace override %s: %w", section, err)
	}
	return nil
}

// Delete removes an override. Removing a missing override is not an error.
func (s *Store) Delete(section string) error {
	path, err := s.path(section)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete override %s: %w", section, err)
	}
	return nil
}

func (s *Store) path(section string) (string, error) {
	if !domain.ValidSection(section) {
		return "", fmt.Errorf("section %q: %w", section, domain.ErrInvalidInput)
	}
	return filepath.Join(s.dir, section+ext), nil
}

// SectionOf returns the section named by an override file path.
func SectionOf(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ext) {
		return "", false
	}
	name := strings.TrimSuffix(base, ext)
	return name, domain.ValidSection(name)
}
