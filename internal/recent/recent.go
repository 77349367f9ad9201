// Package recent keeps the list of recently opened projects.
package recent

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/specialistvlad/fxgraph/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// MaxEntries is the list capacity.
const MaxEntries = 10

// Entry is one opened project.
type Entry struct {
	Path     string    `yaml:"path"`
	Name     string    `yaml:"name,omitempty"`
	OpenedAt time.Time `yaml:"opened_at"`
}

type document struct {
	Projects []Entry `yaml:"projects"`
}

// List is the recent-projects state, most recent first. The zero value is
// an empty list that is not backed by a file.
type List struct {
	path    string
	entries []Entry
	now     func() time.Time
}

// Load reads the list stored at path. A missing file yields an empty list.
func Load(path string) (*List, error) {
	l := &List{path: path, now: time.Now}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read recent projects %s: %w", path, err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode recent projects %s: %w", path, err)
	}
	for _, e := range slices.Backward(doc.Projects) {
		l.insert(e)
	}
	return l, nil
}

// Add moves path to the front of the list, dropping the oldest entry when
// the list is full.
func (l *List) Add(path, name string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	l.insert(Entry{Path: path, Name: name, OpenedAt: now().UTC()})
}

func (l *List) insert(e Entry) {
	l.entries = slices.DeleteFunc(l.entries, func(x Entry) bool { return x.Path == e.Path })
	l.entries = slices.Insert(l.entries, 0, e)
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[:MaxEntries]
	}
}

// Remove drops path from the list.
func (l *List) Remove(path string) bool {
	n := len(l.entries)
	l.entries = slices.DeleteFunc(l.entries, func(x Entry) bool { return x.Path == path })
	return len(l.entries) != n
}

// Entries returns a copy of the list.
func (l *List) Entries() []Entry { return slices.Clone(l.entries) }

// Save writes the list back to the file it was loaded from.
func (l *List) Save() error {
	if l.path == "" {
		return errors.New("recent projects list has no file")
	}
	data, err := yaml.Marshal(document{Projects: l.entries})
	if err != nil {
		return fmt.Errorf("failed to encode recent projects: %w", err)
	}
	return fsutil.WriteFileAtomic(l.path, data, 0o644)
}
