// Package store holds the repository → extracted-set table shared
// between the ingestion pipeline and the query engine.
//
// The Store is the only shared mutable state in the system. Writers
// deliver one complete Set per repository scan; readers see either the
// previous or the new value for a key, never a partial one. Sets are
// treated as immutable once delivered.
package store

import (
	"sort"
	"sync"

	"github.com/mtb2597/repo-intel-agent/pkg/extract"
)

// Store is a concurrency-safe map of repository name to its most recent
// extracted dependency set. Later scans of the same repository overwrite
// the previous result; there is no history.
type Store struct {
	mu   sync.RWMutex
	sets map[string]*extract.Set
}

// New creates an empty Store. One Store lives for the process lifetime
// and is passed explicitly to the scanner and the comparison engine.
func New() *Store {
	return &Store{sets: make(map[string]*extract.Set)}
}

// Put delivers a scan result, replacing any previous result for the
// same repository.
func (s *Store) Put(set *extract.Set) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[set.Repo] = set
}

// Get returns the current set for a repository.
func (s *Store) Get(repo string) (*extract.Set, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[repo]
	return set, ok
}

// All returns a snapshot of every known set, sorted by repository name
// for stable iteration.
func (s *Store) All() []*extract.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*extract.Set, 0, len(s.sets))
	for _, set := range s.sets {
		out = append(out, set)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Repo < out[j].Repo })
	return out
}

// Names returns the sorted repository names currently known.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.sets))
	for name := range s.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of repositories in the table.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sets)
}

// Reset clears the table. Intended for explicit operator action, not
// routine scanning.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets = make(map[string]*extract.Set)
}
