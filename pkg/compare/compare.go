// Package compare answers version-comparison and drift questions over
// the current store snapshot.
//
// Every query is a pure read of the store: no state, no ordering
// assumptions between queries and ongoing scans.
package compare

import (
	"fmt"
	"strings"

	"github.com/mtb2597/repo-intel-agent/pkg/extract"
	"github.com/mtb2597/repo-intel-agent/pkg/store"
	"github.com/mtb2597/repo-intel-agent/pkg/version"
)

// Status markers used in result maps alongside concrete versions.
const (
	StatusNotFound = "NOT_FOUND" // no record matches the coordinate
	StatusUnknown  = "UNKNOWN"   // records match but every version is blank or unresolved
)

// Below formats the drift marker for a version under the threshold.
func Below(v string) string { return "BELOW(" + v + ")" }

// Engine runs read-only queries against a store.
type Engine struct {
	store *store.Store
}

// New creates an Engine over the given store.
func New(s *store.Store) *Engine {
	return &Engine{store: s}
}

// Single reports, per repository, the highest resolved version for the
// coordinate, StatusNotFound when no record matches, or StatusUnknown
// when records match but carry no usable version.
func (e *Engine) Single(group, artifact string) map[string]string {
	result := make(map[string]string)
	for _, set := range e.store.All() {
		var candidates []string
		found := false
		for _, rec := range set.Dependencies {
			if rec.Group != group || rec.Artifact != artifact {
				continue
			}
			found = true
			if !extract.Unresolved(rec.Version) {
				candidates = append(candidates, rec.Version)
			}
		}
		switch {
		case !found:
			result[set.Repo] = StatusNotFound
		default:
			if best := version.Highest(candidates); best != "" {
				result[set.Repo] = best
			} else {
				result[set.Repo] = StatusUnknown
			}
		}
	}
	return result
}

// Drift reports only the repositories missing the coordinate entirely
// (StatusNotFound) or running strictly below min (Below marker).
// Repositories at or above min, or with an unknown version, are omitted.
func (e *Engine) Drift(group, artifact, min string) map[string]string {
	drift := make(map[string]string)
	for repo, v := range e.Single(group, artifact) {
		switch {
		case v == StatusNotFound:
			drift[repo] = StatusNotFound
		case v != StatusUnknown && version.IsBelow(v, min):
			drift[repo] = Below(v)
		}
	}
	return drift
}

// Matrix runs Single for each requested coordinate. Coordinates that do
// not parse as group:artifact are skipped.
func (e *Engine) Matrix(coordinates []string) map[string]map[string]string {
	matrix := make(map[string]map[string]string)
	for _, coord := range coordinates {
		group, artifact, err := ParseCoordinate(coord)
		if err != nil {
			continue
		}
		matrix[coord] = e.Single(group, artifact)
	}
	return matrix
}

// Search returns, per repository, the records whose group or artifact
// contains the keyword (case-insensitive).
func (e *Engine) Search(keyword string) map[string][]extract.Record {
	needle := strings.ToLower(keyword)
	result := make(map[string][]extract.Record)
	for _, set := range e.store.All() {
		matches := []extract.Record{}
		for _, rec := range set.Dependencies {
			if strings.Contains(strings.ToLower(rec.Group), needle) ||
				strings.Contains(strings.ToLower(rec.Artifact), needle) {
				matches = append(matches, rec)
			}
		}
		result[set.Repo] = matches
	}
	return result
}

// ParseCoordinate splits a "group:artifact" pair. The group may be
// empty ("" before the colon) for ecosystems without a group concept;
// anything other than exactly one colon is malformed.
func ParseCoordinate(coord string) (group, artifact string, err error) {
	parts := strings.Split(strings.TrimSpace(coord), ":")
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("malformed coordinate %q (want group:artifact)", coord)
	}
	return parts[0], parts[1], nil
}
