// Package extract turns a repository's parsed descriptor documents into
// a deduplicated, property-resolved dependency set.
//
// Extraction runs in two passes. The first pass unions every property
// table across all documents into a repository-scoped fallback table
// (first definition wins in document order). The second pass resolves
// each declared dependency's group, artifact, and version through the
// property resolver, falls back to the document's inherited-defaults
// table when the version is still blank, and deduplicates by the full
// (group, artifact, version, scope) key.
package extract

import (
	"regexp"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mtb2597/repo-intel-agent/pkg/descriptor"
	"github.com/mtb2597/repo-intel-agent/pkg/resolve"
	"github.com/mtb2597/repo-intel-agent/pkg/version"
)

// Record is one resolved dependency declaration. Version is a concrete
// version string, an empty string when absent, or a literal unresolved
// placeholder such as "${x}" — three states downstream code keeps
// distinct.
type Record struct {
	Group    string `json:"group"`
	Artifact string `json:"artifact"`
	Version  string `json:"version"`
	Scope    string `json:"scope,omitempty"`
}

// Key returns the identity of the record for deduplication.
func (r Record) Key() string {
	return r.Group + ":" + r.Artifact + ":" + r.Version + ":" + r.Scope
}

// Coordinate returns the "group:artifact" pair.
func (r Record) Coordinate() string {
	return r.Group + ":" + r.Artifact
}

// Set is the extracted dependency inventory for one repository.
// A Set is immutable once published to the store and may be read
// concurrently.
type Set struct {
	Repo         string    `json:"repo"`
	Dependencies []Record  `json:"dependencies"`
	Success      bool      `json:"success"`
	Reason       string    `json:"reason,omitempty"`
	Toolchain    string    `json:"toolchain,omitempty"`
	ScannedAt    time.Time `json:"scanned_at"`
}

// Failed creates the Set recorded when a repository cannot be acquired
// at all. The batch continues with its siblings.
func Failed(repo, reason string) *Set {
	return &Set{
		Repo:         repo,
		Dependencies: []Record{},
		Success:      false,
		Reason:       reason,
		ScannedAt:    time.Now().UTC(),
	}
}

// toolchainProps are the property names inspected for the repository's
// toolchain marker. Values are compared as declared, without property
// resolution.
var toolchainProps = []string{
	"maven.compiler.source",
	"maven.compiler.release",
	"java.version",
}

var placeholderShape = regexp.MustCompile(`^\$\{.+\}$`)

// Unresolved reports whether v is a leftover placeholder the scan could
// not resolve anywhere.
func Unresolved(v string) bool {
	return placeholderShape.MatchString(v)
}

// Extract resolves and deduplicates the dependency declarations of one
// repository. Documents must all belong to the same repository; loader
// serves lazy parent-chain lookups within that repository. logger may be
// nil.
func Extract(repo string, docs []*descriptor.Document, loader resolve.Loader, logger *log.Logger) *Set {
	// First pass: repository-scoped fallback table, first definition wins.
	fallback := make(map[string]string)
	for _, doc := range docs {
		doc.Properties().Each(func(name, value string) {
			if _, exists := fallback[name]; !exists {
				fallback[name] = value
			}
		})
	}

	resolver := resolve.New(loader, fallback, logger)

	// Second pass: resolve and deduplicate declarations.
	set := &Set{
		Repo:         repo,
		Dependencies: []Record{},
		Success:      true,
		ScannedAt:    time.Now().UTC(),
	}
	seen := make(map[string]bool)
	for _, doc := range docs {
		for _, decl := range doc.Dependencies {
			rec := Record{
				Group:    resolver.Resolve(doc, decl.Group),
				Artifact: resolver.Resolve(doc, decl.Artifact),
				Version:  resolveVersion(resolver, doc, decl),
				Scope:    decl.Scope,
			}
			if seen[rec.Key()] {
				continue
			}
			seen[rec.Key()] = true
			set.Dependencies = append(set.Dependencies, rec)

			if Unresolved(rec.Version) && logger != nil {
				logger.Warnf("unresolved version for %s:%s in %s: %s",
					rec.Group, rec.Artifact, doc.Path, rec.Version)
			}
		}
	}

	set.Toolchain = toolchainMarker(docs)
	return set
}

// resolveVersion resolves a declaration's version, consulting the
// document's inherited-defaults table when the declared version is
// absent or resolves to blank. The defaults entry is matched on the
// declared (unresolved) coordinates and its value is itself resolved
// before use.
func resolveVersion(r *resolve.Resolver, doc *descriptor.Document, decl descriptor.Declaration) string {
	v := r.Resolve(doc, decl.Version)
	if v != "" {
		return v
	}
	for _, m := range doc.Managed {
		if m.Group == decl.Group && m.Artifact == decl.Artifact {
			return r.Resolve(doc, m.Version)
		}
	}
	return v
}

// toolchainMarker picks the highest declared toolchain version across
// all documents, or "" when none is declared.
func toolchainMarker(docs []*descriptor.Document) string {
	var candidates []string
	for _, doc := range docs {
		for _, name := range toolchainProps {
			if v, ok := doc.Properties().Get(name); ok && v != "" {
				candidates = append(candidates, v)
			}
		}
	}
	return version.Highest(candidates)
}
