// Package resolve substitutes ${name} property placeholders in
// descriptor string fields.
//
// Lookup order for a placeholder: the document's own property table,
// then the parent chain (parent documents are loaded lazily through a
// Loader), then a repository-scoped fallback table. Resolution is
// conservative: a placeholder that cannot be found anywhere, a cyclic
// reference, or a chain deeper than the ceiling all leave the original
// input string completely unchanged. None of these conditions is an
// error; they are logged and the caller keeps the unresolved value.
package resolve

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mtb2597/repo-intel-agent/pkg/descriptor"
)

// MaxDepth caps nested substitution passes for one input value.
const MaxDepth = 10

// maxParentHops bounds parent-chain traversal independently of the
// substitution depth.
const maxParentHops = 16

// Loader loads a parent document on demand. The resolver consults only
// the returned document's property table and parent reference.
type Loader interface {
	// Load returns the parsed document at the given repository-relative
	// path, or false when it does not exist or cannot be parsed.
	Load(path string) (*descriptor.Document, bool)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (*descriptor.Document, bool)

// Load calls f.
func (f LoaderFunc) Load(path string) (*descriptor.Document, bool) { return f(path) }

// Resolver resolves placeholders against a document, its parent chain,
// and a scan-wide fallback property table.
type Resolver struct {
	loader   Loader
	fallback map[string]string
	logger   *log.Logger
}

// New creates a Resolver. loader may be nil when parent chains are not
// expected; fallback may be nil; logger nil means silent.
func New(loader Loader, fallback map[string]string, logger *log.Logger) *Resolver {
	return &Resolver{loader: loader, fallback: fallback, logger: logger}
}

// Resolve substitutes every resolvable placeholder in value, starting
// lookups at doc. A value without placeholders is returned as-is. If any
// placeholder cannot be resolved the original value is returned
// unchanged, never a partially substituted string.
func (r *Resolver) Resolve(doc *descriptor.Document, value string) string {
	if !HasPlaceholder(value) {
		return value
	}
	out, ok := r.expand(doc, value, map[string]bool{}, 0)
	if !ok {
		return value
	}
	return out
}

// expand performs one substitution pass over value. resolving holds the
// property names currently being resolved in this call chain; a repeat
// is a cycle. Returns false when the value must stay unresolved.
func (r *Resolver) expand(doc *descriptor.Document, value string, resolving map[string]bool, depth int) (string, bool) {
	if depth > MaxDepth {
		r.warnf("property resolution exceeded max depth while resolving %q", value)
		return "", false
	}

	var b strings.Builder
	for _, sp := range Tokenize(value) {
		if sp.Literal {
			b.WriteString(sp.Text)
			continue
		}
		if resolving[sp.Name] {
			r.warnf("cyclic property reference detected: %s", sp.Name)
			return "", false
		}
		raw, ok := r.lookup(doc, sp.Name)
		if !ok {
			r.warnf("property %q not found in document, parent chain, or fallback table while resolving %q", sp.Name, value)
			return "", false
		}
		resolving[sp.Name] = true
		resolved, ok := r.expand(doc, raw, resolving, depth+1)
		delete(resolving, sp.Name)
		if !ok {
			return "", false
		}
		b.WriteString(resolved)
	}
	return b.String(), true
}

// lookup finds the raw value for name: own properties first, then the
// parent chain, then the fallback table.
func (r *Resolver) lookup(doc *descriptor.Document, name string) (string, bool) {
	current := doc
	visited := map[string]bool{}
	for hops := 0; current != nil && hops < maxParentHops; hops++ {
		if v, ok := current.Properties().Get(name); ok {
			return v, true
		}
		parentPath := current.ParentPath()
		if parentPath == "" || r.loader == nil || visited[parentPath] {
			break
		}
		visited[parentPath] = true
		parent, ok := r.loader.Load(parentPath)
		if !ok {
			r.debugf("parent descriptor %s not available", parentPath)
			break
		}
		current = parent
	}

	if v, ok := r.fallback[name]; ok {
		return v, true
	}
	return "", false
}

func (r *Resolver) warnf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Warnf(format, args...)
	}
}

func (r *Resolver) debugf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Debugf(format, args...)
	}
}
