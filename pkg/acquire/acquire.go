// Package acquire defines how repository descriptor files are obtained.
//
// An Acquirer turns a repository reference (local path or remote URL)
// into the raw bytes of every build-descriptor file it contains,
// excluding build-output, version-control, and dependency-cache
// directories. Acquisition is the only blocking step in a scan; every
// implementation honors context cancellation.
package acquire

import (
	"context"
	"strings"
)

// DescriptorName is the build-descriptor filename the system inventories.
const DescriptorName = "pom.xml"

// File is one descriptor file: its slash-separated repository-relative
// path and raw contents.
type File struct {
	Path string
	Data []byte
}

// Acquirer fetches all descriptor files for one repository reference.
type Acquirer interface {
	// Acquire returns the descriptor files found under ref, in a stable
	// order. An empty slice with a nil error means the repository exists
	// but declares no descriptors; an error means acquisition failed and
	// the repository should be recorded as a failed scan.
	Acquire(ctx context.Context, ref string) ([]File, error)
	// Supports reports whether this acquirer handles the reference.
	Supports(ref string) bool
}

// skipDirs are directory names never descended into: build output,
// version control, dependency caches, IDE state.
var skipDirs = map[string]bool{
	"target":       true,
	"build":        true,
	"node_modules": true,
	".git":         true,
	".svn":         true,
	".idea":        true,
}

// SkipDir reports whether a directory name is excluded from traversal.
func SkipDir(name string) bool { return skipDirs[name] }

// SkipPath reports whether any segment of a slash-separated path is an
// excluded directory.
func SkipPath(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if skipDirs[seg] {
			return true
		}
	}
	return false
}

// RepoName derives the repository identity from a reference: embedded
// credentials are stripped, a ".git" suffix is dropped, and the final
// path segment is used.
func RepoName(ref string) string {
	clean := StripCredentials(ref)
	clean = strings.TrimSuffix(clean, ".git")
	clean = strings.TrimRight(clean, "/")
	if i := strings.LastIndexByte(clean, '/'); i >= 0 {
		clean = clean[i+1:]
	}
	return clean
}

// StripCredentials removes a userinfo section from a URL-shaped
// reference ("https://token@host/path" becomes "https://host/path").
// Non-URL references are returned unchanged.
func StripCredentials(ref string) string {
	schemeEnd := strings.Index(ref, "://")
	if schemeEnd < 0 {
		return ref
	}
	rest := ref[schemeEnd+3:]
	if at := strings.Index(rest, "@"); at >= 0 && !strings.Contains(rest[:at], "/") {
		return ref[:schemeEnd+3] + rest[at+1:]
	}
	return ref
}
