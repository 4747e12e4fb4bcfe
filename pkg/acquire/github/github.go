// Package github acquires descriptor files through the GitHub API.
//
// For a reference like https://github.com/owner/repo the acquirer
// resolves the default branch when none is pinned, lists the recursive
// git tree, and downloads each descriptor file via the raw content
// host. Responses are cached, and transient failures retried with
// backoff.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mtb2597/repo-intel-agent/pkg/acquire"
	"github.com/mtb2597/repo-intel-agent/pkg/cache"
	"github.com/mtb2597/repo-intel-agent/pkg/httputil"
	"github.com/mtb2597/repo-intel-agent/pkg/observability"
)

// DefaultTTL is how long API and file responses stay cached.
const DefaultTTL = time.Hour

// Acquirer fetches descriptor files from GitHub repositories.
type Acquirer struct {
	token   string
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	apiBase string
	rawBase string
}

// New creates a GitHub acquirer. token may be empty for public
// repositories; c may be nil to disable caching.
func New(token string, c cache.Cache) *Acquirer {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Acquirer{
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   c,
		ttl:     DefaultTTL,
		apiBase: "https://api.github.com",
		rawBase: "https://raw.githubusercontent.com",
	}
}

// Supports reports whether ref points at a GitHub repository.
func (a *Acquirer) Supports(ref string) bool {
	clean := acquire.StripCredentials(ref)
	return strings.HasPrefix(clean, "https://github.com/") ||
		strings.HasPrefix(clean, "http://github.com/")
}

// Acquire lists the repository tree and downloads every descriptor
// file, sorted by path.
func (a *Acquirer) Acquire(ctx context.Context, ref string) ([]acquire.File, error) {
	owner, repo, err := splitRef(ref)
	if err != nil {
		return nil, err
	}

	branch, err := a.defaultBranch(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	paths, err := a.descriptorPaths(ctx, owner, repo, branch)
	if err != nil {
		return nil, err
	}

	files := make([]acquire.File, 0, len(paths))
	for _, p := range paths {
		data, err := a.rawFile(ctx, owner, repo, branch, p)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", p, err)
		}
		files = append(files, acquire.File{Path: p, Data: data})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (a *Acquirer) defaultBranch(ctx context.Context, owner, repo string) (string, error) {
	var meta struct {
		DefaultBranch string `json:"default_branch"`
	}
	url := fmt.Sprintf("%s/repos/%s/%s", a.apiBase, owner, repo)
	if err := a.getJSON(ctx, url, &meta); err != nil {
		return "", fmt.Errorf("repository metadata: %w", err)
	}
	if meta.DefaultBranch == "" {
		return "main", nil
	}
	return meta.DefaultBranch, nil
}

func (a *Acquirer) descriptorPaths(ctx context.Context, owner, repo, branch string) ([]string, error) {
	var tree struct {
		Tree []struct {
			Path string `json:"path"`
			Type string `json:"type"`
		} `json:"tree"`
		Truncated bool `json:"truncated"`
	}
	url := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", a.apiBase, owner, repo, branch)
	if err := a.getJSON(ctx, url, &tree); err != nil {
		return nil, fmt.Errorf("repository tree: %w", err)
	}

	var paths []string
	for _, node := range tree.Tree {
		if node.Type != "blob" {
			continue
		}
		if !strings.HasSuffix(node.Path, acquire.DescriptorName) {
			continue
		}
		if base := node.Path[strings.LastIndexByte(node.Path, '/')+1:]; base != acquire.DescriptorName {
			continue
		}
		if acquire.SkipPath(node.Path) {
			continue
		}
		paths = append(paths, node.Path)
	}
	return paths, nil
}

func (a *Acquirer) rawFile(ctx context.Context, owner, repo, branch, path string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/%s/%s/%s", a.rawBase, owner, repo, branch, path)
	return a.getCached(ctx, url)
}

func (a *Acquirer) getJSON(ctx context.Context, url string, v any) error {
	data, err := a.getCached(ctx, url)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// getCached serves url from the cache or fetches it with retries,
// caching the response on success.
func (a *Acquirer) getCached(ctx context.Context, url string) ([]byte, error) {
	if data, hit, _ := a.cache.Get(ctx, url); hit {
		return data, nil
	}

	var data []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		data, err = a.get(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}
	_ = a.cache.Set(ctx, url, data, a.ttl)
	return data, nil
}

func (a *Acquirer) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if a.token != "" {
		req.Header.Set("Authorization", "token "+a.token)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	observability.HTTP().OnRequest(ctx, http.MethodGet, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := a.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, req.URL.Host, req.URL.Path, err)
		return nil, httputil.Retryable(fmt.Errorf("github request: %w", err))
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 500 {
		return nil, httputil.Retryable(fmt.Errorf("github status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("github status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return io.ReadAll(resp.Body)
}

// splitRef extracts owner and repository from a GitHub URL.
func splitRef(ref string) (owner, repo string, err error) {
	clean := acquire.StripCredentials(ref)
	clean = strings.TrimSuffix(clean, ".git")
	clean = strings.TrimPrefix(clean, "https://github.com/")
	clean = strings.TrimPrefix(clean, "http://github.com/")
	parts := strings.Split(strings.Trim(clean, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("not a github repository reference: %s", ref)
	}
	return parts[0], parts[1], nil
}

var _ acquire.Acquirer = (*Acquirer)(nil)
