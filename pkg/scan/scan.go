// Package scan runs the acquire → parse → extract pipeline for batches
// of repositories.
//
// Each repository reference becomes one independent task. Tasks share
// nothing except their single result delivery into the store: parsed
// documents, property tables, and resolution state are all local to one
// task and discarded when it completes. A failing repository records a
// failure result and never disturbs its siblings.
package scan

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mtb2597/repo-intel-agent/pkg/acquire"
	"github.com/mtb2597/repo-intel-agent/pkg/descriptor"
	"github.com/mtb2597/repo-intel-agent/pkg/extract"
	"github.com/mtb2597/repo-intel-agent/pkg/observability"
	"github.com/mtb2597/repo-intel-agent/pkg/resolve"
	"github.com/mtb2597/repo-intel-agent/pkg/store"
)

// DefaultTimeout bounds one repository's acquisition.
const DefaultTimeout = 2 * time.Minute

// Scanner coordinates repository scans and delivers results to the
// store.
type Scanner struct {
	store     *store.Store
	acquirers []acquire.Acquirer
	timeout   time.Duration
	logger    *log.Logger
	sink      func(context.Context, *extract.Set)
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithTimeout overrides the per-repository acquisition timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scanner) { s.timeout = d }
}

// WithLogger attaches a logger; nil means silent.
func WithLogger(l *log.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

// WithSink registers a callback invoked for every delivered result,
// after the store update. Used to archive results externally. The
// callback runs on the scanning goroutine and must be safe for
// concurrent calls.
func WithSink(fn func(context.Context, *extract.Set)) Option {
	return func(s *Scanner) { s.sink = fn }
}

// New creates a Scanner delivering into st and choosing among the given
// acquirers per reference.
func New(st *store.Store, acquirers []acquire.Acquirer, opts ...Option) *Scanner {
	s := &Scanner{
		store:     st,
		acquirers: acquirers,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Batch is the outcome of scanning a set of references.
type Batch struct {
	ID      string         `json:"id"`
	Results []*extract.Set `json:"results"`
	// Summary maps repository name to scan success.
	Summary map[string]bool `json:"summary"`
}

// Scan processes every reference concurrently and returns when all
// have delivered a result. Results arrive in the store in completion
// order; the returned slice follows the input order.
func (s *Scanner) Scan(ctx context.Context, refs []string) *Batch {
	batch := &Batch{
		ID:      uuid.NewString(),
		Results: make([]*extract.Set, len(refs)),
		Summary: make(map[string]bool, len(refs)),
	}
	s.infof("starting scan batch %s: %d repositories", batch.ID, len(refs))
	observability.Scan().OnBatchStart(ctx, batch.ID, len(refs))
	start := time.Now()

	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			set := s.scanOne(ctx, ref)
			s.store.Put(set)
			if s.sink != nil {
				s.sink(ctx, set)
			}
			batch.Results[i] = set
		}()
	}
	wg.Wait()

	for _, set := range batch.Results {
		batch.Summary[set.Repo] = set.Success
	}
	s.infof("scan batch %s complete", batch.ID)
	observability.Scan().OnBatchComplete(ctx, batch.ID, time.Since(start))
	return batch
}

// scanOne runs the full pipeline for one repository.
func (s *Scanner) scanOne(ctx context.Context, ref string) (result *extract.Set) {
	repo := acquire.RepoName(ref)
	s.infof("scanning %s", repo)
	observability.Scan().OnRepoStart(ctx, repo)
	start := time.Now()
	defer func() {
		observability.Scan().OnRepoComplete(ctx, repo, len(result.Dependencies), time.Since(start), result.Success)
	}()

	acquirer := s.acquirerFor(ref)
	if acquirer == nil {
		s.warnf("no acquirer supports reference %s", ref)
		return extract.Failed(repo, "unsupported repository reference: "+ref)
	}

	actx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	files, err := acquirer.Acquire(actx, ref)
	if err != nil {
		s.warnf("acquisition failed for %s: %v", repo, err)
		return extract.Failed(repo, err.Error())
	}

	docs, raw := s.parseAll(repo, files)
	loader := newLazyLoader(raw, docs, s.logger)
	set := extract.Extract(repo, docs, loader, s.logger)
	s.infof("scanned %s: %d dependencies from %d descriptor files",
		repo, len(set.Dependencies), len(docs))
	return set
}

// parseAll parses every acquired file, skipping malformed ones with a
// warning. It returns the parsed documents in acquisition order plus
// the raw byte table used for lazy parent loading.
func (s *Scanner) parseAll(repo string, files []acquire.File) ([]*descriptor.Document, map[string][]byte) {
	docs := make([]*descriptor.Document, 0, len(files))
	raw := make(map[string][]byte, len(files))
	for _, f := range files {
		raw[f.Path] = f.Data
		doc, err := descriptor.Parse(f.Path, f.Data)
		if err != nil {
			s.warnf("skipping malformed descriptor in %s: %v", repo, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, raw
}

func (s *Scanner) acquirerFor(ref string) acquire.Acquirer {
	for _, a := range s.acquirers {
		if a.Supports(ref) {
			return a
		}
	}
	return nil
}

func (s *Scanner) infof(format string, args ...any) {
	if s.logger != nil {
		s.logger.Infof(format, args...)
	}
}

func (s *Scanner) warnf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Warnf(format, args...)
	}
}

// lazyLoader parses parent descriptors on first use, from the raw bytes
// already acquired for this repository. Documents that were parsed in
// the main pass are reused.
var _ resolve.Loader = (*lazyLoader)(nil)

type lazyLoader struct {
	raw    map[string][]byte
	cache  map[string]*descriptor.Document
	logger *log.Logger
}

func newLazyLoader(raw map[string][]byte, parsed []*descriptor.Document, logger *log.Logger) *lazyLoader {
	cache := make(map[string]*descriptor.Document, len(parsed))
	for _, doc := range parsed {
		cache[doc.Path] = doc
	}
	return &lazyLoader{raw: raw, cache: cache, logger: logger}
}

// Load implements resolve.Loader.
func (l *lazyLoader) Load(path string) (*descriptor.Document, bool) {
	if doc, ok := l.cache[path]; ok {
		return doc, doc != nil
	}
	data, ok := l.raw[path]
	if !ok {
		l.cache[path] = nil
		return nil, false
	}
	doc, err := descriptor.Parse(path, data)
	if err != nil {
		if l.logger != nil {
			l.logger.Warnf("failed to parse parent descriptor %s: %v", path, err)
		}
		l.cache[path] = nil
		return nil, false
	}
	l.cache[path] = doc
	return doc, true
}
