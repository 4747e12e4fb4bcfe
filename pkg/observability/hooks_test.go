package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopScanHooks{}
	s.OnBatchStart(ctx, "batch-1", 3)
	s.OnBatchComplete(ctx, "batch-1", time.Second)
	s.OnRepoStart(ctx, "service-a")
	s.OnRepoComplete(ctx, "service-a", 42, time.Second, true)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "file")
	c.OnCacheMiss(ctx, "file")
	c.OnCacheSet(ctx, "file", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "api.github.com", "/repos/a/b")
	h.OnResponse(ctx, "GET", "api.github.com", "/repos/a/b", 200, time.Second)
	h.OnError(ctx, "GET", "api.github.com", "/repos/a/b", context.DeadlineExceeded)
}

type countingScanHooks struct {
	NoopScanHooks
	repos int
}

func (c *countingScanHooks) OnRepoComplete(context.Context, string, int, time.Duration, bool) {
	c.repos++
}

func TestRegisterAndReset(t *testing.T) {
	t.Cleanup(Reset)

	hooks := &countingScanHooks{}
	SetScanHooks(hooks)
	Scan().OnRepoComplete(context.Background(), "service-a", 1, time.Second, true)
	if hooks.repos != 1 {
		t.Errorf("repos = %d, want 1", hooks.repos)
	}

	Reset()
	if _, ok := Scan().(NoopScanHooks); !ok {
		t.Errorf("Scan() after Reset = %T, want NoopScanHooks", Scan())
	}
}

func TestSetNilKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)

	SetCacheHooks(nil)
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
}
