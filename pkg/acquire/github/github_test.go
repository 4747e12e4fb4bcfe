package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testAcquirer(apiHandler, rawHandler http.Handler) (*Acquirer, func()) {
	api := httptest.NewServer(apiHandler)
	raw := httptest.NewServer(rawHandler)
	a := New("", nil)
	a.apiBase = api.URL
	a.rawBase = raw.URL
	return a, func() {
		api.Close()
		raw.Close()
	}
}

func TestAcquire(t *testing.T) {
	api := http.NewServeMux()
	api.HandleFunc("/repos/acme/billing", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"default_branch": "trunk"}`)
	})
	api.HandleFunc("/repos/acme/billing/git/trees/trunk", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tree": [
			{"path": "pom.xml", "type": "blob"},
			{"path": "svc/pom.xml", "type": "blob"},
			{"path": "target/pom.xml", "type": "blob"},
			{"path": "not-a-pom.xml", "type": "blob"},
			{"path": "svc", "type": "tree"},
			{"path": "README.md", "type": "blob"}
		]}`)
	})
	raw := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<project><!-- %s --></project>", r.URL.Path)
	})

	a, done := testAcquirer(api, raw)
	defer done()

	files, err := a.Acquire(context.Background(), "https://github.com/acme/billing.git")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %d, want 2", len(files))
	}
	if files[0].Path != "pom.xml" || files[1].Path != "svc/pom.xml" {
		t.Errorf("paths = %s, %s", files[0].Path, files[1].Path)
	}
	if !strings.Contains(string(files[1].Data), "/acme/billing/trunk/svc/pom.xml") {
		t.Errorf("file content = %q", files[1].Data)
	}
}

func TestAcquireFailure(t *testing.T) {
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})
	a, done := testAcquirer(api, api)
	defer done()

	if _, err := a.Acquire(context.Background(), "https://github.com/acme/missing"); err == nil {
		t.Fatal("Acquire should fail on 404")
	}
}

func TestSupports(t *testing.T) {
	a := New("", nil)
	tests := []struct {
		ref  string
		want bool
	}{
		{"https://github.com/acme/billing", true},
		{"https://token@github.com/acme/billing.git", true},
		{"https://gitlab.com/acme/billing", false},
		{"/local/path", false},
	}
	for _, tt := range tests {
		if got := a.Supports(tt.ref); got != tt.want {
			t.Errorf("Supports(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestSplitRef(t *testing.T) {
	owner, repo, err := splitRef("https://github.com/acme/billing.git")
	if err != nil || owner != "acme" || repo != "billing" {
		t.Errorf("splitRef = %q, %q, %v", owner, repo, err)
	}
	if _, _, err := splitRef("https://github.com/acme"); err == nil {
		t.Error("splitRef should reject a reference without a repository")
	}
}
