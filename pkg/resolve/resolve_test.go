package resolve

import (
	"fmt"
	"testing"

	"github.com/mtb2597/repo-intel-agent/pkg/descriptor"
)

func docWithProps(props map[string]string) *descriptor.Document {
	doc := &descriptor.Document{Path: "pom.xml"}
	for k, v := range props {
		doc.Properties().Put(k, v)
	}
	return doc
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []Span
	}{
		{"plain", []Span{{Literal: true, Text: "plain"}}},
		{"${v}", []Span{{Text: "${v}", Name: "v"}}},
		{"a-${v}-b", []Span{
			{Literal: true, Text: "a-"},
			{Text: "${v}", Name: "v"},
			{Literal: true, Text: "-b"},
		}},
		{"${a}${b}", []Span{{Text: "${a}", Name: "a"}, {Text: "${b}", Name: "b"}}},
		{"${unclosed", []Span{{Literal: true, Text: "${unclosed"}}},
		{"${}tail", []Span{{Literal: true, Text: "${}"}, {Literal: true, Text: "tail"}}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Tokenize(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("span %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestHasPlaceholder(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"plain", false},
		{"${v}", true},
		{"a-${v}-b", true},
		{"${unclosed", false},
		{"${}", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := HasPlaceholder(tt.in); got != tt.want {
				t.Errorf("HasPlaceholder(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveLiteral(t *testing.T) {
	r := New(nil, nil, nil)
	doc := docWithProps(nil)

	if got := r.Resolve(doc, "1.2.3"); got != "1.2.3" {
		t.Errorf("literal value changed: %q", got)
	}
	if got := r.Resolve(doc, ""); got != "" {
		t.Errorf("empty value changed: %q", got)
	}
}

func TestResolveSimple(t *testing.T) {
	doc := docWithProps(map[string]string{"spring.version": "5.3.0"})
	r := New(nil, nil, nil)

	if got := r.Resolve(doc, "${spring.version}"); got != "5.3.0" {
		t.Errorf("Resolve = %q, want 5.3.0", got)
	}
	if got := r.Resolve(doc, "pre-${spring.version}-post"); got != "pre-5.3.0-post" {
		t.Errorf("Resolve = %q", got)
	}
}

func TestResolveNested(t *testing.T) {
	doc := docWithProps(map[string]string{
		"a": "${b}",
		"b": "${c}",
		"c": "leaf",
	})
	r := New(nil, nil, nil)

	if got := r.Resolve(doc, "${a}"); got != "leaf" {
		t.Errorf("Resolve(${a}) = %q, want leaf", got)
	}
}

func TestResolveNotFound(t *testing.T) {
	doc := docWithProps(map[string]string{"known": "x"})
	r := New(nil, nil, nil)

	// The whole input comes back unchanged, never partially substituted.
	if got := r.Resolve(doc, "${known}-${not.defined}"); got != "${known}-${not.defined}" {
		t.Errorf("Resolve = %q, want original input", got)
	}
	if got := r.Resolve(doc, "${not.defined}"); got != "${not.defined}" {
		t.Errorf("Resolve = %q, want literal placeholder", got)
	}
}

func TestResolveCycle(t *testing.T) {
	doc := docWithProps(map[string]string{
		"a": "${b}",
		"b": "${a}",
	})
	r := New(nil, nil, nil)

	if got := r.Resolve(doc, "${a}"); got != "${a}" {
		t.Errorf("cyclic Resolve = %q, want ${a}", got)
	}

	// Self-reference is the trivial cycle.
	self := docWithProps(map[string]string{"s": "${s}"})
	if got := r.Resolve(self, "${s}"); got != "${s}" {
		t.Errorf("self-cycle Resolve = %q, want ${s}", got)
	}
}

func TestResolveRepeatedNameIsNotACycle(t *testing.T) {
	doc := docWithProps(map[string]string{"v": "1.0"})
	r := New(nil, nil, nil)

	if got := r.Resolve(doc, "${v}-${v}"); got != "1.0-1.0" {
		t.Errorf("Resolve = %q, want 1.0-1.0", got)
	}
}

func TestResolveDepthCeiling(t *testing.T) {
	chain := func(n int) *descriptor.Document {
		doc := &descriptor.Document{Path: "pom.xml"}
		for i := 1; i < n; i++ {
			doc.Properties().Put(fmt.Sprintf("p%d", i), fmt.Sprintf("${p%d}", i+1))
		}
		doc.Properties().Put(fmt.Sprintf("p%d", n), "literal")
		return doc
	}
	r := New(nil, nil, nil)

	if got := r.Resolve(chain(MaxDepth-1), "${p1}"); got != "literal" {
		t.Errorf("chain below ceiling = %q, want literal", got)
	}
	if got := r.Resolve(chain(MaxDepth+1), "${p1}"); got != "${p1}" {
		t.Errorf("chain above ceiling = %q, want original", got)
	}
}

func TestResolveFallbackTable(t *testing.T) {
	doc := docWithProps(nil)
	r := New(nil, map[string]string{"global.version": "2.0"}, nil)

	if got := r.Resolve(doc, "${global.version}"); got != "2.0" {
		t.Errorf("fallback Resolve = %q, want 2.0", got)
	}

	// Own properties shadow the fallback table.
	shadowed := docWithProps(map[string]string{"global.version": "3.0"})
	if got := r.Resolve(shadowed, "${global.version}"); got != "3.0" {
		t.Errorf("own property should win: %q", got)
	}
}

func TestResolveParentChain(t *testing.T) {
	grandparent := &descriptor.Document{Path: "pom.xml"}
	grandparent.Properties().Put("root.version", "9.1")

	parent := &descriptor.Document{Path: "platform/pom.xml", Parent: &descriptor.Parent{RelativePath: "../pom.xml"}}
	parent.Properties().Put("platform.version", "4.2")

	child := &descriptor.Document{Path: "platform/svc/pom.xml", Parent: &descriptor.Parent{}}

	docs := map[string]*descriptor.Document{
		"pom.xml":          grandparent,
		"platform/pom.xml": parent,
	}
	loads := 0
	loader := LoaderFunc(func(path string) (*descriptor.Document, bool) {
		loads++
		d, ok := docs[path]
		return d, ok
	})

	r := New(loader, nil, nil)
	if got := r.Resolve(child, "${platform.version}"); got != "4.2" {
		t.Errorf("parent lookup = %q, want 4.2", got)
	}
	if got := r.Resolve(child, "${root.version}"); got != "9.1" {
		t.Errorf("transitive parent lookup = %q, want 9.1", got)
	}
	if loads == 0 {
		t.Error("parent documents should be loaded through the loader")
	}
}

func TestResolveParentChainCycle(t *testing.T) {
	a := &descriptor.Document{Path: "a/pom.xml", Parent: &descriptor.Parent{RelativePath: "../b/pom.xml"}}
	b := &descriptor.Document{Path: "b/pom.xml", Parent: &descriptor.Parent{RelativePath: "../a/pom.xml"}}
	docs := map[string]*descriptor.Document{"a/pom.xml": a, "b/pom.xml": b}
	loader := LoaderFunc(func(path string) (*descriptor.Document, bool) {
		d, ok := docs[path]
		return d, ok
	})

	r := New(loader, nil, nil)
	if got := r.Resolve(a, "${missing}"); got != "${missing}" {
		t.Errorf("Resolve with cyclic parents = %q, want original", got)
	}
}
