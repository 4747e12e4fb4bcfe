package extract

import (
	"testing"

	"github.com/mtb2597/repo-intel-agent/pkg/descriptor"
)

func mustParse(t *testing.T, path, content string) *descriptor.Document {
	t.Helper()
	doc, err := descriptor.Parse(path, []byte(content))
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return doc
}

func TestExtractLiteralVersion(t *testing.T) {
	doc := mustParse(t, "pom.xml", `<project>
  <dependencies>
    <dependency>
      <groupId>com.google.guava</groupId>
      <artifactId>guava</artifactId>
      <version>31.0-jre</version>
    </dependency>
  </dependencies>
</project>`)

	set := Extract("demo", []*descriptor.Document{doc}, nil, nil)
	if !set.Success {
		t.Fatal("Success = false")
	}
	if len(set.Dependencies) != 1 {
		t.Fatalf("dependencies = %d, want 1", len(set.Dependencies))
	}
	rec := set.Dependencies[0]
	if rec.Version != "31.0-jre" {
		t.Errorf("literal version changed: %q", rec.Version)
	}
	if rec.Coordinate() != "com.google.guava:guava" {
		t.Errorf("coordinate = %q", rec.Coordinate())
	}
}

func TestExtractPropertyVersion(t *testing.T) {
	doc := mustParse(t, "pom.xml", `<project>
  <properties>
    <spring.version>5.3.0</spring.version>
  </properties>
  <dependencies>
    <dependency>
      <groupId>org.springframework</groupId>
      <artifactId>spring-core</artifactId>
      <version>${spring.version}</version>
    </dependency>
  </dependencies>
</project>`)

	set := Extract("demo", []*descriptor.Document{doc}, nil, nil)
	if got := set.Dependencies[0].Version; got != "5.3.0" {
		t.Errorf("version = %q, want 5.3.0", got)
	}
}

func TestExtractUnresolvedPlaceholderRetained(t *testing.T) {
	doc := mustParse(t, "pom.xml", `<project>
  <dependencies>
    <dependency>
      <groupId>g</groupId>
      <artifactId>a</artifactId>
      <version>${not.defined}</version>
    </dependency>
  </dependencies>
</project>`)

	set := Extract("demo", []*descriptor.Document{doc}, nil, nil)
	got := set.Dependencies[0].Version
	if got != "${not.defined}" {
		t.Errorf("version = %q, want literal placeholder", got)
	}
	if !Unresolved(got) {
		t.Errorf("Unresolved(%q) = false", got)
	}
}

func TestExtractCrossFileFallback(t *testing.T) {
	// The property lives in a sibling module's descriptor; the
	// repository-scoped fallback table makes it visible.
	holder := mustParse(t, "core/pom.xml", `<project>
  <properties>
    <shared.version>2.7</shared.version>
  </properties>
</project>`)
	user := mustParse(t, "web/pom.xml", `<project>
  <dependencies>
    <dependency>
      <groupId>com.example</groupId>
      <artifactId>shared</artifactId>
      <version>${shared.version}</version>
    </dependency>
  </dependencies>
</project>`)

	set := Extract("demo", []*descriptor.Document{holder, user}, nil, nil)
	if got := set.Dependencies[0].Version; got != "2.7" {
		t.Errorf("version = %q, want 2.7", got)
	}
}

func TestExtractFallbackFirstDefinitionWins(t *testing.T) {
	first := mustParse(t, "a/pom.xml", `<project>
  <properties><v>1.0</v></properties>
</project>`)
	second := mustParse(t, "b/pom.xml", `<project>
  <properties><v>2.0</v></properties>
  <dependencies>
    <dependency><groupId>g</groupId><artifactId>a</artifactId><version>${v}</version></dependency>
  </dependencies>
</project>`)

	// The declaring document's own property table still wins for it.
	set := Extract("demo", []*descriptor.Document{first, second}, nil, nil)
	if got := set.Dependencies[0].Version; got != "2.0" {
		t.Errorf("own property should win: %q", got)
	}

	// Without an own definition, the first-seen definition applies.
	third := mustParse(t, "c/pom.xml", `<project>
  <dependencies>
    <dependency><groupId>g</groupId><artifactId>b</artifactId><version>${v}</version></dependency>
  </dependencies>
</project>`)
	set = Extract("demo", []*descriptor.Document{first, second, third}, nil, nil)
	if got := set.Dependencies[1].Version; got != "1.0" {
		t.Errorf("fallback should be first definition: %q", got)
	}
}

func TestExtractManagedVersionFallback(t *testing.T) {
	doc := mustParse(t, "pom.xml", `<project>
  <properties>
    <junit.version>4.13.2</junit.version>
  </properties>
  <dependencyManagement>
    <dependencies>
      <dependency>
        <groupId>junit</groupId>
        <artifactId>junit</artifactId>
        <version>${junit.version}</version>
      </dependency>
    </dependencies>
  </dependencyManagement>
  <dependencies>
    <dependency>
      <groupId>junit</groupId>
      <artifactId>junit</artifactId>
      <scope>test</scope>
    </dependency>
  </dependencies>
</project>`)

	set := Extract("demo", []*descriptor.Document{doc}, nil, nil)
	rec := set.Dependencies[0]
	if rec.Version != "4.13.2" {
		t.Errorf("managed version = %q, want 4.13.2", rec.Version)
	}
	if rec.Scope != "test" {
		t.Errorf("scope = %q, want test", rec.Scope)
	}
}

func TestExtractDeduplicatesAcrossDocuments(t *testing.T) {
	pom := `<project>
  <dependencies>
    <dependency><groupId>g</groupId><artifactId>a</artifactId><version>1.0</version></dependency>
  </dependencies>
</project>`
	a := mustParse(t, "m1/pom.xml", pom)
	b := mustParse(t, "m2/pom.xml", pom)

	set := Extract("demo", []*descriptor.Document{a, b}, nil, nil)
	if len(set.Dependencies) != 1 {
		t.Errorf("dependencies = %d, want 1 after dedup", len(set.Dependencies))
	}

	// A different scope is a different record.
	c := mustParse(t, "m3/pom.xml", `<project>
  <dependencies>
    <dependency><groupId>g</groupId><artifactId>a</artifactId><version>1.0</version><scope>test</scope></dependency>
  </dependencies>
</project>`)
	set = Extract("demo", []*descriptor.Document{a, b, c}, nil, nil)
	if len(set.Dependencies) != 2 {
		t.Errorf("dependencies = %d, want 2 with distinct scopes", len(set.Dependencies))
	}
}

func TestExtractToolchainMarker(t *testing.T) {
	a := mustParse(t, "a/pom.xml", `<project>
  <properties><maven.compiler.source>11</maven.compiler.source></properties>
</project>`)
	b := mustParse(t, "b/pom.xml", `<project>
  <properties><java.version>17</java.version></properties>
</project>`)

	set := Extract("demo", []*descriptor.Document{a, b}, nil, nil)
	if set.Toolchain != "17" {
		t.Errorf("Toolchain = %q, want 17", set.Toolchain)
	}

	none := mustParse(t, "pom.xml", `<project></project>`)
	set = Extract("demo", []*descriptor.Document{none}, nil, nil)
	if set.Toolchain != "" {
		t.Errorf("Toolchain = %q, want empty", set.Toolchain)
	}
}

func TestFailed(t *testing.T) {
	set := Failed("gone", "clone failed: connection refused")
	if set.Success {
		t.Error("Success = true")
	}
	if set.Reason == "" || len(set.Dependencies) != 0 {
		t.Errorf("unexpected failure set: %+v", set)
	}
}

func TestUnresolved(t *testing.T) {
	tests := []struct {
		v    string
		want bool
	}{
		{"${x}", true},
		{"${spring.version}", true},
		{"1.0", false},
		{"", false},
		{"${x}-suffix", false}, // partial placeholders are not the full shape
	}
	for _, tt := range tests {
		if got := Unresolved(tt.v); got != tt.want {
			t.Errorf("Unresolved(%q) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
