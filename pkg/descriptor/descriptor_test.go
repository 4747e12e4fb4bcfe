package descriptor

import "testing"

const samplePOM = `<?xml version="1.0" encoding="UTF-8"?>
<project>
  <groupId>com.example</groupId>
  <artifactId>app</artifactId>
  <version>1.4.0</version>

  <parent>
    <groupId>com.example</groupId>
    <artifactId>parent</artifactId>
    <version>1.4.0</version>
  </parent>

  <properties>
    <spring.version>5.3.0</spring.version>
    <guava.version>31.0-jre</guava.version>
    <spring.version>9.9.9</spring.version>
  </properties>

  <dependencyManagement>
    <dependencies>
      <dependency>
        <groupId>junit</groupId>
        <artifactId>junit</artifactId>
        <version>4.13.2</version>
      </dependency>
    </dependencies>
  </dependencyManagement>

  <dependencies>
    <dependency>
      <groupId>org.springframework</groupId>
      <artifactId>spring-core</artifactId>
      <version>${spring.version}</version>
    </dependency>
    <dependency>
      <groupId>junit</groupId>
      <artifactId>junit</artifactId>
      <scope>test</scope>
    </dependency>
  </dependencies>
</project>`

func TestParse(t *testing.T) {
	doc, err := Parse("svc/pom.xml", []byte(samplePOM))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if doc.Group != "com.example" || doc.Artifact != "app" || doc.Version != "1.4.0" {
		t.Errorf("coordinates = %s:%s:%s", doc.Group, doc.Artifact, doc.Version)
	}

	if v, ok := doc.Properties().Get("guava.version"); !ok || v != "31.0-jre" {
		t.Errorf("guava.version = %q, %v", v, ok)
	}

	// First occurrence wins on duplicate property keys.
	if v, _ := doc.Properties().Get("spring.version"); v != "5.3.0" {
		t.Errorf("spring.version = %q, want first occurrence 5.3.0", v)
	}

	if len(doc.Dependencies) != 2 {
		t.Fatalf("dependencies = %d, want 2", len(doc.Dependencies))
	}
	first := doc.Dependencies[0]
	if first.Group != "org.springframework" || first.Version != "${spring.version}" {
		t.Errorf("first dependency = %+v", first)
	}
	if doc.Dependencies[1].Scope != "test" || doc.Dependencies[1].Version != "" {
		t.Errorf("second dependency = %+v", doc.Dependencies[1])
	}

	if len(doc.Managed) != 1 || doc.Managed[0].Version != "4.13.2" {
		t.Errorf("managed = %+v", doc.Managed)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse("pom.xml", []byte("<project><dependencies>")); err == nil {
		t.Error("Parse should fail on truncated input")
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		parent *Parent
		want   string
	}{
		{"no parent", "pom.xml", nil, ""},
		{"default sibling directory", "svc/pom.xml", &Parent{}, "pom.xml"},
		{"explicit file", "a/b/pom.xml", &Parent{RelativePath: "../parent/pom.xml"}, "a/parent/pom.xml"},
		{"directory reference", "mod/pom.xml", &Parent{RelativePath: ".."}, "pom.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{Path: tt.path, Parent: tt.parent}
			if got := doc.ParentPath(); got != tt.want {
				t.Errorf("ParentPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
