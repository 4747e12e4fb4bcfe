// Package descriptor parses XML build-descriptor files into documents.
//
// A document carries the pieces the extraction pipeline needs: the flat
// property table, the declared dependencies, the inherited-defaults table
// (dependencyManagement), and the optional parent reference. Property
// order within one file is preserved so that the first occurrence of a
// duplicate key wins.
package descriptor

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// DefaultParentPath is assumed when a parent reference omits its
// relative path.
const DefaultParentPath = "../pom.xml"

// Declaration is one dependency entry as written in a descriptor file.
// Group, Artifact, and Version may contain ${name} placeholders; Version
// and Scope may be empty.
type Declaration struct {
	Group    string
	Artifact string
	Version  string
	Scope    string
}

// Parent references the document this one inherits from, by relative
// filesystem path.
type Parent struct {
	Group        string
	Artifact     string
	Version      string
	RelativePath string
}

// Document is one parsed build-descriptor file.
type Document struct {
	// Path is the slash-separated repository-relative location of the
	// file this document was parsed from.
	Path string

	Group    string
	Artifact string
	Version  string

	props        *Properties
	Dependencies []Declaration
	Managed      []Declaration
	Parent       *Parent
}

// Properties returns the document's property table, never nil.
func (d *Document) Properties() *Properties {
	if d.props == nil {
		d.props = &Properties{}
	}
	return d.props
}

// ParentPath returns the repository-relative path of the parent
// descriptor, or "" when the document declares no parent. A relative
// path naming a directory means the descriptor file inside it.
func (d *Document) ParentPath() string {
	if d.Parent == nil {
		return ""
	}
	rel := d.Parent.RelativePath
	if rel == "" {
		rel = DefaultParentPath
	}
	if !strings.HasSuffix(rel, ".xml") {
		rel = path.Join(rel, "pom.xml")
	}
	return path.Join(path.Dir(d.Path), rel)
}

// Parse deserializes one descriptor file. The path is recorded on the
// returned document and used for parent-chain resolution. Malformed
// input returns an error; callers skip the file and continue with the
// rest of the repository.
func Parse(filePath string, data []byte) (*Document, error) {
	var proj project
	if err := xml.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}

	doc := &Document{
		Path:     filePath,
		Group:    proj.GroupID,
		Artifact: proj.ArtifactID,
		Version:  proj.Version,
		props:    &proj.Properties,
	}
	for _, d := range proj.Dependencies {
		doc.Dependencies = append(doc.Dependencies, d.declaration())
	}
	for _, d := range proj.Managed {
		doc.Managed = append(doc.Managed, d.declaration())
	}
	if proj.Parent != nil {
		doc.Parent = &Parent{
			Group:        proj.Parent.GroupID,
			Artifact:     proj.Parent.ArtifactID,
			Version:      proj.Parent.Version,
			RelativePath: proj.Parent.RelativePath,
		}
	}
	return doc, nil
}

type project struct {
	GroupID      string       `xml:"groupId"`
	ArtifactID   string       `xml:"artifactId"`
	Version      string       `xml:"version"`
	Properties   Properties   `xml:"properties"`
	Dependencies []dependency `xml:"dependencies>dependency"`
	Managed      []dependency `xml:"dependencyManagement>dependencies>dependency"`
	Parent       *parent      `xml:"parent"`
}

type parent struct {
	GroupID      string `xml:"groupId"`
	ArtifactID   string `xml:"artifactId"`
	Version      string `xml:"version"`
	RelativePath string `xml:"relativePath"`
}

type dependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
}

func (d dependency) declaration() Declaration {
	return Declaration{
		Group:    strings.TrimSpace(d.GroupID),
		Artifact: strings.TrimSpace(d.ArtifactID),
		Version:  strings.TrimSpace(d.Version),
		Scope:    strings.TrimSpace(d.Scope),
	}
}
