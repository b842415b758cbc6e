// Package manifest reads declaration graphs from manifest files.
//
// A manifest is written by a host that has its own view of the declarations,
// for example a Gradle bridge dumping Kotlin sealed hierarchies. YAML, TOML and
// JSON are accepted, chosen by file extension:
//
//	schema: "1.0.0"
//	package: biz.aydin.uistate.demoScreen
//	types:
//	  - name: DemoScreenState
//	    kind: sealed_class
//	    marked: true
//	    variants:
//	      - name: Loading
//	        kind: data_object
//	      - ref: SharedError
//
// A ref points at another top-level declaration, in the same manifest or in
// any other manifest loaded alongside it. A ref that cannot be found leaves
// its union unresolved until a later pass.
package manifest

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/teranos/uistate/errors"
)

// SchemaVersion is the manifest schema written by current hosts.
const SchemaVersion = "1.0.0"

// SupportedSchema is the range of schema versions this reader accepts.
const SupportedSchema = "^1.0.0"

// Kind is the kind of a declaration as the host sees it.
type Kind string

const (
	KindSealedClass     Kind = "sealed_class"
	KindSealedInterface Kind = "sealed_interface"
	KindClass           Kind = "class"
	KindInterface       Kind = "interface"
	KindObject          Kind = "object"
	KindDataClass       Kind = "data_class"
	KindDataObject      Kind = "data_object"
)

// IsUnion reports whether declarations of kind k have a closed set of cases.
func (k Kind) IsUnion() bool {
	return k == KindSealedClass || k == KindSealedInterface
}

func (k Kind) valid() bool {
	switch k {
	case KindSealedClass, KindSealedInterface, KindClass, KindInterface,
		KindObject, KindDataClass, KindDataObject:
		return true
	}
	return false
}

// File is one decoded manifest.
type File struct {
	Schema  string `yaml:"schema" toml:"schema" json:"schema"`
	Package string `yaml:"package" toml:"package" json:"package"`
	Types   []Decl `yaml:"types" toml:"types" json:"types"`
}

// Decl is one declaration entry. An entry either declares a type (Name,
// Kind, Variants) or refers to a top-level one (Ref).
type Decl struct {
	Name      string `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Kind      Kind   `yaml:"kind,omitempty" toml:"kind,omitempty" json:"kind,omitempty"`
	Marked    bool   `yaml:"marked,omitempty" toml:"marked,omitempty" json:"marked,omitempty"`
	Qualified string `yaml:"qualified,omitempty" toml:"qualified,omitempty" json:"qualified,omitempty"`
	Ref       string `yaml:"ref,omitempty" toml:"ref,omitempty" json:"ref,omitempty"`
	Variants  []Decl `yaml:"variants,omitempty" toml:"variants,omitempty" json:"variants,omitempty"`
}

// ReadFile decodes the manifest at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}
	f, err := Decode(filepath.Ext(path), data)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}
	return f, nil
}

// Decode decodes a manifest in the format named by ext (".yaml", ".yml",
// ".toml" or ".json"). Unknown fields are rejected.
func Decode(ext string, data []byte) (*File, error) {
	var f File

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && err != io.EOF {
			return nil, invalid(err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, invalid(err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.WithDetailf(errors.ErrInvalidManifest, "unknown field %q", undecoded[0].String())
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil && err != io.EOF {
			return nil, invalid(err)
		}
	default:
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidManifest, "unsupported manifest format %q", ext),
			"use .yaml, .yml, .toml or .json",
		)
	}

	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func invalid(err error) error {
	return errors.WithDetail(errors.ErrInvalidManifest, err.Error())
}

// validate checks the schema version and every entry's shape.
func (f *File) validate() error {
	if f.Schema != "" {
		v, err := semver.NewVersion(f.Schema)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidManifest, "invalid schema version %q", f.Schema)
		}
		constraint, err := semver.NewConstraint(SupportedSchema)
		if err != nil {
			return errors.Wrapf(err, "invalid schema constraint %s", SupportedSchema)
		}
		if !constraint.Check(v) {
			return errors.WithHintf(
				errors.Wrapf(errors.ErrInvalidManifest, "schema %s is not supported", f.Schema),
				"this version of uistate reads schema %s", SupportedSchema,
			)
		}
	}

	for i := range f.Types {
		if f.Types[i].Ref != "" {
			return errors.Wrapf(errors.ErrInvalidManifest, "top-level entry %d is a ref", i)
		}
		if err := f.Types[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decl) validate() error {
	if d.Ref != "" {
		if d.Name != "" || d.Kind != "" || d.Qualified != "" || d.Marked || len(d.Variants) > 0 {
			return errors.Wrapf(errors.ErrInvalidManifest, "ref %s must not declare anything else", d.Ref)
		}
		return nil
	}

	// An empty name is allowed: it is reported per variant when helpers are named.
	if d.Kind == "" {
		d.Kind = KindClass
	}
	if !d.Kind.valid() {
		return errors.Wrapf(errors.ErrInvalidManifest, "%s has unknown kind %q", d.Name, d.Kind)
	}
	if len(d.Variants) > 0 && !d.Kind.IsUnion() {
		return errors.Wrapf(errors.ErrInvalidManifest, "%s is a %s and cannot have variants", d.Name, d.Kind)
	}
	for i := range d.Variants {
		if err := d.Variants[i].validate(); err != nil {
			return err
		}
	}
	return nil
}
