// Package fixture loads attribute binding scenarios from YAML or TOML.
//
// A fixture declares the types visible to the sources (attribute classes
// with their constructors, fields and properties, enums, plain classes) and
// one or more source texts containing attribute applications. Loading a
// fixture produces a Workspace: a populated symbol table, a checker over
// it, and the parsed sources.
//
//	defined: [DEBUG]
//	types:
//	  - name: InfoAttribute
//	    base: Attribute
//	    constructors:
//	      - params:
//	          - {name: level, type: int}
//	          - {name: tag, type: string, optional: true, default: none}
//	sources:
//	  - path: widget.cs
//	    text: |
//	      [Info(2)] Widget
package fixture

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/attrbind/errors"
)

// Fixture is the decoded form of a fixture file
type Fixture struct {
	// Defined are preprocessor symbols active in every source
	Defined []string     `yaml:"defined" toml:"defined"`
	Types   []TypeDecl   `yaml:"types" toml:"types"`
	Sources []SourceDecl `yaml:"sources" toml:"sources"`
}

// TypeDecl declares one named type
type TypeDecl struct {
	Name       string   `yaml:"name" toml:"name"`
	Kind       string   `yaml:"kind" toml:"kind"` // class (default), struct, enum, interface
	Base       string   `yaml:"base" toml:"base"`
	Access     string   `yaml:"access" toml:"access"`
	Abstract   bool     `yaml:"abstract" toml:"abstract"`
	TypeParams []string `yaml:"type_params" toml:"type_params"`

	// Underlying and Members apply to enums
	Underlying string       `yaml:"underlying" toml:"underlying"`
	Members    []EnumMember `yaml:"members" toml:"members"`

	Fields       []FieldDecl    `yaml:"fields" toml:"fields"`
	Properties   []PropertyDecl `yaml:"properties" toml:"properties"`
	Constructors []CtorDecl     `yaml:"constructors" toml:"constructors"`

	Conditional     []string `yaml:"conditional" toml:"conditional"`
	Obsolete        bool     `yaml:"obsolete" toml:"obsolete"`
	ObsoleteMessage string   `yaml:"obsolete_message" toml:"obsolete_message"`
}

// EnumMember is one named enum value
type EnumMember struct {
	Name  string `yaml:"name" toml:"name"`
	Value int64  `yaml:"value" toml:"value"`
}

// FieldDecl declares a field. Value is required for const fields.
type FieldDecl struct {
	Name     string      `yaml:"name" toml:"name"`
	Type     string      `yaml:"type" toml:"type"`
	Access   string      `yaml:"access" toml:"access"`
	Static   bool        `yaml:"static" toml:"static"`
	ReadOnly bool        `yaml:"readonly" toml:"readonly"`
	Const    bool        `yaml:"const" toml:"const"`
	Value    interface{} `yaml:"value" toml:"value"`
}

// PropertyDecl declares a property. Getter and Setter hold the accessor
// accessibility; empty means the accessor does not exist.
type PropertyDecl struct {
	Name   string `yaml:"name" toml:"name"`
	Type   string `yaml:"type" toml:"type"`
	Static bool   `yaml:"static" toml:"static"`
	Getter string `yaml:"getter" toml:"getter"`
	Setter string `yaml:"setter" toml:"setter"`
}

// CtorDecl declares a constructor
type CtorDecl struct {
	Access          string      `yaml:"access" toml:"access"`
	Params          []ParamDecl `yaml:"params" toml:"params"`
	Obsolete        bool        `yaml:"obsolete" toml:"obsolete"`
	ObsoleteMessage string      `yaml:"obsolete_message" toml:"obsolete_message"`
}

// ParamDecl declares a constructor parameter.
//
// Default is the explicit default value. TOML has no null, so a null
// default is written as the string "null" for reference types, and the
// string "none" means optional without an explicit value. Caller is one of
// line, file_path, member_name or argument_expression; CallerArgument names
// the parameter whose argument text an argument_expression parameter
// captures.
type ParamDecl struct {
	Name           string      `yaml:"name" toml:"name"`
	Type           string      `yaml:"type" toml:"type"`
	Ref            string      `yaml:"ref" toml:"ref"` // ref, out, in
	Params         bool        `yaml:"params" toml:"params"`
	Optional       bool        `yaml:"optional" toml:"optional"`
	Default        interface{} `yaml:"default" toml:"default"`
	BadDefault     bool        `yaml:"bad_default" toml:"bad_default"`
	Caller         string      `yaml:"caller" toml:"caller"`
	CallerArgument string      `yaml:"caller_argument" toml:"caller_argument"`
}

// SourceDecl is one source text
type SourceDecl struct {
	Path        string   `yaml:"path" toml:"path"`
	DisplayPath string   `yaml:"display_path" toml:"display_path"`
	Defined     []string `yaml:"defined" toml:"defined"`
	Text        string   `yaml:"text" toml:"text"`
}

// Format is a fixture encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks the encoding from a file extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.WithHint(
		errors.NewInvalidFixtureError("cannot tell the format of %s", path),
		"fixture files end in .yaml, .yml or .toml")
}

// Decode parses fixture data. Unknown keys are rejected so that typos in
// a fixture do not silently drop declarations.
func Decode(data []byte, format Format) (*Fixture, error) {
	var f Fixture
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrInvalidFixture, err.Error())
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrInvalidFixture, err.Error())
		}
	default:
		return nil, errors.NewInvalidFixtureError("unsupported fixture format %q", format)
	}

	if len(f.Sources) == 0 {
		return nil, errors.WithHint(
			errors.NewInvalidFixtureError("fixture has no sources"),
			"add at least one entry under 'sources' with a 'text' to bind")
	}
	return &f, nil
}
