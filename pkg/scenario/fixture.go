// Package scenario runs declarative type system fixtures. A fixture declares
// a class hierarchy and a list of cases; each case runs a sequence of checks
// and resolutions in its own binding frame.
package scenario

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"github.com/rhino1998/unify/pkg/typesys"
	"gopkg.in/yaml.v3"
)

type Fixture struct {
	Config  typesys.Config `yaml:"config" toml:"config"`
	Classes []ClassDecl    `yaml:"classes" toml:"classes"`
	Cases   []Case         `yaml:"cases" toml:"cases"`
}

type ClassDecl struct {
	Name     string        `yaml:"name" toml:"name"`
	Parent   string        `yaml:"parent,omitempty" toml:"parent,omitempty"`
	Generics int           `yaml:"generics,omitempty" toml:"generics,omitempty"`
	Enum     bool          `yaml:"enum,omitempty" toml:"enum,omitempty"`
	Variants []VariantDecl `yaml:"variants,omitempty" toml:"variants,omitempty"`
}

type VariantDecl struct {
	Name string `yaml:"name" toml:"name"`

	// Payload names the enum generic each payload position fills.
	Payload []string `yaml:"payload,omitempty" toml:"payload,omitempty"`
}

type Case struct {
	Name     string `yaml:"name" toml:"name"`
	Generics int    `yaml:"generics,omitempty" toml:"generics,omitempty"`
	Steps    []Step `yaml:"steps" toml:"steps"`
}

type Op string

const (
	OpCheck        Op = "check"
	OpBroader      Op = "broader"
	OpMatches      Op = "matches"
	OpMember       Op = "member"
	OpResolve      Op = "resolve"
	OpResolveIn    Op = "resolve_in"
	OpProject      Op = "project"
	OpFillSelf     Op = "fill_self"
	OpPull         Op = "pull"
	OpLookup       Op = "lookup"
	OpCountUnbound Op = "count_unbound"
)

type Step struct {
	Op    Op       `yaml:"op" toml:"op"`
	Left  TypeSpec `yaml:"left,omitempty" toml:"left,omitempty"`
	Right TypeSpec `yaml:"right,omitempty" toml:"right,omitempty"`

	// Variance and Mode select the rule for matches steps.
	Variance string `yaml:"variance,omitempty" toml:"variance,omitempty"`
	Mode     string `yaml:"mode,omitempty" toml:"mode,omitempty"`

	// Expect is compared with the step's result rendered as a string. Steps
	// without a result ignore it.
	Expect string `yaml:"expect,omitempty" toml:"expect,omitempty"`
}

// TypeSpec describes a type structurally: exactly one of Absent, Generic and
// Class is set.
type TypeSpec struct {
	Class   string     `yaml:"class,omitempty" toml:"class,omitempty"`
	Args    []TypeSpec `yaml:"args,omitempty" toml:"args,omitempty"`
	Varargs bool       `yaml:"varargs,omitempty" toml:"varargs,omitempty"`
	Generic string     `yaml:"generic,omitempty" toml:"generic,omitempty"`
	Absent  bool       `yaml:"absent,omitempty" toml:"absent,omitempty"`
}

func (s TypeSpec) IsZero() bool {
	return s.Class == "" && s.Generic == "" && !s.Absent && len(s.Args) == 0 && !s.Varargs
}

// Load reads and decodes the fixture at name in fsys.
func Load(fsys fs.FS, name string) (*Fixture, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %q: %w", name, err)
	}

	fixture, err := Decode(name, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode fixture %q: %w", name, err)
	}

	return fixture, nil
}

// Decode decodes a YAML or TOML fixture, picking the format from the
// extension of name.
func Decode(name string, data []byte) (*Fixture, error) {
	var fixture Fixture

	switch ext := filepath.Ext(name); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)

		err := dec.Decode(&fixture)
		if err != nil {
			return nil, err
		}
	case ".toml":
		err := toml.Unmarshal(data, &fixture)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported fixture format %q", ext)
	}

	return &fixture, nil
}
