// Copyright (c) 2026 Statekit (https://github.com/statekit)
//
// schemafile.go — YAML schema-table definitions for the CLI: parsing,
// linting, and building a SchemaSet plus the enum descriptors the fields
// reference.

// Package schemafile loads component schema tables from YAML files.
package schemafile

import (
	"fmt"
	"os"

	"github.com/statekit/statepack"
	"gopkg.in/yaml.v3"
)

// File is a parsed schema definition document.
//
//	schemas:
//	  - cookie: counter
//	    kind: Counter
//	    fields:
//	      - {name: clicks, type: int}
//	      - {name: label, type: str}
//	      - {name: color, type: enum, enum: Color}
//	enums:
//	  Color: [0, 1, 2]
type File struct {
	Schemas []SchemaDef        `yaml:"schemas"`
	Enums   map[string][]int64 `yaml:"enums"`
}

// SchemaDef is one cookie-keyed schema definition.
type SchemaDef struct {
	Cookie string     `yaml:"cookie"`
	Kind   string     `yaml:"kind"`
	Fields []FieldDef `yaml:"fields"`
}

// FieldDef is one named, typed field. Type is one of int, float, str, bool,
// uuid, blob, or enum; enum fields name their member set via Enum.
type FieldDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Enum string `yaml:"enum,omitempty"`
}

// Problem is one lint finding, located by schema cookie and field name.
type Problem struct {
	Schema string
	Field  string
	Msg    string
}

func (p Problem) String() string {
	switch {
	case p.Field != "":
		return fmt.Sprintf("schema %q, field %q: %s", p.Schema, p.Field, p.Msg)
	case p.Schema != "":
		return fmt.Sprintf("schema %q: %s", p.Schema, p.Msg)
	default:
		return p.Msg
	}
}

// Load reads and parses the schema file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML bytes into a File.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("schemafile: parse: %w", err)
	}
	return &f, nil
}

// Build converts the file into a SchemaSet. Structural problems fail with
// the first error; run Lint for a full report.
func (f *File) Build() (*statepack.SchemaSet, error) {
	set := statepack.NewSchemaSet()
	for _, sd := range f.Schemas {
		b := statepack.S(sd.Cookie).Kind(sd.Kind)
		for _, fd := range sd.Fields {
			t, err := f.descriptor(fd)
			if err != nil {
				return nil, fmt.Errorf("schema %q, field %q: %w", sd.Cookie, fd.Name, err)
			}
			b.Field(fd.Name, t)
		}
		if err := set.Add(b.Build()); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (f *File) descriptor(fd FieldDef) (statepack.Type, error) {
	switch fd.Type {
	case "int":
		return statepack.Int, nil
	case "float":
		return statepack.Float, nil
	case "str", "string":
		return statepack.Str, nil
	case "bool":
		return statepack.Bool, nil
	case "uuid":
		return statepack.UUID, nil
	case "blob":
		return statepack.Blob, nil
	case "enum":
		members, ok := f.Enums[fd.Enum]
		if !ok {
			return nil, fmt.Errorf("schemafile: enum %q is not defined", fd.Enum)
		}
		return statepack.Enum(fd.Enum, members...), nil
	default:
		return nil, fmt.Errorf("schemafile: unknown field type %q", fd.Type)
	}
}

// Lint reports every structural problem in the file: duplicate cookies,
// empty or duplicate field names, unknown field types, unresolved enum
// references, and schemas whose minimum encoded length already exceeds the
// identifier budget.
func (f *File) Lint() []Problem {
	var problems []Problem
	cookies := make(map[string]struct{}, len(f.Schemas))
	for _, sd := range f.Schemas {
		if _, dup := cookies[sd.Cookie]; dup {
			problems = append(problems, Problem{Schema: sd.Cookie, Msg: "duplicate cookie"})
		}
		cookies[sd.Cookie] = struct{}{}

		names := make(map[string]struct{}, len(sd.Fields))
		minLen := 1 + len(sd.Cookie)
		for _, fd := range sd.Fields {
			if fd.Name == "" {
				problems = append(problems, Problem{Schema: sd.Cookie, Msg: "field with empty name"})
			}
			if _, dup := names[fd.Name]; dup {
				problems = append(problems, Problem{Schema: sd.Cookie, Field: fd.Name, Msg: "duplicate field name"})
			}
			names[fd.Name] = struct{}{}

			if _, err := f.descriptor(fd); err != nil {
				problems = append(problems, Problem{Schema: sd.Cookie, Field: fd.Name, Msg: err.Error()})
			}
			minLen += minEncodedLen(fd.Type)
		}
		if minLen > statepack.MaxIdentifierLen {
			problems = append(problems, Problem{
				Schema: sd.Cookie,
				Msg: fmt.Sprintf("minimum encoded length %d exceeds the %d-byte budget",
					minLen, statepack.MaxIdentifierLen),
			})
		}
	}
	return problems
}

// minEncodedLen is the smallest fragment a field of this type can produce.
func minEncodedLen(fieldType string) int {
	switch fieldType {
	case "int", "enum":
		return 2 // length byte + one payload byte
	case "float":
		return 8
	case "bool":
		return 1
	case "uuid":
		return 16
	default: // str, blob: length byte alone when empty
		return 1
	}
}
