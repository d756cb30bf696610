package statepack

import (
	"fmt"
	"strings"
)

// ────────────────────────────────────────────────────────────────────────────
// Descriptor interfaces
// ────────────────────────────────────────────────────────────────────────────

// Type is a descriptor for a value kind. Converters are registered against
// descriptors, schemas reference them per field, and the registry dispatches
// on them. Two descriptors denote the same type iff their tokens are equal.
type Type interface {
	// Token returns the stable identity used as registry and cache key.
	Token() string
	// Name returns a display name for diagnostics.
	Name() string
}

// Hierarchical is implemented by descriptors that belong to a named
// hierarchy. The registry's subclass scan walks Super chains when no exact
// registration matches.
type Hierarchical interface {
	Type
	// Super returns the parent descriptor, or nil at a hierarchy root.
	Super() Type
}

// Parameterized is implemented by descriptors that wrap an origin type with
// parameters. Resolution discards the parameters and dispatches on the
// origin.
type Parameterized interface {
	Type
	Origin() Type
}

// Alternatives is implemented by union descriptors. Resolution reduces a
// union to its leftmost alternative before any other lookup step.
type Alternatives interface {
	Type
	Alternatives() []Type
}

// ────────────────────────────────────────────────────────────────────────────
// Primitives
// ────────────────────────────────────────────────────────────────────────────

type primitive struct {
	token string
	name  string
}

func (p *primitive) Token() string { return p.token }
func (p *primitive) Name() string  { return p.name }

// Built-in primitive descriptors. Each has a converter pre-registered in
// NewRegistry except None, which exists only to mark the absent alternative
// of an Optional.
var (
	Int     Type = &primitive{token: "int", name: "int"}
	Float   Type = &primitive{token: "float", name: "float"}
	Str     Type = &primitive{token: "str", name: "str"}
	Bool    Type = &primitive{token: "bool", name: "bool"}
	UUID    Type = &primitive{token: "uuid", name: "uuid"}
	Blob    Type = &primitive{token: "blob", name: "blob"}
	Literal Type = &primitive{token: "literal", name: "literal"}
	None    Type = &primitive{token: "none", name: "none"}
)

// AnyEnum returns the root descriptor of the enum hierarchy. The built-in
// enum converter is registered against it with subclass support, so every
// Enum descriptor resolves to it.
func AnyEnum() Type { return anyEnum }

var anyEnum Type = &primitive{token: "enum", name: "enum"}

// ────────────────────────────────────────────────────────────────────────────
// Enums
// ────────────────────────────────────────────────────────────────────────────

// EnumType describes a closed set of integer-valued members. Encoding and
// decoding validate membership against it.
type EnumType struct {
	name    string
	members []int64
	set     map[int64]struct{}
}

// Enum returns a descriptor for a named enum with the given member values.
func Enum(name string, members ...int64) *EnumType {
	e := &EnumType{
		name:    name,
		members: append([]int64(nil), members...),
		set:     make(map[int64]struct{}, len(members)),
	}
	for _, m := range members {
		e.set[m] = struct{}{}
	}
	return e
}

func (e *EnumType) Token() string { return "enum:" + e.name }
func (e *EnumType) Name() string  { return e.name }

// Super returns the enum hierarchy root.
func (e *EnumType) Super() Type { return anyEnum }

// Members returns the member values in declaration order.
func (e *EnumType) Members() []int64 { return append([]int64(nil), e.members...) }

// Has reports whether v is a member of the enum.
func (e *EnumType) Has(v int64) bool {
	_, ok := e.set[v]
	return ok
}

// ────────────────────────────────────────────────────────────────────────────
// Subtypes
// ────────────────────────────────────────────────────────────────────────────

// SubType is a named descriptor derived from a parent. It never matches the
// parent's registration exactly; it is found by the subclass scan when the
// parent (or a further ancestor) is registered with subclass support.
type SubType struct {
	name   string
	parent Type
}

// Subtype returns a descriptor for a named refinement of parent.
func Subtype(name string, parent Type) *SubType {
	return &SubType{name: name, parent: parent}
}

func (s *SubType) Token() string { return "sub:" + s.name }
func (s *SubType) Name() string  { return s.name }

// Super returns the parent descriptor.
func (s *SubType) Super() Type { return s.parent }

// ────────────────────────────────────────────────────────────────────────────
// Unions and generic forms
// ────────────────────────────────────────────────────────────────────────────

type unionType struct {
	alts []Type
}

// Union returns a descriptor for "first | rest...". Resolution dispatches on
// the leftmost alternative only. Nested unions are flattened in order.
func Union(first Type, rest ...Type) Type {
	u := &unionType{}
	for _, t := range append([]Type{first}, rest...) {
		if inner, ok := t.(Alternatives); ok {
			u.alts = append(u.alts, inner.Alternatives()...)
			continue
		}
		u.alts = append(u.alts, t)
	}
	return u
}

// Optional returns Union(t, None).
func Optional(t Type) Type { return Union(t, None) }

func (u *unionType) Token() string {
	toks := make([]string, len(u.alts))
	for i, t := range u.alts {
		toks[i] = t.Token()
	}
	return "union[" + strings.Join(toks, "|") + "]"
}

func (u *unionType) Name() string {
	names := make([]string, len(u.alts))
	for i, t := range u.alts {
		names[i] = t.Name()
	}
	return strings.Join(names, " | ")
}

func (u *unionType) Alternatives() []Type { return append([]Type(nil), u.alts...) }

type genericType struct {
	origin Type
	params []Type
}

// Generic returns a descriptor for a parameterized form of origin. The
// parameters are carried for identity and display only; resolution uses the
// origin.
func Generic(origin Type, params ...Type) Type {
	return &genericType{origin: origin, params: append([]Type(nil), params...)}
}

func (g *genericType) Token() string {
	toks := make([]string, len(g.params))
	for i, t := range g.params {
		toks[i] = t.Token()
	}
	return g.origin.Token() + "[" + strings.Join(toks, ",") + "]"
}

func (g *genericType) Name() string {
	names := make([]string, len(g.params))
	for i, t := range g.params {
		names[i] = t.Name()
	}
	return g.origin.Name() + "[" + strings.Join(names, ",") + "]"
}

func (g *genericType) Origin() Type { return g.origin }

type literalType struct {
	values []string
}

// LiteralOf returns a descriptor for a fixed set of string values. It
// resolves through the Literal origin, which the built-in registry maps to
// the string converter.
func LiteralOf(values ...string) Type {
	return &literalType{values: append([]string(nil), values...)}
}

func (l *literalType) Token() string {
	return fmt.Sprintf("literal[%s]", strings.Join(l.values, ","))
}

func (l *literalType) Name() string { return "literal" }

func (l *literalType) Origin() Type { return Literal }

// Values returns the literal's allowed values in declaration order.
func (l *literalType) Values() []string { return append([]string(nil), l.values...) }
