package statepack

import (
	"fmt"
	"sync"
)

// Field is one named, typed slot in a Schema.
type Field struct {
	Name string
	Type Type
}

// Schema defines how one component kind's state is encoded: an ordered
// field list bound to a cookie. Define once per component kind and treat as
// immutable.
type Schema struct {
	// Cookie identifies the schema inside an encoded identifier; it is
	// always the first logical field.
	Cookie string
	// Kind is an opaque handle for the component kind, returned verbatim by
	// Deserialize. The codec never inspects it.
	Kind any
	// Fields are encoded and decoded in declaration order.
	Fields []Field
}

// ────────────────────────────────────────────────────────────────────────────
// Fluent builder
// ────────────────────────────────────────────────────────────────────────────

// schemaBuilder is the fluent builder for Schema.
type schemaBuilder struct{ s Schema }

// S returns a new fluent schema builder for cookie.
func S(cookie string) *schemaBuilder { return &schemaBuilder{s: Schema{Cookie: cookie}} }

// Kind sets the opaque component-kind handle.
func (b *schemaBuilder) Kind(v any) *schemaBuilder { b.s.Kind = v; return b }

// Field appends a field; order of calls is encoding order.
func (b *schemaBuilder) Field(name string, t Type) *schemaBuilder {
	b.s.Fields = append(b.s.Fields, Field{Name: name, Type: t})
	return b
}

// Build returns the assembled Schema.
func (b *schemaBuilder) Build() Schema { return b.s }

// ────────────────────────────────────────────────────────────────────────────
// Schema table
// ────────────────────────────────────────────────────────────────────────────

// SchemaSource supplies the cookie→schema table during Deserialize. The
// table is owned by the surrounding component system; the codec only reads
// it.
type SchemaSource interface {
	// SchemaFor returns the schema registered for cookie.
	SchemaFor(cookie string) (Schema, bool)
}

// SchemaSet is an in-memory SchemaSource with duplicate-cookie rejection.
type SchemaSet struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

// NewSchemaSet returns an empty SchemaSet.
func NewSchemaSet() *SchemaSet {
	return &SchemaSet{schemas: make(map[string]Schema)}
}

// Add registers s under its cookie.
func (ss *SchemaSet) Add(s Schema) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if _, exists := ss.schemas[s.Cookie]; exists {
		return fmt.Errorf("%w: %q", ErrSchemaDuplicate, s.Cookie)
	}
	ss.schemas[s.Cookie] = s
	return nil
}

// SchemaFor returns the schema registered for cookie.
func (ss *SchemaSet) SchemaFor(cookie string) (Schema, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	s, ok := ss.schemas[cookie]
	return s, ok
}

// All returns the registered schemas in unspecified order.
func (ss *SchemaSet) All() []Schema {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	out := make([]Schema, 0, len(ss.schemas))
	for _, s := range ss.schemas {
		out = append(out, s)
	}
	return out
}

// Len returns the number of registered schemas.
func (ss *SchemaSet) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.schemas)
}
