// Package tokens holds the design-token document model and the two
// transformations every generator builds on: flattening the nested token tree
// into dashed custom-property keys and bucketing those keys into categories.
//
// A Document keeps the key order of its source file. All outputs derived from
// it are therefore deterministic: the same document always flattens, and
// therefore renders, to byte-identical text.
package tokens

import (
	"strings"
)

// MetadataMarker prefixes keys that carry document metadata ($schema,
// $description, ...). Such keys never produce tokens.
const MetadataMarker = "$"

// IsMetadataKey reports whether key is a metadata key.
func IsMetadataKey(key string) bool {
	return strings.HasPrefix(key, MetadataMarker)
}

// Value is one node of a token document: a Scalar, a List or a *Document.
type Value interface {
	isValue()
}

// ScalarKind distinguishes the lexical kinds a scalar was written as.
type ScalarKind int

const (
	ScalarString ScalarKind = iota
	ScalarNumber
	ScalarBool
	ScalarNull
)

// String returns the string representation of the ScalarKind
func (k ScalarKind) String() string {
	switch k {
	case ScalarString:
		return "string"
	case ScalarNumber:
		return "number"
	case ScalarBool:
		return "bool"
	case ScalarNull:
		return "null"
	default:
		return "unknown"
	}
}

// Scalar is a leaf value. Text is the source spelling, so numbers are never
// reformatted on their way to CSS.
type Scalar struct {
	Kind ScalarKind
	Text string
}

// String creates a string scalar.
func String(s string) Scalar { return Scalar{Kind: ScalarString, Text: s} }

// Number creates a number scalar from its textual form.
func Number(text string) Scalar { return Scalar{Kind: ScalarNumber, Text: text} }

func (Scalar) isValue() {}

// String returns the scalar's text.
func (s Scalar) String() string { return s.Text }

// IsNull reports whether the scalar is a null literal.
func (s Scalar) IsNull() bool { return s.Kind == ScalarNull }

// List is an ordered sequence of values.
type List []Value

func (List) isValue() {}

// Strings returns the list as strings when every element is a string scalar.
func (l List) Strings() ([]string, bool) {
	out := make([]string, 0, len(l))
	for _, v := range l {
		s, ok := v.(Scalar)
		if !ok || s.Kind != ScalarString {
			return nil, false
		}
		out = append(out, s.Text)
	}
	return out, true
}

// Entry is one key/value pair of a Document.
type Entry struct {
	Key   string
	Value Value
}

// Document is an ordered mapping from keys to values.
type Document struct {
	entries []Entry
	index   map[string]int
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{index: make(map[string]int)}
}

func (*Document) isValue() {}

// Set stores value under key. An existing key keeps its position.
func (d *Document) Set(key string, value Value) *Document {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[key]; ok {
		d.entries[i].Value = value
		return d
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, Entry{Key: key, Value: value})
	return d
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.entries[i].Value, true
}

// Entries returns the entries in document order.
func (d *Document) Entries() []Entry {
	if d == nil {
		return nil
	}
	return d.entries
}

// Keys returns the keys in document order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.Key
	}
	return keys
}

// Len returns the number of entries.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Lookup resolves a dotted path such as "slide.padding.reveal".
func (d *Document) Lookup(path string) (Value, bool) {
	var current Value = d
	for _, part := range strings.Split(path, ".") {
		doc, ok := current.(*Document)
		if !ok || doc == nil {
			return nil, false
		}
		current, ok = doc.Get(part)
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// LookupDocument resolves a dotted path to a nested document.
func (d *Document) LookupDocument(path string) (*Document, bool) {
	v, ok := d.Lookup(path)
	if !ok {
		return nil, false
	}
	doc, ok := v.(*Document)
	return doc, ok
}

// LookupScalar resolves a dotted path to a non-null scalar. A ValueWrapper
// at the path is unwrapped.
func (d *Document) LookupScalar(path string) (Scalar, bool) {
	v, ok := d.Lookup(path)
	if !ok {
		return Scalar{}, false
	}
	if doc, isDoc := v.(*Document); isDoc {
		if inner, wrapped := unwrapValue(doc); wrapped {
			v = inner
		}
	}
	s, ok := v.(Scalar)
	if !ok || s.IsNull() {
		return Scalar{}, false
	}
	return s, true
}

// StringOr returns the scalar text at path, or fallback when the path is
// absent or not a scalar.
func (d *Document) StringOr(path, fallback string) string {
	if s, ok := d.LookupScalar(path); ok && s.Text != "" {
		return s.Text
	}
	return fallback
}
