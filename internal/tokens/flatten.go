package tokens

import (
	"strings"
	"unicode"

	"github.com/conneroisu/prism/internal/errors"
)

// Reserved keys with special flattening semantics.
const (
	DefaultKey    = "DEFAULT"
	ValueKey      = "value"
	FontFamilyKey = "fontFamily"
)

// NodeKind is the shape a token node is classified as before flattening.
type NodeKind int

const (
	NodeScalar NodeKind = iota
	NodeValueWrapper
	NodeDefaultable
	NodeFontFamily
	NodeGeneric
	NodeList
	NodeNull
)

// String returns the string representation of the NodeKind
func (k NodeKind) String() string {
	switch k {
	case NodeScalar:
		return "scalar"
	case NodeValueWrapper:
		return "value-wrapper"
	case NodeDefaultable:
		return "defaultable"
	case NodeFontFamily:
		return "font-family"
	case NodeGeneric:
		return "generic"
	case NodeList:
		return "list"
	case NodeNull:
		return "null"
	default:
		return "unknown"
	}
}

// Classify determines how the node stored under key is flattened. Checks run
// in priority order: value wrapper, DEFAULT group, fontFamily group, generic.
func Classify(key string, value Value) NodeKind {
	switch v := value.(type) {
	case Scalar:
		if v.IsNull() {
			return NodeNull
		}
		return NodeScalar
	case List:
		return NodeList
	case *Document:
		if _, ok := unwrapValue(v); ok {
			return NodeValueWrapper
		}
		if def, ok := v.Get(DefaultKey); ok {
			if s, isScalar := def.(Scalar); isScalar && !s.IsNull() {
				return NodeDefaultable
			}
		}
		if key == FontFamilyKey {
			return NodeFontFamily
		}
		return NodeGeneric
	default:
		return NodeNull
	}
}

// Unwrap returns the scalar held by value when it is a non-null scalar or a
// value wrapper.
func Unwrap(value Value) (Scalar, bool) {
	switch v := value.(type) {
	case Scalar:
		return v, !v.IsNull()
	case *Document:
		return unwrapValue(v)
	default:
		return Scalar{}, false
	}
}

// unwrapValue returns the scalar of a {"value": scalar} wrapper. Metadata keys
// next to "value" are ignored.
func unwrapValue(doc *Document) (Scalar, bool) {
	var (
		found  Scalar
		hasVal bool
	)
	for _, e := range doc.Entries() {
		if IsMetadataKey(e.Key) {
			continue
		}
		if e.Key != ValueKey {
			return Scalar{}, false
		}
		s, ok := e.Value.(Scalar)
		if !ok || s.IsNull() {
			return Scalar{}, false
		}
		found, hasVal = s, true
	}
	return found, hasVal
}

// FlatMap maps dashed token paths to scalars, in flattening order.
type FlatMap struct {
	keys   []string
	values map[string]Scalar
}

// NewFlatMap creates an empty map.
func NewFlatMap() *FlatMap {
	return &FlatMap{values: make(map[string]Scalar)}
}

// Set stores a value. A key set twice keeps its first position.
func (m *FlatMap) Set(key string, value Scalar) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *FlatMap) Get(key string) (Scalar, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *FlatMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *FlatMap) Len() int {
	return len(m.keys)
}

// Each calls fn for every entry in insertion order.
func (m *FlatMap) Each(fn func(key string, value Scalar)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Flatten turns the nested document into dashed-path entries. prefix is
// prepended verbatim to every top-level key.
//
// Lists are only meaningful inside a fontFamily group; anywhere else they are
// reported as malformed rather than stringified.
func Flatten(doc *Document, prefix string) (*FlatMap, error) {
	out := NewFlatMap()
	if err := flattenInto(out, doc, prefix); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenInto(out *FlatMap, doc *Document, prefix string) error {
	for _, e := range doc.Entries() {
		if IsMetadataKey(e.Key) {
			continue
		}
		path := prefix + e.Key

		switch Classify(e.Key, e.Value) {
		case NodeScalar:
			if err := setLeaf(out, path, e.Value.(Scalar)); err != nil {
				return err
			}

		case NodeValueWrapper:
			s, _ := unwrapValue(e.Value.(*Document))
			if err := setLeaf(out, path, s); err != nil {
				return err
			}

		case NodeDefaultable:
			group := e.Value.(*Document)
			def, _ := group.Get(DefaultKey)
			if err := setLeaf(out, path, def.(Scalar)); err != nil {
				return err
			}
			if err := flattenInto(out, withoutKey(group, DefaultKey), path+"-"); err != nil {
				return err
			}

		case NodeFontFamily:
			if err := flattenFontFamily(out, e.Value.(*Document), path+"-"); err != nil {
				return err
			}

		case NodeGeneric:
			if err := flattenInto(out, e.Value.(*Document), path+"-"); err != nil {
				return err
			}

		case NodeList:
			return errors.NewMalformedTokenError(errors.CodeTokenList, path,
				"arrays are only supported inside a fontFamily group")

		default:
			return errors.NewMalformedTokenError(errors.CodeTokenNull, path,
				"null is not a token value")
		}
	}
	return nil
}

func flattenFontFamily(out *FlatMap, group *Document, prefix string) error {
	for _, e := range group.Entries() {
		if IsMetadataKey(e.Key) {
			continue
		}
		path := prefix + e.Key

		names, err := FontNames(path, e.Value)
		if err != nil {
			return err
		}
		if err := setLeaf(out, path, String(JoinFontNames(names))); err != nil {
			return err
		}
	}
	return nil
}

// setLeaf stores one flattened leaf. Two leaves that collapse onto the same
// dashed path, such as "a-b" and "a": {"b": ...}, are malformed.
func setLeaf(out *FlatMap, path string, value Scalar) error {
	if _, exists := out.Get(path); exists {
		return errors.NewMalformedTokenError(errors.CodeTokenDuplicate, path,
			"more than one token flattens to this path")
	}
	out.Set(path, value)
	return nil
}

// FontNames extracts the font-name sequence of one fontFamily entry. A plain
// string counts as a one-element sequence.
func FontNames(path string, value Value) ([]string, error) {
	switch v := value.(type) {
	case Scalar:
		if v.Kind == ScalarString {
			return []string{v.Text}, nil
		}
	case List:
		if names, ok := v.Strings(); ok {
			return names, nil
		}
	}
	return nil, errors.NewMalformedTokenError(errors.CodeFontFamily, path,
		"font families must be a string or an array of strings")
}

// JoinFontNames joins font names with ", ", quoting names that contain
// whitespace.
func JoinFontNames(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = quoteFontName(name)
	}
	return strings.Join(quoted, ", ")
}

func quoteFontName(name string) string {
	if strings.IndexFunc(name, unicode.IsSpace) < 0 {
		return name
	}
	if strings.HasPrefix(name, `"`) || strings.HasPrefix(name, `'`) {
		return name
	}
	return `"` + name + `"`
}

func withoutKey(doc *Document, key string) *Document {
	out := NewDocument()
	for _, e := range doc.Entries() {
		if e.Key != key {
			out.Set(e.Key, e.Value)
		}
	}
	return out
}
