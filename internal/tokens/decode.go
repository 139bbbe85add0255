package tokens

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Decode parses a token document. JSON is the canonical format and is read
// with a streaming JSON decoder; anything else goes through the YAML node
// decoder, so YAML documents are accepted as well. Mapping order and the
// source spelling of numbers are preserved either way.
func Decode(data []byte) (*Document, error) {
	if isJSONObject(data) {
		return decodeJSON(data)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing token document: %w", err)
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("token document is empty")
	}

	top := resolveAlias(root.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("token document must be an object at the top level, got %s", nodeKindName(top.Kind))
	}

	return decodeMapping(top)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func isJSONObject(data []byte) bool {
	data = bytes.TrimLeft(bytes.TrimPrefix(data, utf8BOM), " \t\r\n")
	return len(data) > 0 && data[0] == '{'
}

func decodeJSON(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	dec.UseNumber()

	if _, err := nextJSONToken(dec); err != nil {
		return nil, fmt.Errorf("parsing token document: %w", err)
	}
	doc, err := decodeJSONObject(dec)
	if err != nil {
		return nil, fmt.Errorf("parsing token document: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("parsing token document: unexpected data after the top-level object")
	}
	return doc, nil
}

// nextJSONToken reads one token; running out of input inside a value is
// always an error.
func nextJSONToken(dec *json.Decoder) (json.Token, error) {
	tok, err := dec.Token()
	if err == io.EOF {
		return nil, io.ErrUnexpectedEOF
	}
	return tok, err
}

// decodeJSONObject reads the members of an object whose opening brace has
// already been consumed.
func decodeJSONObject(dec *json.Decoder) (*Document, error) {
	doc := NewDocument()
	for dec.More() {
		tok, err := nextJSONToken(dec)
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("offset %d: token keys must be strings", dec.InputOffset())
		}

		value, err := decodeJSONValue(dec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		doc.Set(key, value)
	}
	if _, err := nextJSONToken(dec); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := nextJSONToken(dec)
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			list := List{}
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, item)
			}
			if _, err := nextJSONToken(dec); err != nil {
				return nil, err
			}
			return list, nil
		}
		return nil, fmt.Errorf("offset %d: unexpected %q", dec.InputOffset(), rune(v))
	case string:
		return String(v), nil
	case json.Number:
		return Number(v.String()), nil
	case bool:
		return Scalar{Kind: ScalarBool, Text: strconv.FormatBool(v)}, nil
	case nil:
		return Scalar{Kind: ScalarNull}, nil
	default:
		return nil, fmt.Errorf("offset %d: unsupported JSON token %T", dec.InputOffset(), tok)
	}
}

func decodeMapping(node *yaml.Node) (*Document, error) {
	doc := NewDocument()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := resolveAlias(node.Content[i])
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: token keys must be scalars", keyNode.Line)
		}

		value, err := decodeNode(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", keyNode.Value, err)
		}
		doc.Set(keyNode.Value, value)
	}
	return doc, nil
}

func decodeNode(node *yaml.Node) (Value, error) {
	node = resolveAlias(node)

	switch node.Kind {
	case yaml.MappingNode:
		return decodeMapping(node)
	case yaml.SequenceNode:
		list := make(List, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := decodeNode(item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.ScalarNode:
		return decodeScalar(node), nil
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %s", node.Line, nodeKindName(node.Kind))
	}
}

func decodeScalar(node *yaml.Node) Scalar {
	switch node.ShortTag() {
	case "!!int", "!!float":
		return Scalar{Kind: ScalarNumber, Text: node.Value}
	case "!!bool":
		return Scalar{Kind: ScalarBool, Text: node.Value}
	case "!!null":
		return Scalar{Kind: ScalarNull, Text: ""}
	default:
		return Scalar{Kind: ScalarString, Text: node.Value}
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func nodeKindName(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "array"
	case yaml.MappingNode:
		return "object"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "empty"
	}
}

// MarshalJSON encodes the document as a JSON object in document order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON encodes the list as a JSON array.
func (l List) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON encodes the scalar with its original kind.
func (s Scalar) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalYAML encodes the document as an ordered YAML mapping.
func (d *Document) MarshalYAML() (interface{}, error) {
	return toYAMLNode(d), nil
}

func toYAMLNode(v Value) *yaml.Node {
	switch val := v.(type) {
	case *Document:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, e := range val.Entries() {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				toYAMLNode(e.Value),
			)
		}
		return node
	case List:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range val {
			node.Content = append(node.Content, toYAMLNode(item))
		}
		return node
	case Scalar:
		tag := "!!str"
		switch val.Kind {
		case ScalarNumber:
			tag = "!!float"
			if json.Valid([]byte(val.Text)) && !bytes.ContainsAny([]byte(val.Text), ".eE") {
				tag = "!!int"
			}
		case ScalarBool:
			tag = "!!bool"
		case ScalarNull:
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val.Text}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func encodeValue(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case *Document:
		buf.WriteByte('{')
		for i, e := range val.Entries() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, e.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encodeValue(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case List:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Scalar:
		switch val.Kind {
		case ScalarNumber, ScalarBool:
			// YAML spellings such as 0x1F or .5 are not JSON numbers.
			if json.Valid([]byte(val.Text)) {
				buf.WriteString(val.Text)
				return nil
			}
			return encodeString(buf, val.Text)
		case ScalarNull:
			buf.WriteString("null")
		default:
			return encodeString(buf, val.Text)
		}
	case nil:
		buf.WriteString("null")
	default:
		return fmt.Errorf("unsupported token value %T", v)
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encoder.Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
