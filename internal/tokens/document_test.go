package tokens

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDecodePreservesOrder(t *testing.T) {
	doc, err := Decode([]byte(`{"z": "1", "a": {"y": 2, "b": 3}, "m": true}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"z", "a", "m"}, doc.Keys())

	nested, ok := doc.LookupDocument("a")
	require.True(t, ok)
	assert.Equal(t, []string{"y", "b"}, nested.Keys())
}

func TestDecodeScalarKinds(t *testing.T) {
	doc, err := Decode([]byte(`{"s": "text", "n": 1.50, "i": 600, "b": false, "z": null}`))
	require.NoError(t, err)

	tests := []struct {
		path string
		kind ScalarKind
		text string
	}{
		{"s", ScalarString, "text"},
		{"n", ScalarNumber, "1.50"},
		{"i", ScalarNumber, "600"},
		{"b", ScalarBool, "false"},
		{"z", ScalarNull, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, ok := doc.Get(tt.path)
			require.True(t, ok)
			s, ok := v.(Scalar)
			require.True(t, ok)
			assert.Equal(t, tt.kind, s.Kind)
			assert.Equal(t, tt.text, s.Text)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"top level array", `["a", "b"]`},
		{"top level scalar", `"tokens"`},
		{"syntax error", `{"colors": {`},
		{"unterminated array", `{"fonts": ["Inter", `},
		{"trailing data", `{"colors": {}} {"more": 1}`},
		{"missing value", `{"colors": }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestDecodeJSONEscapes(t *testing.T) {
	doc, err := Decode([]byte(`{
		"$schema": "https:\/\/prism.dev\/schema.json",
		"typography": {"fontFamily": {"sans": ["Caf\u00e9 Sans", "system-ui"]}},
		"content": {"quote": "\"\u2014\" \\ \t"},
		"spacing": {"unit": 1.50, "large": 1e2}
	}`))
	require.NoError(t, err)

	tests := []struct {
		path string
		kind ScalarKind
		text string
	}{
		{"$schema", ScalarString, "https://prism.dev/schema.json"},
		{"content.quote", ScalarString, "\"\u2014\" \\ \t"},
		{"spacing.unit", ScalarNumber, "1.50"},
		{"spacing.large", ScalarNumber, "1e2"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			s, ok := doc.LookupScalar(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.kind, s.Kind)
			assert.Equal(t, tt.text, s.Text)
		})
	}

	fonts, ok := doc.Lookup("typography.fontFamily.sans")
	require.True(t, ok)
	names, ok := fonts.(List).Strings()
	require.True(t, ok)
	assert.Equal(t, []string{"Café Sans", "system-ui"}, names)
}

func TestDecodeJSONAndYAMLAgree(t *testing.T) {
	fromJSON, err := Decode([]byte("\ufeff  {\"colors\": {\"primary\": {\"DEFAULT\": \"#0057e6\", \"500\": \"#0057e6\"}}, \"opacity\": 0.6, \"dark\": true, \"none\": null}"))
	require.NoError(t, err)

	fromYAML, err := Decode([]byte("colors:\n  primary:\n    DEFAULT: \"#0057e6\"\n    \"500\": \"#0057e6\"\nopacity: 0.6\ndark: true\nnone: null\n"))
	require.NoError(t, err)

	assert.Equal(t, fromYAML, fromJSON)
}

func TestDocumentSetKeepsPosition(t *testing.T) {
	doc := NewDocument().
		Set("a", String("1")).
		Set("b", String("2")).
		Set("a", String("3"))

	assert.Equal(t, []string{"a", "b"}, doc.Keys())
	v, _ := doc.Get("a")
	assert.Equal(t, String("3"), v)
	assert.Equal(t, 2, doc.Len())
}

func TestLookup(t *testing.T) {
	doc, err := Decode([]byte(`{
		"slide": {"padding": {"reveal": "10px"}},
		"fontSize": {"sm": {"value": "0.875rem"}},
		"list": ["a"]
	}`))
	require.NoError(t, err)

	s, ok := doc.LookupScalar("slide.padding.reveal")
	require.True(t, ok)
	assert.Equal(t, "10px", s.Text)

	s, ok = doc.LookupScalar("fontSize.sm")
	require.True(t, ok, "value wrappers are unwrapped")
	assert.Equal(t, "0.875rem", s.Text)

	_, ok = doc.LookupScalar("slide.padding")
	assert.False(t, ok)
	_, ok = doc.LookupScalar("slide.padding.slidev")
	assert.False(t, ok)
	_, ok = doc.LookupScalar("list.0")
	assert.False(t, ok)

	assert.Equal(t, "10px", doc.StringOr("slide.padding.reveal", "40px 80px"))
	assert.Equal(t, "40px 80px", doc.StringOr("slide.padding.missing", "40px 80px"))
}

func TestMarshalJSONKeepsOrderAndText(t *testing.T) {
	doc, err := Decode([]byte(`{"z": 1.50, "a": ["x", "<y>"], "n": null, "q": "a&b"}`))
	require.NoError(t, err)

	out, err := doc.MarshalJSON()
	require.NoError(t, err)
	assert.True(t, json.Valid(out))
	assert.Equal(t, `{"z":1.50,"a":["x","<y>"],"n":null,"q":"a&b"}`, string(out))
}

func TestMarshalYAML(t *testing.T) {
	doc, err := Decode([]byte(`{"b": {"c": 1}, "a": ["x"]}`))
	require.NoError(t, err)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)

	back, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, back.Keys())
	s, ok := back.LookupScalar("b.c")
	require.True(t, ok)
	assert.Equal(t, "1", s.Text)
}

func TestIsMetadataKey(t *testing.T) {
	assert.True(t, IsMetadataKey("$schema"))
	assert.True(t, IsMetadataKey("$"))
	assert.False(t, IsMetadataKey("colors"))
	assert.False(t, IsMetadataKey(""))
}
