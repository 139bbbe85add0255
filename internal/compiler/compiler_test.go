package compiler

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/prism/internal/errors"
	"github.com/conneroisu/prism/internal/generators"
	"github.com/conneroisu/prism/internal/tokens"
)

const fixturePath = "../tokens/testdata/design-tokens.json"

func loadFixture(t *testing.T) *tokens.Document {
	t.Helper()
	doc, err := tokens.ReadFile(fixturePath)
	require.NoError(t, err)
	return doc
}

func decode(t *testing.T, src string) *tokens.Document {
	t.Helper()
	doc, err := tokens.Decode([]byte(src))
	require.NoError(t, err)
	return doc
}

// panicGenerator always panics.
type panicGenerator struct{}

func (panicGenerator) Name() string        { return "explode" }
func (panicGenerator) Extension() string   { return ".txt" }
func (panicGenerator) Description() string { return "panics" }
func (panicGenerator) Generate(*generators.Input) ([]byte, error) {
	panic("boom")
}

func TestCompileFixture(t *testing.T) {
	batch := Compile(loadFixture(t))

	require.Len(t, batch.Artifacts, 5)
	assert.True(t, batch.OK())
	assert.NoError(t, batch.Err())
	assert.Equal(t, 5, batch.Succeeded())

	names := make([]string, 0, 5)
	for _, a := range batch.Artifacts {
		names = append(names, a.File)
		assert.NotEmpty(t, a.Content, a.Name)
	}
	assert.Equal(t, []string{"base.css", "slidev.css", "reveal.css", "webslides.css", "config.js"}, names)

	reveal, ok := batch.Get("reveal")
	require.True(t, ok)
	assert.Contains(t, string(reveal.Content), "padding: 40px 80px;")
}

func TestCompileIsIdempotent(t *testing.T) {
	doc := loadFixture(t)
	first := Compile(doc)
	second := Compile(doc)

	for i := range first.Artifacts {
		assert.True(t, bytes.Equal(first.Artifacts[i].Content, second.Artifacts[i].Content), first.Artifacts[i].Name)
	}
}

func TestCompileIsolatesFailures(t *testing.T) {
	// The list is only reachable through flattening, so only base fails.
	doc := decode(t, `{"spacing": {"scale": [4, 8]}, "slide": {"background": "#fff"}}`)
	batch := Compile(doc)

	require.Len(t, batch.Artifacts, 5)
	assert.False(t, batch.OK())

	failed := batch.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "base", failed[0].Name)
	assert.True(t, errors.IsMalformedToken(failed[0].Err))
	assert.Nil(t, failed[0].Content)
	assert.Equal(t, 4, batch.Succeeded())

	var pe *errors.PrismError
	require.True(t, errors.As(failed[0].Err, &pe))
	assert.Equal(t, "base", pe.Artifact)
	assert.Equal(t, "spacing-scale", pe.Path)
}

func TestCompileRecoversPanics(t *testing.T) {
	registry := generators.NewRegistry()
	require.NoError(t, registry.Register(&generators.BaseGenerator{}))
	require.NoError(t, registry.Register(panicGenerator{}))
	require.NoError(t, registry.Register(&generators.ConfigGenerator{}))

	batch := CompileWith(registry, decode(t, `{"a": "1"}`))

	require.Len(t, batch.Artifacts, 3)
	assert.True(t, batch.Artifacts[0].OK())
	assert.False(t, batch.Artifacts[1].OK())
	assert.True(t, batch.Artifacts[2].OK())

	assert.Equal(t, errors.ErrorTypeInternal, errors.TypeOf(batch.Artifacts[1].Err))
	assert.Contains(t, batch.Err().Error(), "boom")
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "themes")
	batch := Compile(loadFixture(t))

	require.NoError(t, Write(dir, batch))

	for _, a := range batch.Artifacts {
		assert.Equal(t, filepath.Join(dir, a.File), a.Path)
		content, err := os.ReadFile(a.Path)
		require.NoError(t, err)
		assert.Equal(t, a.Content, content)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 5, "no temporary files are left behind")
}

func TestWriteIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	// A directory squatting on reveal.css makes only that write fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "reveal.css"), 0755))

	batch := Compile(loadFixture(t))
	err := Write(dir, batch)
	require.Error(t, err)
	assert.True(t, errors.IsWrite(err))

	failed := batch.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "reveal", failed[0].Name)
	assert.False(t, batch.OK())
}

func TestWriteUncreatableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	batch := Compile(loadFixture(t))
	err := Write(filepath.Join(blocker, "themes"), batch)
	require.Error(t, err)

	for _, a := range batch.Artifacts {
		assert.True(t, errors.Is(a.Err, &errors.PrismError{Type: errors.ErrorTypeWrite, Code: errors.CodeOutputDir}), a.Name)
	}
}

func TestWriteSkipsFailedArtifacts(t *testing.T) {
	dir := t.TempDir()
	batch := Compile(decode(t, `{"spacing": {"scale": [4, 8]}}`))

	_ = Write(dir, batch)

	_, err := os.Stat(filepath.Join(dir, "base.css"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "reveal.css"))
	assert.NoError(t, err)
}

func writeTokens(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCompilerBuildAndRebuild(t *testing.T) {
	dir := t.TempDir()
	tokenPath := filepath.Join(dir, "tokens.json")
	fixture, err := os.ReadFile(fixturePath)
	require.NoError(t, err)
	writeTokens(t, tokenPath, string(fixture))

	out := filepath.Join(dir, "dist")
	c := New(tokens.NewStore(tokenPath), Options{OutputDir: out, Check: true})

	var passes int
	c.OnPass(func(*Batch) { passes++ })

	ctx := context.Background()
	batch, err := c.Build(ctx)
	require.NoError(t, err)
	assert.True(t, batch.OK())
	assert.Empty(t, batch.Diagnostics, "generated sheets only reference defined tokens")
	assert.FileExists(t, filepath.Join(out, "base.css"))

	// A broken document keeps the cached one and aborts the pass.
	writeTokens(t, tokenPath, `{"colors": `)
	_, err = c.Rebuild(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsMissingInput(err))

	css, err := c.CSS("reveal")
	require.NoError(t, err)
	assert.Contains(t, string(css), "padding: 40px 80px;")

	writeTokens(t, tokenPath, `{"slide": {"padding": {"reveal": "1rem"}}}`)
	batch, err = c.Rebuild(ctx)
	require.NoError(t, err)
	assert.True(t, batch.OK())
	assert.NotEmpty(t, batch.Diagnostics, "framework sheets reference tokens this document lacks")

	css, err = c.CSS("reveal")
	require.NoError(t, err)
	assert.Contains(t, string(css), "padding: 1rem;")

	snap := c.Metrics().Snapshot()
	assert.Equal(t, int64(3), snap.TotalPasses)
	assert.Equal(t, int64(2), snap.SuccessfulPasses)
	assert.Equal(t, int64(1), snap.LoadFailures)
	assert.Equal(t, 2, passes, "callbacks only run for passes that loaded a document")
}

func TestCompilerMissingDocument(t *testing.T) {
	c := New(tokens.NewStore(filepath.Join(t.TempDir(), "absent.json")), Options{OutputDir: t.TempDir()})

	batch, err := c.Build(context.Background())
	assert.Nil(t, batch)
	require.Error(t, err)
	assert.True(t, errors.IsMissingInput(err))

	_, err = c.CustomProperties()
	assert.True(t, errors.IsMissingInput(err))
}

func TestCompilerAccessors(t *testing.T) {
	c := New(tokens.NewStoreFromDocument("unused.json", loadFixture(t)), Options{OutputDir: t.TempDir()})

	_, err := c.CSS("config")
	assert.True(t, errors.IsConfig(err))
	_, err = c.CSS("impress")
	assert.True(t, errors.IsConfig(err))

	base, err := c.CSS("base")
	require.NoError(t, err)
	assert.Contains(t, string(base), "--prsm-colors-primary: #0057e6;")

	props, err := c.CustomProperties()
	require.NoError(t, err)
	require.NotEmpty(t, props)
	assert.Equal(t, Property{
		Name:     "--prsm-colors-primary",
		Key:      "colors-primary",
		Value:    "#0057e6",
		Category: "colors",
	}, props[0])

	cfg, err := c.Config()
	require.NoError(t, err)
	_, ok := cfg.LookupDocument("theme.extend.colors")
	assert.True(t, ok)

	entries, err := os.ReadDir(c.OutputDir())
	require.NoError(t, err)
	assert.Empty(t, entries, "accessors never write")
}
