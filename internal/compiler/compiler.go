package compiler

import (
	"context"
	"sync"
	"time"

	"github.com/conneroisu/prism/internal/errors"
	"github.com/conneroisu/prism/internal/generators"
	"github.com/conneroisu/prism/internal/lint"
	"github.com/conneroisu/prism/internal/logging"
	"github.com/conneroisu/prism/internal/tokens"
)

// Options configures a Compiler.
type Options struct {
	OutputDir string
	// Check lints the written stylesheets after every pass.
	Check    bool
	Registry *generators.Registry
	Logger   logging.Logger
}

// PassCallback is called after every pass that loaded a document.
type PassCallback func(batch *Batch)

// Compiler owns the token store and runs build passes against it. Passes are
// serialized: a pass never starts while another is in flight.
type Compiler struct {
	store     *tokens.Store
	registry  *generators.Registry
	outputDir string
	check     bool
	logger    logging.Logger
	metrics   *Metrics

	passMutex sync.Mutex
	callbacks []PassCallback
	cbMutex   sync.RWMutex
}

// Property is one flattened token exposed as a custom property.
type Property struct {
	Name     string `json:"name" yaml:"name"`
	Key      string `json:"key" yaml:"key"`
	Value    string `json:"value" yaml:"value"`
	Category string `json:"category" yaml:"category"`
}

// New creates a compiler reading from store.
func New(store *tokens.Store, opts Options) *Compiler {
	if opts.Registry == nil {
		opts.Registry = generators.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOutputDir
	}

	return &Compiler{
		store:     store,
		registry:  opts.Registry,
		outputDir: opts.OutputDir,
		check:     opts.Check,
		logger:    opts.Logger.WithComponent("compiler"),
		metrics:   NewMetrics(),
	}
}

// Store returns the token store.
func (c *Compiler) Store() *tokens.Store { return c.store }

// Registry returns the generator registry.
func (c *Compiler) Registry() *generators.Registry { return c.registry }

// OutputDir returns the artifact directory.
func (c *Compiler) OutputDir() string { return c.outputDir }

// Metrics returns the pass metrics.
func (c *Compiler) Metrics() *Metrics { return c.metrics }

// OnPass registers a callback invoked after every completed pass.
func (c *Compiler) OnPass(cb PassCallback) {
	c.cbMutex.Lock()
	defer c.cbMutex.Unlock()
	c.callbacks = append(c.callbacks, cb)
}

// Build runs one pass against the cached document, loading it on first use.
func (c *Compiler) Build(ctx context.Context) (*Batch, error) {
	return c.pass(ctx, c.store.Load)
}

// Rebuild reloads the document from disk and runs one pass. When the reload
// fails the pass is aborted and the previously cached document is kept.
func (c *Compiler) Rebuild(ctx context.Context) (*Batch, error) {
	return c.pass(ctx, c.store.Reload)
}

func (c *Compiler) pass(ctx context.Context, load func() (*tokens.Document, error)) (*Batch, error) {
	c.passMutex.Lock()
	defer c.passMutex.Unlock()

	start := time.Now()
	perf := logging.StartOperation(c.logger, "compile")

	doc, err := load()
	if err != nil {
		c.metrics.RecordLoadFailure(err, time.Since(start))
		perf.EndWithError(ctx, err, "tokens", c.store.Path())
		return nil, err
	}

	batch := CompileWith(c.registry, doc)
	if err := Write(c.outputDir, batch); err != nil {
		c.logger.Debug(ctx, "Some artifacts could not be written", "error", err.Error())
	}

	for _, a := range batch.Artifacts {
		if a.OK() {
			c.logger.Debug(ctx, "Artifact written", "artifact", a.Name, "path", a.Path, "bytes", len(a.Content))
		} else {
			c.logger.Error(ctx, a.Err, "Artifact failed", "artifact", a.Name)
		}
	}

	if c.check {
		c.lint(ctx, batch)
	}

	batch.Duration = time.Since(start)
	c.metrics.RecordBatch(batch)
	c.notify(batch)

	if batch.OK() {
		perf.End(ctx, "artifacts", len(batch.Artifacts), "output", c.outputDir)
	} else {
		perf.EndWithError(ctx, batch.Err(), "failed", len(batch.Failed()))
	}

	return batch, batch.Err()
}

// lint checks the generated stylesheets of batch and logs every finding.
// Findings never fail a pass.
func (c *Compiler) lint(ctx context.Context, batch *Batch) {
	var files []lint.File
	for _, name := range c.registry.Stylesheets() {
		if a, ok := batch.Get(name); ok && a.Content != nil {
			files = append(files, lint.File{Name: a.File, Content: a.Content})
		}
	}

	report := lint.Check(files)
	batch.Diagnostics = report.Diagnostics()
	for _, d := range batch.Diagnostics {
		c.logger.Warn(ctx, nil, d.Message, "file", d.Artifact, "line", d.Line, "severity", d.Severity.String())
	}
}

func (c *Compiler) notify(batch *Batch) {
	c.cbMutex.RLock()
	callbacks := make([]PassCallback, len(c.callbacks))
	copy(callbacks, c.callbacks)
	c.cbMutex.RUnlock()

	for _, cb := range callbacks {
		cb(batch)
	}
}

// Generate runs a single generator against the cached document without
// writing anything.
func (c *Compiler) Generate(name string) ([]byte, error) {
	g, ok := c.registry.Get(name)
	if !ok {
		return nil, errors.NewConfigError(errors.CodeUnknownArtifact, "unknown artifact "+name).
			WithContext("available", c.registry.List())
	}

	doc, err := c.store.Load()
	if err != nil {
		return nil, err
	}

	content, err := run(g, generators.NewInput(doc))
	if err != nil {
		return nil, artifactError(name, err)
	}
	return content, nil
}

// CSS returns the stylesheet of one framework ("base", "slidev", "reveal" or
// "webslides") from the cached document.
func (c *Compiler) CSS(framework string) ([]byte, error) {
	g, ok := c.registry.Get(framework)
	if !ok || g.Extension() != ".css" {
		return nil, errors.NewConfigError(errors.CodeUnknownArtifact, "unknown stylesheet "+framework).
			WithContext("available", c.registry.Stylesheets())
	}
	return c.Generate(framework)
}

// CustomProperties returns every flattened token as a custom property, in
// flattening order.
func (c *Compiler) CustomProperties() ([]Property, error) {
	doc, err := c.store.Load()
	if err != nil {
		return nil, err
	}

	flat, err := tokens.Flatten(doc, "")
	if err != nil {
		return nil, err
	}

	props := make([]Property, 0, flat.Len())
	flat.Each(func(key string, value tokens.Scalar) {
		props = append(props, Property{
			Name:     tokens.PropertyName(key),
			Key:      key,
			Value:    value.Text,
			Category: tokens.ClassifyKey(key).String(),
		})
	})
	return props, nil
}

// Config returns the structured utility-framework configuration object.
func (c *Compiler) Config() (*tokens.Document, error) {
	doc, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	return generators.ConfigObject(doc)
}
