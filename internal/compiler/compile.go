// Package compiler runs the generators against one token document, writes
// the resulting artifacts and exposes read accessors over the cached
// document.
package compiler

import (
	"fmt"
	"time"

	"github.com/conneroisu/prism/internal/errors"
	"github.com/conneroisu/prism/internal/generators"
	"github.com/conneroisu/prism/internal/tokens"
)

// Compile runs the default generators against doc.
func Compile(doc *tokens.Document) *Batch {
	return CompileWith(generators.Default(), doc)
}

// CompileWith runs every generator of registry, in registry order, against
// doc. A failing or panicking generator yields a failed artifact and never
// affects its siblings. Compile has no side effects.
func CompileWith(registry *generators.Registry, doc *tokens.Document) *Batch {
	start := time.Now()
	in := generators.NewInput(doc)

	batch := &Batch{
		Artifacts: make([]*Artifact, 0, registry.Len()),
	}

	for _, g := range registry.Generators() {
		genStart := time.Now()
		content, err := run(g, in)

		artifact := &Artifact{
			Name:     g.Name(),
			File:     generators.FileName(g),
			Duration: time.Since(genStart),
		}
		if err != nil {
			artifact.Err = artifactError(g.Name(), err)
		} else {
			artifact.Content = content
		}

		batch.Artifacts = append(batch.Artifacts, artifact)
	}

	batch.Duration = time.Since(start)
	return batch
}

// run invokes one generator, converting a panic into an internal error.
func run(g generators.Generator, in *generators.Input) (content []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			content = nil
			err = errors.NewInternalError(errors.CodeGeneratorPanic,
				"generator panicked", fmt.Errorf("%v", r))
		}
	}()

	return g.Generate(in)
}

func artifactError(name string, err error) *errors.PrismError {
	pe := errors.Wrap(err, errors.TypeOf(err), errors.CodeOf(err), "generating "+name)
	pe.Artifact = name
	return pe
}
