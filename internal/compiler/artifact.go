package compiler

import (
	"time"

	"go.uber.org/multierr"

	"github.com/conneroisu/prism/internal/errors"
)

// Artifact is the result of one generator in one compilation pass.
type Artifact struct {
	Name     string
	File     string
	Content  []byte
	Err      error
	Duration time.Duration

	// Path is set once the artifact has been written.
	Path string
}

// OK reports whether the artifact was generated, and written if a write was
// attempted.
func (a *Artifact) OK() bool {
	return a.Err == nil
}

// Batch is the ordered set of artifacts produced by one pass.
type Batch struct {
	Artifacts []*Artifact
	Duration  time.Duration

	// Diagnostics holds stylesheet lint findings when checking is enabled.
	Diagnostics []errors.Diagnostic
}

// OK is true when every artifact succeeded.
func (b *Batch) OK() bool {
	for _, a := range b.Artifacts {
		if !a.OK() {
			return false
		}
	}
	return true
}

// Err combines the errors of all failed artifacts.
func (b *Batch) Err() error {
	var err error
	for _, a := range b.Artifacts {
		err = multierr.Append(err, a.Err)
	}
	return err
}

// Get returns the artifact with the given name.
func (b *Batch) Get(name string) (*Artifact, bool) {
	for _, a := range b.Artifacts {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Failed returns the artifacts that did not succeed.
func (b *Batch) Failed() []*Artifact {
	var out []*Artifact
	for _, a := range b.Artifacts {
		if !a.OK() {
			out = append(out, a)
		}
	}
	return out
}

// Succeeded returns the number of successful artifacts.
func (b *Batch) Succeeded() int {
	return len(b.Artifacts) - len(b.Failed())
}
