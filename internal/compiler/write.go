package compiler

import (
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/conneroisu/prism/internal/errors"
)

// DefaultOutputDir is where artifacts are written unless configured
// otherwise.
const DefaultOutputDir = "dist/themes"

// Write stores every successful artifact as dir/<name><ext>, creating dir
// when needed. A failed write marks only the affected artifact as failed;
// artifacts that failed to generate are skipped. The returned error combines
// the write failures.
func Write(dir string, batch *Batch) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		var combined error
		for _, a := range batch.Artifacts {
			if a.OK() {
				a.Err = errors.NewWriteError(errors.CodeOutputDir, dir, err).WithArtifact(a.Name)
				combined = multierr.Append(combined, a.Err)
			}
		}
		return combined
	}

	var combined error
	for _, a := range batch.Artifacts {
		if !a.OK() {
			continue
		}

		path := filepath.Join(dir, a.File)
		if err := writeFile(path, a.Content); err != nil {
			a.Err = errors.NewWriteError(errors.CodeOutputWrite, path, err).WithArtifact(a.Name)
			combined = multierr.Append(combined, a.Err)
			continue
		}
		a.Path = path
	}
	return combined
}

// writeFile replaces path atomically so readers never see a partial file.
func writeFile(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
