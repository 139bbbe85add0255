// Package lint checks generated stylesheets for consistency: every sheet must
// parse, every var(--prsm-*) reference must be defined by some sheet of the
// set, and every @import must point at a sheet of the set.
package lint

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	perrors "github.com/conneroisu/prism/internal/errors"
	"github.com/conneroisu/prism/internal/tokens"
)

// File is one stylesheet to check.
type File struct {
	Name    string
	Content []byte
}

// Report holds the findings of one check.
type Report struct {
	*perrors.Collector

	// Defined maps each custom property to the file that defines it first.
	Defined    map[string]string
	References int
	Files      int
}

// OK reports whether the check found no errors.
func (r *Report) OK() bool {
	return !r.HasErrors()
}

type reference struct {
	name        string
	line        int
	column      int
	hasFallback bool
}

// Check lints a set of stylesheets as a whole.
func Check(files []File) *Report {
	report := &Report{
		Collector: perrors.NewCollector(),
		Defined:   make(map[string]string),
		Files:     len(files),
	}

	known := make(map[string]bool, len(files))
	for _, f := range files {
		known[path.Base(f.Name)] = true
	}

	refs := make(map[string][]reference, len(files))
	for _, f := range files {
		checkSyntax(report, f)

		defs, fileRefs, imports := scan(f.Content)
		for _, name := range defs {
			if _, exists := report.Defined[name]; !exists {
				report.Defined[name] = f.Name
			}
		}
		refs[f.Name] = fileRefs

		for _, imp := range imports {
			if !known[path.Base(imp.name)] {
				report.Add(perrors.Diagnostic{
					Artifact: f.Name,
					Line:     imp.line,
					Column:   imp.column,
					Message:  fmt.Sprintf("@import %q does not match any generated stylesheet", imp.name),
					Severity: perrors.SeverityWarning,
				})
			}
		}
	}

	for _, f := range files {
		for _, ref := range refs[f.Name] {
			report.References++
			if ref.hasFallback || !strings.HasPrefix(ref.name, tokens.PropertyPrefix) {
				continue
			}
			if _, ok := report.Defined[ref.name]; !ok {
				report.Add(perrors.Diagnostic{
					Artifact: f.Name,
					Line:     ref.line,
					Column:   ref.column,
					Message:  fmt.Sprintf("%s is referenced but never defined", ref.name),
					Severity: perrors.SeverityWarning,
				})
			}
		}
	}

	return report
}

// checkSyntax runs the grammar parser over a file and records the first
// parse error.
func checkSyntax(report *Report, f File) {
	p := css.NewParser(parse.NewInput(bytes.NewReader(f.Content)), false)
	for {
		gt, _, _ := p.Next()
		if gt != css.ErrorGrammar {
			continue
		}

		err := p.Err()
		if err == nil || errors.Is(err, io.EOF) {
			return
		}

		d := perrors.Diagnostic{
			Artifact: f.Name,
			Message:  err.Error(),
			Severity: perrors.SeverityError,
		}
		var perr *parse.Error
		if errors.As(err, &perr) {
			d.Line, d.Column, d.Message = perr.Line, perr.Column, perr.Message
		}
		report.Add(d)
		return
	}
}

type token struct {
	tt     css.TokenType
	data   string
	line   int
	column int
}

// lex tokenizes content, dropping comments and tracking positions.
func lex(content []byte) []token {
	l := css.NewLexer(parse.NewInput(bytes.NewReader(content)))

	var out []token
	line, column := 1, 1
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			return out
		}

		if tt != css.CommentToken {
			out = append(out, token{tt: tt, data: string(data), line: line, column: column})
		}

		for _, c := range data {
			if c == '\n' {
				line++
				column = 1
			} else {
				column++
			}
		}
	}
}

type importRef struct {
	name   string
	line   int
	column int
}

// scan collects custom property definitions, var() references and @import
// targets.
func scan(content []byte) (defs []string, refs []reference, imports []importRef) {
	toks := lex(content)

	next := func(i int) int {
		for i++; i < len(toks) && toks[i].tt == css.WhitespaceToken; i++ {
		}
		return i
	}

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t.tt == css.CustomPropertyNameToken:
			if j := next(i); j < len(toks) && toks[j].tt == css.ColonToken {
				defs = append(defs, t.data)
			}

		case t.tt == css.FunctionToken && strings.EqualFold(t.data, "var("):
			j := next(i)
			if j >= len(toks) || toks[j].tt != css.CustomPropertyNameToken {
				continue
			}
			k := next(j)
			refs = append(refs, reference{
				name:        toks[j].data,
				line:        toks[j].line,
				column:      toks[j].column,
				hasFallback: k < len(toks) && toks[k].tt == css.CommaToken,
			})
			i = j

		case t.tt == css.AtKeywordToken && strings.EqualFold(t.data, "@import"):
			j := next(i)
			if j >= len(toks) {
				continue
			}
			switch toks[j].tt {
			case css.StringToken:
				imports = append(imports, importRef{name: unquote(toks[j].data), line: t.line, column: t.column})
			case css.URLToken:
				imports = append(imports, importRef{name: urlTarget(toks[j].data), line: t.line, column: t.column})
			}
		}
	}
	return defs, refs, imports
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func urlTarget(s string) string {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "url("), ")")
	return unquote(strings.TrimSpace(s))
}

// ReadDir loads every .css file directly inside dir in natural name order,
// so that sheet2.css comes before sheet10.css.
func ReadDir(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, perrors.Wrap(err, perrors.ErrorTypeMissingInput, perrors.CodeOutputDir,
			"reading stylesheet directory").WithPath(dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".css" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Sort(natural.StringSlice(names))

	files := make([]File, 0, len(names))
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, perrors.Wrap(err, perrors.ErrorTypeMissingInput, perrors.CodeOutputDir,
				"reading stylesheet").WithPath(filepath.Join(dir, name))
		}
		files = append(files, File{Name: name, Content: content})
	}
	return files, nil
}
