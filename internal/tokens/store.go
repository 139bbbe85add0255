package tokens

import (
	"os"
	"sync"
	"time"

	"github.com/conneroisu/prism/internal/errors"
)

// DefaultPath is where the compiler looks for the token document, relative
// to the working directory.
const DefaultPath = "tokens/design-tokens.json"

// Store owns the token document. It keeps the last successfully loaded
// document for read-only consumers; only a successful Reload replaces it.
type Store struct {
	path     string
	doc      *Document
	loadedAt time.Time
	mutex    sync.RWMutex
}

// NewStore creates a store reading from path. An empty path uses DefaultPath.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// NewStoreFromDocument creates a store that already holds doc. Reload still
// reads from path.
func NewStoreFromDocument(path string, doc *Document) *Store {
	s := NewStore(path)
	s.doc = doc
	s.loadedAt = time.Now()
	return s
}

// Path returns the token document location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the cached document, reading it from disk on first use.
func (s *Store) Load() (*Document, error) {
	s.mutex.RLock()
	doc := s.doc
	s.mutex.RUnlock()

	if doc != nil {
		return doc, nil
	}
	return s.Reload()
}

// Reload reads the document from disk and replaces the cache on success. On
// failure the previously cached document stays available.
func (s *Store) Reload() (*Document, error) {
	doc, err := ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	s.doc = doc
	s.loadedAt = time.Now()
	s.mutex.Unlock()

	return doc, nil
}

// Document returns the cached document without touching the disk.
func (s *Store) Document() (*Document, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.doc, s.doc != nil
}

// LoadedAt returns when the cached document was loaded.
func (s *Store) LoadedAt() time.Time {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.loadedAt
}

// ReadFile loads and decodes a token document. Every failure is reported as
// a missing-input error.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := errors.CodeTokensUnreadable
		if os.IsNotExist(err) {
			code = errors.CodeTokensNotFound
		}
		return nil, errors.NewMissingInputError(code, path, err)
	}

	doc, err := Decode(data)
	if err != nil {
		return nil, errors.NewMissingInputError(errors.CodeTokensDecode, path, err)
	}
	return doc, nil
}
