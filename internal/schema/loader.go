// Package schema validates request payloads against embedded JSON schemas.
package schema

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/qri-io/jsonschema"

	"github.com/huvtsp/alumni/internal/apperr"
)

// Schema names, one per embedded file.
const (
	Member       = "member"
	Organization = "organization"
	Experience   = "experience"
	Project      = "project"
	Link         = "link"
	Resource     = "resource"
	SearchEvent  = "search_event"
	Password     = "password"
)

//go:embed schemas/*.json
var Files embed.FS

// Loader loads and caches compiled JSON schemas.
type Loader struct {
	fsys  fs.FS
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewLoader compiles every schemas/*.json file in fsys.
func NewLoader(fsys fs.FS) (*Loader, error) {
	l := &Loader{
		fsys:  fsys,
		cache: make(map[string]*jsonschema.Schema),
	}
	if err := l.Reload(); err != nil {
		return nil, err
	}

	return l, nil
}

// NewDefault loads the schemas shipped with the binary.
func NewDefault() (*Loader, error) {
	return NewLoader(Files)
}

// GetSchema returns the compiled schema registered under name.
func (l *Loader) GetSchema(name string) (*jsonschema.Schema, bool) {
	l.mu.RLock()
	s, ok := l.cache[name]
	l.mu.RUnlock()

	return s, ok
}

// Names lists the loaded schema names in order.
func (l *Loader) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.cache))
	for n := range l.cache {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Reload recompiles all schemas. The previous set stays active on error.
func (l *Loader) Reload() error {
	files, err := fs.Glob(l.fsys, "schemas/*.json")
	if err != nil {
		return fmt.Errorf("list schemas: %w", err)
	}

	newCache := make(map[string]*jsonschema.Schema, len(files))
	for _, f := range files {
		b, err := fs.ReadFile(l.fsys, f)
		if err != nil {
			return fmt.Errorf("read schema %s: %w", f, err)
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			return fmt.Errorf("compile schema %s: %w", f, err)
		}
		newCache[strings.TrimSuffix(path.Base(f), ".json")] = rs
	}

	l.mu.Lock()
	l.cache = newCache
	l.mu.Unlock()
	return nil
}

// Validate checks body against the named schema. Malformed JSON and schema
// violations are reported as invalid input.
func (l *Loader) Validate(ctx context.Context, name string, body []byte) error {
	s, ok := l.GetSchema(name)
	if !ok {
		return apperr.Internal(fmt.Sprintf("unknown schema %q", name), nil)
	}
	if !json.Valid(body) {
		return apperr.InvalidInput("invalid JSON body", nil)
	}

	verrs, err := s.ValidateBytes(ctx, body)
	if err != nil {
		return apperr.InvalidInput("invalid JSON body", err)
	}
	if len(verrs) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fieldPath(e.PropertyPath), e.Message))
	}
	return apperr.InvalidInput(strings.Join(msgs, "; "), nil)
}

func fieldPath(p string) string {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "body"
	}
	return p
}
