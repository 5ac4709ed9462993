// Package bank loads and validates multiple-choice question banks.
package bank

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is wrapped by UnavailableError when no source holds the bank.
var ErrNotFound = errors.New("bank not found")

// UnavailableError reports that a named bank could not be supplied, either
// because it does not exist or because its content is malformed.
type UnavailableError struct {
	Bank string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("bank %q unavailable: %v", e.Bank, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Source supplies the validated questions of a named bank. Returned slices
// are shared and must not be modified.
type Source interface {
	Bank(ctx context.Context, name string) ([]Question, error)
}

// Info summarizes one available bank.
type Info struct {
	Name   string
	Title  string
	Count  int
	Origin string
	Err    error // non-nil when the bank exists but failed to load
}

// Lister enumerates the banks a source can supply.
type Lister interface {
	List(ctx context.Context) ([]Info, error)
}

// FSSource reads "<name>.json" files from a filesystem.
type FSSource struct {
	fsys   fs.FS
	origin string
}

// NewFSSource creates a source over fsys. origin labels the banks in listings.
func NewFSSource(fsys fs.FS, origin string) *FSSource {
	return &FSSource{fsys: fsys, origin: origin}
}

// NewDirSource creates a source reading bank files from dir.
func NewDirSource(dir string) *FSSource {
	return NewFSSource(os.DirFS(dir), dir)
}

func (s *FSSource) Bank(ctx context.Context, name string) ([]Question, error) {
	f, err := s.load(name)
	if err != nil {
		return nil, &UnavailableError{Bank: name, Err: err}
	}
	return f.Questions, nil
}

func (s *FSSource) load(name string) (*File, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("%w: invalid name", ErrNotFound)
	}
	data, err := fs.ReadFile(s.fsys, name+".json")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read bank file: %w", err)
	}
	return Parse(name, data)
}

func (s *FSSource) List(ctx context.Context) ([]Info, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read bank dir: %w", err)
	}

	var out []Info
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		if !ValidName(name) {
			continue
		}
		info := Info{Name: name, Origin: s.origin}
		f, err := s.load(name)
		if err != nil {
			info.Err = err
		} else {
			info.Title = f.Title
			info.Count = len(f.Questions)
		}
		out = append(out, info)
	}
	return out, nil
}

// Chain tries each source in order. A source reporting ErrNotFound defers to
// the next one; any other failure is returned as is.
type Chain []Source

func (c Chain) Bank(ctx context.Context, name string) ([]Question, error) {
	for _, s := range c {
		qs, err := s.Bank(ctx, name)
		if err == nil {
			return qs, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, &UnavailableError{Bank: name, Err: ErrNotFound}
}

// List merges the listings of every source that implements Lister. Earlier
// sources shadow later ones with the same bank name.
func (c Chain) List(ctx context.Context) ([]Info, error) {
	seen := make(map[string]bool)
	var out []Info
	for _, s := range c {
		l, ok := s.(Lister)
		if !ok {
			continue
		}
		infos, err := l.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, info := range infos {
			if seen[info.Name] {
				continue
			}
			seen[info.Name] = true
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Cached loads each bank from the wrapped source at most once per process.
// Failures are not cached.
type Cached struct {
	src   Source
	mu    sync.Mutex
	banks map[string][]Question
}

// NewCached wraps src.
func NewCached(src Source) *Cached {
	return &Cached{src: src, banks: make(map[string][]Question)}
}

func (c *Cached) Bank(ctx context.Context, name string) ([]Question, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if qs, ok := c.banks[name]; ok {
		return qs, nil
	}
	qs, err := c.src.Bank(ctx, name)
	if err != nil {
		return nil, err
	}
	c.banks[name] = qs
	return qs, nil
}

func (c *Cached) List(ctx context.Context) ([]Info, error) {
	if l, ok := c.src.(Lister); ok {
		return l.List(ctx)
	}
	return nil, nil
}
