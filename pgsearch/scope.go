package pgsearch

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/nonibytes/pgsearch/pgsearch/storage"
)

// Deriver builds the complete options of a scope, Query included, from the
// arguments the scope is invoked with.
type Deriver func(args ...any) (Options, error)

// scope is either a directScope (validated once, at definition) or a
// derivedScope (validated on every invocation).
type scope interface {
	resolve(args []any) (*Spec, string, error)
}

type directScope struct {
	spec  *Spec
	query string // fixed query; when empty the first argument is the query
}

func (d directScope) resolve(args []any) (*Spec, string, error) {
	q := d.query
	if q == "" && len(args) > 0 {
		q = queryString(args[0])
	}
	return d.spec, q, nil
}

type derivedScope struct {
	fn Deriver
}

func (d derivedScope) resolve(args []any) (*Spec, string, error) {
	o, err := d.fn(args...)
	if err != nil {
		if IsKind(err, ErrConfiguration) {
			return nil, "", err
		}
		return nil, "", Wrap(ErrConfiguration, "derive scope options", err)
	}
	spec, err := Validate(o)
	if err != nil {
		return nil, "", err
	}
	return spec, o.Query, nil
}

// Model owns the search scopes defined over one table.
type Model struct {
	target Target
	logger *slog.Logger
	cache  *fragmentCache

	mu     sync.RWMutex
	scopes map[string]scope
}

type ModelOption func(*Model)

func WithPrimaryKey(pk string) ModelOption {
	return func(m *Model) {
		if pk != "" {
			m.target.PrimaryKey = pk
		}
	}
}

func WithLogger(l *slog.Logger) ModelOption {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithFragmentCache memoizes fragments of direct scopes per query string.
func WithFragmentCache(size int) ModelOption {
	return func(m *Model) {
		m.cache = newFragmentCache(size)
	}
}

func NewModel(table string, dialect storage.Dialect, opts ...ModelOption) *Model {
	m := &Model{
		target: Target{Table: table, PrimaryKey: DefaultPrimaryKey, Dialect: dialect},
		logger: slog.Default(),
		scopes: make(map[string]scope),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Model) Table() string      { return m.target.Table }
func (m *Model) PrimaryKey() string { return m.target.PrimaryKey }

// DefineScope registers a named search scope. opts may be:
//
//   - Options or map[string]any: validated now, the first invocation
//     argument is the query unless the options fix one;
//   - Deriver or func(...any) (Options, error): called on every invocation
//     and validated then.
//
// Anything else is an ArgumentShapeError.
func (m *Model) DefineScope(name string, opts any) error {
	if name == "" {
		return ConfigurationError("", "search scope name is empty", "")
	}

	var s scope
	switch o := opts.(type) {
	case Options:
		spec, err := Validate(o)
		if err != nil {
			return err
		}
		s = directScope{spec: spec, query: o.Query}
	case map[string]any:
		decoded, err := DecodeOptions(o)
		if err != nil {
			return err
		}
		spec, err := Validate(decoded)
		if err != nil {
			return err
		}
		s = directScope{spec: spec, query: decoded.Query}
	case Deriver:
		if o == nil {
			return ArgumentShapeError(fmt.Sprintf("search scope %s: nil options function", name))
		}
		s = derivedScope{fn: o}
	case func(args ...any) (Options, error):
		if o == nil {
			return ArgumentShapeError(fmt.Sprintf("search scope %s: nil options function", name))
		}
		s = derivedScope{fn: o}
	default:
		return ArgumentShapeError(fmt.Sprintf("search scope %s expects Options, a map or a func(...any) (Options, error), got %T", name, opts))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.scopes[name]; exists {
		return ConfigurationError("", "search scope already defined", name)
	}
	m.scopes[name] = s

	_, derived := s.(derivedScope)
	m.logger.Debug("defined search scope", "table", m.target.Table, "scope", name, "derived", derived)
	return nil
}

// Scope compiles the named scope for the given invocation arguments.
func (m *Model) Scope(name string, args ...any) (*Fragment, error) {
	m.mu.RLock()
	s, ok := m.scopes[name]
	m.mu.RUnlock()
	if !ok {
		return nil, UnknownScopeError(name)
	}

	spec, query, err := s.resolve(args)
	if err != nil {
		return nil, err
	}

	_, direct := s.(directScope)
	if direct && m.cache != nil {
		if f, ok := m.cache.get(name, query); ok {
			return f, nil
		}
	}

	f := Compile(spec, query, m.target)
	if direct && m.cache != nil {
		m.cache.add(name, query, f)
	}

	m.logger.Debug("compiled search scope",
		"table", m.target.Table,
		"scope", name,
		"strategies", spec.Strategies,
		"binds", len(f.Binds),
	)
	return f, nil
}

// Spec returns the validated configuration of a direct scope. Derived
// scopes have no fixed Spec.
func (m *Model) Spec(name string) (*Spec, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.scopes[name].(directScope)
	if !ok {
		return nil, false
	}
	return d.spec, true
}

// Scopes lists the defined scope names in sorted order.
func (m *Model) Scopes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.scopes))
	for n := range m.scopes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
