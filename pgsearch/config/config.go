// Package config loads search scope definitions from YAML.
//
//	models:
//	  - table: articles
//	    primary_key: id
//	    scopes:
//	      search_full:
//	        against: {title: A, body: B}
//	        using: [tsearch, trigram]
//	        normalizing: [prefixes, diacritics]
//	        with_dictionary: english
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nonibytes/pgsearch/pgsearch"
	"github.com/nonibytes/pgsearch/pgsearch/storage"
)

type File struct {
	Models []ModelConfig `yaml:"models"`
}

type ModelConfig struct {
	Table      string   `yaml:"table"`
	PrimaryKey string   `yaml:"primary_key"`
	Scopes     ScopeSet `yaml:"scopes"`
}

type ScopeConfig struct {
	Name    string
	Options pgsearch.Options
	Line    int
}

// ScopeSet keeps scopes in file order.
type ScopeSet []ScopeConfig

func (s *ScopeSet) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: scopes must be a mapping of name to options", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		raw, err := optionsMap(v)
		if err != nil {
			return err
		}
		opts, err := pgsearch.DecodeOptions(raw)
		if err != nil {
			return fmt.Errorf("line %d: scope %s: %w", k.Line, k.Value, err)
		}
		*s = append(*s, ScopeConfig{Name: k.Value, Options: opts, Line: k.Line})
	}
	return nil
}

// optionsMap decodes one scope's options. A mapping under against becomes a
// list of single entry mappings so column order survives the Go map.
func optionsMap(n *yaml.Node) (map[string]any, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: scope options must be a mapping", n.Line)
	}
	out := make(map[string]any, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if strings.EqualFold(strings.TrimSpace(k.Value), pgsearch.KeyAgainst) && v.Kind == yaml.MappingNode {
			cols := make([]any, 0, len(v.Content)/2)
			for j := 0; j+1 < len(v.Content); j += 2 {
				var w any
				if err := v.Content[j+1].Decode(&w); err != nil {
					return nil, err
				}
				cols = append(cols, map[string]any{v.Content[j].Value: w})
			}
			out[k.Value] = cols
			continue
		}
		var val any
		if err := v.Decode(&val); err != nil {
			return nil, err
		}
		out[k.Value] = val
	}
	return out, nil
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pgsearch.Wrap(pgsearch.ErrIO, "read scope file", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		var perr *pgsearch.Error
		if errors.As(err, &perr) {
			return nil, err
		}
		return nil, pgsearch.Wrap(pgsearch.ErrConfiguration, "parse scope file", err)
	}
	if len(f.Models) == 0 {
		return nil, pgsearch.ConfigurationError("models", "scope file defines no models", "")
	}
	return &f, nil
}

// Catalog is the set of models built from a File.
type Catalog struct {
	models  []*pgsearch.Model
	byTable map[string]*pgsearch.Model
}

// Build registers every scope of f on a new model per table.
func (f *File) Build(dialect storage.Dialect, opts ...pgsearch.ModelOption) (*Catalog, error) {
	c := &Catalog{byTable: make(map[string]*pgsearch.Model, len(f.Models))}
	for _, mc := range f.Models {
		if mc.Table == "" {
			return nil, pgsearch.ConfigurationError("table", "model without table", "")
		}
		if _, dup := c.byTable[mc.Table]; dup {
			return nil, pgsearch.ConfigurationError("table", "model defined twice", mc.Table)
		}

		mopts := append([]pgsearch.ModelOption{pgsearch.WithPrimaryKey(mc.PrimaryKey)}, opts...)
		m := pgsearch.NewModel(mc.Table, dialect, mopts...)
		for _, sc := range mc.Scopes {
			if err := m.DefineScope(sc.Name, sc.Options); err != nil {
				return nil, pgsearch.Wrap(pgsearch.ErrConfiguration,
					fmt.Sprintf("model %s scope %s (line %d)", mc.Table, sc.Name, sc.Line), err)
			}
		}
		c.models = append(c.models, m)
		c.byTable[mc.Table] = m
	}
	return c, nil
}

// Models returns the models in file order.
func (c *Catalog) Models() []*pgsearch.Model {
	return c.models
}

func (c *Catalog) Model(table string) (*pgsearch.Model, bool) {
	m, ok := c.byTable[table]
	return m, ok
}

// Resolve splits a "table.scope" reference. The table part may itself be
// schema qualified ("public.articles.search").
func (c *Catalog) Resolve(ref string) (*pgsearch.Model, string, error) {
	i := strings.LastIndex(ref, ".")
	if i <= 0 || i == len(ref)-1 {
		return nil, "", pgsearch.ArgumentShapeError(fmt.Sprintf("scope reference %q must look like table.scope", ref))
	}
	m, ok := c.byTable[ref[:i]]
	if !ok {
		return nil, "", pgsearch.UnknownScopeError(ref)
	}
	return m, ref[i+1:], nil
}
