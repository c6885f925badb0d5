package pgsearch

import (
	"fmt"
	"sort"
	"strings"
)

// DecodeOptions converts a loosely typed configuration map (as produced by
// YAML or JSON decoding) into Options. Only the closed set of option keys is
// accepted; values are converted but not validated, see Validate.
func DecodeOptions(raw map[string]any) (Options, error) {
	var o Options

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[string]string, len(keys))
	for _, k := range keys {
		ck := canonicalKey(k)
		if prev, dup := seen[ck]; dup {
			return Options{}, ConfigurationError(k, "duplicate option key (also given as "+prev+")", "")
		}
		seen[ck] = k

		v := raw[k]
		switch ck {
		case KeyAgainst:
			cols, err := decodeAgainst(v)
			if err != nil {
				return Options{}, err
			}
			o.Against = cols
		case KeyRankedBy:
			s, err := decodeString(KeyRankedBy, v)
			if err != nil {
				return Options{}, err
			}
			o.RankedBy = s
		case KeyDictionary:
			s, err := decodeString(KeyDictionary, v)
			if err != nil {
				return Options{}, err
			}
			o.Dictionary = s
		case KeyQuery:
			o.Query = queryString(v)
		case KeyUsing:
			ss, err := decodeStrings(KeyUsing, v)
			if err != nil {
				return Options{}, err
			}
			for _, s := range ss {
				o.Using = append(o.Using, Strategy(s))
			}
		case KeyNormalizing:
			ss, err := decodeStrings(KeyNormalizing, v)
			if err != nil {
				return Options{}, err
			}
			for _, s := range ss {
				o.Normalizing = append(o.Normalizing, Normalization(s))
			}
		default:
			return Options{}, ConfigurationError(k, "unknown option key", "")
		}
	}
	return o, nil
}

func canonicalKey(k string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(k)), "-", "_")
}

func decodeString(key string, v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", ConfigurationError(key, "expected a string", fmt.Sprint(v))
	}
}

// decodeStrings accepts a single string or a list of strings.
func decodeStrings(key string, v any) ([]string, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{s}, nil
	case []string:
		return s, nil
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			str, ok := e.(string)
			if !ok {
				return nil, ConfigurationError(key, "expected a list of strings", fmt.Sprint(e))
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, ConfigurationError(key, "expected a string or a list of strings", fmt.Sprint(v))
	}
}

func decodeAgainst(v any) ([]Column, error) {
	switch a := v.(type) {
	case nil:
		return nil, nil
	case string:
		return Columns(a), nil
	case []string:
		return Columns(a...), nil
	case []Column:
		return a, nil
	case []any:
		var out []Column
		for _, e := range a {
			cols, err := decodeAgainstEntry(e)
			if err != nil {
				return nil, err
			}
			out = append(out, cols...)
		}
		return out, nil
	case map[string]string:
		m := make(map[string]any, len(a))
		for k, w := range a {
			m[k] = w
		}
		return decodeWeightMap(m)
	case map[string]any:
		return decodeWeightMap(a)
	default:
		return nil, ConfigurationError(KeyAgainst, "expected a column, a list of columns or a column to weight mapping", fmt.Sprint(v))
	}
}

func decodeAgainstEntry(e any) ([]Column, error) {
	switch c := e.(type) {
	case string:
		return Columns(c), nil
	case Column:
		return []Column{c}, nil
	case map[string]any:
		return decodeWeightMap(c)
	default:
		return nil, ConfigurationError(KeyAgainst, "unsupported column entry", fmt.Sprint(e))
	}
}

// decodeWeightMap orders columns by name; Go maps carry no order.
func decodeWeightMap(m map[string]any) ([]Column, error) {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]Column, 0, len(names))
	for _, name := range names {
		w, err := decodeString(KeyAgainst, m[name])
		if err != nil {
			return nil, err
		}
		out = append(out, Column{Name: name, Weight: w})
	}
	return out, nil
}

func queryString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
