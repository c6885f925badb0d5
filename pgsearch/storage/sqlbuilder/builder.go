package sqlbuilder

import (
	"strconv"
	"strings"
)

type PlaceholderStyle int

const (
	PlaceholderDollar PlaceholderStyle = iota
	PlaceholderNamed
)

func (s PlaceholderStyle) String() string {
	switch s {
	case PlaceholderNamed:
		return "named"
	default:
		return "dollar"
	}
}

func (s PlaceholderStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParsePlaceholderStyle maps "dollar" / "named" to a style. Anything else is dollar.
func ParsePlaceholderStyle(s string) PlaceholderStyle {
	if strings.EqualFold(s, "named") {
		return PlaceholderNamed
	}
	return PlaceholderDollar
}

// Trusted is SQL text assembled only from fixed templates and quoting
// service output. User-supplied values never become Trusted directly; they
// go through Named and are referenced by placeholder.
type Trusted string

func (t Trusted) String() string { return string(t) }

// Join concatenates trusted parts with sep.
func Join(parts []Trusted, sep string) Trusted {
	ss := make([]string, len(parts))
	for i, p := range parts {
		ss[i] = string(p)
	}
	return Trusted(strings.Join(ss, sep))
}

// Bind is one bind value with the placeholder it was allocated under.
type Bind struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
	Value    any    `json:"value"`
}

type Builder struct {
	Style PlaceholderStyle
	binds []Bind
	named map[string]int
}

func New(style PlaceholderStyle) *Builder {
	return &Builder{Style: style, binds: make([]Bind, 0), named: make(map[string]int)}
}

// Named allocates a bind under name. A second call with the same name
// returns the first placeholder and keeps the first value.
func (b *Builder) Named(name string, v any) Trusted {
	if i, ok := b.named[name]; ok {
		return b.placeholder(b.binds[i])
	}
	b.binds = append(b.binds, Bind{Name: name, Position: len(b.binds) + 1, Value: v})
	b.named[name] = len(b.binds) - 1
	return b.placeholder(b.binds[len(b.binds)-1])
}

func (b *Builder) placeholder(bd Bind) Trusted {
	switch b.Style {
	case PlaceholderNamed:
		return Trusted("@" + bd.Name)
	default:
		return Trusted("$" + strconv.Itoa(bd.Position))
	}
}

// Binds returns a copy of the allocated binds in allocation order.
func (b *Builder) Binds() []Bind {
	out := make([]Bind, len(b.binds))
	copy(out, b.binds)
	return out
}
