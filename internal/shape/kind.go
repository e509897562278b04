package shape

import (
	"fmt"
	"strings"
)

// Kind identifies the geometry of a shape.
type Kind int

const (
	KindLine Kind = iota
	KindRectangle
	KindCircle
	KindFreehand
	KindArrow
)

var kindNames = []string{"line", "rectangle", "circle", "freehand", "arrow"}

// kindAliases maps the names older option blobs and the toolbar use.
var kindAliases = map[string]Kind{
	"pen":    KindFreehand,
	"pencil": KindFreehand,
	"square": KindRectangle,
	"rect":   KindRectangle,
}

// Kinds returns every shape kind in toolbar order.
func Kinds() []Kind {
	return []Kind{KindFreehand, KindLine, KindRectangle, KindCircle, KindArrow}
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Fillable reports whether shapes of this kind honour the fill flag.
func (k Kind) Fillable() bool {
	return k == KindRectangle || k == KindCircle
}

// ParseKind resolves a kind name, accepting the toolbar aliases.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	if k, ok := kindAliases[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown shape kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown shape kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
