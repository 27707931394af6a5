package board

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// PlaceableKind is the closed set of decorative placeable shapes.
type PlaceableKind uint8

const (
	// KindProp is a generic box.
	KindProp PlaceableKind = iota
	// KindTree is a trunk with a canopy.
	KindTree
	// KindRock is a low boulder.
	KindRock
	// KindBush is a small round shrub.
	KindBush

	placeableKindCount
)

var kindNames = [placeableKindCount]string{
	KindProp: "prop",
	KindTree: "tree",
	KindRock: "rock",
	KindBush: "bush",
}

// String returns the kind name used in style files.
func (k PlaceableKind) String() string {
	if k < placeableKindCount {
		return kindNames[k]
	}
	return "unknown"
}

func parseKind(s string) (PlaceableKind, bool) {
	for i, n := range kindNames {
		if n == s {
			return PlaceableKind(i), true // #nosec G115 -- i < placeableKindCount
		}
	}
	return KindProp, false
}

// PlaceableStyle is how every instance of a placeable type is drawn.
type PlaceableStyle struct {
	Kind    PlaceableKind
	Scale   float64 // uniform instance scale
	YOffset float64 // lift above the cell surface, in elevation units
	Color   RGB
}

// DefaultStyle is used for types missing from the table.
var DefaultStyle = PlaceableStyle{Kind: KindProp, Scale: 0.6, Color: rgb8(150, 140, 120)}

// StyleTable maps a placeable type id to its style. It is resolved once per
// instance group, when the group is created.
type StyleTable map[string]PlaceableStyle

// DefaultStyles covers the stock decorative placeables.
var DefaultStyles = StyleTable{
	"tree":  {Kind: KindTree, Scale: 1.0, YOffset: 0, Color: rgb8(46, 110, 52)},
	"pine":  {Kind: KindTree, Scale: 1.2, YOffset: 0, Color: rgb8(30, 84, 48)},
	"rock":  {Kind: KindRock, Scale: 0.5, YOffset: 0, Color: rgb8(120, 116, 110)},
	"bush":  {Kind: KindBush, Scale: 0.4, YOffset: 0, Color: rgb8(70, 120, 60)},
	"crate": {Kind: KindProp, Scale: 0.45, YOffset: 0, Color: rgb8(140, 100, 60)},
}

// Resolve returns the style for typeKey and whether it was in the table.
func (t StyleTable) Resolve(typeKey string) (PlaceableStyle, bool) {
	s, ok := t[typeKey]
	if !ok {
		return DefaultStyle, false
	}
	return s, true
}

type styleFile struct {
	Types map[string]struct {
		Kind    string     `yaml:"kind"`
		Scale   float64    `yaml:"scale"`
		YOffset float64    `yaml:"y_offset"`
		Color   [3]float64 `yaml:"color"`
	} `yaml:"types"`
}

// LoadStyleTable reads a YAML style table:
//
//	types:
//	  tree: {kind: tree, scale: 1.0, y_offset: 0, color: [0.18, 0.43, 0.2]}
func LoadStyleTable(r io.Reader) (StyleTable, error) {
	var f styleFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode style table: %w", err)
	}
	out := make(StyleTable, len(f.Types))
	for name, t := range f.Types {
		kind, ok := parseKind(t.Kind)
		if !ok {
			return nil, fmt.Errorf("style %q: unknown kind %q: %w", name, t.Kind, ErrInvalidConfig)
		}
		if !(t.Scale > 0) {
			return nil, fmt.Errorf("style %q: scale %v must be > 0: %w", name, t.Scale, ErrInvalidConfig)
		}
		for _, c := range t.Color {
			if c < 0 || c > 1 {
				return nil, fmt.Errorf("style %q: colour %v outside [0,1]: %w", name, t.Color, ErrInvalidConfig)
			}
		}
		out[name] = PlaceableStyle{
			Kind:    kind,
			Scale:   t.Scale,
			YOffset: t.YOffset,
			Color:   RGB{R: float32(t.Color[0]), G: float32(t.Color[1]), B: float32(t.Color[2])},
		}
	}
	return out, nil
}
