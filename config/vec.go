package config

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Vec2 is a 2D vector written either as [x, y] or as {x: .., y: ..}.
type Vec2 struct {
	X, Y float64
}

// UnmarshalYAML accepts both the sequence and the mapping form.
func (v *Vec2) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var xy []float64
		if err := node.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("line %d: vector needs 2 components, got %d", node.Line, len(xy))
		}
		v.X, v.Y = xy[0], xy[1]
	case yaml.MappingNode:
		var m struct {
			X *float64 `yaml:"x"`
			Y *float64 `yaml:"y"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		// Missing components keep their current value
		if m.X != nil {
			v.X = *m.X
		}
		if m.Y != nil {
			v.Y = *m.Y
		}
	default:
		return fmt.Errorf("line %d: vector must be a sequence or a mapping", node.Line)
	}
	return nil
}

// MarshalYAML writes the flow sequence form.
func (v Vec2) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, f := range []float64{v.X, v.Y} {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatFloat(f, 'g', -1, 64)})
	}
	return n, nil
}

func (v Vec2) String() string {
	return fmt.Sprintf("%g,%g", v.X, v.Y)
}

// GridPoint addresses a particle in the cloth grid, written as [col, row]
// or {col: .., row: ..}.
type GridPoint struct {
	Col, Row int
}

// UnmarshalYAML accepts both the sequence and the mapping form.
func (g *GridPoint) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var cr []int
		if err := node.Decode(&cr); err != nil {
			return err
		}
		if len(cr) != 2 {
			return fmt.Errorf("line %d: grid point needs 2 components, got %d", node.Line, len(cr))
		}
		g.Col, g.Row = cr[0], cr[1]
	case yaml.MappingNode:
		var m struct {
			Col int `yaml:"col"`
			Row int `yaml:"row"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		g.Col, g.Row = m.Col, m.Row
	default:
		return fmt.Errorf("line %d: grid point must be a sequence or a mapping", node.Line)
	}
	return nil
}

// MarshalYAML writes the flow sequence form.
func (g GridPoint) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, i := range []int{g.Col, g.Row} {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.Itoa(i)})
	}
	return n, nil
}
