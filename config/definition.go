package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Cloth definition files are JSON documents of the form
//
//	{
//	  "size": [75, 50],
//	  "length": 20,
//	  "friction": 0.5,
//	  "gravity": {"x": 0, "y": 1500},
//	  "wind": [
//	    {"size": [100, 1080], "position": [0, 0], "force": [1000, 0]},
//	    [[20, 1080], [0, 0], [3000, 0]]
//	  ],
//	  "structure": {"pins": [[0, 0], {"col": 74, "row": 0}]}
//	}
//
// Every key is optional. Vectors take either form; vector components left
// out keep the value already configured. JSON is read with the YAML decoder,
// so the file may also be written as YAML.
type definition struct {
	Size      []int        `yaml:"size"`
	Length    float64      `yaml:"length"`
	Friction  float64      `yaml:"friction"`
	Gravity   Vec2         `yaml:"gravity"`
	Wind      []ZoneConfig `yaml:"wind"`
	Structure struct {
		Pins []GridPoint `yaml:"pins"`
	} `yaml:"structure"`
}

// ApplyDefinition reads a cloth definition file and applies it on top of c.
func (c *Config) ApplyDefinition(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading cloth definition: %w", err)
	}
	if err := c.ParseDefinition(data); err != nil {
		return fmt.Errorf("cloth definition %s: %w", path, err)
	}
	return nil
}

// ParseDefinition applies a cloth definition document on top of c.
//
// A non-empty wind list replaces the configured zones and enables wind.
// A non-empty pin list replaces top-row pinning.
func (c *Config) ParseDefinition(data []byte) error {
	def := definition{
		Size:     []int{c.Cloth.Width, c.Cloth.Height},
		Length:   c.Cloth.LinkLength,
		Friction: c.Physics.Friction,
		Gravity:  c.Physics.Gravity,
	}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return fmt.Errorf("parsing: %w", err)
	}
	if len(def.Size) != 2 {
		return fmt.Errorf("%w: size needs 2 components, got %d", ErrInvalid, len(def.Size))
	}

	c.Cloth.Width, c.Cloth.Height = def.Size[0], def.Size[1]
	c.Cloth.LinkLength = def.Length
	c.Physics.Friction = def.Friction
	c.Physics.Gravity = def.Gravity
	if len(def.Wind) > 0 {
		c.Wind.Zones = def.Wind
		c.Wind.Enabled = true
	}
	if len(def.Structure.Pins) > 0 {
		c.Cloth.Pins = def.Structure.Pins
		c.Cloth.PinTop = false
	}
	return c.Refresh()
}

// UnmarshalYAML accepts a zone mapping or a [size, position, force] triple.
func (z *ZoneConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var parts []Vec2
		if err := node.Decode(&parts); err != nil {
			return err
		}
		if len(parts) != 3 {
			return fmt.Errorf("line %d: wind zone triple needs [size, position, force], got %d items",
				node.Line, len(parts))
		}
		z.Size, z.Position, z.Force = parts[0], parts[1], parts[2]
		return nil
	}
	// Plain alias so Decode does not recurse back into this method.
	type plain ZoneConfig
	return node.Decode((*plain)(z))
}
