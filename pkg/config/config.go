package config

import (
	"time"

	"github.com/matzehuels/forcegraph/pkg/errors"
)

// Config is the complete configuration of a scene.
type Config struct {
	Width  float64 `json:"width" yaml:"width" toml:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height"`

	MinZoom   float64 `json:"min_zoom" yaml:"min_zoom" toml:"min_zoom"`
	MaxZoom   float64 `json:"max_zoom" yaml:"max_zoom" toml:"max_zoom"`
	FocusZoom float64 `json:"focus_zoom" yaml:"focus_zoom" toml:"focus_zoom"`
	// InitialZoom is applied to the transform when a scene is created. Zero means 1.
	InitialZoom float64 `json:"initial_zoom,omitempty" yaml:"initial_zoom,omitempty" toml:"initial_zoom,omitempty"`

	// StaticGraph disables the simulation. Bodies keep their explicit positions.
	StaticGraph bool `json:"static_graph" yaml:"static_graph" toml:"static_graph"`
	// StaticGraphWithDragAndDrop is StaticGraph that still allows nodes to be dragged.
	StaticGraphWithDragAndDrop bool `json:"static_graph_with_drag_and_drop" yaml:"static_graph_with_drag_and_drop" toml:"static_graph_with_drag_and_drop"`
	FreezeAllDragEvents        bool `json:"freeze_all_drag_events" yaml:"freeze_all_drag_events" toml:"freeze_all_drag_events"`

	// RenderThrottle bounds how often engine ticks turn into re-renders.
	RenderThrottle Duration `json:"render_throttle" yaml:"render_throttle" toml:"render_throttle"`

	Sim  SimConfig  `json:"sim" yaml:"sim" toml:"sim"`
	Node NodeConfig `json:"node" yaml:"node" toml:"node"`
	Link LinkConfig `json:"link" yaml:"link" toml:"link"`
}

// SimConfig tunes the physics simulation.
type SimConfig struct {
	// AlphaTarget is the energy the simulation relaxes toward while a node is
	// dragged. At rest the target is 0 so the layout cools and stops.
	AlphaTarget      float64 `json:"alpha_target" yaml:"alpha_target" toml:"alpha_target"`
	Gravity          float64 `json:"gravity" yaml:"gravity" toml:"gravity"`
	LinkLength       float64 `json:"link_length" yaml:"link_length" toml:"link_length"`
	LinkStrength     float64 `json:"link_strength" yaml:"link_strength" toml:"link_strength"`
	DisableLinkForce bool    `json:"disable_link_force" yaml:"disable_link_force" toml:"disable_link_force"`
	PaddingRadius    float64 `json:"padding_radius" yaml:"padding_radius" toml:"padding_radius"`
	// Seed makes the simulation's jiggle deterministic.
	Seed int64 `json:"seed" yaml:"seed" toml:"seed"`
}

// Duration is a time.Duration that reads and writes as a string ("50ms").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse duration %q", string(b))
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration. Each call returns a new value.
func Default() Config {
	return Config{
		Width:          800,
		Height:         700,
		MinZoom:        0.125,
		MaxZoom:        8,
		FocusZoom:      1,
		RenderThrottle: Duration{50 * time.Millisecond},
		Sim: SimConfig{
			AlphaTarget:   0.05,
			Gravity:       -100,
			LinkLength:    100,
			LinkStrength:  1,
			PaddingRadius: 30,
			Seed:          1,
		},
	}
}

// DefaultNodeStyle is the global node style default.
func DefaultNodeStyle() NodeStyle {
	return NodeStyle{
		Color:         "#d3d3d3",
		FontColor:     "black",
		FontSize:      8,
		FontWeight:    "normal",
		LabelPosition: "bottom",
		Opacity:       1,
		RenderLabel:   true,
		Size:          200,
		StrokeColor:   "none",
		StrokeWidth:   1.5,
		SymbolType:    SymbolCircle,
	}
}

// DefaultLinkStyle is the global link style default.
func DefaultLinkStyle() LinkStyle {
	return LinkStyle{
		Color:         "#d3d3d3",
		FontColor:     "black",
		FontSize:      8,
		Opacity:       1,
		StrokeWidth:   1.5,
		StrokeLinecap: "butt",
		Value:         1,
	}
}

// NodeDefaults returns the node style defaults with the config-level shared
// node properties applied. The result is the "global default" layer for stores.
func (c Config) NodeDefaults() NodeStyle {
	return MergeNode(NodeConfig{}, c.Node, DefaultNodeStyle())
}

// LinkDefaults is the link counterpart of [Config.NodeDefaults].
func (c Config) LinkDefaults() LinkStyle {
	return MergeLink(LinkConfig{}, c.Link, DefaultLinkStyle())
}

// Draggable reports whether drag events should be honoured.
func (c Config) Draggable() bool {
	if c.FreezeAllDragEvents {
		return false
	}
	return !c.StaticGraph || c.StaticGraphWithDragAndDrop
}

// Static reports whether the simulation is disabled.
func (c Config) Static() bool {
	return c.StaticGraph || c.StaticGraphWithDragAndDrop
}

// Validate checks the configuration for values no scene can work with.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "width and height must be positive (got %gx%g)", c.Width, c.Height)
	case c.MinZoom <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "min_zoom must be positive (got %g)", c.MinZoom)
	case c.MaxZoom < c.MinZoom:
		return errors.New(errors.ErrCodeInvalidConfig, "max_zoom %g is below min_zoom %g", c.MaxZoom, c.MinZoom)
	case c.InitialZoom != 0 && (c.InitialZoom < c.MinZoom || c.InitialZoom > c.MaxZoom):
		return errors.New(errors.ErrCodeInvalidConfig, "initial_zoom %g outside [%g, %g]", c.InitialZoom, c.MinZoom, c.MaxZoom)
	case c.RenderThrottle.Duration <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "render_throttle must be positive")
	case c.Sim.LinkLength < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "link_length must not be negative")
	case c.Sim.PaddingRadius < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "padding_radius must not be negative")
	case c.Sim.AlphaTarget < 0 || c.Sim.AlphaTarget > 1:
		return errors.New(errors.ErrCodeInvalidConfig, "alpha_target must be in [0, 1]")
	}
	if c.Node.Size != nil && *c.Node.Size < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "node size must not be negative")
	}
	if c.Link.StrokeWidth != nil && *c.Link.StrokeWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "link stroke_width must not be negative")
	}
	return nil
}
