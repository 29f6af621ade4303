package cache

import "github.com/matzehuels/forcegraph/pkg/config"

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies settled node positions for a graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies rendered output for a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the settings that change a computed layout.
type LayoutKeyOpts struct {
	Width            float64 `json:"width"`
	Height           float64 `json:"height"`
	Gravity          float64 `json:"gravity"`
	LinkLength       float64 `json:"link_length"`
	LinkStrength     float64 `json:"link_strength"`
	DisableLinkForce bool    `json:"disable_link_force,omitempty"`
	PaddingRadius    float64 `json:"padding_radius"`
	Seed             int64   `json:"seed"`
	Static           bool    `json:"static,omitempty"`
	MaxTicks         int     `json:"max_ticks,omitempty"`
	// Live marks a snapshot of a running scene rather than a settled layout.
	Live bool `json:"live,omitempty"`
}

// LayoutOptsFromConfig extracts the layout-relevant settings of cfg.
func LayoutOptsFromConfig(cfg config.Config, maxTicks int) LayoutKeyOpts {
	return LayoutKeyOpts{
		Width:            cfg.Width,
		Height:           cfg.Height,
		Gravity:          cfg.Sim.Gravity,
		LinkLength:       cfg.Sim.LinkLength,
		LinkStrength:     cfg.Sim.LinkStrength,
		DisableLinkForce: cfg.Sim.DisableLinkForce,
		PaddingRadius:    cfg.Sim.PaddingRadius,
		Seed:             cfg.Sim.Seed,
		Static:           cfg.Static(),
		MaxTicks:         maxTicks,
	}
}

// ArtifactKeyOpts are the settings that change rendered output without
// changing the layout.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Zoom   float64 `json:"zoom,omitempty"`
	Labels bool    `json:"labels,omitempty"`
	Scale  float64 `json:"scale,omitempty"`

	InitialZoom float64          `json:"initial_zoom,omitempty"`
	MinZoom     float64          `json:"min_zoom"`
	MaxZoom     float64          `json:"max_zoom"`
	FocusZoom   float64          `json:"focus_zoom"`
	Node        config.NodeStyle `json:"node"`
	Link        config.LinkStyle `json:"link"`
}

// ArtifactOptsFromConfig extracts the presentation settings of cfg: the
// resolved default node and link styles and the zoom bounds. Callers fill in
// the per-render fields.
func ArtifactOptsFromConfig(cfg config.Config, format string) ArtifactKeyOpts {
	return ArtifactKeyOpts{
		Format:      format,
		InitialZoom: cfg.InitialZoom,
		MinZoom:     cfg.MinZoom,
		MaxZoom:     cfg.MaxZoom,
		FocusZoom:   cfg.FocusZoom,
		Node:        cfg.NodeDefaults(),
		Link:        cfg.LinkDefaults(),
	}
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
