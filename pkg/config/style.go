package config

// NodeConfig holds the optional display properties of a node.
// A nil field means "inherit from the next layer".
type NodeConfig struct {
	Color         *string  `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	FontColor     *string  `json:"font_color,omitempty" yaml:"font_color,omitempty" toml:"font_color,omitempty"`
	FontSize      *float64 `json:"font_size,omitempty" yaml:"font_size,omitempty" toml:"font_size,omitempty"`
	FontWeight    *string  `json:"font_weight,omitempty" yaml:"font_weight,omitempty" toml:"font_weight,omitempty"`
	Label         *string  `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	LabelPosition *string  `json:"label_position,omitempty" yaml:"label_position,omitempty" toml:"label_position,omitempty"`
	Opacity       *float64 `json:"opacity,omitempty" yaml:"opacity,omitempty" toml:"opacity,omitempty"`
	RenderLabel   *bool    `json:"render_label,omitempty" yaml:"render_label,omitempty" toml:"render_label,omitempty"`
	Size          *float64 `json:"size,omitempty" yaml:"size,omitempty" toml:"size,omitempty"`
	StrokeColor   *string  `json:"stroke_color,omitempty" yaml:"stroke_color,omitempty" toml:"stroke_color,omitempty"`
	StrokeWidth   *float64 `json:"stroke_width,omitempty" yaml:"stroke_width,omitempty" toml:"stroke_width,omitempty"`
	SymbolType    *string  `json:"symbol_type,omitempty" yaml:"symbol_type,omitempty" toml:"symbol_type,omitempty"`
}

// LinkConfig holds the optional display properties of a link.
type LinkConfig struct {
	Color               *string  `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	FontColor           *string  `json:"font_color,omitempty" yaml:"font_color,omitempty" toml:"font_color,omitempty"`
	FontSize            *float64 `json:"font_size,omitempty" yaml:"font_size,omitempty" toml:"font_size,omitempty"`
	Label               *string  `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Opacity             *float64 `json:"opacity,omitempty" yaml:"opacity,omitempty" toml:"opacity,omitempty"`
	RenderLabel         *bool    `json:"render_label,omitempty" yaml:"render_label,omitempty" toml:"render_label,omitempty"`
	SemanticStrokeWidth *bool    `json:"semantic_stroke_width,omitempty" yaml:"semantic_stroke_width,omitempty" toml:"semantic_stroke_width,omitempty"`
	StrokeWidth         *float64 `json:"stroke_width,omitempty" yaml:"stroke_width,omitempty" toml:"stroke_width,omitempty"`
	StrokeDasharray     *float64 `json:"stroke_dasharray,omitempty" yaml:"stroke_dasharray,omitempty" toml:"stroke_dasharray,omitempty"`
	StrokeLinecap       *string  `json:"stroke_linecap,omitempty" yaml:"stroke_linecap,omitempty" toml:"stroke_linecap,omitempty"`
	Value               *float64 `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
}

// NodeStyle is a fully resolved node style. Every field has a value.
type NodeStyle struct {
	Color         string  `json:"color"`
	FontColor     string  `json:"font_color"`
	FontSize      float64 `json:"font_size"`
	FontWeight    string  `json:"font_weight"`
	Label         string  `json:"label,omitempty"`
	LabelPosition string  `json:"label_position"`
	Opacity       float64 `json:"opacity"`
	RenderLabel   bool    `json:"render_label"`
	Size          float64 `json:"size"`
	StrokeColor   string  `json:"stroke_color"`
	StrokeWidth   float64 `json:"stroke_width"`
	SymbolType    string  `json:"symbol_type"`
}

// LinkStyle is a fully resolved link style.
type LinkStyle struct {
	Color               string  `json:"color"`
	FontColor           string  `json:"font_color"`
	FontSize            float64 `json:"font_size"`
	Label               string  `json:"label,omitempty"`
	Opacity             float64 `json:"opacity"`
	RenderLabel         bool    `json:"render_label"`
	SemanticStrokeWidth bool    `json:"semantic_stroke_width"`
	StrokeWidth         float64 `json:"stroke_width"`
	StrokeDasharray     float64 `json:"stroke_dasharray"`
	StrokeLinecap       string  `json:"stroke_linecap"`
	Value               float64 `json:"value"`
}

// Symbol types understood by the renderers.
const (
	SymbolCircle  = "circle"
	SymbolSquare  = "square"
	SymbolDiamond = "diamond"
)

// MergeNode resolves a node style. Precedence: explicit > shared > defaults.
func MergeNode(explicit, shared NodeConfig, defaults NodeStyle) NodeStyle {
	s := defaults
	applyNode(&s, shared)
	applyNode(&s, explicit)
	return s
}

// MergeLink resolves a link style. Precedence: explicit > shared > defaults.
func MergeLink(explicit, shared LinkConfig, defaults LinkStyle) LinkStyle {
	s := defaults
	applyLink(&s, shared)
	applyLink(&s, explicit)
	return s
}

func applyNode(s *NodeStyle, c NodeConfig) {
	set(&s.Color, c.Color)
	set(&s.FontColor, c.FontColor)
	set(&s.FontSize, c.FontSize)
	set(&s.FontWeight, c.FontWeight)
	set(&s.Label, c.Label)
	set(&s.LabelPosition, c.LabelPosition)
	set(&s.Opacity, c.Opacity)
	set(&s.RenderLabel, c.RenderLabel)
	set(&s.Size, c.Size)
	set(&s.StrokeColor, c.StrokeColor)
	set(&s.StrokeWidth, c.StrokeWidth)
	set(&s.SymbolType, c.SymbolType)
}

func applyLink(s *LinkStyle, c LinkConfig) {
	set(&s.Color, c.Color)
	set(&s.FontColor, c.FontColor)
	set(&s.FontSize, c.FontSize)
	set(&s.Label, c.Label)
	set(&s.Opacity, c.Opacity)
	set(&s.RenderLabel, c.RenderLabel)
	set(&s.SemanticStrokeWidth, c.SemanticStrokeWidth)
	set(&s.StrokeWidth, c.StrokeWidth)
	set(&s.StrokeDasharray, c.StrokeDasharray)
	set(&s.StrokeLinecap, c.StrokeLinecap)
	set(&s.Value, c.Value)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Ptr returns a pointer to v. It is a convenience for building configs in code.
func Ptr[T any](v T) *T { return &v }
