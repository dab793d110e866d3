package render

import (
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"oss.terrastruct.com/xdefer"
)

// Style is the rendering style of figures and profiles. Lengths are in millimeters, colors are hexadecimal like "#1f77b4".
type Style struct {
	Title             string  `toml:"title"`
	Width             float64 `toml:"width"`
	Height            float64 `toml:"height"`
	LineWidth         float64 `toml:"line_width"`
	PointRadius       float64 `toml:"point_radius"`
	SegmentColor      string  `toml:"segment_color"`
	IntersectionColor string  `toml:"intersection_color"`
	HideAxes          bool    `toml:"hide_axes"`
	Minify            bool    `toml:"minify"` // minify SVG output
}

// DefaultStyle is used for figures and profiles without a style file.
var DefaultStyle = Style{
	Width:             120.0,
	Height:            120.0,
	LineWidth:         0.2,
	PointRadius:       0.6,
	SegmentColor:      "#008000",
	IntersectionColor: "#000000",
}

// LoadStyle reads a TOML style. Fields that are absent keep their default value and unknown fields are an error.
func LoadStyle(r io.Reader) (style Style, err error) {
	defer xdefer.Errorf(&err, "failed to load style")

	style = DefaultStyle
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&style); err != nil {
		return DefaultStyle, err
	}
	return style, nil
}

// Color parses a hexadecimal color with or without leading hash, an empty string is black.
func Color(hex string) drawing.Color {
	return drawing.ColorFromHex(hexColor(hex))
}

func hexColor(hex string) string {
	if hex == "" {
		return "000000"
	}
	return strings.TrimPrefix(hex, "#")
}
