// Package render draws segments and their crossings as plots, and charts the progress of a sweep.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"oss.terrastruct.com/xdefer"

	"github.com/tdewolff/sweepline"
)

// UnitType is the kind of a figure unit.
type UnitType string

// see UnitType
const (
	PointUnit UnitType = "pt"
	LineUnit  UnitType = "ln"
)

// Unit is a set of points or a polyline with a color.
type Unit struct {
	ID     int          `json:"id"`
	Type   UnitType     `json:"type"`
	Color  string       `json:"color"`
	Points [][2]float64 `json:"points"`
}

// Figure is a list of units that is drawn in order.
type Figure struct {
	Units  []Unit
	nextID int
}

// NewFigure returns a figure with a line unit for every segment followed by a point unit for every crossing.
func NewFigure(segs sweepline.Segments, zs []sweepline.Intersection, style Style) *Figure {
	f := &Figure{}
	for _, s := range segs {
		f.AddLine(style.SegmentColor, s.A, s.B)
	}
	for _, z := range zs {
		f.AddPoints(style.IntersectionColor, z.Point)
	}
	return f
}

func (f *Figure) add(typ UnitType, color string, ps []sweepline.Point) int {
	id := f.nextID
	f.nextID++

	points := make([][2]float64, len(ps))
	for i, p := range ps {
		points[i] = [2]float64{p.X, p.Y}
	}
	f.Units = append(f.Units, Unit{
		ID:     id,
		Type:   typ,
		Color:  color,
		Points: points,
	})
	return id
}

// AddPoints adds a point unit and returns its ID.
func (f *Figure) AddPoints(color string, ps ...sweepline.Point) int {
	return f.add(PointUnit, color, ps)
}

// AddLine adds a polyline unit and returns its ID.
func (f *Figure) AddLine(color string, ps ...sweepline.Point) int {
	return f.add(LineUnit, color, ps)
}

// ReadFigure reads units as written by WriteJSON. New units get IDs after the largest one read.
func ReadFigure(r io.Reader) (f *Figure, err error) {
	defer xdefer.Errorf(&err, "failed to read figure")

	f = &Figure{}
	if err := json.NewDecoder(r).Decode(&f.Units); err != nil {
		return nil, err
	}
	for _, u := range f.Units {
		if u.Type != PointUnit && u.Type != LineUnit {
			return nil, fmt.Errorf("unit %d: unknown type %q", u.ID, u.Type)
		}
		f.nextID = max(f.nextID, u.ID+1)
	}
	return f, nil
}

// WriteJSON writes the units as a JSON array.
func (f *Figure) WriteJSON(w io.Writer) (err error) {
	defer xdefer.Errorf(&err, "failed to write figure")

	units := f.Units
	if units == nil {
		units = []Unit{}
	}
	return json.NewEncoder(w).Encode(units)
}

// Plot returns a gonum plot of the figure. Line units are drawn as polylines, point units as filled circles.
func (f *Figure) Plot(style Style) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = style.Title
	if style.HideAxes {
		p.HideAxes()
	}

	for _, u := range f.Units {
		if len(u.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(u.Points))
		for i, pt := range u.Points {
			xys[i].X, xys[i].Y = pt[0], pt[1]
		}

		switch u.Type {
		case LineUnit:
			line, err := plotter.NewLine(xys)
			if err != nil {
				return nil, fmt.Errorf("unit %d: %w", u.ID, err)
			}
			line.LineStyle.Width = vg.Length(style.LineWidth) * vg.Millimeter
			line.LineStyle.Color = Color(u.Color)
			p.Add(line)
		case PointUnit:
			scatter, err := plotter.NewScatter(xys)
			if err != nil {
				return nil, fmt.Errorf("unit %d: %w", u.ID, err)
			}
			scatter.GlyphStyle.Shape = draw.CircleGlyph{}
			scatter.GlyphStyle.Radius = vg.Length(style.PointRadius) * vg.Millimeter
			scatter.GlyphStyle.Color = Color(u.Color)
			p.Add(scatter)
		default:
			return nil, fmt.Errorf("unit %d: unknown type %q", u.ID, u.Type)
		}
	}
	return p, nil
}

// Format returns the output format for a filename, ie. its lowercase extension without the dot.
func Format(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// Save writes the plot in the given format, any format supported by gonum plot such as svg, png or pdf. SVG output is minified when the style asks for it.
func (f *Figure) Save(w io.Writer, format string, style Style) (err error) {
	defer xdefer.Errorf(&err, "failed to save %s figure", format)

	p, err := f.Plot(style)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(vg.Length(style.Width)*vg.Millimeter, vg.Length(style.Height)*vg.Millimeter, format)
	if err != nil {
		return err
	}
	if !style.Minify || format != "svg" {
		_, err = wt.WriteTo(w)
		return err
	}

	buf := &bytes.Buffer{}
	if _, err := wt.WriteTo(buf); err != nil {
		return err
	}
	m := minify.New()
	m.AddFunc("image/svg+xml", svg.Minify)
	return m.Minify("image/svg+xml", w, buf)
}

var openFile = browser.OpenFile

// Show saves the figure as SVG to a temporary file and opens it in the browser.
func Show(f *Figure, style Style) (err error) {
	defer xdefer.Errorf(&err, "failed to show figure")

	file, err := os.CreateTemp("", "sweepline-*.svg")
	if err != nil {
		return err
	}
	if err := f.Save(file, "svg", style); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return openFile(file.Name())
}
