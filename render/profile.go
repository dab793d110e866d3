package render

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"oss.terrastruct.com/xdefer"

	"github.com/tdewolff/sweepline"
)

// Profile records the progress of a sweep, it implements sweepline.Reporter.
type Profile struct {
	Status    []float64 // segments in the status after every step
	Crossings []float64 // crossings reported up to and including every step
}

// Report records a step.
func (p *Profile) Report(step sweepline.Step) {
	n := 0.0
	if 0 < len(p.Crossings) {
		n = p.Crossings[len(p.Crossings)-1]
	}
	p.Status = append(p.Status, float64(step.Status))
	p.Crossings = append(p.Crossings, n+float64(len(step.Intersections)))
}

// Steps returns the number of recorded steps.
func (p *Profile) Steps() int {
	return len(p.Status)
}

// Chart returns a line chart of the status size and the cumulative crossings per step.
func (p *Profile) Chart(style Style) (chart.Chart, error) {
	if len(p.Status) == 0 {
		return chart.Chart{}, fmt.Errorf("empty profile")
	}

	steps := make([]float64, len(p.Status))
	ymax := 1.0
	for i := range steps {
		steps[i] = float64(i)
		ymax = max(ymax, p.Status[i], p.Crossings[i])
	}

	px := func(mm float64) int {
		return int(mm / 25.4 * chart.DefaultDPI)
	}
	lineStyle := func(hex string) chart.Style {
		return chart.Style{
			StrokeColor: Color(hex),
			StrokeWidth: max(1.0, style.LineWidth/25.4*chart.DefaultDPI),
		}
	}

	graph := chart.Chart{
		Title:  style.Title,
		Width:  px(style.Width),
		Height: px(style.Height),
		XAxis: chart.XAxis{
			Name:  "step",
			Range: &chart.ContinuousRange{Min: 0.0, Max: max(1.0, float64(len(steps)-1))},
		},
		YAxis: chart.YAxis{
			Name:  "segments",
			Range: &chart.ContinuousRange{Min: 0.0, Max: ymax},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "status",
				XValues: steps,
				YValues: p.Status,
				Style:   lineStyle(style.SegmentColor),
			},
			chart.ContinuousSeries{
				Name:    "crossings",
				XValues: steps,
				YValues: p.Crossings,
				Style:   lineStyle(style.IntersectionColor),
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph, nil
}

// Render writes the chart as svg or png.
func (p *Profile) Render(w io.Writer, format string, style Style) (err error) {
	defer xdefer.Errorf(&err, "failed to render profile")

	var provider chart.RendererProvider
	switch format {
	case "svg":
		provider = chart.SVG
	case "png":
		provider = chart.PNG
	default:
		return fmt.Errorf("unsupported format %q", format)
	}

	graph, err := p.Chart(style)
	if err != nil {
		return err
	}
	return graph.Render(provider, w)
}
