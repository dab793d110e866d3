package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"cdr.dev/slog"
	"github.com/tdewolff/argp"
	"oss.terrastruct.com/xdefer"

	"github.com/tdewolff/sweepline"
	"github.com/tdewolff/sweepline/geo"
	"github.com/tdewolff/sweepline/internal/log"
	"github.com/tdewolff/sweepline/render"
)

type Sweep struct {
	N       int    `short:"n" default:"10" desc:"Number of random segments when there is no input"`
	Seed    int    `desc:"Random seed, zero for a random sequence"`
	Output  string `short:"o" desc:"Output file (.svg, .png, .pdf, .json or .geojson)"`
	Profile string `desc:"Sweep profile chart output file (.svg or .png)"`
	Style   string `desc:"Style file in TOML"`
	Minify  bool   `desc:"Minify SVG output"`
	Show    bool   `desc:"Show the plot in the browser"`
	UTM     string `name:"utm" desc:"Project geographic input to a UTM zone, negative for the southern hemisphere, or 'auto'"`
	Verify  bool   `desc:"Compare with brute force"`
	Verbose bool   `short:"v" desc:"Debug logging"`
	Input   string `index:"0" desc:"Input file (.geojson, .json, .osm or segments)"`
}

type Gen struct {
	N      int    `short:"n" default:"10" desc:"Number of segments"`
	Seed   int    `desc:"Random seed, zero for a random sequence"`
	Output string `short:"o" desc:"Output file"`
}

type Plot struct {
	Style  string `desc:"Style file in TOML"`
	Minify bool   `desc:"Minify SVG output"`
	Show   bool   `desc:"Show the plot in the browser"`
	Output string `short:"o" desc:"Output file (.svg, .png or .pdf)"`
	Input  string `index:"0" desc:"Input file with JSON units"`
}

var stdout io.Writer = os.Stdout

func main() {
	root := argp.NewCmd(&Sweep{}, "Line segment intersections using a plane sweep")
	root.AddCmd(&Gen{}, "gen", "Generate random segments as SVG path data")
	root.AddCmd(&Plot{}, "plot", "Plot JSON units")
	root.Parse()
	root.PrintHelp()
}

func (cmd *Sweep) Run() (err error) {
	ctx := log.Named(log.Stderr(context.Background(), cmd.Verbose), "sweepline")
	defer log.Sync(ctx)

	segs, err := readSegments(cmd.Input, cmd.N, cmd.Seed)
	if err != nil {
		return err
	} else if len(segs) == 0 {
		log.Warn(ctx, "no segments in input", slog.F("input", cmd.Input))
	}
	if segs, err = project(segs, cmd.UTM); err != nil {
		return err
	}
	style, err := loadStyle(cmd.Style, cmd.Minify)
	if err != nil {
		return err
	}

	sweep, err := sweepline.NewSweep(segs)
	if err != nil {
		return err
	}
	var prof *render.Profile
	reporter := log.NewReporter(ctx)
	if cmd.Profile != "" {
		prof = &render.Profile{}
		sweep.Reporter = sweepline.ReporterFunc(func(step sweepline.Step) {
			reporter.Report(step)
			prof.Report(step)
		})
	} else {
		sweep.Reporter = reporter
	}

	t0 := time.Now()
	zs := []sweepline.Intersection{}
	for z := range sweep.Intersections() {
		zs = append(zs, z)
	}
	log.Info(ctx, "swept segments",
		slog.F("segments", len(segs)),
		slog.F("intersections", len(zs)),
		slog.F("duration", time.Since(t0)))

	if cmd.Verify {
		if err := verify(segs, zs); err != nil {
			log.Error(ctx, "brute force disagrees", slog.Error(err))
			return err
		}
		log.Info(ctx, "verified with brute force")
	}

	if prof != nil {
		if err := writeFile(cmd.Profile, func(w io.Writer) error {
			return prof.Render(w, render.Format(cmd.Profile), style)
		}); err != nil {
			return err
		}
	}

	fig := render.NewFigure(segs, zs, style)
	if cmd.Show {
		if err := render.Show(fig, style); err != nil {
			return err
		}
	}
	if cmd.Output == "" {
		for _, z := range zs {
			fmt.Fprintf(stdout, "%d %d %v %v\n", z.I, z.J, z.X, z.Y)
		}
		return nil
	}
	return writeFile(cmd.Output, func(w io.Writer) error {
		switch format := render.Format(cmd.Output); format {
		case "json":
			return fig.WriteJSON(w)
		case "geojson":
			return geo.WriteGeoJSON(w, segs, zs)
		default:
			return fig.Save(w, format, style)
		}
	})
}

func (cmd *Gen) Run() error {
	segs := sweepline.RandomSegments(newRand(cmd.Seed), cmd.N)
	if cmd.Output == "" {
		_, err := fmt.Fprintln(stdout, segs.SVGPath())
		return err
	}
	return writeFile(cmd.Output, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, segs.SVGPath())
		return err
	})
}

func (cmd *Plot) Run() error {
	if cmd.Input == "" || (cmd.Output == "" && !cmd.Show) {
		return argp.ShowUsage
	}

	f, err := os.Open(cmd.Input)
	if err != nil {
		return err
	}
	defer f.Close()

	fig, err := render.ReadFigure(f)
	if err != nil {
		return err
	}
	style, err := loadStyle(cmd.Style, cmd.Minify)
	if err != nil {
		return err
	}
	if cmd.Show {
		if err := render.Show(fig, style); err != nil {
			return err
		}
	}
	if cmd.Output == "" {
		return nil
	}
	return writeFile(cmd.Output, func(w io.Writer) error {
		return fig.Save(w, render.Format(cmd.Output), style)
	})
}

func newRand(seed int) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// readSegments reads segments from GeoJSON, OSM or segment text depending on the file extension, or generates n random segments when there is no input.
func readSegments(filename string, n, seed int) (segs sweepline.Segments, err error) {
	if filename == "" {
		if n < 1 {
			n = sweepline.DefaultRandomSegments
		}
		return sweepline.RandomSegments(newRand(seed), n), nil
	}
	defer xdefer.Errorf(&err, "failed to read %s", filename)

	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch render.Format(filename) {
	case "geojson", "json":
		return geo.ReadGeoJSON(f)
	case "osm":
		return geo.ReadOSM(f)
	}
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return sweepline.ParseSegments(string(b))
}

// project projects longitude and latitude to a UTM zone, which is either a number or "auto" to pick the zone at the centre of the segments.
func project(segs sweepline.Segments, utm string) (sweepline.Segments, error) {
	if utm == "" || len(segs) == 0 {
		return segs, nil
	}

	var zone int
	if utm == "auto" {
		r := segs.Bounds()
		zone = geo.UTMZone((r.X0+r.X1)/2.0, (r.Y0+r.Y1)/2.0)
	} else {
		var err error
		if zone, err = strconv.Atoi(utm); err != nil {
			return nil, fmt.Errorf("invalid UTM zone %q", utm)
		}
	}
	proj, err := geo.UTM(zone)
	if err != nil {
		return nil, err
	}
	return geo.Project(segs, proj), nil
}

func loadStyle(filename string, minify bool) (render.Style, error) {
	style := render.DefaultStyle
	if filename != "" {
		f, err := os.Open(filename)
		if err != nil {
			return style, err
		}
		defer f.Close()

		if style, err = render.LoadStyle(f); err != nil {
			return style, err
		}
	}
	style.Minify = style.Minify || minify
	return style, nil
}

// verify compares the crossings with those found by brute force.
func verify(segs sweepline.Segments, zs []sweepline.Intersection) error {
	zs = append([]sweepline.Intersection{}, zs...)
	sweepline.SortIntersections(zs)
	ref := sweepline.BruteForce(segs)
	for i := 0; i < len(zs) && i < len(ref); i++ {
		if !zs[i].Equals(ref[i]) {
			return fmt.Errorf("verification failed: found %v, brute force found %v", zs[i], ref[i])
		}
	}
	if len(zs) != len(ref) {
		return fmt.Errorf("verification failed: found %d crossings, brute force found %d", len(zs), len(ref))
	}
	return nil
}

func writeFile(filename string, write func(io.Writer) error) (err error) {
	defer xdefer.Errorf(&err, "failed to write %s", filename)

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
