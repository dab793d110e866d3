// Package geo converts between geographic data and line segments. It reads segments from GeoJSON and OpenStreetMap data, projects them to a planar coordinate system and writes crossings back as GeoJSON.
package geo

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmgeojson"
	"github.com/wroge/wgs84/v2"
	"oss.terrastruct.com/xdefer"

	"github.com/tdewolff/sweepline"
)

// Segments returns the edges of all line strings and polygon rings in g. Points are ignored, as well as zero-length edges.
func Segments(g orb.Geometry) sweepline.Segments {
	segs := sweepline.Segments{}
	return appendSegments(segs, g)
}

func appendSegments(segs sweepline.Segments, g orb.Geometry) sweepline.Segments {
	switch g := g.(type) {
	case orb.LineString:
		for i := 1; i < len(g); i++ {
			s := sweepline.Segment{
				A: sweepline.Point{X: g[i-1][0], Y: g[i-1][1]},
				B: sweepline.Point{X: g[i][0], Y: g[i][1]},
			}
			if !s.Degenerate() {
				segs = append(segs, s)
			}
		}
	case orb.MultiLineString:
		for _, ls := range g {
			segs = appendSegments(segs, ls)
		}
	case orb.Ring:
		segs = appendSegments(segs, orb.LineString(g))
		if 1 < len(g) && !g.Closed() {
			segs = appendSegments(segs, orb.LineString{g[len(g)-1], g[0]})
		}
	case orb.Polygon:
		for _, ring := range g {
			segs = appendSegments(segs, ring)
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			segs = appendSegments(segs, poly)
		}
	case orb.Collection:
		for _, item := range g {
			segs = appendSegments(segs, item)
		}
	}
	return segs
}

// ReadGeoJSON reads segments from a GeoJSON feature collection, a single feature or a bare geometry.
func ReadGeoJSON(r io.Reader) (segs sweepline.Segments, err error) {
	defer xdefer.Errorf(&err, "failed to read GeoJSON")

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil {
		return featureSegments(fc.Features), nil
	} else if f, err := geojson.UnmarshalFeature(data); err == nil {
		return Segments(f.Geometry), nil
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, err
	}
	return Segments(g.Geometry()), nil
}

// ReadOSM reads segments from the ways and relations of OpenStreetMap XML data.
func ReadOSM(r io.Reader) (segs sweepline.Segments, err error) {
	defer xdefer.Errorf(&err, "failed to read OSM")

	o := &osm.OSM{}
	if err := xml.NewDecoder(r).Decode(o); err != nil {
		return nil, err
	}
	fc, err := osmgeojson.Convert(o,
		osmgeojson.NoID(true),
		osmgeojson.NoMeta(true),
		osmgeojson.NoRelationMembership(true))
	if err != nil {
		return nil, err
	}
	return featureSegments(fc.Features), nil
}

func featureSegments(features []*geojson.Feature) sweepline.Segments {
	segs := sweepline.Segments{}
	for _, f := range features {
		segs = appendSegments(segs, f.Geometry)
	}
	return segs
}

// UTM returns the projection from WGS84 longitude and latitude in degrees to the given UTM zone in metres. Negative zones are on the southern hemisphere, eg. -19 is UTM 19S.
func UTM(zone int) (orb.Projection, error) {
	if zone == 0 || zone < -60 || 60 < zone {
		return nil, fmt.Errorf("invalid UTM zone %d", zone)
	}
	epsg := 32600 + zone
	if zone < 0 {
		epsg = 32700 - zone
	}
	transform := wgs84.Transform(wgs84.EPSG(4326), wgs84.EPSG(epsg))
	return func(p orb.Point) orb.Point {
		x, y, _ := transform(p[0], p[1], 0.0)
		return orb.Point{x, y}
	}, nil
}

// UTMZone returns the UTM zone that contains the given longitude and latitude, negative for the southern hemisphere.
func UTMZone(lon, lat float64) int {
	zone := int(math.Floor((lon+180.0)/6.0)) + 1
	zone = min(max(zone, 1), 60)
	if lat < 0.0 {
		return -zone
	}
	return zone
}

// Project projects the segment endpoints.
func Project(segs sweepline.Segments, proj orb.Projection) sweepline.Segments {
	r := make(sweepline.Segments, 0, len(segs))
	for _, s := range segs {
		a := proj(orb.Point{s.A.X, s.A.Y})
		b := proj(orb.Point{s.B.X, s.B.Y})
		r = append(r, sweepline.Segment{
			A: sweepline.Point{X: a[0], Y: a[1]},
			B: sweepline.Point{X: b[0], Y: b[1]},
		})
	}
	return r
}

// FeatureCollection returns the segments as line string features and the crossings as point features. Segment features have an "index" property, crossing features have "i" and "j" properties with the indices of the crossing segments.
func FeatureCollection(segs sweepline.Segments, zs []sweepline.Intersection) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, s := range segs {
		f := geojson.NewFeature(orb.LineString{{s.A.X, s.A.Y}, {s.B.X, s.B.Y}})
		f.Properties["index"] = i
		fc.Append(f)
	}
	for _, z := range zs {
		f := geojson.NewFeature(orb.Point{z.X, z.Y})
		f.Properties["i"] = z.I
		f.Properties["j"] = z.J
		fc.Append(f)
	}
	return fc
}

// WriteGeoJSON writes the segments and crossings as a GeoJSON feature collection.
func WriteGeoJSON(w io.Writer, segs sweepline.Segments, zs []sweepline.Intersection) (err error) {
	defer xdefer.Errorf(&err, "failed to write GeoJSON")

	b, err := FeatureCollection(segs, zs).MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
