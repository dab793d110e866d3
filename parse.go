package sweepline

import (
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

// ParseError is returned for malformed segment input.
type ParseError struct {
	Pos int // byte offset
	Msg string
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: %s", err.Pos, err.Msg)
}

func skipCommaWhitespace(b []byte) int {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == ',' || b[i] == '\n' || b[i] == '\r' || b[i] == '\t') {
		i++
	}
	return i
}

func parseNum(b []byte) (float64, int) {
	i := skipCommaWhitespace(b)
	f, n := strconv.ParseFloat(b[i:])
	if n == 0 {
		return 0.0, 0
	}
	return f, i + n
}

// ParseSegments parses segments from SVG path data or from a list of numbers. Path data may use the M, L, H, V and Z commands and their relative variants, every line of the path becomes a segment. A list of numbers is read as x0 y0 x1 y1 quadruples separated by whitespace or commas.
func ParseSegments(s string) (Segments, error) {
	b := []byte(s)
	i := skipCommaWhitespace(b)
	if i < len(b) && 'A' <= b[i] {
		return parseSVGPath(b)
	}

	segs := Segments{}
	var vals [4]float64
	k := 0
	for i < len(b) {
		f, n := parseNum(b[i:])
		if n == 0 {
			return nil, &ParseError{i, fmt.Sprintf("expected number, got %q", b[i])}
		}
		vals[k] = f
		if k++; k == 4 {
			segs = append(segs, Segment{Point{vals[0], vals[1]}, Point{vals[2], vals[3]}})
			k = 0
		}
		i += n
		i += skipCommaWhitespace(b[i:])
	}
	if k != 0 {
		return nil, &ParseError{len(b), "number of coordinates must be a multiple of four"}
	}
	return segs, nil
}

func parseSVGPath(b []byte) (Segments, error) {
	segs := Segments{}
	var start, pos Point
	started := false

	var cmd byte
	i := 0
	for {
		i += skipCommaWhitespace(b[i:])
		if len(b) <= i {
			break
		}
		pos0 := i
		if 'A' <= b[i] {
			cmd = b[i]
			i++
		} else if cmd == 0 {
			return nil, &ParseError{i, "path must start with a command"}
		} else if cmd == 'M' {
			cmd = 'L' // implicit lineto after moveto
		} else if cmd == 'm' {
			cmd = 'l'
		} else if cmd == 'Z' || cmd == 'z' {
			return nil, &ParseError{i, "unexpected number after close path"}
		}

		var ncoords int
		switch cmd {
		case 'M', 'm', 'L', 'l':
			ncoords = 2
		case 'H', 'h', 'V', 'v':
			ncoords = 1
		case 'Z', 'z':
		default:
			return nil, &ParseError{pos0, fmt.Sprintf("unsupported command %q", cmd)}
		}
		if !started && cmd != 'M' && cmd != 'm' {
			return nil, &ParseError{pos0, "path must start with a move command"}
		}

		var coords [2]float64
		for k := 0; k < ncoords; k++ {
			f, n := parseNum(b[i:])
			if n == 0 {
				return nil, &ParseError{i, fmt.Sprintf("expected number for command %q", cmd)}
			}
			coords[k] = f
			i += n
		}

		end := pos
		switch cmd {
		case 'M':
			end = Point{coords[0], coords[1]}
		case 'm':
			end = pos.Add(Point{coords[0], coords[1]})
		case 'L':
			end = Point{coords[0], coords[1]}
		case 'l':
			end = pos.Add(Point{coords[0], coords[1]})
		case 'H':
			end.X = coords[0]
		case 'h':
			end.X += coords[0]
		case 'V':
			end.Y = coords[0]
		case 'v':
			end.Y += coords[0]
		case 'Z', 'z':
			end = start
		}

		if cmd == 'M' || cmd == 'm' {
			start = end
			started = true
		} else if end != pos {
			segs = append(segs, Segment{pos, end})
		}
		pos = end
	}
	return segs, nil
}

// SVGPath returns the segments as SVG path data, one subpath per segment.
func (segs Segments) SVGPath() string {
	sb := strings.Builder{}
	for i, s := range segs {
		if i != 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "M%v %vL%v %v", s.A.X, s.A.Y, s.B.X, s.B.Y)
	}
	return sb.String()
}
