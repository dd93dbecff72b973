package track

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Point3D is a boundary point in track-local coordinates, z held at 0 for a
// flat circuit.
type Point3D struct {
	X, Y, Z float32
}

// Boundaries holds the left/right edge polylines derived from a centerline
// CSV, for handing to a renderer over the snapshot transport.
type Boundaries struct {
	Name  string
	Left  []Point3D
	Right []Point3D
}

type centerlinePoint struct {
	centerX, centerY   float32
	widthLeft, widthRight float32
}

// LoadBoundariesCSV parses a centerline CSV (columns: x_m,y_m,w_tr_left_m,
// w_tr_right_m, '#'-prefixed comment lines allowed) and derives left/right
// boundary polylines by offsetting along the per-point normal.
func LoadBoundariesCSV(name, filename string) (*Boundaries, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "track: open %s", filename)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comment = '#'

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "track: parse %s", filename)
	}

	points := make([]centerlinePoint, 0, len(records))
	for _, record := range records {
		if len(record) < 4 {
			continue
		}
		x, _ := strconv.ParseFloat(record[0], 32)
		y, _ := strconv.ParseFloat(record[1], 32)
		wLeft, _ := strconv.ParseFloat(record[2], 32)
		wRight, _ := strconv.ParseFloat(record[3], 32)
		points = append(points, centerlinePoint{
			centerX: float32(x), centerY: float32(y),
			widthLeft: float32(wLeft), widthRight: float32(wRight),
		})
	}
	if len(points) == 0 {
		return nil, errors.Errorf("track: no centerline points loaded from %s", filename)
	}

	left := make([]Point3D, len(points))
	right := make([]Point3D, len(points))

	for i, p := range points {
		var dx, dy float32
		switch {
		case i == 0:
			dx = points[i+1].centerX - p.centerX
			dy = points[i+1].centerY - p.centerY
		case i == len(points)-1:
			dx = p.centerX - points[i-1].centerX
			dy = p.centerY - points[i-1].centerY
		default:
			dx = points[i+1].centerX - points[i-1].centerX
			dy = points[i+1].centerY - points[i-1].centerY
		}

		length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		if length > 0 {
			dx /= length
			dy /= length
		}

		perpX, perpY := -dy, dx

		left[i] = Point3D{X: p.centerX + perpX*p.widthLeft, Y: p.centerY + perpY*p.widthLeft}
		right[i] = Point3D{X: p.centerX - perpX*p.widthRight, Y: p.centerY - perpY*p.widthRight}
	}

	return &Boundaries{Name: name, Left: left, Right: right}, nil
}
