package scenario

import (
	"math"

	"uav-aoi-sim/internal/geom"
)

// BuiltIn returns the predefined layouts for n nodes in a w×h field.
func BuiltIn(n int, w, h float64) map[string]Scenario {
	return map[string]Scenario{
		"grid": {
			Name:        "grid",
			Description: "Sensors on a regular grid covering the field.",
			FieldSize:   []float64{w, h},
			Nodes:       grid(n, w, h),
		},
		"ring": {
			Name:        "ring",
			Description: "Sensors on a circle around the field centre.",
			FieldSize:   []float64{w, h},
			Nodes:       ring(n, w, h),
		},
		"line": {
			Name:        "line",
			Description: "Sensors along a pipeline crossing the field.",
			FieldSize:   []float64{w, h},
			Nodes:       line(n, w, h),
		},
	}
}

func grid(n int, w, h float64) []geom.Point {
	if n <= 0 {
		return nil
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	dx, dy := w/float64(cols), h/float64(rows)
	pts := make([]geom.Point, 0, n)
	for i := 0; i < n; i++ {
		r, c := i/cols, i%cols
		pts = append(pts, geom.Point{X: (float64(c) + 0.5) * dx, Y: (float64(r) + 0.5) * dy})
	}
	return pts
}

func ring(n int, w, h float64) []geom.Point {
	if n <= 0 {
		return nil
	}
	cx, cy := w/2, h/2
	radius := 0.4 * math.Min(w, h)
	pts := make([]geom.Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = geom.Point{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)}
	}
	return pts
}

func line(n int, w, h float64) []geom.Point {
	if n <= 0 {
		return nil
	}
	pts := make([]geom.Point, n)
	for i := range pts {
		pts[i] = geom.Point{X: (float64(i) + 0.5) * w / float64(n), Y: h / 2}
	}
	return pts
}
