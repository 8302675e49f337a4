package pointer

// Point is a position in window coordinates with a top-left origin.
type Point struct {
	X, Y float64
}

// Rect is the render surface in window coordinates.
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

// Tracker converts raw pointer and touch positions into shader coordinates.
type Tracker struct {
	position   Point
	normalized Point
}

// Move records a pointer move. dpr is the device pixel ratio of the surface.
func (t *Tracker) Move(x, y float64, r Rect, dpr float64) {
	t.set(Point{X: x, Y: y}, r, dpr)
}

// Touch records a touch move. Only the first touch point is used.
func (t *Tracker) Touch(points []Point, r Rect, dpr float64) {
	if len(points) == 0 {
		return
	}
	t.set(points[0], r, dpr)
}

func (t *Tracker) set(p Point, r Rect, dpr float64) {
	if dpr <= 0 {
		dpr = 1
	}
	lx := p.X - r.Left
	ly := p.Y - r.Top
	t.position = Point{X: lx * dpr, Y: (r.Height - ly) * dpr}
	if r.Width > 0 && r.Height > 0 {
		t.normalized = Point{X: lx / r.Width, Y: 1 - ly/r.Height}
	}
}

// Position is in device pixels with a bottom-left origin.
func (t *Tracker) Position() Point { return t.position }

// Normalized is in 0..1 with a bottom-left origin.
func (t *Tracker) Normalized() Point { return t.normalized }
