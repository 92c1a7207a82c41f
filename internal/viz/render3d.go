package viz

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera orbits the origin and projects world points onto a canvas.
// World coordinates are divided by Scale first, so a body of radius Scale
// fills about two thirds of the shorter canvas side at zoom 1.
type Camera struct {
	Distance   float64
	RotX, RotY float64
	Zoom       float64
	Scale      float64
}

func NewCamera(scale float64) *Camera {
	if !(scale > 0) {
		scale = 1
	}
	// tilted so the north pole leans toward the viewer
	return &Camera{Distance: 6, RotX: -math.Pi / 3, Zoom: 1, Scale: scale}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(50, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint applies the camera rotation about X then Y.
func (c *Camera) RotatePoint(p r3.Vec) r3.Vec {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	return p
}

// Project converts a world point to pixel coordinates on a sw x sh canvas.
// It returns x, y, depth (larger is closer) and whether the point is on
// screen.
func (c *Camera) Project(p r3.Vec, sw, sh int) (int, int, float64, bool) {
	rot := r3.Scale(c.Zoom/c.Scale, c.RotatePoint(p))
	if rot.Z >= c.Distance-0.1 {
		return 0, 0, 0, false
	}
	persp := c.Distance / (c.Distance - rot.Z)
	pScale := math.Min(float64(sw), float64(sh)) / 3.0
	sx := int(rot.X*persp*pScale) + sw/2
	sy := int(-rot.Y*persp*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End r3.Vec
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe           { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e r3.Vec) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) Clear()              { w.Edges = w.Edges[:0] }

// AddPath connects consecutive points.
func (w *Wireframe) AddPath(points []r3.Vec) {
	for i := 1; i < len(points); i++ {
		w.AddEdge(points[i-1], points[i])
	}
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe back to front. Edges facing away from the
// camera behind a sphere of radius occlude (world units, 0 disables) are
// skipped.
func Render3D(c *Canvas, w *Wireframe, cam *Camera, occlude float64) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.PixelSize()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		if occlude > 0 && hidden(cam, e, occlude) {
			continue
		}
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

// hidden reports whether the midpoint of e lies on the far side of the
// sphere as seen along the view axis.
func hidden(cam *Camera, e Edge, radius float64) bool {
	mid := cam.RotatePoint(r3.Scale(0.5, r3.Add(e.Start, e.End)))
	if mid.Z >= 0 {
		return false
	}
	return mid.X*mid.X+mid.Y*mid.Y < radius*radius*0.999
}

// SphereWireframe draws meridians and parallels of a sphere, using the
// same axes as physics.GeoCoordinate.
func SphereWireframe(radius float64, meridians, parallels, segments int) *Wireframe {
	w := NewWireframe()
	point := func(lat, lon float64) r3.Vec {
		return r3.Vec{
			X: radius * math.Cos(lat) * math.Cos(lon),
			Y: radius * math.Cos(lat) * math.Sin(lon),
			Z: radius * math.Sin(lat),
		}
	}
	for i := 0; i < meridians; i++ {
		lon := 2 * math.Pi * float64(i) / float64(meridians)
		for j := 0; j < segments; j++ {
			a := -math.Pi/2 + math.Pi*float64(j)/float64(segments)
			b := -math.Pi/2 + math.Pi*float64(j+1)/float64(segments)
			w.AddEdge(point(a, lon), point(b, lon))
		}
	}
	for i := 1; i <= parallels; i++ {
		lat := -math.Pi/2 + math.Pi*float64(i)/float64(parallels+1)
		for j := 0; j < 2*segments; j++ {
			a := math.Pi * float64(j) / float64(segments)
			b := math.Pi * float64(j+1) / float64(segments)
			w.AddEdge(point(lat, a), point(lat, b))
		}
	}
	return w
}
