// Package render draws arena snapshots onto a Canvas.
package render

import (
	"image/color"
	"math"

	"github.com/DoyleJ11/arena-spectator/pkg/types"
)

// Sink receives every state snapshot the spectator sees.
type Sink interface {
	Draw(snap types.Snapshot, names types.TeamNames)
}

type SinkFunc func(snap types.Snapshot, names types.TeamNames)

func (f SinkFunc) Draw(snap types.Snapshot, names types.TeamNames) { f(snap, names) }

type Point struct {
	X, Y float64
}

// Canvas is the drawing surface. Coordinates are canvas pixels with the
// origin in the top-left corner.
type Canvas interface {
	Size() (w, h float64)
	Clear()
	StrokePolyline(pts []Point, clr color.Color, width float64)
	FillPolygon(pts []Point, clr color.Color)
	FillCircle(center Point, r float64, clr color.Color)
	FillRect(x, y, w, h float64, clr color.Color)
	Text(at Point, s string, clr color.Color)
	MeasureText(s string) float64
}

const BaseShipSize = 10

// Label text is drawn at a fixed font size, so the plate around it is sized
// in screen pixels and only its anchor follows the arena scale.
const (
	LabelOffsetX     = 17
	LabelOffsetY     = -3
	LabelPadding     = 3
	LabelPlateHeight = 15
)

var (
	BorderColor     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ShipColor       = color.RGBA{0xff, 0x00, 0x00, 0xff}
	ShipStrokeColor = color.RGBA{0xff, 0xff, 0xff, 0xff}
	BulletColor     = color.RGBA{0xf9, 0xca, 0x24, 0xff}
	LabelPlateColor = color.RGBA{0x00, 0x00, 0x00, 0xff}
	LabelTextColor  = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

var itemColors = map[types.ItemType]color.RGBA{
	types.ItemBiggerBullet: {0xff, 0x8d, 0x5c, 0xff},
	types.ItemFasterBullet: {0x74, 0xb9, 0xff, 0xff},
	types.ItemMoreBullet:   {0xd5, 0xff, 0x05, 0xff},
}

// ItemColor returns the fill for an item type and whether the type is known.
func ItemColor(t types.ItemType) (color.RGBA, bool) {
	c, ok := itemColors[t]
	return c, ok
}

// Scale fits an arena of the given bounds into a w x h canvas while keeping
// the arena's aspect ratio.
func Scale(w, h float64, b types.Bounds) float64 {
	if b.Width() <= 0 || b.Height() <= 0 {
		return 1
	}
	return math.Min(w/b.Width(), h/b.Height())
}

// Fit returns the largest 1.4:1 viewport that fits in a container.
func Fit(containerW, containerH float64) (w, h float64) {
	const aspect = 1.4
	if containerH <= 0 || containerW/containerH > aspect {
		return containerH * aspect, containerH
	}
	return containerW, containerW / aspect
}

type Renderer struct {
	Canvas Canvas
}

func NewRenderer(c Canvas) *Renderer {
	return &Renderer{Canvas: c}
}

func (r *Renderer) Draw(snap types.Snapshot, names types.TeamNames) {
	c := r.Canvas
	c.Clear()

	w, h := c.Size()
	k := Scale(w, h, snap.Bounds)
	bw, bh := snap.Bounds.Width()*k, snap.Bounds.Height()*k
	c.StrokePolyline([]Point{{0, 0}, {bw, 0}, {bw, bh}, {0, bh}, {0, 0}}, BorderColor, 1)

	for _, ship := range snap.Players {
		r.drawShip(ship, names, k)
	}
	for _, b := range snap.Bullets {
		c.FillCircle(Point{b.X * k, b.Y * k}, b.Radius*k, BulletColor)
	}
	for _, it := range snap.Items {
		clr, ok := ItemColor(it.ItemType)
		if !ok {
			continue
		}
		c.FillCircle(Point{it.X * k, it.Y * k}, it.Radius*k, clr)
	}
}

func (r *Renderer) drawShip(ship types.Ship, names types.TeamNames, k float64) {
	c := r.Canvas
	origin := Point{math.Floor(ship.X), math.Floor(ship.Y)}
	size := ship.Radius + BaseShipSize

	// The hull points along +y before rotation.
	hull := ShipHull(origin, ship.Angle-math.Pi/2, size)
	for i := range hull {
		hull[i] = Point{hull[i].X * k, hull[i].Y * k}
	}
	c.FillPolygon(hull[:3], ShipColor)
	c.StrokePolyline(hull, ShipStrokeColor, 2)

	// The label is never rotated with the hull.
	label := Label(names.Name(ship.ID))
	tw := c.MeasureText(label)
	x, y := origin.X*k+LabelOffsetX, origin.Y*k+LabelOffsetY
	c.FillRect(x, y, tw+2*LabelPadding, LabelPlateHeight, LabelPlateColor)
	c.Text(Point{x + LabelPadding, y - LabelOffsetY}, label, LabelTextColor)
}

// ShipHull returns the closed outline of a ship triangle of the given size
// centred on origin and rotated by theta. The last point repeats the first.
func ShipHull(origin Point, theta, size float64) []Point {
	local := []Point{
		{-size * 0.8, -size},
		{0, size},
		{size * 0.8, -size},
		{-size * 0.8, -size},
	}
	sin, cos := math.Sincos(theta)
	out := make([]Point, len(local))
	for i, p := range local {
		out[i] = Point{
			X: origin.X + p.X*cos - p.Y*sin,
			Y: origin.Y + p.X*sin + p.Y*cos,
		}
	}
	return out
}
