// Package window shows the arena in a desktop window.
package window

import (
	"context"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/DoyleJ11/arena-spectator/internal/render"
	"github.com/DoyleJ11/arena-spectator/pkg/types"
)

var (
	background = color.RGBA{0x1e, 0x1e, 0x24, 0xff}

	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

type frame struct {
	snap  types.Snapshot
	names types.TeamNames
}

// Window is an ebiten game that redraws the most recent snapshot every
// frame. Snapshots arrive from the connection goroutine, so the handover is
// guarded.
type Window struct {
	ctx context.Context

	mu     sync.Mutex
	latest frame
	status string
}

func New(ctx context.Context) *Window {
	return &Window{ctx: ctx, status: "connecting..."}
}

// Sink returns the render sink that feeds this window.
func (w *Window) Sink() render.Sink {
	return render.SinkFunc(func(snap types.Snapshot, names types.TeamNames) {
		w.mu.Lock()
		w.latest = frame{snap: snap, names: names}
		w.mu.Unlock()
	})
}

func (w *Window) SetStatus(s string) {
	w.mu.Lock()
	w.status = s
	w.mu.Unlock()
}

// Run blocks until the window is closed or the context is cancelled. It must
// be called from the main goroutine.
func (w *Window) Run() error {
	ebiten.SetWindowSize(1120, 800)
	ebiten.SetWindowTitle("arena spectator")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(w)
}

func (w *Window) Update() error {
	if w.ctx.Err() != nil || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	w.mu.Lock()
	f, status := w.latest, w.status
	w.mu.Unlock()

	render.NewRenderer(&imageCanvas{img: screen}).Draw(f.snap, f.names)
	text.Draw(screen, status, basicfont.Face7x13, 8, screen.Bounds().Dy()-8, color.White)
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	fw, fh := render.Fit(float64(outsideWidth), float64(outsideHeight))
	return max(int(fw), 1), max(int(fh), 1)
}

type imageCanvas struct {
	img *ebiten.Image
}

func (c *imageCanvas) Size() (float64, float64) {
	b := c.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (c *imageCanvas) Clear() {
	c.img.Fill(background)
}

func (c *imageCanvas) StrokePolyline(pts []render.Point, clr color.Color, width float64) {
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		vector.StrokeLine(c.img, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), float32(width), clr, true)
	}
}

func (c *imageCanvas) FillPolygon(pts []render.Point, clr color.Color) {
	if len(pts) < 3 {
		return
	}
	var path vector.Path
	path.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, a := clr.RGBA()
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(g) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(a) / 0xffff
	}
	c.img.DrawTriangles(vs, is, whiteSubImage, &ebiten.DrawTrianglesOptions{})
}

func (c *imageCanvas) FillCircle(center render.Point, r float64, clr color.Color) {
	vector.DrawFilledCircle(c.img, float32(center.X), float32(center.Y), float32(r), clr, true)
}

func (c *imageCanvas) FillRect(x, y, w, h float64, clr color.Color) {
	vector.DrawFilledRect(c.img, float32(x), float32(y), float32(w), float32(h), clr, false)
}

// Text draws s with its top-left corner at the given point.
func (c *imageCanvas) Text(at render.Point, s string, clr color.Color) {
	ascent := basicfont.Face7x13.Metrics().Ascent.Ceil()
	text.Draw(c.img, s, basicfont.Face7x13, int(at.X), int(at.Y)+ascent, clr)
}

func (c *imageCanvas) MeasureText(s string) float64 {
	return float64(text.BoundString(basicfont.Face7x13, s).Dx())
}
