package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"leafscan/internal/domain/entity"
	"leafscan/internal/domain/port"
)

// OverlayRenderer рисует рамки находок на чистом Go, без OpenCV.
type OverlayRenderer struct {
	LineWidth int
	Quality   int // качество JPEG
}

// NewOverlayRenderer создаёт рендерер с толщиной линии 2 и качеством 90.
func NewOverlayRenderer() *OverlayRenderer {
	return &OverlayRenderer{LineWidth: 2, Quality: 90}
}

// Render возвращает JPEG с прямоугольником и подписью "class N (conf)" для каждой находки.
func (r *OverlayRenderer) Render(imageData []byte, detections []entity.Detection) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	canvas := imaging.Clone(src)

	for _, d := range detections {
		rect := image.Rect(
			int(math.Round(d.Box.X1)), int(math.Round(d.Box.Y1)),
			int(math.Round(d.Box.X2)), int(math.Round(d.Box.Y2)),
		).Intersect(canvas.Bounds())
		if rect.Empty() {
			continue
		}
		c := ClassColor(d.ClassID)
		drawFrame(canvas, rect, c, r.LineWidth)
		drawLabel(canvas, rect.Min, d.Label(), c)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(r.Quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// ClassColor даёт каждому классу свой насыщенный оттенок.
func ClassColor(classID int) color.RGBA {
	hue := math.Mod(math.Abs(float64(classID))*137.508, 360)
	r, g, b := colorful.Hsv(hue, 0.85, 0.95).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func drawFrame(dst draw.Image, rect image.Rectangle, c color.Color, width int) {
	if width < 1 {
		width = 1
	}
	fill := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+width),
		image.Rect(rect.Min.X, rect.Max.Y-width, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+width, rect.Max.Y),
		image.Rect(rect.Max.X-width, rect.Min.Y, rect.Max.X, rect.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(rect), fill, image.Point{}, draw.Src)
	}
}

// drawLabel печатает подпись на плашке цвета рамки над её верхним краем,
// а если сверху нет места — внутри рамки.
func drawLabel(dst draw.Image, at image.Point, text string, bg color.Color) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil() + 4
	h := face.Metrics().Height.Ceil() + 2

	top := at.Y - h
	if top < dst.Bounds().Min.Y {
		top = at.Y
	}
	plate := image.Rect(at.X, top, at.X+w, top+h).Intersect(dst.Bounds())
	draw.Draw(dst, plate, image.NewUniform(bg), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(at.X+2, top+1+face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)
}

// Проверка реализации интерфейса
var _ port.Renderer = (*OverlayRenderer)(nil)
