package vision

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/require"

	"leafscan/internal/domain/entity"
)

func leafJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 140, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))
	return buf.Bytes()
}

func TestOverlayRenderer_DrawsFrames(t *testing.T) {
	src := leafJPEG(t, 200, 120)
	dets := []entity.Detection{
		{ClassID: 3, Confidence: 0.91, Box: entity.BoundingBox{X1: 40, Y1: 40, X2: 120, Y2: 100}},
		{ClassID: 5, Confidence: 0.55, Box: entity.BoundingBox{X1: 0, Y1: 0, X2: 30, Y2: 30}},
	}

	renderer := &OverlayRenderer{LineWidth: 4, Quality: 100}
	out, err := renderer.Render(src, dets)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 200, img.Bounds().Dx())
	require.Equal(t, 120, img.Bounds().Dy())

	// класс 3 — жёлтый, фон — зелёный с малым красным каналом
	require.Greater(t, int(ClassColor(3).R), 150)

	r, _, _, _ := img.At(80, 98).RGBA()
	require.Greater(t, int(r>>8), 150, "bottom edge should carry the class colour")

	r, _, _, _ = img.At(80, 75).RGBA()
	require.Less(t, int(r>>8), 80, "box interior should stay untouched")
}

func TestOverlayRenderer_NoDetectionsKeepsSize(t *testing.T) {
	out, err := NewOverlayRenderer().Render(leafJPEG(t, 64, 48), nil)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 64, cfg.Width)
	require.Equal(t, 48, cfg.Height)
}

func TestOverlayRenderer_SkipsBoxesOutsideImage(t *testing.T) {
	dets := []entity.Detection{
		{ClassID: 0, Confidence: 0.9, Box: entity.BoundingBox{X1: 500, Y1: 500, X2: 600, Y2: 600}},
	}
	_, err := NewOverlayRenderer().Render(leafJPEG(t, 32, 32), dets)
	require.NoError(t, err)
}

func TestOverlayRenderer_BadImage(t *testing.T) {
	_, err := NewOverlayRenderer().Render([]byte("not an image"), nil)
	require.Error(t, err)
}

func TestClassColor(t *testing.T) {
	require.Equal(t, ClassColor(2), ClassColor(2))
	require.NotEqual(t, ClassColor(0), ClassColor(1))
	require.Equal(t, uint8(255), ClassColor(-4).A)
}
