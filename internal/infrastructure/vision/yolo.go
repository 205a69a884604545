package vision

import (
	"fmt"
	"math"
	"sort"

	"leafscan/internal/domain/entity"
)

// frame описывает, как перевести координаты входа сети в пиксели изображения.
type frame struct {
	Width, Height int     // исходное изображение
	ScaleX        float64 // Width / InputSize
	ScaleY        float64 // Height / InputSize
}

func newFrame(width, height, inputSize int) frame {
	return frame{
		Width:  width,
		Height: height,
		ScaleX: float64(width) / float64(inputSize),
		ScaleY: float64(height) / float64(inputSize),
	}
}

// decodeOutput разбирает выход YOLOv8 формы [1, 4+nc, N].
// При transposed выход читается как [1, N, 4+nc]; по размерам раскладку не угадываем.
// Первые четыре канала: cx, cy, w, h во входных координатах, дальше оценки классов.
// Находки с оценкой ниже threshold отбрасываются, затем применяется NMS.
func decodeOutput(data []float32, shape []int, f frame, threshold, nmsThreshold float64, transposed bool) ([]entity.Detection, error) {
	if len(shape) != 3 || shape[0] != 1 {
		return nil, fmt.Errorf("unexpected output shape %v", shape)
	}
	channels, anchors := shape[1], shape[2]
	if transposed {
		channels, anchors = anchors, channels
	}
	if channels < 5 {
		return nil, fmt.Errorf("output has %d channels, need at least 5", channels)
	}
	if len(data) != channels*anchors {
		return nil, fmt.Errorf("output has %d values, shape %v needs %d", len(data), shape, channels*anchors)
	}

	at := func(c, i int) float64 {
		if transposed {
			return float64(data[i*channels+c])
		}
		return float64(data[c*anchors+i])
	}

	var candidates []entity.Detection
	for i := 0; i < anchors; i++ {
		classID, score := -1, 0.0
		for c := 4; c < channels; c++ {
			if s := at(c, i); classID < 0 || s > score {
				classID, score = c-4, s
			}
		}
		if score < threshold {
			continue
		}

		cx, cy, w, h := at(0, i), at(1, i), at(2, i), at(3, i)
		box := entity.BoundingBox{
			X1: clamp((cx-w/2)*f.ScaleX, 0, float64(f.Width)),
			Y1: clamp((cy-h/2)*f.ScaleY, 0, float64(f.Height)),
			X2: clamp((cx+w/2)*f.ScaleX, 0, float64(f.Width)),
			Y2: clamp((cy+h/2)*f.ScaleY, 0, float64(f.Height)),
		}
		if !box.Valid() {
			continue
		}
		candidates = append(candidates, entity.Detection{ClassID: classID, Confidence: score, Box: box})
	}

	return nms(candidates, nmsThreshold), nil
}

// nms оставляет самые уверенные рамки, подавляя пересечения внутри класса.
func nms(dets []entity.Detection, iouThreshold float64) []entity.Detection {
	sort.SliceStable(dets, func(i, j int) bool {
		return dets[i].Confidence > dets[j].Confidence
	})

	kept := make([]entity.Detection, 0, len(dets))
	for _, d := range dets {
		suppressed := false
		for _, k := range kept {
			if k.ClassID == d.ClassID && iou(k.Box, d.Box) > iouThreshold {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, d)
		}
	}
	return kept
}

func iou(a, b entity.BoundingBox) float64 {
	ix := math.Min(a.X2, b.X2) - math.Max(a.X1, b.X1)
	iy := math.Min(a.Y2, b.Y2) - math.Max(a.Y1, b.Y1)
	if ix <= 0 || iy <= 0 {
		return 0
	}
	inter := ix * iy
	union := a.Width()*a.Height() + b.Width()*b.Height() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
