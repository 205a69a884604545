//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"leafscan/internal/domain/entity"
)

var errNoGoCV = errors.New("gocv build tag is not enabled")

// YOLODetector — заглушка для сборки без OpenCV.
type YOLODetector struct{}

// newYOLODetector всегда отказывает: без тега gocv модель не загрузить.
func newYOLODetector(path string, opts Options, logger *zap.Logger) (*YOLODetector, error) {
	_ = opts
	_ = logger
	return nil, entity.NewFailure(entity.KindLoadFailure, "load model", path, errNoGoCV)
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *YOLODetector) Detect(ctx context.Context, imageData []byte, threshold float64) ([]entity.Detection, error) {
	_ = ctx
	_ = imageData
	_ = threshold
	return nil, errNoGoCV
}

// Close ничего не делает.
func (d *YOLODetector) Close() error {
	return nil
}
