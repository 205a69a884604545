//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"leafscan/internal/domain/entity"
)

// YOLODetector запускает YOLOv8 в формате ONNX через OpenCV DNN.
type YOLODetector struct {
	mu     sync.Mutex // gocv.Net не потокобезопасен
	net    gocv.Net
	opts   Options
	logger *zap.Logger
}

func newYOLODetector(path string, opts Options, logger *zap.Logger) (*YOLODetector, error) {
	net := gocv.ReadNetFromONNX(path)
	if net.Empty() {
		return nil, entity.NewFailure(entity.KindLoadFailure, "load model", path, errors.New("failed to load network"))
	}
	net.SetPreferableBackend(gocv.NetBackendOpenCV)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &YOLODetector{
		net:    net,
		opts:   opts,
		logger: logger,
	}, nil
}

// Detect декодирует изображение, прогоняет сеть и возвращает находки не ниже threshold.
func (d *YOLODetector) Detect(ctx context.Context, imageData []byte, threshold float64) ([]entity.Detection, error) {
	_ = ctx
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, errors.New("decoded image is empty")
	}

	size := d.opts.InputSize
	blob := gocv.BlobFromImage(
		mat,
		1.0/255.0,
		image.Pt(size, size),
		gocv.NewScalar(0, 0, 0, 0),
		true,  // BGR -> RGB
		false, // без кропа
	)
	defer blob.Close()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	defer out.Close()

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read network output: %w", err)
	}

	detections, err := decodeOutput(data, out.Size(), newFrame(mat.Cols(), mat.Rows(), size), threshold, d.opts.NMSThreshold, d.opts.Transposed)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("forward pass done",
		zap.Int("width", mat.Cols()),
		zap.Int("height", mat.Rows()),
		zap.Int("detections", len(detections)))
	return detections, nil
}

// Close освобождает сеть.
func (d *YOLODetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.net.Empty() {
		return d.net.Close()
	}
	return nil
}
