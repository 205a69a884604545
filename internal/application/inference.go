package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"leafscan/internal/domain/entity"
	"leafscan/internal/domain/port"
)

// DefaultSampleSize сколько случайных изображений проверять по умолчанию.
const DefaultSampleSize = 3

// DefaultSweepThresholds пороги для перебора по умолчанию.
var DefaultSweepThresholds = []float64{0.1, 0.3, 0.5, 0.7}

var errModelNotLoaded = errors.New("model is not loaded")

// InferenceService прогоняет изображения датасета через модель.
type InferenceService struct {
	detector  port.Detector
	renderer  port.Renderer
	images    port.ImageStore
	outputDir string
	rng       *rand.Rand
	logger    *zap.Logger
}

// InferenceOption настраивает InferenceService.
type InferenceOption func(*InferenceService)

// WithRand задаёт источник случайности для выборки изображений.
func WithRand(rng *rand.Rand) InferenceOption {
	return func(s *InferenceService) { s.rng = rng }
}

// WithOutputDir задаёт каталог для картинок с рамками.
func WithOutputDir(dir string) InferenceOption {
	return func(s *InferenceService) { s.outputDir = dir }
}

// NewInferenceService создаёт сервис. detector может быть nil, если модель не загружена.
func NewInferenceService(detector port.Detector, renderer port.Renderer, images port.ImageStore, logger *zap.Logger, opts ...InferenceOption) *InferenceService {
	s := &InferenceService{
		detector:  detector,
		renderer:  renderer,
		images:    images,
		outputDir: "output",
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:    logger.Named("inference"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ModelLoaded сообщает, передана ли сервису модель.
func (s *InferenceService) ModelLoaded() bool {
	return s.detector != nil
}

// Images возвращает хранилище изображений датасета.
func (s *InferenceService) Images() port.ImageStore {
	return s.images
}

// Predict читает изображение по пути и прогоняет его через модель.
// Пустой список находок — успех; ошибки типизированы через entity.Failure.
func (s *InferenceService) Predict(ctx context.Context, imagePath string, threshold float64) (*entity.InferenceResult, error) {
	if err := entity.ValidateConfidence(threshold); err != nil {
		return nil, err
	}
	if s.detector == nil {
		return nil, entity.NewFailure(entity.KindLoadFailure, "predict", imagePath, errModelNotLoaded)
	}

	data, err := s.images.ReadPath(imagePath)
	if err != nil {
		s.logger.Warn("read image", zap.String("path", imagePath), zap.Error(err))
		return nil, err
	}
	return s.detect(ctx, imagePath, data, threshold)
}

// PredictBytes прогоняет уже прочитанное изображение (например, фото из бота).
func (s *InferenceService) PredictBytes(ctx context.Context, name string, data []byte, threshold float64) (*entity.InferenceResult, error) {
	if err := entity.ValidateConfidence(threshold); err != nil {
		return nil, err
	}
	if s.detector == nil {
		return nil, entity.NewFailure(entity.KindLoadFailure, "predict", name, errModelNotLoaded)
	}
	return s.detect(ctx, name, data, threshold)
}

func (s *InferenceService) detect(ctx context.Context, name string, data []byte, threshold float64) (res *entity.InferenceResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = entity.NewFailure(entity.KindInferenceFailure, "predict", name, fmt.Errorf("panic: %v", r))
			s.logger.Error("model panicked", zap.String("image", name), zap.Any("panic", r))
		}
	}()

	dets, err := s.detector.Detect(ctx, data, threshold)
	if err != nil {
		s.logger.Error("predict", zap.String("image", name), zap.Error(err))
		return nil, entity.NewFailure(entity.KindInferenceFailure, "predict", name, err)
	}
	if dets == nil {
		dets = []entity.Detection{}
	}

	s.logger.Debug("predict",
		zap.String("image", name),
		zap.Float64("threshold", threshold),
		zap.Int("detections", len(dets)))
	return &entity.InferenceResult{ImagePath: name, Threshold: threshold, Detections: dets}, nil
}

// TestRandom проверяет min(n, len) случайных записей датасета.
// Ошибка одного изображения пишется в его BatchItem и не прерывает пакет.
func (s *InferenceService) TestRandom(ctx context.Context, table *entity.DatasetTable, n int, threshold float64) ([]entity.BatchItem, error) {
	if table.Len() == 0 {
		return nil, entity.NewFailure(entity.KindEmptyDataset, "test random images", "", nil)
	}
	if s.detector == nil {
		return nil, entity.NewFailure(entity.KindLoadFailure, "test random images", "", errModelNotLoaded)
	}
	if err := entity.ValidateConfidence(threshold); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultSampleSize
	}
	n = min(n, table.Len())

	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))
	logger.Info("batch started", zap.Int("images", n))

	items := make([]entity.BatchItem, 0, n)
	failed := 0
	for _, idx := range s.rng.Perm(table.Len())[:n] {
		if err := ctx.Err(); err != nil {
			return items, err
		}

		rec := table.Records[idx]
		item := entity.BatchItem{Record: rec}

		path, err := s.images.Resolve(rec.ImageName())
		if err == nil {
			item.Result, err = s.Predict(ctx, path, threshold)
		}
		if err != nil {
			item.Err = err
			failed++
			logger.Warn("image failed", zap.String("id", rec.ID), zap.Error(err))
		}
		items = append(items, item)
	}

	logger.Info("batch finished", zap.Int("images", len(items)), zap.Int("failed", failed))
	return items, nil
}

// ThresholdSweep прогоняет одно изображение с несколькими порогами.
func (s *InferenceService) ThresholdSweep(ctx context.Context, imagePath string, thresholds []float64) []entity.SweepPoint {
	if len(thresholds) == 0 {
		thresholds = DefaultSweepThresholds
	}
	points := make([]entity.SweepPoint, 0, len(thresholds))
	for _, th := range thresholds {
		res, err := s.Predict(ctx, imagePath, th)
		points = append(points, entity.SweepPoint{Threshold: th, Result: res, Err: err})
	}
	return points
}

// Render рисует находки поверх изображения.
func (s *InferenceService) Render(data []byte, detections []entity.Detection) ([]byte, error) {
	if s.renderer == nil {
		return nil, errors.New("renderer is not configured")
	}
	return s.renderer.Render(data, detections)
}

// Visualize находит изображение по имени, прогоняет модель и сохраняет картинку с рамками.
// Возвращает путь к сохранённому файлу.
func (s *InferenceService) Visualize(ctx context.Context, name string, threshold float64) (string, *entity.InferenceResult, error) {
	path, err := s.images.Resolve(name)
	if err != nil {
		return "", nil, err
	}
	data, err := s.images.ReadPath(path)
	if err != nil {
		return "", nil, err
	}
	if err := entity.ValidateConfidence(threshold); err != nil {
		return "", nil, err
	}
	if s.detector == nil {
		return "", nil, entity.NewFailure(entity.KindLoadFailure, "visualize", path, errModelNotLoaded)
	}

	res, err := s.detect(ctx, path, data, threshold)
	if err != nil {
		return "", nil, err
	}

	annotated, err := s.Render(data, res.Detections)
	if err != nil {
		return "", res, fmt.Errorf("render %s: %w", path, err)
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", res, fmt.Errorf("create output dir: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(s.outputDir, base+"_detections.jpg")
	if err := os.WriteFile(outPath, annotated, 0o644); err != nil {
		return "", res, fmt.Errorf("write %s: %w", outPath, err)
	}

	s.logger.Info("annotated image saved", zap.String("path", outPath), zap.Int("detections", len(res.Detections)))
	return outPath, res, nil
}
