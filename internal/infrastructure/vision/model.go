package vision

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"leafscan/internal/domain/entity"
	"leafscan/internal/domain/port"
)

// Options параметры запуска YOLOv8.
type Options struct {
	InputSize    int     // сторона квадратного входа сети
	NMSThreshold float64 // IoU, выше которого рамки одного класса схлопываются
	Transposed   bool    // выход [1, N, 4+nc] вместо стандартного [1, 4+nc, N]
}

// DefaultOptions возвращает параметры экспорта yolov8n по умолчанию.
func DefaultOptions() Options {
	return Options{
		InputSize:    640,
		NMSThreshold: 0.45,
	}
}

// ResolveModelPath разрешает относительный путь модели от baseDir.
func ResolveModelPath(baseDir, modelPath string) string {
	if filepath.IsAbs(modelPath) || baseDir == "" {
		return modelPath
	}
	return filepath.Join(baseDir, modelPath)
}

// LoadModel проверяет файл весов и загружает модель.
// Нет файла: KindFileNotFound. Бэкенд не поднялся: KindLoadFailure.
func LoadModel(path string, opts Options, logger *zap.Logger) (*YOLODetector, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, entity.NewFailure(entity.KindFileNotFound, "load model", path, nil)
		}
		return nil, entity.NewFailure(entity.KindLoadFailure, "load model", path, err)
	}
	if opts.InputSize <= 0 {
		opts.InputSize = DefaultOptions().InputSize
	}
	if opts.NMSThreshold <= 0 {
		opts.NMSThreshold = DefaultOptions().NMSThreshold
	}

	d, err := newYOLODetector(path, opts, logger.Named("model"))
	if err != nil {
		return nil, err
	}
	logger.Info("model loaded", zap.String("path", path), zap.Int("input_size", opts.InputSize))
	return d, nil
}

// Проверка реализации интерфейса
var _ port.Detector = (*YOLODetector)(nil)
