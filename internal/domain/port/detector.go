package port

import (
	"context"

	"leafscan/internal/domain/entity"
)

// Detector — загруженная модель детекции (ModelHandle).
type Detector interface {
	// Detect прогоняет изображение через модель. Находки ниже threshold отбрасывает сама модель.
	Detect(ctx context.Context, imageData []byte, threshold float64) ([]entity.Detection, error)

	// Close освобождает ресурсы модели
	Close() error
}

// Renderer рисует рамки находок поверх изображения.
type Renderer interface {
	// Render возвращает новую JPEG-картинку с рамками и подписями
	Render(imageData []byte, detections []entity.Detection) ([]byte, error)
}
