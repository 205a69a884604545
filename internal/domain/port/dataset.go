package port

import (
	"context"

	"leafscan/internal/domain/entity"
)

// DatasetLoader читает таблицу датасета.
type DatasetLoader interface {
	// Load возвращает новую таблицу при каждом вызове
	Load(ctx context.Context) (*entity.DatasetTable, error)
}

// ImageStore даёт доступ к изображениям датасета.
type ImageStore interface {
	// Resolve возвращает путь к изображению по имени или идентификатору
	Resolve(name string) (string, error)

	// ReadPath читает файл изображения по пути
	ReadPath(path string) ([]byte, error)

	// List возвращает имена .jpg файлов по алфавиту, не больше limit (0 — все)
	List(limit int) ([]string, error)
}
