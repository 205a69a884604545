package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"leafscan/internal/domain/entity"
	"leafscan/internal/domain/port"
)

// ImagesDirName подкаталог с изображениями внутри датасета.
const ImagesDirName = "images"

const imageExt = ".jpg"

// DirImageStore читает изображения из <dataset>/images.
type DirImageStore struct {
	dir string
}

// NewDirImageStore создаёт хранилище для <datasetDir>/images.
func NewDirImageStore(datasetDir string) *DirImageStore {
	return &DirImageStore{dir: filepath.Join(datasetDir, ImagesDirName)}
}

// Dir возвращает каталог изображений.
func (s *DirImageStore) Dir() string {
	return s.dir
}

// ImageFileName дописывает .jpg к имени, если его нет.
func ImageFileName(name string) string {
	name = strings.TrimSpace(name)
	if !strings.HasSuffix(strings.ToLower(name), imageExt) {
		name += imageExt
	}
	return name
}

// Resolve превращает "12" или "12.jpg" в путь к существующему файлу.
func (s *DirImageStore) Resolve(name string) (string, error) {
	file := ImageFileName(name)
	if file == imageExt || file != filepath.Base(file) {
		return "", entity.NewFailure(entity.KindInvalidInput, "resolve image", name,
			errors.New("image name must be a plain file name"))
	}

	path := filepath.Join(s.dir, file)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", entity.NewFailure(entity.KindFileNotFound, "resolve image", path, nil)
		}
		return "", entity.NewFailure(entity.KindLoadFailure, "resolve image", path, err)
	}
	return path, nil
}

// ReadPath читает файл изображения целиком.
func (s *DirImageStore) ReadPath(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, entity.NewFailure(entity.KindFileNotFound, "read image", path, nil)
		}
		return nil, entity.NewFailure(entity.KindLoadFailure, "read image", path, err)
	}
	return data, nil
}

// List возвращает имена .jpg файлов по алфавиту.
func (s *DirImageStore) List(limit int) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, entity.NewFailure(entity.KindFileNotFound, "list images", s.dir, nil)
		}
		return nil, fmt.Errorf("list images: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), imageExt) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}

// Проверка реализации интерфейса
var _ port.ImageStore = (*DirImageStore)(nil)
