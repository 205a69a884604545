package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"leafscan/internal/domain/entity"
	"leafscan/internal/domain/port"
)

// DatasetFileName имя CSV внутри каталога датасета.
const DatasetFileName = "dataset.csv"

// CSVDatasetLoader читает dataset.csv из каталога датасета.
type CSVDatasetLoader struct {
	path string
}

// NewCSVDatasetLoader создаёт загрузчик для <dir>/dataset.csv.
func NewCSVDatasetLoader(datasetDir string) *CSVDatasetLoader {
	return &CSVDatasetLoader{path: filepath.Join(datasetDir, DatasetFileName)}
}

// Path возвращает путь к CSV.
func (l *CSVDatasetLoader) Path() string {
	return l.path
}

// Load читает файл и возвращает новую таблицу.
func (l *CSVDatasetLoader) Load(ctx context.Context) (*entity.DatasetTable, error) {
	_ = ctx
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, entity.NewFailure(entity.KindFileNotFound, "load dataset", l.path, nil)
		}
		return nil, entity.NewFailure(entity.KindLoadFailure, "load dataset", l.path, err)
	}
	defer f.Close()

	table, err := ParseDataset(f)
	if err != nil {
		return nil, entity.NewFailure(entity.KindLoadFailure, "load dataset", l.path, err)
	}
	return table, nil
}

// ParseDataset разбирает CSV с заголовком. Обязательна колонка severity.
func ParseDataset(r io.Reader) (*entity.DatasetTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	// BOM от экспорта из Excel
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	severityCol, ok := index[entity.ColumnSeverity]
	if !ok {
		return nil, fmt.Errorf("required column %q is missing", entity.ColumnSeverity)
	}
	idCol, hasID := index[entity.ColumnID]
	stressCol, hasStress := index[entity.ColumnPredominantStress]

	diseaseCols := make(map[string]int)
	for _, name := range entity.DiseaseColumns {
		if i, ok := index[name]; ok {
			diseaseCols[name] = i
		}
	}

	table := &entity.DatasetTable{Columns: header}
	seen := make(map[string]struct{})
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		rec := entity.DatasetRecord{ID: strconv.Itoa(line - 1)}
		if hasID {
			rec.ID = strings.TrimSpace(row[idCol])
			if rec.ID == "" {
				return nil, fmt.Errorf("line %d: empty id", line)
			}
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("line %d: duplicate id %q", line, rec.ID)
		}
		seen[rec.ID] = struct{}{}

		rec.Severity, err = parseInt(row[severityCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: severity: %w", line, err)
		}
		if rec.Severity < 0 {
			return nil, fmt.Errorf("line %d: negative severity %d", line, rec.Severity)
		}

		if hasStress && strings.TrimSpace(row[stressCol]) != "" {
			stress, err := parseInt(row[stressCol])
			if err != nil {
				return nil, fmt.Errorf("line %d: predominant_stress: %w", line, err)
			}
			rec.PredominantStress = &stress
		}

		if len(diseaseCols) > 0 {
			rec.Flags = make(map[string]int, len(diseaseCols))
			for name, i := range diseaseCols {
				if strings.TrimSpace(row[i]) == "" {
					continue
				}
				v, err := parseInt(row[i])
				if err != nil {
					return nil, fmt.Errorf("line %d: %s: %w", line, name, err)
				}
				rec.Flags[name] = v
			}
		}

		table.Records = append(table.Records, rec)
	}

	return table, nil
}

// parseInt принимает и целые, записанные как float ("2.0").
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}

// Проверка реализации интерфейса
var _ port.DatasetLoader = (*CSVDatasetLoader)(nil)
