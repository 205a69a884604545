package app

import (
	"context"

	"go.uber.org/zap"

	"leafscan/internal/domain/entity"
	"leafscan/internal/domain/port"
)

// DatasetService загружает датасет и считает по нему статистику.
type DatasetService struct {
	loader port.DatasetLoader
	logger *zap.Logger
}

// NewDatasetService создаёт сервис датасета.
func NewDatasetService(loader port.DatasetLoader, logger *zap.Logger) *DatasetService {
	return &DatasetService{loader: loader, logger: logger.Named("dataset")}
}

// Load читает таблицу заново при каждом вызове.
func (s *DatasetService) Load(ctx context.Context) (*entity.DatasetTable, error) {
	table, err := s.loader.Load(ctx)
	if err != nil {
		s.logger.Error("load dataset", zap.Error(err))
		return nil, err
	}
	s.logger.Info("dataset loaded", zap.Int("records", table.Len()), zap.Strings("columns", table.Columns))
	return table, nil
}

// Analyze загружает таблицу и сразу считает статистику.
func (s *DatasetService) Analyze(ctx context.Context) (*entity.DatasetTable, *entity.DatasetSummary, error) {
	table, err := s.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	summary, err := Summarize(table)
	if err != nil {
		return table, nil, err
	}
	return table, summary, nil
}
