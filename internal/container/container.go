package container

import (
	"go.uber.org/zap"

	app "leafscan/internal/application"
	"leafscan/internal/domain/port"
)

type Container struct {
	DatasetService     *app.DatasetService
	InferenceService   *app.InferenceService
	PreferencesService *app.PreferencesService
}

// New собирает сервисы приложения. detector может быть nil, если модель не загружена.
func New(
	loader port.DatasetLoader,
	images port.ImageStore,
	detector port.Detector,
	renderer port.Renderer,
	prefsRepo port.PreferencesRepository,
	outputDir string,
	logger *zap.Logger,
) *Container {
	return &Container{
		DatasetService:     app.NewDatasetService(loader, logger),
		InferenceService:   app.NewInferenceService(detector, renderer, images, logger, app.WithOutputDir(outputDir)),
		PreferencesService: app.NewPreferencesService(prefsRepo),
	}
}
