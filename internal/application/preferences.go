package app

import (
	"context"

	"leafscan/internal/domain/entity"
	"leafscan/internal/domain/port"
)

type PreferencesService struct {
	repo port.PreferencesRepository
}

func NewPreferencesService(repo port.PreferencesRepository) *PreferencesService {
	return &PreferencesService{repo: repo}
}

func (s *PreferencesService) Get(ctx context.Context, chatID int64) (*entity.ChatPreferences, error) {
	return s.repo.Get(ctx, chatID)
}

func (s *PreferencesService) SetConfidence(ctx context.Context, chatID int64, threshold float64) (*entity.ChatPreferences, error) {
	prefs, err := s.repo.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if err := prefs.SetConfidence(threshold); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, prefs); err != nil {
		return nil, err
	}

	return prefs, nil
}

func (s *PreferencesService) SetOverlay(ctx context.Context, chatID int64, enabled bool) (*entity.ChatPreferences, error) {
	prefs, err := s.repo.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}

	prefs.Overlay = enabled
	if err := s.repo.Save(ctx, prefs); err != nil {
		return nil, err
	}

	return prefs, nil
}
