package port

import (
	"context"

	"leafscan/internal/domain/entity"
)

// PreferencesRepository интерфейс хранилища настроек чатов
type PreferencesRepository interface {
	// Get возвращает настройки чата, создаёт настройки по умолчанию если не найдены
	Get(ctx context.Context, chatID int64) (*entity.ChatPreferences, error)

	// Save сохраняет настройки чата
	Save(ctx context.Context, prefs *entity.ChatPreferences) error
}
