package storage

import (
	"context"
	"sync"

	"leafscan/internal/domain/entity"
	"leafscan/internal/domain/port"
)

// MemoryPreferencesRepository in-memory хранилище настроек чатов
type MemoryPreferencesRepository struct {
	mu    sync.RWMutex
	prefs map[int64]entity.ChatPreferences
}

// NewMemoryPreferencesRepository создаёт новое in-memory хранилище
func NewMemoryPreferencesRepository() *MemoryPreferencesRepository {
	return &MemoryPreferencesRepository{
		prefs: make(map[int64]entity.ChatPreferences),
	}
}

// Get возвращает копию настроек чата, создаёт настройки по умолчанию если не найдены
func (r *MemoryPreferencesRepository) Get(ctx context.Context, chatID int64) (*entity.ChatPreferences, error) {
	r.mu.RLock()
	p, exists := r.prefs[chatID]
	r.mu.RUnlock()

	if exists {
		return &p, nil
	}

	created := entity.NewChatPreferences(chatID)

	r.mu.Lock()
	r.prefs[chatID] = *created
	r.mu.Unlock()

	return created, nil
}

// Save сохраняет настройки чата
func (r *MemoryPreferencesRepository) Save(ctx context.Context, prefs *entity.ChatPreferences) error {
	r.mu.Lock()
	r.prefs[prefs.ChatID] = *prefs
	r.mu.Unlock()

	return nil
}

// Проверка реализации интерфейса
var _ port.PreferencesRepository = (*MemoryPreferencesRepository)(nil)
