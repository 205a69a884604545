package entity

// ChatPreferences — настройки распознавания для чата бота.
type ChatPreferences struct {
	ChatID     int64   // Telegram Chat ID
	Confidence float64 // порог уверенности для фото из этого чата
	Overlay    bool    // отправлять ли картинку с рамками
}

// NewChatPreferences создаёт настройки по умолчанию.
func NewChatPreferences(chatID int64) *ChatPreferences {
	return &ChatPreferences{
		ChatID:     chatID,
		Confidence: DefaultConfidence,
		Overlay:    true,
	}
}

// SetConfidence меняет порог, если он допустим.
func (p *ChatPreferences) SetConfidence(threshold float64) error {
	if err := ValidateConfidence(threshold); err != nil {
		return err
	}
	p.Confidence = threshold
	return nil
}
