package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	app "leafscan/internal/application"
	"leafscan/internal/container"
	"leafscan/internal/domain/entity"
)

const (
	msgStart = `👋 Hi! I look for coffee leaf diseases on photos.

📸 Send me a photo of a leaf and I will run the detector on it.

📋 Commands:
/stats — dataset statistics
/threshold <0..1> — confidence threshold for this chat
/overlay on|off — send the image with boxes
/help — help`

	msgHelp = `ℹ️ How to use the bot:

1️⃣ Send a photo of a leaf
2️⃣ The model looks for lesions on it
3️⃣ You get a list of detections and the photo with boxes

💡 Tips:
• Shoot in good light
• One leaf per photo
• Keep the leaf in focus

📋 Commands:
/stats — dataset statistics
/threshold <0..1> — current value is shown without an argument
/overlay on|off — toggle annotated photo`

	msgSendPhoto       = "📸 Please send a photo of a leaf."
	msgUnknownCommand  = "❓ Unknown command. Use /help."
	msgProcessing      = "⏳ Processing image..."
	msgProcessingError = "⚠️ Could not process the image. Try another photo."
	msgModelMissing    = "⚠️ The model is not loaded, detection is unavailable."
	msgStatsError      = "⚠️ Dataset is not available."
	msgThresholdUsage  = "Usage: /threshold 0.3 (a number between 0 and 1)"
	msgOverlayUsage    = "Usage: /overlay on|off"
	msgInternalError   = "⚠️ Something went wrong, try again later."
)

// sender — часть tgbotapi.BotAPI, через которую бот отвечает.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	sender   sender
	download func(ctx context.Context, fileID string) ([]byte, error)

	datasets  *app.DatasetService
	inference *app.InferenceService
	prefs     *app.PreferencesService
	logger    *zap.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	b := newBot(api, c, logger)
	b.api = api
	b.download = b.downloadFile
	b.logger.Info("authorized", zap.String("account", api.Self.UserName))
	return b, nil
}

func newBot(s sender, c *container.Container, logger *zap.Logger) *Bot {
	return &Bot{
		sender:    s,
		datasets:  c.DatasetService,
		inference: c.InferenceService,
		prefs:     c.PreferencesService,
		logger:    logger.Named("telegram"),
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	b.sendMessage(chatID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "stats":
		_, summary, err := b.datasets.Analyze(ctx)
		if err != nil {
			b.logger.Warn("stats", zap.Int64("chat_id", chatID), zap.Error(err))
			b.sendMessage(chatID, msgStatsError)
			return
		}
		b.sendMessage(chatID, "📊 Dataset statistics:\n"+strings.Join(app.FormatSummary(summary), "\n"))

	case "threshold":
		b.handleThreshold(ctx, chatID, msg.CommandArguments())

	case "overlay":
		b.handleOverlay(ctx, chatID, msg.CommandArguments())

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

func (b *Bot) handleThreshold(ctx context.Context, chatID int64, args string) {
	args = strings.TrimSpace(args)
	if args == "" {
		prefs, err := b.prefs.Get(ctx, chatID)
		if err != nil {
			b.logger.Error("get preferences", zap.Int64("chat_id", chatID), zap.Error(err))
			b.sendMessage(chatID, msgInternalError)
			return
		}
		b.sendMessage(chatID, fmt.Sprintf("🎚 Current threshold: %.2f\n%s", prefs.Confidence, msgThresholdUsage))
		return
	}

	v, err := strconv.ParseFloat(strings.Replace(args, ",", ".", 1), 64)
	if err != nil {
		b.sendMessage(chatID, msgThresholdUsage)
		return
	}
	prefs, err := b.prefs.SetConfidence(ctx, chatID, v)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidInput) {
			b.sendMessage(chatID, msgThresholdUsage)
			return
		}
		b.logger.Error("set threshold", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendMessage(chatID, msgInternalError)
		return
	}
	b.sendMessage(chatID, fmt.Sprintf("✅ Threshold set to %.2f", prefs.Confidence))
}

func (b *Bot) handleOverlay(ctx context.Context, chatID int64, args string) {
	var enabled bool
	switch strings.ToLower(strings.TrimSpace(args)) {
	case "on", "1", "yes":
		enabled = true
	case "off", "0", "no":
		enabled = false
	default:
		b.sendMessage(chatID, msgOverlayUsage)
		return
	}

	if _, err := b.prefs.SetOverlay(ctx, chatID, enabled); err != nil {
		b.logger.Error("set overlay", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendMessage(chatID, msgInternalError)
		return
	}
	if enabled {
		b.sendMessage(chatID, "✅ Annotated photos are on")
	} else {
		b.sendMessage(chatID, "✅ Annotated photos are off")
	}
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if !b.inference.ModelLoaded() {
		b.sendMessage(chatID, msgModelMissing)
		return
	}

	prefs, err := b.prefs.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("get preferences", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendMessage(chatID, msgInternalError)
		return
	}

	b.sendMessage(chatID, msgProcessing)

	// Берём фото с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.download(ctx, photo.FileID)
	if err != nil {
		b.logger.Error("download photo", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	res, err := b.inference.PredictBytes(ctx, photo.FileID, imageData, prefs.Confidence)
	if err != nil {
		b.logger.Error("predict photo", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	b.sendMessage(chatID, detectionReply(res))

	if !prefs.Overlay || !res.HasDetections() {
		return
	}
	annotated, err := b.inference.Render(imageData, res.Detections)
	if err != nil {
		b.logger.Warn("render overlay", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	b.sendPhoto(chatID, annotated, fmt.Sprintf("%d detection(s)", len(res.Detections)))
}

// detectionReply собирает текст ответа на фото.
func detectionReply(res *entity.InferenceResult) string {
	lines := app.FormatDetections(res.Detections)
	if res.HasDetections() {
		header := fmt.Sprintf("🔍 Model detected %d objects (threshold %.2f):", len(res.Detections), res.Threshold)
		lines = append([]string{header}, lines...)
	}
	return strings.Join(lines, "\n")
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Warn("send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) sendPhoto(chatID int64, data []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "detections.jpg", Bytes: data})
	photo.Caption = caption
	if _, err := b.sender.Send(photo); err != nil {
		b.logger.Warn("send photo", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
