package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config — настройки приложения. Значения из TOML перекрываются переменными окружения.
type Config struct {
	BaseDir       string  `toml:"base_dir"`     // относительно него разрешаются пути
	DatasetPath   string  `toml:"dataset_path"` // каталог с dataset.csv и images/
	ModelPath     string  `toml:"model_path"`   // веса YOLOv8 в ONNX
	OutputDir     string  `toml:"output_dir"`   // куда сохранять картинки с рамками
	Confidence    float64 `toml:"confidence"`
	SampleSize    int     `toml:"sample_size"`
	InputSize     int     `toml:"input_size"`
	NMSThreshold  float64 `toml:"nms_threshold"`
	Transposed    bool    `toml:"output_transposed"` // выход модели [1, N, 4+nc]
	LogLevel      string  `toml:"log_level"`
	TelegramToken string  `toml:"telegram_token"`
}

// Default возвращает настройки по умолчанию относительно baseDir.
func Default(baseDir string) *Config {
	return &Config{
		BaseDir:      baseDir,
		DatasetPath:  filepath.Join("coffee-datasets", "leaf"),
		ModelPath:    "yolov8n.onnx",
		OutputDir:    "output",
		Confidence:   0.5,
		SampleSize:   3,
		InputSize:    640,
		NMSThreshold: 0.45,
		LogLevel:     "info",
	}
}

// Load собирает конфигурацию: значения по умолчанию, затем TOML-файл (если задан), затем окружение.
func Load(path string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := Default(defaultBaseDir())

	if path == "" {
		path = os.Getenv("LEAFSCAN_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file '%s' not found", path)
		}
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.BaseDir = getEnv("BASE_DIR", c.BaseDir)
	c.DatasetPath = getEnv("DATASET_PATH", c.DatasetPath)
	c.ModelPath = getEnv("MODEL_PATH", c.ModelPath)
	c.OutputDir = getEnv("OUTPUT_DIR", c.OutputDir)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.TelegramToken = getEnv("TELEGRAM_TOKEN", c.TelegramToken)

	var err error
	if c.Confidence, err = getEnvAsFloat("CONFIDENCE", c.Confidence); err != nil {
		return err
	}
	if c.NMSThreshold, err = getEnvAsFloat("NMS_THRESHOLD", c.NMSThreshold); err != nil {
		return err
	}
	if c.SampleSize, err = getEnvAsInt("SAMPLE_SIZE", c.SampleSize); err != nil {
		return err
	}
	if c.InputSize, err = getEnvAsInt("INPUT_SIZE", c.InputSize); err != nil {
		return err
	}
	if c.Transposed, err = getEnvAsBool("OUTPUT_TRANSPOSED", c.Transposed); err != nil {
		return err
	}
	return nil
}

// resolvePaths делает относительные пути абсолютными от BaseDir.
// Путь модели остаётся относительным: его разрешает загрузчик модели.
func (c *Config) resolvePaths() {
	c.DatasetPath = c.resolve(c.DatasetPath)
	c.OutputDir = c.resolve(c.OutputDir)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// Validate проверяет диапазоны значений.
func (c *Config) Validate() error {
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("confidence must be within [0,1], got %v", c.Confidence)
	}
	if c.NMSThreshold <= 0 || c.NMSThreshold > 1 {
		return fmt.Errorf("nms_threshold must be within (0,1], got %v", c.NMSThreshold)
	}
	if c.InputSize <= 0 || c.InputSize%32 != 0 {
		return fmt.Errorf("input_size must be a positive multiple of 32, got %d", c.InputSize)
	}
	if c.SampleSize <= 0 {
		return fmt.Errorf("sample_size must be positive, got %d", c.SampleSize)
	}
	if c.DatasetPath == "" {
		return errors.New("dataset_path is required")
	}
	return nil
}

// defaultBaseDir возвращает каталог исполняемого файла или текущий.
func defaultBaseDir() string {
	exe, err := os.Executable()
	if err == nil {
		return filepath.Dir(exe)
	}
	return "."
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
