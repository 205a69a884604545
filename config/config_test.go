package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// clearEnv сбрасывает переменные, которые читает Load.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LEAFSCAN_CONFIG", "BASE_DIR", "DATASET_PATH", "MODEL_PATH", "OUTPUT_DIR", "LOG_LEVEL",
		"TELEGRAM_TOKEN", "CONFIDENCE", "NMS_THRESHOLD", "SAMPLE_SIZE", "INPUT_SIZE", "OUTPUT_TRANSPOSED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BASE_DIR", "/opt/leafscan")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "/opt/leafscan", cfg.BaseDir)
	require.Equal(t, filepath.Join("/opt/leafscan", "coffee-datasets", "leaf"), cfg.DatasetPath)
	require.Equal(t, filepath.Join("/opt/leafscan", "output"), cfg.OutputDir)
	require.Equal(t, "yolov8n.onnx", cfg.ModelPath)
	require.Equal(t, 0.5, cfg.Confidence)
	require.Equal(t, 3, cfg.SampleSize)
	require.Equal(t, 640, cfg.InputSize)
	require.Equal(t, "info", cfg.LogLevel)
	require.False(t, cfg.Transposed)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "leafscan.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_dir = "/srv"
dataset_path = "/data/leaf"
model_path = "models/leaf.onnx"
confidence = 0.3
sample_size = 5
log_level = "debug"
`), 0o644))
	t.Setenv("CONFIDENCE", "0.7")
	t.Setenv("OUTPUT_TRANSPOSED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.Transposed)
	require.Equal(t, "/data/leaf", cfg.DatasetPath)
	require.Equal(t, "models/leaf.onnx", cfg.ModelPath)
	require.Equal(t, 0.7, cfg.Confidence)
	require.Equal(t, 5, cfg.SampleSize)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, filepath.Join("/srv", "output"), cfg.OutputDir)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("confidence = [oops"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)

	t.Setenv("CONFIDENCE", "high")
	_, err = Load("")
	require.Error(t, err)

	t.Setenv("CONFIDENCE", "1.5")
	_, err = Load("")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default("/base")
	require.NoError(t, cfg.Validate())

	cfg.InputSize = 600
	require.Error(t, cfg.Validate())

	cfg = Default("/base")
	cfg.SampleSize = 0
	require.Error(t, cfg.Validate())

	cfg = Default("/base")
	cfg.NMSThreshold = 0
	require.Error(t, cfg.Validate())
}
