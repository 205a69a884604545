package vision

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"leafscan/internal/domain/entity"
)

func TestResolveModelPath(t *testing.T) {
	require.Equal(t, filepath.Join("/opt/leafscan", "yolov8n.onnx"), ResolveModelPath("/opt/leafscan", "yolov8n.onnx"))
	require.Equal(t, "/models/leaf.onnx", ResolveModelPath("/opt/leafscan", "/models/leaf.onnx"))
	require.Equal(t, "yolov8n.onnx", ResolveModelPath("", "yolov8n.onnx"))
}

func TestLoadModel_MissingFile(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "missing.onnx"), DefaultOptions(), zaptest.NewLogger(t))
	require.ErrorIs(t, err, entity.ErrFileNotFound)
}
