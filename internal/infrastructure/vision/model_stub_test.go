//go:build !gocv
// +build !gocv

package vision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"leafscan/internal/domain/entity"
)

func TestLoadModel_WithoutGoCV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yolov8n.onnx")
	require.NoError(t, os.WriteFile(path, []byte("weights"), 0o644))

	_, err := LoadModel(path, Options{}, zaptest.NewLogger(t))
	require.ErrorIs(t, err, entity.ErrLoadFailure)
	require.Contains(t, err.Error(), "gocv build tag is not enabled")
}
