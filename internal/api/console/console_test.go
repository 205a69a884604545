package console

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	app "leafscan/internal/application"
	"leafscan/internal/container"
	"leafscan/internal/domain/entity"
	"leafscan/internal/domain/port"
	"leafscan/internal/infrastructure/storage"
)

type stubDetector struct {
	detections []entity.Detection
}

func (d *stubDetector) Detect(ctx context.Context, imageData []byte, threshold float64) ([]entity.Detection, error) {
	return d.detections, nil
}

func (d *stubDetector) Close() error { return nil }

type stubRenderer struct{}

func (stubRenderer) Render(imageData []byte, detections []entity.Detection) ([]byte, error) {
	return imageData, nil
}

var leafDetections = []entity.Detection{
	{ClassID: 1, Confidence: 0.8, Box: entity.BoundingBox{X1: 1, Y1: 1, X2: 4, Y2: 4}},
	{ClassID: 2, Confidence: 0.6, Box: entity.BoundingBox{X1: 5, Y1: 5, X2: 9, Y2: 9}},
}

type fixture struct {
	console *Console
	out     *bytes.Buffer
	output  string
}

// newFixture собирает датасет из двух записей; на диске есть только 1.jpg.
func newFixture(t *testing.T, input string, detector port.Detector, modelErr error) *fixture {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, storage.DatasetFileName),
		[]byte("id,severity,predominant_stress\n1,0,\n2,3,1\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, storage.ImagesDirName), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, storage.ImagesDirName, "1.jpg"), []byte("leaf"), 0o644))

	output := filepath.Join(t.TempDir(), "output")
	logger := zaptest.NewLogger(t)
	c := container.New(
		storage.NewCSVDatasetLoader(dir),
		storage.NewDirImageStore(dir),
		detector,
		stubRenderer{},
		storage.NewMemoryPreferencesRepository(),
		output,
		logger,
	)

	out := &bytes.Buffer{}
	opts := Options{Threshold: 0.5, ModelPath: "yolov8n.onnx", ModelError: modelErr}
	return &fixture{
		console: New(c, opts, strings.NewReader(input), out, logger),
		out:     out,
		output:  output,
	}
}

func TestStart_FullRun(t *testing.T) {
	f := newFixture(t, "5\n", &stubDetector{detections: leafDetections}, nil)

	require.NoError(t, f.console.Start(context.Background()))

	got := f.out.String()
	require.Contains(t, got, "✅ Dataset loaded: 2 images")
	require.Contains(t, got, "Total images: 2")
	require.Contains(t, got, "🌿 Healthy leaves: 1 (50.0%)")
	require.Contains(t, got, "✅ Model loaded: yolov8n.onnx")
	require.Contains(t, got, "--- Image 1 ---")
	require.Contains(t, got, "Labels: severity=0, stress=n/a")
	require.Contains(t, got, "🔍 Model detected 2 objects:")
	require.Contains(t, got, "⚠️ Image 2.jpg not found")
	require.Contains(t, got, msgBye)
}

func TestStart_ModelError(t *testing.T) {
	loadErr := entity.NewFailure(entity.KindFileNotFound, "load model", "yolov8n.onnx", nil)
	f := newFixture(t, "", nil, loadErr)

	err := f.console.Start(context.Background())
	require.ErrorIs(t, err, entity.ErrFileNotFound)
	require.Contains(t, f.out.String(), "❌ Failed to load model")
	require.NotContains(t, f.out.String(), "MAIN MENU")
}

func TestMenu_EndOfInputExits(t *testing.T) {
	f := newFixture(t, "", &stubDetector{}, nil)

	require.NoError(t, f.console.Menu(context.Background()))
	require.Contains(t, f.out.String(), msgBye)
}

func TestMenu_InvalidOptionAndNoDataset(t *testing.T) {
	f := newFixture(t, "9\n1\n5\n", &stubDetector{}, nil)

	require.NoError(t, f.console.Menu(context.Background()))
	got := f.out.String()
	require.Contains(t, got, msgInvalidOption)
	require.Contains(t, got, msgNoDataset)
}

func TestMenu_InvalidCountFallsBackToDefault(t *testing.T) {
	f := newFixture(t, "2\nabc\n5\n", &stubDetector{}, nil)
	require.NoError(t, f.console.Stats(context.Background()))

	require.NoError(t, f.console.Menu(context.Background()))
	got := f.out.String()
	require.Contains(t, got, "❌ Invalid number. Using default: 3")
	require.Contains(t, got, "🔍 TESTING 2 IMAGES:")
	require.Contains(t, got, app.NoDetectionsLine)
}

func TestMenu_SpecificImageWithOverlay(t *testing.T) {
	f := newFixture(t, "3\n1.jpg\ny\n5\n", &stubDetector{detections: leafDetections}, nil)

	require.NoError(t, f.console.Menu(context.Background()))
	got := f.out.String()
	require.Contains(t, got, "Available images (first 10): [1.jpg]")
	require.Contains(t, got, "🔍 Testing 1.jpg...")
	require.Contains(t, got, "Object 1: class 1, confidence 0.800")
	require.FileExists(t, filepath.Join(f.output, "1_detections.jpg"))
}

func TestMenu_MissingImage(t *testing.T) {
	f := newFixture(t, "4\n404.jpg\n3\n../etc\n5\n", &stubDetector{}, nil)

	require.NoError(t, f.console.Menu(context.Background()))
	got := f.out.String()
	require.Contains(t, got, "❌ Image 404.jpg not found!")
	require.Contains(t, got, "❌ Image ../etc not found!")
}

func TestQuickCheck(t *testing.T) {
	f := newFixture(t, "", &stubDetector{}, nil)

	require.NoError(t, f.console.QuickCheck(context.Background()))
	got := f.out.String()
	require.Contains(t, got, "📸 Testing with: 1.jpg")
	require.Contains(t, got, app.NoDetectionsLine)
	require.Contains(t, got, "   threshold 0.1: 0 objects")
	require.Contains(t, got, "   threshold 0.7: 0 objects")
	require.Contains(t, got, "🎉 CHECK COMPLETED SUCCESSFULLY!")
}

func TestQuickCheck_ModelError(t *testing.T) {
	f := newFixture(t, "", nil, errors.New("gocv build tag is not enabled"))

	require.Error(t, f.console.QuickCheck(context.Background()))
	require.NotContains(t, f.out.String(), "CHECK COMPLETED")
}
