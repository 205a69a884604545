package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundingBoxValid(t *testing.T) {
	require.True(t, BoundingBox{X1: 1, Y1: 2, X2: 3, Y2: 4}.Valid())
	require.False(t, BoundingBox{X1: 3, Y1: 2, X2: 3, Y2: 4}.Valid())
	require.False(t, BoundingBox{X1: 1, Y1: 5, X2: 3, Y2: 4}.Valid())

	b := BoundingBox{X1: 10, Y1: 20, X2: 18, Y2: 26}
	require.Equal(t, 8.0, b.Width())
	require.Equal(t, 6.0, b.Height())
}

func TestDetectionLabel(t *testing.T) {
	d := Detection{ClassID: 2, Confidence: 0.876}
	require.Equal(t, "class 2 (0.88)", d.Label())
}

func TestValidateConfidence(t *testing.T) {
	require.NoError(t, ValidateConfidence(0))
	require.NoError(t, ValidateConfidence(1))
	require.NoError(t, ValidateConfidence(0.5))

	err := ValidateConfidence(1.2)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, KindInvalidInput, KindOf(err))

	require.ErrorIs(t, ValidateConfidence(-0.1), ErrInvalidInput)
}

func TestFailure_IsAndWrap(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("outer: %w", NewFailure(KindInferenceFailure, "predict", "leaf/1.jpg", cause))

	require.ErrorIs(t, err, ErrInferenceFailure)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, ErrFileNotFound)
	require.Equal(t, KindInferenceFailure, KindOf(err))
	require.Contains(t, err.Error(), "predict leaf/1.jpg: inference failure: boom")

	require.Equal(t, FailureKind(""), KindOf(cause))
}

func TestDatasetTable_NilSafe(t *testing.T) {
	var table *DatasetTable
	require.Equal(t, 0, table.Len())
	require.False(t, table.HasColumn(ColumnSeverity))

	table = &DatasetTable{Columns: []string{"id", "severity", "rust"}}
	require.True(t, table.HasColumn("rust"))
	require.False(t, table.HasColumn("phoma"))
}

func TestDatasetRecord(t *testing.T) {
	r := DatasetRecord{ID: "17", Severity: 0}
	require.True(t, r.Healthy())
	require.Equal(t, "17.jpg", r.ImageName())
	require.True(t, IsDiseaseColumn("cercospora"))
	require.False(t, IsDiseaseColumn("severity"))
}

func TestNewChatPreferences_Defaults(t *testing.T) {
	p := NewChatPreferences(10)
	require.Equal(t, int64(10), p.ChatID)
	require.Equal(t, DefaultConfidence, p.Confidence)
	require.True(t, p.Overlay)

	require.NoError(t, p.SetConfidence(0.3))
	require.Equal(t, 0.3, p.Confidence)
	require.Error(t, p.SetConfidence(3))
	require.Equal(t, 0.3, p.Confidence)
}
