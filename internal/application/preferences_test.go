package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"leafscan/internal/domain/entity"
	"leafscan/internal/infrastructure/storage"
)

func TestPreferencesService_SetConfidence(t *testing.T) {
	svc := NewPreferencesService(storage.NewMemoryPreferencesRepository())
	ctx := context.Background()

	prefs, err := svc.SetConfidence(ctx, 1, 0.25)
	require.NoError(t, err)
	require.Equal(t, 0.25, prefs.Confidence)

	_, err = svc.SetConfidence(ctx, 1, 7)
	require.ErrorIs(t, err, entity.ErrInvalidInput)

	prefs, err = svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 0.25, prefs.Confidence)
}

func TestPreferencesService_SetOverlay(t *testing.T) {
	svc := NewPreferencesService(storage.NewMemoryPreferencesRepository())
	ctx := context.Background()

	prefs, err := svc.SetOverlay(ctx, 2, false)
	require.NoError(t, err)
	require.False(t, prefs.Overlay)

	prefs, err = svc.Get(ctx, 2)
	require.NoError(t, err)
	require.False(t, prefs.Overlay)
}
