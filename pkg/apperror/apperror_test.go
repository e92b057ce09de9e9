package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *Error
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   NotFound(CodeBookingNotFound, "booking"),
			expected: "BOOKING_NOT_FOUND: booking not found",
		},
		{
			name:     "with underlying error",
			appErr:   Internal("internal error", errors.New("database connection failed")),
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAs(t *testing.T) {
	t.Run("wrapped app error is found", func(t *testing.T) {
		wrapped := fmt.Errorf("create booking: %w", ErrSlotConflict)

		got := As(wrapped)
		assert.Equal(t, KindConflict, got.Kind)
		assert.Equal(t, CodeSlotConflict, got.Code)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		original := errors.New("boom")

		got := As(original)
		assert.Equal(t, KindInternal, got.Kind)
		assert.ErrorIs(t, got, original)
	})
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("tx: %w", Conflict(CodeSlotConflict, "custom message"))

	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.NotErrorIs(t, err, ErrVehicleUnavailable)
}

func TestWithDetails_DoesNotMutateSentinel(t *testing.T) {
	detailed := ErrVehicleUnavailable.WithDetails(map[string]any{"vehicle_id": "v1"})

	require.NotNil(t, detailed.Details)
	assert.Nil(t, ErrVehicleUnavailable.Details)
	assert.ErrorIs(t, detailed, ErrVehicleUnavailable)
}

func TestIsKind(t *testing.T) {
	assert.True(t, IsKind(InvalidState("booking is %s", "COMPLETED"), KindConflict))
	assert.False(t, IsKind(errors.New("x"), KindConflict))
	assert.Equal(t, "Conflict", KindConflict.String())
}
