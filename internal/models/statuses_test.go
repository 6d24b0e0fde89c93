package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(BookingStatusPending, BookingStatusConfirmed))
	assert.True(t, CanTransition(BookingStatusPending, BookingStatusCancelled))
	assert.True(t, CanTransition(BookingStatusConfirmed, BookingStatusInProgress))
	assert.True(t, CanTransition(BookingStatusInProgress, BookingStatusCompleted))

	assert.False(t, CanTransition(BookingStatusPending, BookingStatusCompleted))
	assert.False(t, CanTransition(BookingStatusCompleted, BookingStatusPending))
	assert.False(t, CanTransition(BookingStatusCancelled, BookingStatusConfirmed))
	assert.False(t, CanTransition(BookingStatus("UNKNOWN"), BookingStatusConfirmed))
}
