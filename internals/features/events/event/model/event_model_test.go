package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveEventStatus(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)
	farFuture := now.Add(72 * time.Hour)
	cap2 := 2

	tests := []struct {
		name       string
		eventDate  time.Time
		deadline   *time.Time
		max        *int
		registered int
		want       string
	}{
		{"future event, open", future, nil, nil, 0, EventStatusOpen},
		{"past event is completed", past, nil, nil, 0, EventStatusCompleted},
		{"deadline passed closes registration", farFuture, &past, nil, 0, EventStatusRegistrationClosed},
		{"capacity reached means full", future, nil, &cap2, 2, EventStatusFull},
		{"over capacity still full", future, nil, &cap2, 3, EventStatusFull},
		{"under capacity stays open", future, nil, &cap2, 1, EventStatusOpen},
		{"no deadline falls back to event date", past, nil, &cap2, 2, EventStatusCompleted},
		// precedence: completed beats a passed deadline, which beats full
		{"completed wins over closed", past, &past, nil, 0, EventStatusCompleted},
		{"closed wins over full", farFuture, &past, &cap2, 2, EventStatusRegistrationClosed},
		{"future deadline keeps it open", future, &farFuture, nil, 0, EventStatusOpen},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveEventStatus(now, tc.eventDate, tc.deadline, tc.max, tc.registered)
			assert.Equal(t, tc.want, got)
		})
	}
}
