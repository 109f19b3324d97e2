package model_test

import (
	"bedcall/internal/domains/queue/model"
	"bedcall/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{from: model.StatusPending, to: model.StatusCalling, want: true},
		{from: model.StatusPending, to: model.StatusAnswered, want: false},
		{from: model.StatusCalling, to: model.StatusNoAnswer, want: true},
		{from: model.StatusCalling, to: model.StatusPending, want: false},
		{from: model.StatusNoAnswer, to: model.StatusAccepted, want: true},
		{from: model.StatusAnswered, to: model.StatusDeclined, want: true},
		{from: model.StatusAccepted, to: model.StatusDeclined, want: false},
		{from: model.StatusDeclined, to: model.StatusAccepted, want: false},
		{from: model.StatusFailed, to: model.StatusCalling, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, model.CanTransition(tt.from, tt.to))
		})
	}
}

func TestSourcesFor(t *testing.T) {
	assert.Equal(t,
		[]string{model.StatusPending, model.StatusCalling, model.StatusAnswered, model.StatusNoAnswer},
		model.SourcesFor(model.StatusAccepted))
	assert.Equal(t, []string{model.StatusCalling}, model.SourcesFor(model.StatusAnswered))
	assert.Equal(t, []string{model.StatusPending}, model.SourcesFor(model.StatusCalling))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, model.IsTerminal(model.StatusPending))
	assert.False(t, model.IsTerminal(model.StatusCalling))
	assert.True(t, model.IsTerminal(model.StatusDeferred))
	assert.True(t, model.IsTerminal(model.StatusAnswered))
}

func TestHistory_ToFairness(t *testing.T) {
	assert.Nil(t, model.History{}.ToFairness().LastAccepted)

	accepted := time.Date(2026, 1, 9, 10, 0, 0, 0, timezone.GetLocation())
	history := model.History{LastAcceptedAt: &accepted, AcceptedCount: 2}.ToFairness()

	if assert.NotNil(t, history.LastAccepted) {
		assert.Equal(t, 2026, history.LastAccepted.Year)
		assert.Equal(t, 2, history.LastAccepted.Number)
	}

	assert.Equal(t, 2, history.AcceptedCount)
}
