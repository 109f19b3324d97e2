package model_test

import (
	"bedcall/internal/domains/campaign/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCampaign_StillNeeded(t *testing.T) {
	tests := []struct {
		name       string
		campaign   model.Campaign
		want       int
		wantFilled bool
	}{
		{name: "nothing confirmed", campaign: model.Campaign{BedsNeeded: 6}, want: 6},
		{name: "partially confirmed", campaign: model.Campaign{BedsNeeded: 6, BedsConfirmed: 4}, want: 2},
		{name: "over confirmed", campaign: model.Campaign{BedsNeeded: 6, BedsConfirmed: 8}, want: 0, wantFilled: true},
		{name: "no bed target", campaign: model.Campaign{BedsConfirmed: 3}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.campaign.StillNeeded())
			assert.Equal(t, tt.wantFilled, tt.campaign.IsFilled())
		})
	}
}

func TestCampaign_IsTerminal(t *testing.T) {
	assert.True(t, model.Campaign{Status: model.StatusCompleted}.IsTerminal())
	assert.True(t, model.Campaign{Status: model.StatusCancelled}.IsTerminal())
	assert.False(t, model.Campaign{Status: model.StatusActive}.IsTerminal())
	assert.False(t, model.Campaign{Status: model.StatusPending}.IsTerminal())
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "campaign:get:c-1", model.CacheKey("c-1"))
}
