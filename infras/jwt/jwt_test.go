package jwt_test

import (
	"bedcall/config"
	"bedcall/infras/jwt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfig(secret string, ttl time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "bedcall"
	cfg.Telephony.CallbackSecret = secret
	cfg.Telephony.CallTokenTTL = ttl

	return cfg
}

func TestCallToken_RoundTrip(t *testing.T) {
	svc := jwt.New(newConfig("s3cret", time.Hour))

	token, err := svc.GenerateCallToken("qe-1", "c-1", "h-1")
	require.NoError(t, err)

	claims, err := svc.ValidateCallToken(token)
	require.NoError(t, err)
	assert.Equal(t, "qe-1", claims.QueueEntryID)
	assert.Equal(t, "c-1", claims.CampaignID)
	assert.Equal(t, "h-1", claims.HostID)
}

func TestCallToken_Rejections(t *testing.T) {
	signer := jwt.New(newConfig("s3cret", time.Hour))

	token, err := signer.GenerateCallToken("qe-1", "c-1", "h-1")
	require.NoError(t, err)

	_, err = jwt.New(newConfig("other", time.Hour)).ValidateCallToken(token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = signer.ValidateCallToken("not-a-token")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	expired, err := jwt.New(newConfig("s3cret", -time.Minute)).GenerateCallToken("qe-1", "c-1", "h-1")
	require.NoError(t, err)

	_, err = signer.ValidateCallToken(expired)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)

	missing, err := signer.GenerateCallToken("", "c-1", "h-1")
	require.NoError(t, err)

	_, err = signer.ValidateCallToken(missing)
	assert.ErrorIs(t, err, jwt.ErrInvalidClaim)
}
