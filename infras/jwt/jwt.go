package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"bedcall/config"
	"bedcall/shared/timezone"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")
)

const callTokenAudience = "telephony-status"

// CallClaims identify the queue entry an outbound call was placed for. They are
// signed into the status callback URL so provider callbacks cannot be forged.
type CallClaims struct {
	QueueEntryID string `json:"qe"`
	CampaignID   string `json:"cid"`
	HostID       string `json:"hid"`
	jwt.RegisteredClaims
}

type JWT interface {
	GenerateCallToken(queueEntryID, campaignID, hostID string) (string, error)
	ValidateCallToken(token string) (*CallClaims, error)
}

type Service struct {
	config *config.Config
}

func New(cfg *config.Config) JWT {
	return &Service{
		config: cfg,
	}
}

func (s *Service) GenerateCallToken(queueEntryID, campaignID, hostID string) (string, error) {
	now := timezone.Now()

	claims := CallClaims{
		QueueEntryID: queueEntryID,
		CampaignID:   campaignID,
		HostID:       hostID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Telephony.CallTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.App.Name,
			Audience:  jwt.ClaimStrings{callTokenAudience},
			Subject:   queueEntryID,
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Telephony.CallbackSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign call token: %w", err)
	}

	return signed, nil
}

func (s *Service) ValidateCallToken(tokenString string) (*CallClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CallClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(s.config.Telephony.CallbackSecret), nil
	}, jwt.WithAudience(callTokenAudience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}

		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*CallClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.QueueEntryID == "" || claims.CampaignID == "" {
		return nil, ErrInvalidClaim
	}

	return claims, nil
}
