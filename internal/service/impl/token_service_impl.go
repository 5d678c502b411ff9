package impl

import (
	"context"
	"fmt"
	"time"

	"bboard/internal/domain"
	"bboard/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenConfig struct {
	Issuer     string
	AccessTTL  time.Duration
	SigningKey []byte // HS256 secret
}

// TokenServiceHS256 issues stateless bearer tokens whose subject is the
// user id. Account deletion invalidates them indirectly: the auth
// middleware re-resolves the user on every request.
type TokenServiceHS256 struct {
	cfg TokenConfig
}

func NewTokenServiceHS256(cfg TokenConfig) *TokenServiceHS256 {
	return &TokenServiceHS256{cfg: cfg}
}

func (t *TokenServiceHS256) Issue(ctx context.Context, user *domain.User) (*dto.TokenResponse, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    t.cfg.Issuer,
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.AccessTTL)),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.SigningKey)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: access,
		ExpiresIn:   int64(t.cfg.AccessTTL.Seconds()),
	}, nil
}

func (t *TokenServiceHS256) Verify(ctx context.Context, tokenStr string) (domain.UserID, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %T", token.Method)
		}
		return t.cfg.SigningKey, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, domain.ErrInvalidCredentials
	}
	if claims.Issuer != t.cfg.Issuer {
		return uuid.Nil, domain.ErrInvalidCredentials
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidCredentials
	}
	return id, nil
}
