package impl

import (
	"fmt"
	"time"

	"bboard/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

type SignerConfig struct {
	Issuer     string
	SigningKey []byte
	// TTL bounds how long an activation link stays valid; zero disables
	// expiry entirely.
	TTL time.Duration
}

// ActivationSignerHS256 mints the signed tokens embedded in activation
// links. The subject is the username; tampering with any byte of the token
// invalidates the HMAC and surfaces as domain.ErrBadSignature.
type ActivationSignerHS256 struct {
	cfg SignerConfig
}

func NewActivationSignerHS256(cfg SignerConfig) *ActivationSignerHS256 {
	return &ActivationSignerHS256{cfg: cfg}
}

func (s *ActivationSignerHS256) Sign(username string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:   s.cfg.Issuer,
		Subject:  username,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.cfg.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.cfg.TTL))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.SigningKey)
}

func (s *ActivationSignerHS256) Unsign(sign string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(sign, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %T", token.Method)
		}
		return s.cfg.SigningKey, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrBadSignature
	}
	if claims.Issuer != s.cfg.Issuer || claims.Subject == "" {
		return "", domain.ErrBadSignature
	}
	return claims.Subject, nil
}
