package tokens

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/riddlebox/riddle-api/internal/apperr"
	"github.com/riddlebox/riddle-api/internal/models"
)

const DefaultTTL = 7 * 24 * time.Hour

type AccessClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject back into the numeric user id.
func (c *AccessClaims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, apperr.Unauthorized("invalid")
	}
	return uint(id), nil
}

type Issuer struct {
	Secret []byte
	TTL    time.Duration
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{Secret: secret, TTL: ttl}
}

func (i *Issuer) Issue(user *models.User) (string, error) {
	if len(i.Secret) == 0 {
		return "", apperr.Internal("token signing secret is not configured", nil)
	}
	if user == nil || user.ID == 0 || user.Username == "" || user.Role == "" {
		return "", apperr.InvalidInput("user must have id, username and role")
	}

	now := time.Now()
	claims := AccessClaims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.Secret)
}

func (i *Issuer) Parse(raw string) (*AccessClaims, error) {
	if raw == "" {
		return nil, apperr.Unauthorized("malformed")
	}

	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return i.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Unauthorized("expired")
		}
		return nil, apperr.Unauthorized("invalid")
	}
	if !tkn.Valid {
		return nil, apperr.Unauthorized("invalid")
	}
	return &claims, nil
}
