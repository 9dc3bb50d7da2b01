// Package auth issues and verifies the HS256 access tokens that carry a
// caller's claims.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"restaurantapi/internal/authz"
	"restaurantapi/internal/domain/models"
	"restaurantapi/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type tokenClaims struct {
	UserID      int64  `json:"user_id"`
	Name        string `json:"name,omitempty"`
	Role        string `json:"role"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and parses access tokens. Issuer doubles as the audience.
type Tokens struct {
	Key        []byte
	Issuer     string
	ExpireDays int
	Now        func() time.Time
}

func NewTokens(key, issuer string, expireDays int) *Tokens {
	return &Tokens{Key: []byte(key), Issuer: issuer, ExpireDays: expireDays, Now: time.Now}
}

func (t *Tokens) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// Issue signs a token for user. The user's Role must be loaded.
func (t *Tokens) Issue(user models.User) (string, error) {
	now := t.now()
	claims := tokenClaims{
		UserID:      user.ID,
		Name:        user.FullName(),
		Role:        user.Role.Name,
		Nationality: strings.TrimSpace(user.Nationality),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.Issuer,
			Audience:  jwt.ClaimStrings{t.Issuer},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.AddDate(0, 0, t.ExpireDays)),
			Subject:   strconv.FormatInt(user.ID, 10),
		},
	}
	if user.DateOfBirth != nil {
		claims.DateOfBirth = utils.FormatDate(*user.DateOfBirth)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.Key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies raw and converts its claims into an identity.
func (t *Tokens) Parse(raw string) (authz.Identity, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return t.Key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.Issuer),
		jwt.WithAudience(t.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return authz.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID <= 0 {
		return authz.Identity{}, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}

	list := []authz.Claim{
		{Name: authz.ClaimUserID, Value: strconv.FormatInt(claims.UserID, 10)},
		{Name: authz.ClaimRole, Value: claims.Role},
	}
	if claims.Name != "" {
		list = append(list, authz.Claim{Name: authz.ClaimName, Value: claims.Name})
	}
	if claims.DateOfBirth != "" {
		list = append(list, authz.Claim{Name: authz.ClaimDateOfBirth, Value: claims.DateOfBirth})
	}
	if claims.Nationality != "" {
		list = append(list, authz.Claim{Name: authz.ClaimNationality, Value: claims.Nationality})
	}
	return authz.NewIdentity(list...), nil
}
