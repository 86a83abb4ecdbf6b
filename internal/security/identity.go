package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/volunteerhub/rewards_service/pkg/errors"
)

// Identity is the authenticated caller as asserted by the identity
// collaborator: this service only verifies and reads the token, it never
// issues sessions.
type Identity struct {
	UserID uint
	Role   string
}

// Role constants
const (
	RoleVolunteer = "volunteer"
	RoleAdmin     = "admin"
)

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type identityClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// ParseIdentity validates a collaborator-issued JWT and extracts the
// caller's identity.
func ParseIdentity(tokenString, secret string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &identityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUnauthorized, "invalid identity token")
	}

	claims, ok := token.Claims.(*identityClaims)
	if !ok || !token.Valid {
		return nil, errors.New(errors.ErrCodeUnauthorized, "invalid identity token")
	}
	if claims.Role != RoleVolunteer && claims.Role != RoleAdmin {
		return nil, errors.New(errors.ErrCodeUnauthorized, fmt.Sprintf("unknown role: %s", claims.Role))
	}

	return &Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// SignIdentity creates a token the way the identity collaborator does.
// Kept for tests and local tooling.
func SignIdentity(userID uint, role, secret string) (string, error) {
	claims := &identityClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
