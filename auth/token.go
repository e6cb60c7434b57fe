package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleGuest Role = "guest"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are carried by both admin and guest tokens. CartID is only set for
// guests.
type Claims struct {
	Role   Role   `json:"role"`
	CartID string `json:"cart_id,omitempty"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// Issue signs an HS256 token for subject that expires after ttl.
func (i *TokenIssuer) Issue(role Role, subject, cartID string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		Role:   role,
		CartID: cartID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// IssueGuest returns a token bound to the given cart session.
func (i *TokenIssuer) IssueGuest(cartID string, ttl time.Duration) (string, time.Time, error) {
	return i.Issue(RoleGuest, cartID, cartID, ttl)
}

func (i *TokenIssuer) IssueAdmin(ttl time.Duration) (string, time.Time, error) {
	return i.Issue(RoleAdmin, "admin", "", ttl)
}

// Parse validates the signature and expiry of tokenString.
func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return i.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AdminPassword checks the admin password against a bcrypt hash when one is
// configured, otherwise against the plain value.
type AdminPassword struct {
	plain string
	hash  string
}

func NewAdminPassword(plain, hash string) AdminPassword {
	return AdminPassword{plain: plain, hash: hash}
}

func (a AdminPassword) Check(password string) bool {
	if password == "" {
		return false
	}
	if a.hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(a.hash), []byte(password)) == nil
	}
	if a.plain == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a.plain), []byte(password)) == 1
}
