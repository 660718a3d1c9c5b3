package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// credentialTTL is how long an issued admin credential stays valid.
const credentialTTL = 24 * time.Hour

// Claims represents the admin credential carried by a signed token.
type Claims struct {
	Email string `json:"email"`
	Admin bool   `json:"admin"`
	jwt.RegisteredClaims
}

// Gate issues and verifies admin credentials. There is a single configured
// admin identity; verification is stateless and side-effect-free.
type Gate struct {
	secretKey         []byte
	adminEmail        string
	adminPasswordHash string
}

// NewGate creates a gate for the configured admin identity. The password
// hash is a bcrypt hash.
func NewGate(secretKey, adminEmail, adminPasswordHash string) *Gate {
	return &Gate{
		secretKey:         []byte(secretKey),
		adminEmail:        adminEmail,
		adminPasswordHash: adminPasswordHash,
	}
}

// Login validates the admin credentials and issues a signed token.
func (g *Gate) Login(email, password string) (string, time.Time, error) {
	if email != g.adminEmail || !CheckPassword(password, g.adminPasswordHash) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(credentialTTL)
	claims := Claims{
		Email: email,
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(g.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// Verify checks signature, expiry, and the admin claim. It fails closed: any
// malformed, expired, or mis-signed token is rejected.
func (g *Gate) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return g.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.Admin {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// CredentialTTL returns the credential lifetime.
func (g *Gate) CredentialTTL() time.Duration {
	return credentialTTL
}
