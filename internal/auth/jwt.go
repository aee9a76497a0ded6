package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID string `json:"sub"`
	JTI    string `json:"jti"`
	jwt.RegisteredClaims
}

// Manager mints and verifies session tokens. A signature alone is not enough
// to authenticate: the token's JTI must still be present in the user's active
// session set, which is checked by the auth middleware on every request.
//
// Session tokens carry no expiry claim. Validity is governed entirely by the
// server-side session set, matching the system this replaces.
type Manager struct {
	secret []byte
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// GenerateSessionToken mints a token bound to the user's identifier with a
// fresh JTI. The caller is responsible for recording the JTI (and the HMAC of
// the raw token) in the active session set.
func (m *Manager) GenerateSessionToken(userID string) (raw string, jti string, err error) {
	now := time.Now().UTC()
	jti = uuid.NewString()

	claims := Claims{
		UserID: userID,
		JTI:    jti,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Subject:  userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	raw, err = token.SignedString(m.secret)

	return
}

func (m *Manager) VerifySessionToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256
		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.JTI == "" || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// HashSessionToken is a deterministic HMAC over the raw token (server-side
// pepper = JWT secret bytes). Stores hold this hash, never the raw token.
func (m *Manager) HashSessionToken(raw string) string {
	h := hmac.New(sha256.New, m.secret)
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}
