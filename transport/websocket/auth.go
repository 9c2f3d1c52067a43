package websocket

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMissingToken = errors.New("missing token")

// Claims carries the authenticated principal. The identity service signs
// these; this server only verifies.
type Claims struct {
	PlayerID int64 `json:"player_id"`
	jwt.RegisteredClaims
}

// Authenticator validates upgrade requests and extracts the principal.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates a validator for HMAC-signed tokens.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Authenticate checks the token query parameter of an upgrade request and
// returns the authenticated player ID.
func (a *Authenticator) Authenticate(r *http.Request) (int64, error) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		return 0, ErrMissingToken
	}
	return a.ValidateToken(tokenString)
}

// ValidateToken parses and validates a JWT string, checking the signature
// and standard claims like expiration.
func (a *Authenticator) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("token parse/validation error: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, errors.New("token is invalid")
	}
	if claims.PlayerID <= 0 {
		return 0, errors.New("token carries no player identity")
	}

	return claims.PlayerID, nil
}
