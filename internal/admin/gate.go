// Package admin gates owner-restricted routes (adding graduates, approving
// collateral tokens, withdrawing pooled funds) behind a bearer token with an
// admin role claim.
package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the role claim value required by the gate.
const RoleAdmin = "admin"

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the token payload the gate issues and validates.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Gate validates admin bearer tokens on protected routes.
type Gate struct {
	secret []byte
	now    func() time.Time
}

// NewGate returns a Gate signing and verifying with the given HMAC secret.
func NewGate(secret string) *Gate {
	return &Gate{secret: []byte(secret), now: time.Now}
}

// Issue mints an admin token for subject, valid for ttl. Used by operators
// to bootstrap access; the service itself only validates.
func (g *Gate) Issue(subject string, ttl time.Duration) (string, error) {
	now := g.now().UTC()
	c := Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(g.secret)
}

// Validate parses the token string and checks the admin role claim.
func (g *Gate) Validate(tokenString string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return g.now() }),
	)

	var c Claims
	_, err := parser.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		return g.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if c.Role != RoleAdmin {
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}

// Middleware wraps next, rejecting requests without a valid admin token.
func (g *Gate) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerTokenFromHeader(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w, "missing bearer token")
			return
		}

		if _, err := g.Validate(token); err != nil {
			if errors.Is(err, ErrTokenExpired) {
				unauthorized(w, "token expired")
				return
			}
			unauthorized(w, "invalid token")
			return
		}

		next(w, r)
	}
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
