package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Context is the authenticated caller identity attached to a request.
// The chat core only checks presence and reads UserID; it never inspects
// the underlying credential.
type Context struct {
	UserID string
	Token  string
}

var (
	// ErrMissingToken indicates no credential was presented.
	ErrMissingToken = errors.New("auth: missing bearer token")
	// ErrInvalidToken indicates the credential failed validation.
	ErrInvalidToken = errors.New("auth: invalid token")
)

type ctxKey string

const authKey ctxKey = "tokochat.auth"

// WithContext stores the auth context in ctx.
func WithContext(ctx context.Context, ac *Context) context.Context {
	return context.WithValue(ctx, authKey, ac)
}

// FromContext extracts the auth context if present.
func FromContext(ctx context.Context) (*Context, bool) {
	val := ctx.Value(authKey)
	if val == nil {
		return nil, false
	}
	ac, ok := val.(*Context)
	return ac, ok && ac != nil
}

// ParseBearer validates an HS256 bearer token and builds the auth context
// from its subject claim.
func ParseBearer(tokenString, secret string) (*Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	return &Context{UserID: sub, Token: tokenString}, nil
}

// Middleware extracts an optional bearer token from the Authorization header
// and, when valid, attaches the auth context to the request. Requests without
// a token pass through unauthenticated; the chat engine decides per intent
// whether auth is required.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				if ac, err := ParseBearer(strings.TrimPrefix(header, "Bearer "), secret); err == nil {
					r = r.WithContext(WithContext(r.Context(), ac))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
