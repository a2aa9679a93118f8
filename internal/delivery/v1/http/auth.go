package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/e"
	"github.com/vansh-khaneja/WearWhat-backend/pkg/logger"
)

const accessTokenCookie = "access_token"

type ownerKey struct{}

// Authenticator проверяет HS256-токен из заголовка Authorization или cookie access_token.
// Владелец гардероба - subject токена.
type Authenticator struct {
	secret []byte
	logger logger.Logger
}

func NewAuthenticator(secret string, logger logger.Logger) *Authenticator {
	return &Authenticator{secret: []byte(secret), logger: logger}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := a.ownerFromRequest(r)
		if err != nil {
			a.logger.Debugf("%d %s %s: %v", http.StatusUnauthorized, r.Method, r.URL.Path, err)
			WriteError(w, e.ErrUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey{}, ownerID)))
	})
}

func (a *Authenticator) ownerFromRequest(r *http.Request) (string, error) {
	raw := bearerToken(r)
	if raw == "" {
		return "", e.ErrUnauthorized
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", e.Wrap("parse token", err)
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return "", e.Wrap("empty subject", e.ErrUnauthorized)
	}

	return claims.Subject, nil
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}

	if c, err := r.Cookie(accessTokenCookie); err == nil {
		return c.Value
	}

	return ""
}

// ownerFromContext возвращает id владельца, положенный Middleware.
func ownerFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(ownerKey{}).(string)
	return ownerID, ok && ownerID != ""
}
