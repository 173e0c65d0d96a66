package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ai-study-guide/internal/infra/logging"
	"ai-study-guide/internal/usecase"
)

type ctxKey string

const ctxUser ctxKey = "chat_user"

// Identity resolves who a chat belongs to. Without a secret every caller is
// the default user; with one, a valid HS256 bearer token names the user by
// its subject and an invalid token is rejected.
type Identity struct {
	secret []byte
}

func NewIdentity(secret string) *Identity {
	return &Identity{secret: []byte(secret)}
}

func (a *Identity) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := usecase.DefaultUserID
			if len(a.secret) > 0 {
				if tok, ok := bearer(r); ok {
					sub, err := a.parse(tok)
					if err != nil {
						writeError(w, http.StatusUnauthorized, "invalid token")
						return
					}
					userID = sub
				}
			}
			ctx := context.WithValue(r.Context(), ctxUser, userID)
			ctx = logging.WithUserID(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFrom returns the resolved chat user, or the default user.
func UserIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxUser).(string); ok && v != "" {
		return v
	}
	return usecase.DefaultUserID
}

// Mint signs a token for subject. The roadmap CLI's token command calls it so
// operators can hand out chat identities.
func (a *Identity) Mint(subject string, ttl time.Duration) (string, error) {
	if len(a.secret) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Identity) parse(tok string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("token without subject")
	}
	return claims.Subject, nil
}

func bearer(r *http.Request) (string, bool) {
	hdr := r.Header.Get("Authorization")
	if len(hdr) > 7 && strings.EqualFold(hdr[:7], "bearer ") {
		return strings.TrimSpace(hdr[7:]), true
	}
	return "", false
}
