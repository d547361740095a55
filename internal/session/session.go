package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	CookieName = "selat_session"
	issuer     = "selat-storefront"
)

var ErrInvalidSession = errors.New("invalid or expired session")

// Claims is the signed session payload. SessionID scopes the cart; Token is
// the remote API bearer credential once the user has logged in.
type Claims struct {
	SessionID string `json:"sid"`
	Token     string `json:"tok,omitempty"`
	UserName  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Authenticated() bool {
	return c != nil && c.Token != ""
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	log    logrus.FieldLogger
}

func NewManager(secret string, ttl time.Duration, secure bool, log logrus.FieldLogger) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		log:    log,
	}
}

// New starts an anonymous session.
func (m *Manager) New() *Claims {
	return &Claims{SessionID: uuid.NewString()}
}

func (m *Manager) Issue(claims *Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   claims.SessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func (m *Manager) Parse(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.SessionID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Write signs claims and sets the session cookie.
func (m *Manager) Write(w http.ResponseWriter, claims *Claims) error {
	signed, err := m.Issue(claims)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Middleware attaches the caller's session to the request context, minting
// a new anonymous one when the cookie is missing or no longer valid.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var claims *Claims
		if c, err := r.Cookie(CookieName); err == nil {
			claims, _ = m.Parse(c.Value)
		}
		if claims == nil {
			claims = m.New()
			if err := m.Write(w, claims); err != nil {
				m.log.WithError(err).Error("issue session cookie")
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

type contextKey struct{}

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

func FromContext(ctx context.Context) *Claims {
	if claims, ok := ctx.Value(contextKey{}).(*Claims); ok {
		return claims
	}
	return nil
}
