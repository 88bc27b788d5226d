// Package session выполняет вход постоянного варианта при старте:
// по подписанному токену или анонимно.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/GoArmGo/ExerciseTracker/internal/core/ports"
)

// Session результат входа.
type Session struct {
	UID        string    `json:"uid"`
	Anonymous  bool      `json:"anonymous"`
	SignedInAt time.Time `json:"signed_in_at"`
}

// Authenticator проверяет токены и регистрирует учетные записи.
type Authenticator struct {
	principals ports.PrincipalStorage
	secret     []byte
	logger     *slog.Logger
	now        func() time.Time
}

func NewAuthenticator(principals ports.PrincipalStorage, secret string, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		principals: principals,
		secret:     []byte(secret),
		logger:     logger,
		now:        time.Now,
	}
}

// SignInWithToken проверяет HS256 JWT и входит под его subject.
func (a *Authenticator) SignInWithToken(ctx context.Context, token string) (*Session, error) {
	if len(a.secret) == 0 {
		return nil, errors.New("auth token secret is not configured")
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid auth token: %w", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, errors.New("invalid auth token: missing subject")
	}

	return a.signIn(ctx, claims.Subject, false)
}

// SignInAnonymously выдает новый идентификатор без токена.
func (a *Authenticator) SignInAnonymously(ctx context.Context) (*Session, error) {
	return a.signIn(ctx, uuid.NewString(), true)
}

func (a *Authenticator) signIn(ctx context.Context, uid string, anonymous bool) (*Session, error) {
	principal, err := a.principals.GetOrCreatePrincipal(ctx, uid, anonymous)
	if err != nil {
		return nil, fmt.Errorf("register principal: %w", err)
	}

	s := &Session{
		UID:        principal.UID,
		Anonymous:  principal.Anonymous,
		SignedInAt: a.now().UTC(),
	}
	a.logger.Info("session established", "uid", s.UID, "anonymous", s.Anonymous)
	return s, nil
}

// Bootstrap входит по токену, если он задан, иначе анонимно.
func Bootstrap(ctx context.Context, a *Authenticator, initialToken string) (*Session, error) {
	if initialToken != "" {
		return a.SignInWithToken(ctx, initialToken)
	}
	a.logger.Info("no initial auth token, signing in anonymously")
	return a.SignInAnonymously(ctx)
}
