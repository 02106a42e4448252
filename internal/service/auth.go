package service

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/parfum_shop/internal/events"
	"github.com/Skotchmaster/parfum_shop/internal/hash"
	"github.com/Skotchmaster/parfum_shop/internal/logging"
	"github.com/Skotchmaster/parfum_shop/internal/models"
	"github.com/Skotchmaster/parfum_shop/internal/repo"
	"github.com/Skotchmaster/parfum_shop/internal/tokens"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	Repo      *repo.GormRepo
	Events    events.Publisher
	JWTSecret []byte
	TokenTTL  time.Duration
}

type LoginResult struct {
	Username string
	Role     models.Role
	Token    string
}

// Login grants guest access for an empty username without touching the store.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if username == "" {
		res := &LoginResult{Role: models.RoleGuest}
		if err := s.sign(res); err != nil {
			return nil, err
		}
		l.Info("guest_login")
		return res, nil
	}

	l = l.With("username", username)
	user, err := s.Repo.FindUser(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown username")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.Password, password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	res := &LoginResult{Username: user.Username, Role: user.Role}
	if err := s.sign(res); err != nil {
		return nil, err
	}

	s.publish(ctx, user)
	l.Info("login_successful", "role", user.Role)
	return res, nil
}

func (s *AuthService) sign(res *LoginResult) error {
	if len(s.JWTSecret) == 0 {
		return nil
	}
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	token, err := tokens.NewAccessToken(res.Username, res.Role, time.Now().Add(ttl), s.JWTSecret)
	if err != nil {
		return err
	}
	res.Token = token
	return nil
}

func (s *AuthService) publish(ctx context.Context, user *models.User) {
	if s.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	event := events.NewEvent(events.UserLoggedIn, map[string]any{
		"username": user.Username,
		"role":     user.Role,
	})
	if err := s.Events.PublishEvent(ctx, events.TopicUsers, user.Username, event); err != nil {
		logging.FromContext(ctx).Error("publish_failed", "topic", events.TopicUsers, "error", err)
	}
}
