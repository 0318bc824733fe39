package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riddlebox/riddle-api/internal/apperr"
	"github.com/riddlebox/riddle-api/internal/hash"
	"github.com/riddlebox/riddle-api/internal/logging"
	"github.com/riddlebox/riddle-api/internal/models"
	"github.com/riddlebox/riddle-api/internal/mykafka"
	"github.com/riddlebox/riddle-api/internal/repo"
	"github.com/riddlebox/riddle-api/internal/tokens"
)

const (
	minUsernameLen = 5
	minPasswordLen = 8
)

type AuthService struct {
	Repo      *repo.GormRepo
	Issuer    *tokens.Issuer
	AdminCode string
	Producer  *mykafka.Producer
}

type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, username, password, adminCode string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if len(username) < minUsernameLen {
		return nil, apperr.InvalidInput(fmt.Sprintf("username must be at least %d characters", minUsernameLen))
	}
	if len(password) < minPasswordLen {
		return nil, apperr.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}

	// Pre-query narrows the race window; the unique constraint closes it.
	// Both paths surface the same Conflict.
	exists, err := s.Repo.UsernameExists(ctx, username)
	if err != nil {
		l.Error("register_error", "reason", "username lookup failed", "error", err)
		return nil, apperr.Wrap(err)
	}
	if exists {
		return nil, apperr.Conflict("Username already exists")
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, apperr.Wrap(err)
	}

	role := models.RoleUser
	if adminCode != "" && s.AdminCode != "" && adminCode == s.AdminCode {
		role = models.RoleAdmin
	}

	user := &models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUsernameTaken) {
			return nil, apperr.Conflict("Username already exists")
		}
		l.Error("register_error", "reason", "cannot create user", "error", err)
		return nil, apperr.Wrap(err)
	}

	token, err := s.Issuer.Issue(user)
	if err != nil {
		l.Error("register_error", "reason", "cannot issue token", "error", err)
		return nil, apperr.Wrap(err)
	}

	s.publish(ctx, "user_events", user, map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	})

	l.Info("user_registered", "user_id", user.ID, "role", user.Role)
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			// Same message as a wrong password so usernames cannot be probed.
			return nil, apperr.Unauthorized("Invalid username or password")
		}
		l.Error("login_error", "error", err)
		return nil, apperr.Wrap(err)
	}

	if user.PasswordHash == "" {
		// Legacy player row with no password. The distinct message leaks
		// that the username exists; kept as-is pending a product decision.
		return nil, apperr.Unauthorized("No password set for this account, contact administrator")
	}

	ok, err := hash.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	if !ok {
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	token, err := s.Issuer.Issue(user)
	if err != nil {
		l.Error("login_error", "reason", "cannot issue token", "error", err)
		return nil, apperr.Wrap(err)
	}

	s.publish(ctx, "user_events", user, map[string]any{
		"type":     "user_logged_in",
		"user_id":  user.ID,
		"username": user.Username,
	})

	l.Info("login_successful", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// ResolveUser returns (nil, nil) when the id no longer maps to a user, so
// the middleware can tell "deleted" apart from a store failure.
func (s *AuthService) ResolveUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(err)
	}
	return user, nil
}

func (s *AuthService) publish(ctx context.Context, topic string, user *models.User, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, topic, fmt.Sprint(user.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", topic, "error", err)
	}
}
