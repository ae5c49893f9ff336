package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"learnhub_portal/internal/identity"
	"learnhub_portal/internal/model"
	"learnhub_portal/internal/repository"
	"learnhub_portal/pkg/logger"

	"go.uber.org/zap"
)

const (
	defaultFederatedName = "Google User"
	avatarPlaceholderURL = "https://picsum.photos/seed/%s/100/100"
)

// UserProvisioner creates the users/{uid} record the first time an
// identity signs up or federates in. Existing records are never touched.
type UserProvisioner struct {
	users      *repository.UserRepository
	adminEmail func() string
	onCreate   func(ctx context.Context, user model.User) error
}

func NewUserProvisioner(users *repository.UserRepository, adminEmail func() string) *UserProvisioner {
	return &UserProvisioner{users: users, adminEmail: adminEmail}
}

// OnCreate registers a hook run after a new record is stored. A hook
// failure is logged and does not fail the sign-in.
func (p *UserProvisioner) OnCreate(fn func(ctx context.Context, user model.User) error) {
	p.onCreate = fn
}

// Provision satisfies identity.Provisioner.
func (p *UserProvisioner) Provision(ctx context.Context, id identity.Identity) error {
	_, err := p.users.FindByID(ctx, id.UID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("look up user %s: %w", id.UID, err)
	}

	user := p.newUser(id)
	if err := p.users.Save(ctx, &user); err != nil {
		return fmt.Errorf("create user %s: %w", id.UID, err)
	}
	logger.Log.Info("Provisioned user",
		zap.String("uid", user.ID),
		zap.String("role", string(user.Role)),
		zap.String("provider", id.Provider))

	if p.onCreate != nil {
		if err := p.onCreate(ctx, user); err != nil {
			logger.Log.Error("User creation hook failed", zap.String("uid", user.ID), zap.Error(err))
		}
	}
	return nil
}

func (p *UserProvisioner) newUser(id identity.Identity) model.User {
	role := model.Student
	if admin := p.adminEmail(); admin != "" && strings.EqualFold(strings.TrimSpace(id.Email), admin) {
		role = model.Admin
	}

	name := strings.TrimSpace(id.DisplayName)
	if name == "" {
		name = defaultFederatedName
	}

	avatar := id.PhotoURL
	if avatar == "" {
		avatar = fmt.Sprintf(avatarPlaceholderURL, id.UID)
	}

	return model.User{
		ID:        id.UID,
		Name:      name,
		Email:     id.Email,
		Role:      role,
		Status:    model.StatusActive,
		AvatarURL: avatar,
	}
}
