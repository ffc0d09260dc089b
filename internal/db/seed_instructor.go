package db

import (
	"context"
	"errors"

	"github.com/aadeshp/coursehub/internal/config"
	"github.com/aadeshp/coursehub/internal/domain/user"
	"github.com/aadeshp/coursehub/internal/security"
)

type userStore interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

// EnsureInstructor seeds an instructor account from config so a fresh
// deployment has someone who can create courses. No-op when unset or
// when the account already exists.
func EnsureInstructor(ctx context.Context, users userStore, cfg config.Config) error {
	if cfg.SeedInstructorEmail == "" || cfg.SeedInstructorPassword == "" {
		return nil
	}

	_, err := users.GetByEmail(ctx, cfg.SeedInstructorEmail)

	if err == nil {
		return nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	hash, err := security.HashPassword(cfg.SeedInstructorPassword)

	if err != nil {
		return err
	}

	_, err = users.Create(ctx, user.User{
		Name:         cfg.SeedInstructorName,
		Phone:        cfg.SeedInstructorPhone,
		Email:        cfg.SeedInstructorEmail,
		PasswordHash: hash,
		Role:         user.RoleInstructor,
	})

	if errors.Is(err, user.ErrDuplicateEmail) {
		// another replica won the race
		return nil
	}

	return err
}
