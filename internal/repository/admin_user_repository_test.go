package repository

import (
	"context"
	"testing"
	"time"

	"karma-light/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetAdmins(t *testing.T) {
	t.Helper()
	_, err := testDB.Exec("TRUNCATE refresh_tokens, admin_users CASCADE")
	if err != nil {
		t.Fatalf("failed to reset admin tables: %v", err)
	}
}

func mustCreateAdmin(t *testing.T, email string) *domain.AdminUser {
	t.Helper()
	admin := &domain.AdminUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := NewAdminUserRepository(testDB).Create(context.Background(), admin); err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}
	return admin
}

func TestAdminUserCreateAndFind(t *testing.T) {
	resetAdmins(t)
	repo := NewAdminUserRepository(testDB)

	admin := mustCreateAdmin(t, "admin@karma-light.ua")

	byEmail, err := repo.FindByEmail(context.Background(), "admin@karma-light.ua")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, byEmail.ID)

	byID, err := repo.FindByID(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@karma-light.ua", byID.Email)

	_, err = repo.FindByEmail(context.Background(), "nobody@karma-light.ua")
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

func TestAdminUserDuplicateEmail(t *testing.T) {
	resetAdmins(t)
	repo := NewAdminUserRepository(testDB)

	mustCreateAdmin(t, "admin@karma-light.ua")

	duplicate := &domain.AdminUser{
		ID:           uuid.New(),
		Email:        "admin@karma-light.ua",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	assert.ErrorIs(t, repo.Create(context.Background(), duplicate), ErrAdminAlreadyExists)
}

func TestRefreshTokenLifecycle(t *testing.T) {
	resetAdmins(t)
	admin := mustCreateAdmin(t, "admin@karma-light.ua")
	repo := NewRefreshTokenRepository(testDB)

	token := &domain.RefreshToken{
		ID:        uuid.New(),
		AdminID:   admin.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), token))

	found, err := repo.FindByToken(context.Background(), token.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, found.AdminID)

	require.NoError(t, repo.Revoke(context.Background(), token.Token))

	_, err = repo.FindByToken(context.Background(), token.Token)
	assert.ErrorIs(t, err, ErrRefreshTokenRevoked)

	_, err = repo.FindByToken(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
}
