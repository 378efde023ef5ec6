package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"karma-light/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrAdminNotFound      = errors.New("admin user not found")
	ErrAdminAlreadyExists = errors.New("admin user with this email already exists")
)

// AdminUserRepository defines the interface for admin account data access
type AdminUserRepository interface {
	Create(ctx context.Context, admin *domain.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.AdminUser, error)
}

type adminUserRepository struct {
	db *sql.DB
}

// NewAdminUserRepository creates a new instance of AdminUserRepository
func NewAdminUserRepository(db *sql.DB) AdminUserRepository {
	return &adminUserRepository{db: db}
}

// Create inserts a new admin account using parameterized queries
func (r *adminUserRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	query := `
		INSERT INTO admin_users (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		admin.ID,
		admin.Email,
		admin.PasswordHash,
		admin.CreatedAt,
		admin.UpdatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "admin_users_email_key") {
			return ErrAdminAlreadyExists
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	return nil
}

// FindByEmail retrieves an admin account by email
func (r *adminUserRepository) FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, created_at, updated_at
		FROM admin_users
		WHERE email = $1
	`

	admin := &domain.AdminUser{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to find admin user by email: %w", err)
	}

	return admin, nil
}

// FindByID retrieves an admin account by ID
func (r *adminUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, created_at, updated_at
		FROM admin_users
		WHERE id = $1
	`

	admin := &domain.AdminUser{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to find admin user by ID: %w", err)
	}

	return admin, nil
}
