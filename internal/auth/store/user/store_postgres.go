package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"carehub/internal/auth/models"
	"carehub/internal/platform/database"
	id "carehub/pkg/domain"
	"carehub/pkg/platform/sentinel"
)

const userColumns = `id, first_name, last_name, email, id_number, phone_number, address, password_hash, created_at`

// PostgresStore persists users in PostgreSQL.
type PostgresStore struct {
	db database.Querier
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db database.Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(user.ID), user.FirstName, user.LastName, user.Email, user.IDNumber,
		user.PhoneNumber, user.Address, user.PasswordHash, createdAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("user already exists: %w", sentinel.ErrConflict)
		}
		return oops.In("user_store").With("operation", "create").Wrapf(err, "insert user")
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
		}
		return nil, oops.In("user_store").With("operation", "find_by_email").Wrapf(err, "find user by email")
	}
	return user, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, uuid.UUID(userID))
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
		}
		return nil, oops.In("user_store").With("operation", "find_by_id").With("user_id", userID.String()).Wrapf(err, "find user by id")
	}
	return user, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		userID uuid.UUID
		u      models.User
	)
	if err := row.Scan(&userID, &u.FirstName, &u.LastName, &u.Email, &u.IDNumber,
		&u.PhoneNumber, &u.Address, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.ID = id.UserID(userID)
	return &u, nil
}
