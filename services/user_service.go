package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"snapFeedAPI/internal/types/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

func (s *UserService) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	u := &user.User{
		ID:           uuid.New().String(),
		ClerkID:      req.ClerkID,
		Email:        req.Email,
		Nickname:     req.Nickname,
		ProfileImage: req.ProfileImage,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	query := `
	INSERT INTO users (id, clerk_id, email, nickname, profile_image, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, clerk_id, email, nickname, profile_image, created_at, updated_at
	`

	var rawImage string
	err := s.db.QueryRow(
		ctx,
		query,
		u.ID,
		u.ClerkID,
		u.Email,
		u.Nickname,
		u.ProfileImage,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Nickname,
		&rawImage,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	u.ProfileImage = user.NormalizeProfileImage(rawImage)

	return u, nil
}

func (s *UserService) GetUserByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	return s.getUser(ctx, `WHERE clerk_id = $1`, clerkID)
}

func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.getUser(ctx, `WHERE id = $1`, id)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.getUser(ctx, `WHERE email = $1`, email)
}

func (s *UserService) getUser(ctx context.Context, where string, arg any) (*user.User, error) {
	query := `
	SELECT id, clerk_id, email, nickname, COALESCE(profile_image, ''), created_at, updated_at
	FROM users
	` + where

	u := &user.User{}
	var rawImage string
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Nickname,
		&rawImage,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	u.ProfileImage = user.NormalizeProfileImage(rawImage)

	return u, nil
}

// GetUserIDByClerkID maps the Clerk subject to the internal user id.
func (s *UserService) GetUserIDByClerkID(ctx context.Context, clerkID string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return uuid.Nil, fmt.Errorf("failed to resolve clerk id: %w", err)
	}
	return id, nil
}

func (s *UserService) UpdateProfileByClerkID(ctx context.Context, clerkID string, req *user.UpdateProfileRequest) (*user.User, error) {
	query := `
	UPDATE users
	SET nickname = $2, profile_image = $3, updated_at = NOW()
	WHERE clerk_id = $1
	RETURNING id, clerk_id, email, nickname, COALESCE(profile_image, ''), created_at, updated_at
	`

	u := &user.User{}
	var rawImage string
	err := s.db.QueryRow(ctx, query, clerkID, req.Nickname, req.ProfileImage).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Nickname,
		&rawImage,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	u.ProfileImage = user.NormalizeProfileImage(rawImage)

	return u, nil
}

func (s *UserService) DeleteUserByClerkID(ctx context.Context, clerkID string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM users WHERE clerk_id = $1`, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	return nil
}

// SearchUsers matches nickname or email, excluding the caller.
func (s *UserService) SearchUsers(ctx context.Context, clerkID string, search string) ([]*user.User, error) {
	query := `
	SELECT id, clerk_id, email, nickname, COALESCE(profile_image, ''), created_at, updated_at
	FROM users
	WHERE clerk_id != $1
	  AND (nickname ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')
	ORDER BY nickname
	LIMIT 20
	`

	rows, err := s.db.Query(ctx, query, clerkID, search)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

func scanUsers(rows pgx.Rows) ([]*user.User, error) {
	users := []*user.User{}
	for rows.Next() {
		u := &user.User{}
		var rawImage string
		err := rows.Scan(
			&u.ID,
			&u.ClerkID,
			&u.Email,
			&u.Nickname,
			&rawImage,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.ProfileImage = user.NormalizeProfileImage(rawImage)
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}
