package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"snapFeedAPI/internal/types/post"
	"snapFeedAPI/internal/types/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostService owns posts and the friends feed. The feed is recomputed on
// demand from the caller's resolved friend set; refreshing after a mutation
// is just another compose with the same set.
type PostService struct {
	db      *pgxpool.Pool
	storage *StorageService
}

func NewPostService(db *pgxpool.Pool, storage *StorageService) *PostService {
	return &PostService{db: db, storage: storage}
}

const postColumns = `id, user_id, user_email, description, COALESCE(image_urls, ''), event_date, created_at`

// ComposeFeed returns posts authored by any of friendIDs, newest first, ties
// broken by id. An empty friend set short-circuits to an empty feed without
// touching the store: a user with no accepted friends sees nothing, not an
// error.
func (s *PostService) ComposeFeed(ctx context.Context, friendIDs []uuid.UUID) ([]*post.Post, error) {
	if len(friendIDs) == 0 {
		return []*post.Post{}, nil
	}

	ids := make([]string, len(friendIDs))
	for i, id := range friendIDs {
		ids[i] = id.String()
	}

	query := `
	SELECT ` + postColumns + `
	FROM posts
	WHERE user_id = ANY($1::uuid[])
	ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (s *PostService) CreatePost(ctx context.Context, author *user.User, description string, eventDate *time.Time, imageURLs post.ImageURLList) (*post.Post, error) {
	p := &post.Post{
		ID:          uuid.New(),
		UserEmail:   author.Email,
		Description: description,
		ImageURLs:   imageURLs,
		EventDate:   eventDate,
		CreatedAt:   time.Now(),
	}

	authorID, err := uuid.Parse(author.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid author id %q: %w", author.ID, err)
	}
	p.UserID = authorID

	query := `
	INSERT INTO posts (id, user_id, user_email, description, image_urls, event_date, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = s.db.Exec(ctx, query,
		p.ID,
		p.UserID,
		p.UserEmail,
		p.Description,
		p.ImageURLs.Canonical(),
		p.EventDate,
		p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return p, nil
}

func (s *PostService) GetPost(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	p := &post.Post{}
	var rawURLs string
	err := s.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.UserID,
		&p.UserEmail,
		&p.Description,
		&rawURLs,
		&p.EventDate,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("post: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	p.ImageURLs = post.ParseImageURLs(rawURLs)

	return p, nil
}

// GetPostsByAuthorEmail backs the per-user profile page.
func (s *PostService) GetPostsByAuthorEmail(ctx context.Context, email string) ([]*post.Post, error) {
	query := `
	SELECT ` + postColumns + `
	FROM posts
	WHERE user_email = $1
	ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts for %s: %w", email, err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// UpdateDescription edits a post's description, matched on id and author so
// only the author's own posts are touched.
func (s *PostService) UpdateDescription(ctx context.Context, id uuid.UUID, authorEmail string, description string) error {
	query := `UPDATE posts SET description = $3 WHERE id = $1 AND user_email = $2`

	result, err := s.db.Exec(ctx, query, id, authorEmail, description)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("post: %w", ErrNotFound)
	}
	return nil
}

// DeletePost removes the row, then best-effort deletes the stored images.
// Storage failures after the row is gone are logged, not surfaced: the post
// is already unreachable and orphaned objects are harmless.
func (s *PostService) DeletePost(ctx context.Context, id uuid.UUID, authorEmail string) error {
	p, err := s.GetPost(ctx, id)
	if err != nil {
		return err
	}

	query := `DELETE FROM posts WHERE id = $1 AND user_email = $2`
	result, err := s.db.Exec(ctx, query, id, authorEmail)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("post: %w", ErrNotFound)
	}

	if s.storage != nil {
		for _, url := range p.ImageURLs {
			if err := s.storage.Delete(ctx, url); err != nil {
				log.Printf("DeletePost: failed to delete image %s: %v", url, err)
			}
		}
	}

	return nil
}

func scanPosts(rows pgx.Rows) ([]*post.Post, error) {
	posts := []*post.Post{}
	for rows.Next() {
		p := &post.Post{}
		var rawURLs string
		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.UserEmail,
			&p.Description,
			&rawURLs,
			&p.EventDate,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		p.ImageURLs = post.ParseImageURLs(rawURLs)
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return posts, nil
}
