package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// PostService coordinates post workflows. Mutations are scoped to the
// authenticated author; reads require authentication only.
type PostService struct {
	posts repository.PostRepository
}

// PostInput describes post creation/update payload.
type PostInput struct {
	Title   string
	Content string
}

// NewPostService constructs the service.
func NewPostService(posts repository.PostRepository) *PostService {
	return &PostService{posts: posts}
}

// CreatePost creates a post owned by the authenticated subject.
func (s *PostService) CreatePost(ctx context.Context, authorID string, input PostInput) (*domain.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	post := &domain.Post{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		Title:    title,
		Content:  input.Content,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return post, nil
}

// GetPost returns a post by id.
func (s *PostService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("post", map[string]any{"id": id})
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return post, nil
}

// UpdatePost updates a post owned by the caller.
func (s *PostService) UpdatePost(ctx context.Context, authorID, id string, input PostInput) (*domain.Post, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != authorID {
		return nil, apperrors.NewForbidden("post belongs to another author")
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		post.Title = title
	}
	if input.Content != "" {
		post.Content = input.Content
	}

	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("post", map[string]any{"id": id})
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return post, nil
}

// DeletePost removes a post owned by the caller.
func (s *PostService) DeletePost(ctx context.Context, authorID, id string) error {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != authorID {
		return apperrors.NewForbidden("post belongs to another author")
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("post", map[string]any{"id": id})
		}
		return apperrors.NewStoreUnavailable(err)
	}
	return nil
}

// ListPosts returns the caller's posts, newest first.
func (s *PostService) ListPosts(ctx context.Context, authorID string, limit, offset int) ([]domain.Post, error) {
	posts, err := s.posts.ListByAuthor(ctx, authorID, limit, offset)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return posts, nil
}
