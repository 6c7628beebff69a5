package grpc

import "time"

// Wire messages for blog.v1.BlogService, serialized by the JSON codec.

// User describes a registered identity on the wire.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Post describes a blog post on the wire.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterRequest carries registration credentials.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse returns the created identity.
type RegisterResponse struct {
	User *User `json:"user"`
}

// LoginRequest carries login credentials. Email is the login identifier.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the session token.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// CreatePostRequest carries a new post.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GetPostRequest identifies a post.
type GetPostRequest struct {
	ID string `json:"id"`
}

// UpdatePostRequest carries post changes.
type UpdatePostRequest struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DeletePostRequest identifies a post to remove.
type DeletePostRequest struct {
	ID string `json:"id"`
}

// ListPostsRequest pages through the caller's posts.
type ListPostsRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ListPostsResponse returns a page of posts.
type ListPostsResponse struct {
	Posts []Post `json:"posts"`
}

// PostResponse wraps a single post.
type PostResponse struct {
	Post *Post `json:"post"`
}

// Empty is the empty response.
type Empty struct{}
