// Package client is the native SDK for the blog service. It speaks either
// transport behind one API: the same operations, the same bearer-token
// convention, over HTTP or gRPC.
package client

import (
	"context"
	"time"
)

// transport abstracts the wire protocol behind the client API.
type transport interface {
	Register(ctx context.Context, username, email, password string) (*User, error)
	Login(ctx context.Context, email, password string) (*TokenGrant, error)
	CreatePost(ctx context.Context, token, title, content string) (*Post, error)
	GetPost(ctx context.Context, token, id string) (*Post, error)
	UpdatePost(ctx context.Context, token, id, title, content string) (*Post, error)
	DeletePost(ctx context.Context, token, id string) error
	ListPosts(ctx context.Context, token string, limit, offset int) ([]Post, error)
	Close() error
}

// BlogClient is the blog API client. It holds an optional session token that
// is attached to every protected call.
type BlogClient struct {
	transport transport
	token     string
}

// NewHTTP builds a client over the HTTP transport.
func NewHTTP(baseURL string) *BlogClient {
	return &BlogClient{transport: newHTTPTransport(baseURL)}
}

// NewGRPC builds a client over the gRPC transport.
func NewGRPC(addr string) (*BlogClient, error) {
	t, err := newGRPCTransport(addr)
	if err != nil {
		return nil, err
	}
	return &BlogClient{transport: t}, nil
}

// SetToken installs a previously obtained session token.
func (c *BlogClient) SetToken(token string) {
	c.token = token
}

// Token returns the current session token, if any.
func (c *BlogClient) Token() string {
	return c.token
}

// Logout discards the session token. Tokens are stateless, so there is no
// server call; the token simply expires on its own.
func (c *BlogClient) Logout() {
	c.token = ""
}

// Register creates a new account. No token is issued; call Login next.
func (c *BlogClient) Register(ctx context.Context, username, email, password string) (*User, error) {
	return c.transport.Register(ctx, username, email, password)
}

// Login authenticates by email and stores the returned token on the client.
func (c *BlogClient) Login(ctx context.Context, email, password string) (time.Time, error) {
	grant, err := c.transport.Login(ctx, email, password)
	if err != nil {
		return time.Time{}, err
	}
	c.token = grant.AccessToken
	return grant.ExpiresAt, nil
}

// CreatePost creates a post owned by the logged-in user.
func (c *BlogClient) CreatePost(ctx context.Context, title, content string) (*Post, error) {
	return c.transport.CreatePost(ctx, c.token, title, content)
}

// GetPost fetches a post by id.
func (c *BlogClient) GetPost(ctx context.Context, id string) (*Post, error) {
	return c.transport.GetPost(ctx, c.token, id)
}

// UpdatePost updates a post owned by the logged-in user.
func (c *BlogClient) UpdatePost(ctx context.Context, id, title, content string) (*Post, error) {
	return c.transport.UpdatePost(ctx, c.token, id, title, content)
}

// DeletePost removes a post owned by the logged-in user.
func (c *BlogClient) DeletePost(ctx context.Context, id string) error {
	return c.transport.DeletePost(ctx, c.token, id)
}

// ListPosts pages through the logged-in user's posts.
func (c *BlogClient) ListPosts(ctx context.Context, limit, offset int) ([]Post, error) {
	return c.transport.ListPosts(ctx, c.token, limit, offset)
}

// Close releases transport resources.
func (c *BlogClient) Close() error {
	return c.transport.Close()
}
