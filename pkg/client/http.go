package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// httpTransport implements the client over the HTTP API.
type httpTransport struct {
	baseURL string
	client  *http.Client
}

func newHTTPTransport(baseURL string) *httpTransport {
	return &httpTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *httpTransport) Register(ctx context.Context, username, email, password string) (*User, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var user User
	if err := t.do(ctx, http.MethodPost, "/api/public/auth/register", "", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (t *httpTransport) Login(ctx context.Context, email, password string) (*TokenGrant, error) {
	body := map[string]string{"email": email, "password": password}
	var grant TokenGrant
	if err := t.do(ctx, http.MethodPost, "/api/public/auth/login", "", body, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

func (t *httpTransport) CreatePost(ctx context.Context, token, title, content string) (*Post, error) {
	body := map[string]string{"title": title, "content": content}
	var post Post
	if err := t.do(ctx, http.MethodPost, "/api/protected/posts", token, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (t *httpTransport) GetPost(ctx context.Context, token, id string) (*Post, error) {
	var post Post
	if err := t.do(ctx, http.MethodGet, "/api/protected/posts/"+id, token, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (t *httpTransport) UpdatePost(ctx context.Context, token, id, title, content string) (*Post, error) {
	body := map[string]string{"title": title, "content": content}
	var post Post
	if err := t.do(ctx, http.MethodPut, "/api/protected/posts/"+id, token, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (t *httpTransport) DeletePost(ctx context.Context, token, id string) error {
	return t.do(ctx, http.MethodDelete, "/api/protected/posts/"+id, token, nil, nil)
}

func (t *httpTransport) ListPosts(ctx context.Context, token string, limit, offset int) ([]Post, error) {
	path := fmt.Sprintf("/api/protected/posts?limit=%d&offset=%d", limit, offset)
	var posts []Post
	if err := t.do(ctx, http.MethodGet, path, token, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (t *httpTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

// do issues one request. A non-nil token is attached with the Bearer scheme;
// error bodies are decoded into APIError.
func (t *httpTransport) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var failure struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil || failure.Error.Code == "" {
			return &APIError{Code: http.StatusText(resp.StatusCode), Message: resp.Status}
		}
		return &APIError{Code: failure.Error.Code, Message: failure.Error.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
