package client

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const grpcCodecName = "json"

func init() {
	encoding.RegisterCodec(grpcJSONCodec{})
}

// grpcJSONCodec mirrors the server-side JSON codec.
type grpcJSONCodec struct{}

func (grpcJSONCodec) Marshal(v interface{}) ([]byte, error)    { return json.Marshal(v) }
func (grpcJSONCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }
func (grpcJSONCodec) Name() string                              { return grpcCodecName }

// grpcTransport implements the client over the gRPC API. The bearer token
// rides in the `authorization` metadata entry.
type grpcTransport struct {
	conn *grpc.ClientConn
}

func newGRPCTransport(addr string) (*grpcTransport, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(grpcCodecName)),
	)
	if err != nil {
		return nil, err
	}
	return &grpcTransport{conn: conn}, nil
}

type grpcRegisterResponse struct {
	User *User `json:"user"`
}

type grpcPostResponse struct {
	Post *Post `json:"post"`
}

type grpcListPostsResponse struct {
	Posts []Post `json:"posts"`
}

func (t *grpcTransport) Register(ctx context.Context, username, email, password string) (*User, error) {
	in := map[string]string{"username": username, "email": email, "password": password}
	var out grpcRegisterResponse
	if err := t.invoke(ctx, "/blog.v1.BlogService/Register", "", in, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (t *grpcTransport) Login(ctx context.Context, email, password string) (*TokenGrant, error) {
	in := map[string]string{"email": email, "password": password}
	var grant TokenGrant
	if err := t.invoke(ctx, "/blog.v1.BlogService/Login", "", in, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

func (t *grpcTransport) CreatePost(ctx context.Context, token, title, content string) (*Post, error) {
	in := map[string]string{"title": title, "content": content}
	var out grpcPostResponse
	if err := t.invoke(ctx, "/blog.v1.BlogService/CreatePost", token, in, &out); err != nil {
		return nil, err
	}
	return out.Post, nil
}

func (t *grpcTransport) GetPost(ctx context.Context, token, id string) (*Post, error) {
	in := map[string]string{"id": id}
	var out grpcPostResponse
	if err := t.invoke(ctx, "/blog.v1.BlogService/GetPost", token, in, &out); err != nil {
		return nil, err
	}
	return out.Post, nil
}

func (t *grpcTransport) UpdatePost(ctx context.Context, token, id, title, content string) (*Post, error) {
	in := map[string]string{"id": id, "title": title, "content": content}
	var out grpcPostResponse
	if err := t.invoke(ctx, "/blog.v1.BlogService/UpdatePost", token, in, &out); err != nil {
		return nil, err
	}
	return out.Post, nil
}

func (t *grpcTransport) DeletePost(ctx context.Context, token, id string) error {
	in := map[string]string{"id": id}
	var out struct{}
	return t.invoke(ctx, "/blog.v1.BlogService/DeletePost", token, in, &out)
}

func (t *grpcTransport) ListPosts(ctx context.Context, token string, limit, offset int) ([]Post, error) {
	in := map[string]int{"limit": limit, "offset": offset}
	var out grpcListPostsResponse
	if err := t.invoke(ctx, "/blog.v1.BlogService/ListPosts", token, in, &out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

func (t *grpcTransport) Close() error {
	return t.conn.Close()
}

func (t *grpcTransport) invoke(ctx context.Context, method, token string, in, out any) error {
	if token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	}
	if err := t.conn.Invoke(ctx, method, in, out); err != nil {
		if st, ok := status.FromError(err); ok {
			return &APIError{Code: st.Code().String(), Message: st.Message()}
		}
		return err
	}
	return nil
}
