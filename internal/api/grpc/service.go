package grpc

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "blog.v1.BlogService"

// Full method names, used by the auth interceptor's protected set.
const (
	MethodRegister   = "/blog.v1.BlogService/Register"
	MethodLogin      = "/blog.v1.BlogService/Login"
	MethodCreatePost = "/blog.v1.BlogService/CreatePost"
	MethodGetPost    = "/blog.v1.BlogService/GetPost"
	MethodUpdatePost = "/blog.v1.BlogService/UpdatePost"
	MethodDeletePost = "/blog.v1.BlogService/DeletePost"
	MethodListPosts  = "/blog.v1.BlogService/ListPosts"
)

// BlogServiceServer is the server API for the blog service.
type BlogServiceServer interface {
	Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	CreatePost(ctx context.Context, req *CreatePostRequest) (*PostResponse, error)
	GetPost(ctx context.Context, req *GetPostRequest) (*PostResponse, error)
	UpdatePost(ctx context.Context, req *UpdatePostRequest) (*PostResponse, error)
	DeletePost(ctx context.Context, req *DeletePostRequest) (*Empty, error)
	ListPosts(ctx context.Context, req *ListPostsRequest) (*ListPostsResponse, error)
}

// BlogServer implements BlogServiceServer on top of the shared service layer.
// It reuses the exact services behind the HTTP handlers, so both transports
// make identical trust and business decisions.
type BlogServer struct {
	auth   *service.AuthService
	posts  *service.PostService
	logger *zap.Logger
}

// NewBlogServer constructs the server.
func NewBlogServer(authService *service.AuthService, postService *service.PostService, logger *zap.Logger) *BlogServer {
	return &BlogServer{auth: authService, posts: postService, logger: logger}
}

// Register creates a new user account.
func (s *BlogServer) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	user, err := s.auth.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("transport", "grpc"))
	return &RegisterResponse{User: toWireUser(user)}, nil
}

// Login authenticates and returns a session token.
func (s *BlogServer) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	token, expiresAt, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &LoginResponse{AccessToken: token, ExpiresAt: expiresAt}, nil
}

// CreatePost creates a post owned by the authenticated subject.
func (s *BlogServer) CreatePost(ctx context.Context, req *CreatePostRequest) (*PostResponse, error) {
	subjectID, err := callerSubject(ctx)
	if err != nil {
		return nil, err
	}
	post, err := s.posts.CreatePost(ctx, subjectID, service.PostInput{Title: req.Title, Content: req.Content})
	if err != nil {
		return nil, toStatus(err)
	}
	return &PostResponse{Post: toWirePost(post)}, nil
}

// GetPost returns a post by id.
func (s *BlogServer) GetPost(ctx context.Context, req *GetPostRequest) (*PostResponse, error) {
	if _, err := callerSubject(ctx); err != nil {
		return nil, err
	}
	post, err := s.posts.GetPost(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &PostResponse{Post: toWirePost(post)}, nil
}

// UpdatePost updates a post owned by the caller.
func (s *BlogServer) UpdatePost(ctx context.Context, req *UpdatePostRequest) (*PostResponse, error) {
	subjectID, err := callerSubject(ctx)
	if err != nil {
		return nil, err
	}
	post, err := s.posts.UpdatePost(ctx, subjectID, req.ID, service.PostInput{Title: req.Title, Content: req.Content})
	if err != nil {
		return nil, toStatus(err)
	}
	return &PostResponse{Post: toWirePost(post)}, nil
}

// DeletePost removes a post owned by the caller.
func (s *BlogServer) DeletePost(ctx context.Context, req *DeletePostRequest) (*Empty, error) {
	subjectID, err := callerSubject(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.posts.DeletePost(ctx, subjectID, req.ID); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

// ListPosts returns the caller's posts.
func (s *BlogServer) ListPosts(ctx context.Context, req *ListPostsRequest) (*ListPostsResponse, error) {
	subjectID, err := callerSubject(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.ListPosts(ctx, subjectID, req.Limit, req.Offset)
	if err != nil {
		return nil, toStatus(err)
	}
	wire := make([]Post, 0, len(posts))
	for i := range posts {
		wire = append(wire, *toWirePost(&posts[i]))
	}
	return &ListPostsResponse{Posts: wire}, nil
}

// callerSubject reads the subject attached by the auth interceptor.
func callerSubject(ctx context.Context) (string, error) {
	subjectID, ok := auth.SubjectFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "authentication required")
	}
	return subjectID, nil
}

// toStatus converts DomainError values to gRPC statuses.
func toStatus(err error) error {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return status.Error(domainErr.GRPCCode, domainErr.Message)
	}
	return status.Error(codes.Internal, "internal server error")
}

func toWireUser(user *domain.User) *User {
	return &User{ID: user.ID, Username: user.Username, Email: user.Email}
}

func toWirePost(post *domain.Post) *Post {
	return &Post{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Title:     post.Title,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

// RegisterBlogServiceServer registers the service with a gRPC server.
func RegisterBlogServiceServer(s grpc.ServiceRegistrar, srv BlogServiceServer) {
	s.RegisterService(&blogServiceDesc, srv)
}

var blogServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BlogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: registerHandler},
		{MethodName: "Login", Handler: loginHandler},
		{MethodName: "CreatePost", Handler: createPostHandler},
		{MethodName: "GetPost", Handler: getPostHandler},
		{MethodName: "UpdatePost", Handler: updatePostHandler},
		{MethodName: "DeletePost", Handler: deletePostHandler},
		{MethodName: "ListPosts", Handler: listPostsHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func registerHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RegisterRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BlogServiceServer).Register(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodRegister}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BlogServiceServer).Register(ctx, req.(*RegisterRequest))
	})
}

func loginHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(LoginRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BlogServiceServer).Login(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodLogin}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BlogServiceServer).Login(ctx, req.(*LoginRequest))
	})
}

func createPostHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CreatePostRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BlogServiceServer).CreatePost(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodCreatePost}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BlogServiceServer).CreatePost(ctx, req.(*CreatePostRequest))
	})
}

func getPostHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetPostRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BlogServiceServer).GetPost(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetPost}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BlogServiceServer).GetPost(ctx, req.(*GetPostRequest))
	})
}

func updatePostHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UpdatePostRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BlogServiceServer).UpdatePost(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodUpdatePost}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BlogServiceServer).UpdatePost(ctx, req.(*UpdatePostRequest))
	})
}

func deletePostHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DeletePostRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BlogServiceServer).DeletePost(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodDeletePost}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BlogServiceServer).DeletePost(ctx, req.(*DeletePostRequest))
	})
}

func listPostsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListPostsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BlogServiceServer).ListPosts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodListPosts}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BlogServiceServer).ListPosts(ctx, req.(*ListPostsRequest))
	})
}
