package grpc

import (
	"context"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/spec-kit/blog-service/internal/auth"
)

const testSecret = "interceptor-test-secret"

func signExpiredToken(t *testing.T) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "user-42",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func callInterceptor(t *testing.T, method, header string, invoked *bool, gotSubject *string) error {
	t.Helper()
	tm := auth.NewTokenManager(testSecret, time.Hour)
	interceptor := UnaryAuthInterceptor(tm, zap.NewNop())

	ctx := context.Background()
	if header != "" {
		ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", header))
	}

	handler := func(ctx context.Context, req any) (any, error) {
		*invoked = true
		if subject, ok := auth.SubjectFromContext(ctx); ok && gotSubject != nil {
			*gotSubject = subject
		}
		return &Empty{}, nil
	}
	_, err := interceptor(ctx, &Empty{}, &grpc.UnaryServerInfo{FullMethod: method}, handler)
	return err
}

func TestInterceptorRejectsProtectedMethod(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"no metadata", ""},
		{"wrong scheme", "Token abc"},
		{"malformed token", "Bearer not-a-token"},
		{"expired token", "Bearer " + signExpiredToken(t)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			invoked := false
			err := callInterceptor(t, MethodCreatePost, tc.header, &invoked, nil)

			require.Error(t, err)
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, codes.Unauthenticated, st.Code())
			assert.Equal(t, "authentication required", st.Message())
			assert.False(t, invoked, "handler must not run for rejected calls")
		})
	}
}

func TestInterceptorAdmitsValidToken(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, time.Hour)
	token, _, err := tm.Issue("user-42")
	require.NoError(t, err)

	invoked := false
	var subject string
	err = callInterceptor(t, MethodGetPost, "Bearer "+token, &invoked, &subject)

	require.NoError(t, err)
	assert.True(t, invoked)
	assert.Equal(t, "user-42", subject, "subject must reach the handler context")
}

func TestInterceptorSkipsPublicMethods(t *testing.T) {
	for _, method := range []string{MethodRegister, MethodLogin} {
		invoked := false
		err := callInterceptor(t, method, "", &invoked, nil)

		require.NoError(t, err, "public method %s must not require a token", method)
		assert.True(t, invoked)
	}
}
