package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		name  string
		value string
		token string
		ok    bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"empty", "", "", false},
		{"wrong scheme", "Token abc.def.ghi", "", false},
		{"lowercase scheme", "bearer abc.def.ghi", "", false},
		{"scheme only", "Bearer", "", false},
		{"basic", "Basic dXNlcjpwdw==", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, ok := BearerToken(tc.value)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.token, token)
		})
	}
}

func TestExtract(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, _, err := tm.Issue("user-42")
	require.NoError(t, err)

	t.Run("valid credential", func(t *testing.T) {
		ac := Extract("Bearer "+token, tm)
		assert.True(t, ac.Authenticated())
		assert.Equal(t, "user-42", ac.SubjectID)
	})

	t.Run("missing header skips token codec", func(t *testing.T) {
		ac := Extract("", tm)
		assert.False(t, ac.Authenticated())
		assert.ErrorIs(t, ac.Err, ErrMissingCredential)
	})

	t.Run("non-bearer scheme skips token codec", func(t *testing.T) {
		ac := Extract("Token "+token, tm)
		assert.ErrorIs(t, ac.Err, ErrMissingCredential)
	})

	t.Run("invalid token surfaces validation error", func(t *testing.T) {
		ac := Extract("Bearer not-a-token", tm)
		assert.False(t, ac.Authenticated())
		assert.ErrorIs(t, ac.Err, ErrTokenMalformed)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := issueExpired(t, tm)
		ac := Extract("Bearer "+expired, tm)
		assert.ErrorIs(t, ac.Err, ErrTokenExpired)
	})
}

func issueExpired(t *testing.T, tm *TokenManager) string {
	t.Helper()
	saved := tm.now
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := tm.Issue("user-42")
	tm.now = saved
	require.NoError(t, err)
	return token
}

func TestSubjectContext(t *testing.T) {
	_, ok := SubjectFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSubject(context.Background(), "user-42")
	subject, ok := SubjectFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-42", subject)

	_, ok = SubjectFromContext(WithSubject(context.Background(), ""))
	assert.False(t, ok, "empty subject must not count as authenticated")
}
