package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrMissingCredential signals an absent Authorization value or a scheme
// other than Bearer. It is reported without invoking the token codec.
var ErrMissingCredential = errors.New("auth: missing bearer credential")

// bearerPrefix is matched case-sensitively, as clients are expected to send
// the literal scheme.
const bearerPrefix = "Bearer "

// AuthContext is the request-scoped outcome of credential extraction: either
// an authenticated subject or a rejection reason. It never outlives the
// request that produced it.
type AuthContext struct {
	SubjectID string
	Err       error
}

// Authenticated reports whether extraction produced a trusted subject.
func (a AuthContext) Authenticated() bool {
	return a.Err == nil
}

// BearerToken strips the Bearer scheme from a raw Authorization value.
func BearerToken(value string) (string, bool) {
	if !strings.HasPrefix(value, bearerPrefix) {
		return "", false
	}
	return value[len(bearerPrefix):], true
}

// Extract turns a raw Authorization value into an AuthContext. Both the HTTP
// middleware and the gRPC interceptor call this with their transport's header
// value, so the trust decision is identical regardless of transport.
func Extract(value string, tokens *TokenManager) AuthContext {
	token, ok := BearerToken(value)
	if !ok {
		return AuthContext{Err: ErrMissingCredential}
	}
	subjectID, err := tokens.Validate(token)
	if err != nil {
		return AuthContext{Err: err}
	}
	return AuthContext{SubjectID: subjectID}
}

type contextKey string

const subjectContextKey contextKey = "auth_subject"

// WithSubject stores the authenticated subject id in the context.
func WithSubject(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, subjectContextKey, subjectID)
}

// SubjectFromContext retrieves the authenticated subject id, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subjectID, ok := ctx.Value(subjectContextKey).(string)
	return subjectID, ok && subjectID != ""
}
