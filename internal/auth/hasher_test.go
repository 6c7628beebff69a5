package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Low-cost parameters keep the tests fast; verification reads parameters from
// the encoded hash, so they do not affect correctness.
func testHasher() *Hasher {
	return NewHasher(1, 1024, 2)
}

func TestHashAndVerify(t *testing.T) {
	h := testHasher()

	encoded, err := h.Hash("pw123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"), "hash should be PHC-encoded")

	assert.True(t, h.Verify("pw123", encoded), "correct password should verify")
	assert.False(t, h.Verify("pw124", encoded), "wrong password should not verify")
	assert.False(t, h.Verify("", encoded), "empty password should not verify")
}

func TestHashEmptyPassword(t *testing.T) {
	h := testHasher()

	_, err := h.Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestHashUsesFreshSalt(t *testing.T) {
	h := testHasher()

	first, err := h.Hash("pw123")
	require.NoError(t, err)
	second, err := h.Hash("pw123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "same password must hash differently per call")
	assert.True(t, h.Verify("pw123", first))
	assert.True(t, h.Verify("pw123", second))
}

func TestVerifyMalformedStoredHash(t *testing.T) {
	h := testHasher()

	cases := []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=1024,t=1,p=2$salt",
		"$argon2i$v=19$m=1024,t=1,p=2$c2FsdA$ZGlnZXN0",
		"$argon2id$v=19$m=bad,t=1,p=2$c2FsdA$ZGlnZXN0",
		"$argon2id$v=19$m=1024,t=1,p=2$!!!$ZGlnZXN0",
		"$argon2id$v=19$m=1024,t=1,p=2$c2FsdA$!!!",
	}
	for _, stored := range cases {
		assert.False(t, h.Verify("pw123", stored), "malformed hash %q must verify false", stored)
	}
}

func TestVerifyHashFromOtherParameters(t *testing.T) {
	// A hash produced under different parameters still verifies, since the
	// encoding is self-describing.
	slow := NewHasher(2, 2048, 1)
	encoded, err := slow.Hash("pw123")
	if err != nil {
		t.Fatal(err)
	}

	fast := testHasher()
	assert.True(t, fast.Verify("pw123", encoded))
	assert.False(t, fast.Verify("other", encoded))
}
