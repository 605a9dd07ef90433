package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher_VerifiesOwnHash(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(testParams())

	for _, pw := range []string{"secret1", "p@ss w0rd", "ünïcødé", "x"} {
		hashed, err := h.Hash(pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, hashed)
		assert.True(t, h.Verify(pw, hashed), "password %q should verify", pw)
	}
}

func TestPasswordHasher_RejectsOtherPassword(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(testParams())

	hashed, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.False(t, h.Verify("secret2", hashed))
	assert.False(t, h.Verify("", hashed))
}

func TestPasswordHasher_SaltsEachCall(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(testParams())

	a, err := h.Hash("secret1")
	require.NoError(t, err)
	b, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("secret1", a))
	assert.True(t, h.Verify("secret1", b))
}

func TestPasswordHasher_MalformedHashNeverMatches(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(testParams())

	assert.False(t, h.Verify("secret1", ""))
	assert.False(t, h.Verify("secret1", "secret1"))
	assert.False(t, h.Verify("secret1", "$2a$10$not-a-real-hash"))
}
