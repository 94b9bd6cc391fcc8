package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	dErrors "carehub/pkg/domain-errors"
)

// Tests run at MinCost; the production cost is asserted separately.
func newTestHasher() *Hasher {
	return NewHasher(bcrypt.MinCost)
}

func TestHashAndVerify(t *testing.T) {
	h := newTestHasher()

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	ok, err := h.Verify("correct horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_Mismatch(t *testing.T) {
	h := newTestHasher()
	hash, err := h.Hash("correct horse")
	require.NoError(t, err)

	ok, err := h.Verify("battery staple", hash)
	require.NoError(t, err, "a wrong password is not an error")
	assert.False(t, ok)
}

func TestHash_FreshSaltPerCall(t *testing.T) {
	h := newTestHasher()

	first, err := h.Hash("same input")
	require.NoError(t, err)
	second, err := h.Hash("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	for _, hash := range []string{first, second} {
		ok, err := h.Verify("same input", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	h := newTestHasher()

	for _, hash := range []string{"", "not-a-hash", "$2a$10$short"} {
		ok, err := h.Verify("anything", hash)
		require.Error(t, err, "hash %q", hash)
		assert.False(t, ok)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeHashing))
	}
}

func TestHash_TooLong(t *testing.T) {
	_, err := newTestHasher().Hash(strings.Repeat("x", 73))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeHashing))
}

func TestNewHasher_Cost(t *testing.T) {
	assert.Equal(t, 12, DefaultCost)
	assert.Equal(t, DefaultCost, NewHasher(0).Cost())
	assert.Equal(t, DefaultCost, NewHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, 10, NewHasher(10).Cost())
}

func TestHash_UsesConfiguredCost(t *testing.T) {
	if testing.Short() {
		t.Skip("cost-12 hashing is slow")
	}
	hash, err := NewHasher(DefaultCost).Hash("pw123456")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)
}
