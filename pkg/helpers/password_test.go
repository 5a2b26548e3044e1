package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	assert.True(t, CompareHashAndPassword(hash, "s3cret!"))
	assert.False(t, CompareHashAndPassword(hash, "S3cret!"))
	assert.False(t, CompareHashAndPassword("not-a-hash", "s3cret!"))
}

func TestCompareDummyMatchesStoredCost(t *testing.T) {
	cost, err := bcrypt.Cost([]byte(dummyHash()))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)

	assert.False(t, CompareDummy("no-such-account"))
	assert.False(t, CompareDummy(""))
}

func TestObjectPathFromURL(t *testing.T) {
	url := PublicURL("meds", "medicines/abc.png")
	p, ok := ObjectPathFromURL("meds", url)
	assert.True(t, ok)
	assert.Equal(t, "medicines/abc.png", p)

	_, ok = ObjectPathFromURL("meds", "https://example.com/abc.png")
	assert.False(t, ok)
}
