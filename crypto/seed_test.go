package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomSeed(t *testing.T) (seed string, hash string) {
	t.Helper()
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	require.NoError(t, err)

	seed = hex.EncodeToString(bytes)
	h := sha256.Sum256(bytes)
	hash = hex.EncodeToString(h[:])
	return
}

func TestVerifySeedRoundTrip(t *testing.T) {
	for i := 0; i < 20; i++ {
		seed, hash := randomSeed(t)
		require.NoError(t, VerifySeed(seed, hash))
	}
}

func TestVerifySeedCaseInsensitive(t *testing.T) {
	seed, hash := randomSeed(t)

	assert.NoError(t, VerifySeed(strings.ToUpper(seed), hash))
	assert.NoError(t, VerifySeed(seed, strings.ToUpper(hash)))
	assert.NoError(t, VerifySeed("0x"+seed, "0x"+hash))
}

func TestVerifySeedMismatch(t *testing.T) {
	seed, _ := randomSeed(t)
	_, otherHash := randomSeed(t)

	err := VerifySeed(seed, otherHash)
	require.Error(t, err)

	var mismatch *HashMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, otherHash, mismatch.Expected)

	computed, err := HashSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, computed, mismatch.Computed)
}

func TestHashSeedHashesDecodedBytes(t *testing.T) {
	// sha256 of the single byte 0x00, not of the text "00"
	got, err := HashSeed("00")
	require.NoError(t, err)
	assert.Equal(t, "6e340b9cffb37a989ca544e6bb780a2c78901d3fb33738768511a30617afa01d", got)
}

func TestDecodeSeedRejectsInvalidHex(t *testing.T) {
	cases := []struct {
		name string
		seed string
	}{
		{name: "odd length", seed: "abc"},
		{name: "non hex characters", seed: "zz11"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeSeed(tc.seed)
			assert.Error(t, err)

			err = VerifySeed(tc.seed, strings.Repeat("0", 64))
			assert.Error(t, err)
			var mismatch *HashMismatchError
			assert.False(t, errors.As(err, &mismatch))
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("report"))
	b := Fingerprint([]byte("rep"), []byte("ort"))

	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "0x"))
	assert.Len(t, a, 66)
	assert.NotEqual(t, a, Fingerprint([]byte("report!")))
}
