package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// HashMismatchError reports a revealed seed whose digest differs from the
// published commitment.
type HashMismatchError struct {
	Expected string
	Computed string
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("seed hash mismatch: expected %s, computed %s", e.Expected, e.Computed)
}

// DecodeSeed hex-decodes a revealed seed. A leading 0x is accepted.
func DecodeSeed(seedHex string) ([]byte, error) {
	s := strings.TrimSpace(seedHex)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	bytes, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid seed hex %q: %w", seedHex, err)
	}
	return bytes, nil
}

// HashSeed returns the lowercase hex SHA-256 of the decoded seed bytes.
func HashSeed(seedHex string) (string, error) {
	bytes, err := DecodeSeed(seedHex)
	if err != nil {
		return "", err
	}
	return hashBytes(bytes), nil
}

// VerifySeed checks that the revealed seed hashes to the published
// commitment. It returns *HashMismatchError when the digests differ.
func VerifySeed(seedHex, seedHash string) error {
	computed, err := HashSeed(seedHex)
	if err != nil {
		return err
	}
	if !strings.EqualFold(computed, normalizeHash(seedHash)) {
		return &HashMismatchError{Expected: seedHash, Computed: computed}
	}
	return nil
}

func hashBytes(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

func normalizeHash(h string) string {
	h = strings.TrimSpace(h)
	h = strings.TrimPrefix(h, "0x")
	return strings.TrimPrefix(h, "0X")
}
