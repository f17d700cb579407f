package crypto

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Fingerprint returns the 0x-prefixed Keccak-256 of the concatenated inputs.
// Stored audit reports are sealed with it so later edits are detectable.
func Fingerprint(data ...[]byte) string {
	return hexutil.Encode(ethcrypto.Keccak256(data...))
}
