// Package poseidon wraps iden3's Poseidon permutation with the fixed-arity
// helpers the protocol's hash relations need (2-wide addresses, nullifiers
// and auth messages, 6-wide phrase hashing, and a 3-wide variant), plus the
// unbounded variant for anything wider.
package poseidon

import (
	"math/big"

	iden3poseidon "github.com/iden3/go-iden3-crypto/poseidon"

	"github.com/grapevine-zk/grapevine/crypto/hash/poseidon"
)

// Hash2 hashes exactly two field elements, the shape used for
// Poseidon(authSecret_issuer, addr_recipient) nullifiers.
func Hash2(a, b *big.Int) (*big.Int, error) {
	return iden3poseidon.Hash([]*big.Int{a, b})
}

// Hash3 hashes exactly three field elements.
func Hash3(a, b, c *big.Int) (*big.Int, error) {
	return iden3poseidon.Hash([]*big.Int{a, b, c})
}

// Hash6 hashes exactly six field elements, the shape used for phrase
// commitments.
func Hash6(inputs [6]*big.Int) (*big.Int, error) {
	return iden3poseidon.Hash(inputs[:])
}

// HashAny hashes an arbitrary-width input vector through MultiPoseidon:
// above 16 elements it hashes each 16-element chunk and then hashes the
// chunk hashes.
func HashAny(inputs ...*big.Int) (*big.Int, error) {
	return poseidon.MultiPoseidon(inputs...)
}
