// Package field carries the BN254 scalar field modulus and the reduction
// helper every other package in this module uses to turn an arbitrary
// big.Int into a valid scalar.
package field

import "math/big"

// Modulus is the scalar field of BN254 (and, equivalently, the base field of
// its twisted-Edwards companion, Baby Jubjub). Every Scalar value in this
// module lives in [0, Modulus).
var Modulus, _ = new(big.Int).SetString(
	"21888242871839275222246405745257275088548364400416034343698204186575808495617", 10)

// Reduce returns iv mod Modulus.
func Reduce(iv *big.Int) *big.Int {
	z := new(big.Int)
	if iv.Sign() >= 0 && iv.Cmp(Modulus) < 0 {
		return new(big.Int).Set(iv)
	}
	return z.Mod(iv, Modulus)
}

// Zero reports whether iv reduces to the additive identity.
func Zero(iv *big.Int) bool {
	return Reduce(iv).Sign() == 0
}
