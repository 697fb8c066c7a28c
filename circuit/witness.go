package circuit

import (
	"math/big"

	"github.com/grapevine-zk/grapevine/crypto/babyjub"
)

// Witness is the private input to one step of the folding relation. On a
// chaff step every field may be zero (see ZeroWitness): no enable-guarded
// sub-relation checks them. Fields must not be nil, since Apply hashes
// ProverPubKey and Assignment reads both signatures on every step.
type Witness struct {
	// RelationPubKey is the prior prover's public key (Ax, Ay).
	RelationPubKey [2]*big.Int
	// ProverPubKey is the current prover's public key (Ax, Ay).
	ProverPubKey [2]*big.Int
	// RelationNullifier is the nullifier the prior prover issued to the
	// current prover.
	RelationNullifier *big.Int
	// AuthSignature is the prior prover's EdDSA signature over
	// Poseidon(RelationNullifier, prover_addr).
	AuthSignature *babyjub.Signature
	// ScopeSignature is the current prover's EdDSA signature over the
	// scope address (identity step: over their own address).
	ScopeSignature *babyjub.Signature
}

// ZeroWitness returns a witness with every field set to the additive
// identity, suitable for a chaff step.
func ZeroWitness() Witness {
	zero := big.NewInt(0)
	return Witness{
		RelationPubKey:    [2]*big.Int{zero, zero},
		ProverPubKey:      [2]*big.Int{zero, zero},
		RelationNullifier: zero,
		AuthSignature:     &babyjub.Signature{R8x: zero, R8y: zero, S: zero},
		ScopeSignature:    &babyjub.Signature{R8x: zero, R8y: zero, S: zero},
	}
}
