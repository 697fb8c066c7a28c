package circuit

import (
	"math/big"

	"github.com/grapevine-zk/grapevine/crypto/babyjub"
	"github.com/grapevine-zk/grapevine/crypto/field"
	"github.com/grapevine-zk/grapevine/crypto/poseidon"
	"github.com/grapevine-zk/grapevine/grapevineerrors"
)

// Apply evaluates the per-step relation natively (outside the circuit),
// checking every sub-relation this step's type enables and producing the
// next StepState via the output-marshalling rules. The IVC driver calls
// this once per step to compute new_state alongside synthesizing the
// matching in-circuit proof.
func Apply(stepIn StepState, w Witness) (StepState, error) {
	if stepIn.Obfuscate().Cmp(big.NewInt(0)) != 0 && stepIn.Obfuscate().Cmp(big.NewInt(1)) != 0 {
		return StepState{}, grapevineerrors.MalformedInputf("step_in[0] obfuscate flag must be 0 or 1")
	}
	obfuscate := stepIn.Obfuscate().Sign() != 0

	kind := Classify(stepIn)

	switch kind {
	case KindIdentity:
		if !stepIn.IsZero() {
			return StepState{}, grapevineerrors.ConstraintViolationf("identity step requires an all-zero input state")
		}
	case KindDegree:
		if stepIn.Degree().Cmp(big.NewInt(MaxDegree)) > 0 {
			return StepState{}, grapevineerrors.MalformedInputf("degree %s exceeds maximum %d", stepIn.Degree(), MaxDegree)
		}
	}

	proverAddr, err := poseidon.Hash2(w.ProverPubKey[0], w.ProverPubKey[1])
	if err != nil {
		return StepState{}, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "hash prover address")
	}

	if kind == KindDegree {
		relationAddr, err := poseidon.Hash2(w.RelationPubKey[0], w.RelationPubKey[1])
		if err != nil {
			return StepState{}, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "hash relation address")
		}
		if relationAddr.Cmp(stepIn.Relation()) != 0 {
			return StepState{}, grapevineerrors.ConstraintViolationf("relation public key does not bind to step_in[3]")
		}
	}

	if kind != KindChaff {
		scopeMsg := stepIn.Scope()
		if kind == KindIdentity {
			scopeMsg = proverAddr
		}
		proverPK := &babyjub.PublicKey{X: w.ProverPubKey[0], Y: w.ProverPubKey[1]}
		if !babyjub.Verify(proverPK, scopeMsg, w.ScopeSignature) {
			return StepState{}, grapevineerrors.ConstraintViolationf("scope signature does not verify")
		}
	}

	if kind == KindDegree {
		authMsg, err := poseidon.Hash2(w.RelationNullifier, proverAddr)
		if err != nil {
			return StepState{}, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "hash auth message")
		}
		relationPK := &babyjub.PublicKey{X: w.RelationPubKey[0], Y: w.RelationPubKey[1]}
		if !babyjub.Verify(relationPK, authMsg, w.AuthSignature) {
			return StepState{}, grapevineerrors.ConstraintViolationf("auth signature does not verify")
		}
	}

	out := stepIn.Clone()

	if obfuscate {
		out[0] = big.NewInt(0)
	} else {
		out[0] = big.NewInt(1)
	}

	if kind == KindDegree {
		out[1] = field.Reduce(new(big.Int).Add(stepIn.Degree(), big.NewInt(1)))
	}

	if kind == KindIdentity {
		out[2] = proverAddr
	}

	if !obfuscate {
		out[3] = proverAddr
	}

	if kind == KindDegree {
		slot := int(stepIn.Degree().Int64())
		if slot < 0 || slot >= NullifierSlots {
			return StepState{}, grapevineerrors.MalformedInputf("degree %d out of nullifier slot range", slot)
		}
		out[4+slot] = new(big.Int).Set(w.RelationNullifier)
	}

	return out, nil
}
