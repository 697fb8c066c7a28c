// Package circuit implements the per-step folding relation: the 12-scalar
// public StepState, the private per-step witness, the native ("out of
// circuit") evaluation of the relation used by the IVC driver to compute
// the next state, and the matching gnark circuit that proves it.
package circuit

import (
	"encoding/json"
	"math/big"

	"github.com/grapevine-zk/grapevine/grapevineerrors"
	"github.com/grapevine-zk/grapevine/types"
)

// Width is the number of scalars in a StepState.
const Width = 12

// NullifierSlots is the number of nullifier slots, StepState[4:12].
const NullifierSlots = 8

// MaxDegree is the highest degree of separation a StepState may reach.
const MaxDegree = 8

// StepState is the IVC's 12-scalar public state vector: obfuscate, degree,
// scope, relation, and eight nullifier slots.
type StepState [Width]*big.Int

// ZeroState returns the all-zero initial state.
func ZeroState() StepState {
	var s StepState
	for i := range s {
		s[i] = big.NewInt(0)
	}
	return s
}

// Obfuscate returns StepState[0].
func (s StepState) Obfuscate() *big.Int { return s[0] }

// Degree returns StepState[1].
func (s StepState) Degree() *big.Int { return s[1] }

// Scope returns StepState[2].
func (s StepState) Scope() *big.Int { return s[2] }

// Relation returns StepState[3].
func (s StepState) Relation() *big.Int { return s[3] }

// Nullifier returns slot i of StepState[4:12].
func (s StepState) Nullifier(i int) *big.Int { return s[4+i] }

// IsZero reports whether every scalar in the state is zero, the condition
// required of an identity step's input.
func (s StepState) IsZero() bool {
	for _, v := range s {
		if v.Sign() != 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of s.
func (s StepState) Clone() StepState {
	var out StepState
	for i, v := range s {
		out[i] = new(big.Int).Set(v)
	}
	return out
}

// Equal reports whether s and other hold the same twelve scalars.
func (s StepState) Equal(other StepState) bool {
	for i := range s {
		if s[i].Cmp(other[i]) != 0 {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the state as twelve decimal strings.
func (s StepState) MarshalJSON() ([]byte, error) {
	strs := make([]types.BigInt, Width)
	for i, v := range s {
		strs[i] = types.BigInt(*v)
	}
	return json.Marshal(strs)
}

// UnmarshalJSON decodes twelve decimal strings into s.
func (s *StepState) UnmarshalJSON(data []byte) error {
	var strs []types.BigInt
	if err := json.Unmarshal(data, &strs); err != nil {
		return err
	}
	if len(strs) != Width {
		return grapevineerrors.MalformedInputf("step state must have %d scalars, got %d", Width, len(strs))
	}
	for i := range strs {
		s[i] = strs[i].MathBigInt()
	}
	return nil
}

// StepKind classifies a step purely from its input state.
type StepKind int

const (
	// KindIdentity is the very first step for a phrase: scope is zero and
	// the step is not a chaff.
	KindIdentity StepKind = iota
	// KindDegree extends an existing chain by one hop.
	KindDegree
	// KindChaff is a no-op obfuscation step.
	KindChaff
)

// Classify returns the StepKind of stepIn. A step is chaff whenever its
// input obfuscate flag is already 1 — the flag alternates every step, so
// whether a given call is "the chaff one" is entirely determined by the
// state it is fed, never chosen independently by the caller.
func Classify(stepIn StepState) StepKind {
	if stepIn.Obfuscate().Sign() != 0 {
		return KindChaff
	}
	if stepIn.Scope().Sign() == 0 {
		return KindIdentity
	}
	return KindDegree
}
