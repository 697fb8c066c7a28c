package circuit

import (
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/twistededwards"
	"github.com/consensys/gnark/std/hash/poseidon"
)

// StepCircuit is the gnark circuit asserting the per-step relation over
// the Baby Jubjub curve native to BN254. StepIn and StepOut are the public
// StepState vectors; the remaining fields are the private witness.
type StepCircuit struct {
	StepIn  [Width]frontend.Variable `gnark:",public"`
	StepOut [Width]frontend.Variable `gnark:",public"`

	RelationPubKey    [2]frontend.Variable
	ProverPubKey      [2]frontend.Variable
	RelationNullifier frontend.Variable
	AuthSignature     [3]frontend.Variable // R8x, R8y, S
	ScopeSignature    [3]frontend.Variable // R8x, R8y, S
}

// Define implements frontend.Circuit.
func (c *StepCircuit) Define(api frontend.API) error {
	curve, err := twistededwards.NewEdCurve(api, ecc.BN254.ScalarField())
	if err != nil {
		return err
	}

	obfuscate := c.StepIn[0]
	scope := c.StepIn[2]
	degree := c.StepIn[1]

	api.AssertIsBoolean(obfuscate)

	notObfuscate := api.Sub(1, obfuscate)
	scopeIsZero := api.IsZero(scope)
	isIdentityStep := api.Mul(scopeIsZero, notObfuscate)
	isDegreeStep := api.Mul(api.Sub(1, scopeIsZero), notObfuscate)

	// input validation: every step_in[i] must be zero on an identity step.
	for i := 0; i < Width; i++ {
		FrontendAssertZeroWhen(api, isIdentityStep, c.StepIn[i])
	}
	// input validation: degree <= MaxDegree on a degree step.
	withinBound := rangeCheckLE(api, degree, MaxDegree)
	api.AssertIsEqual(api.Mul(isDegreeStep, api.Sub(1, withinBound)), 0)

	proverAddr := poseidon.Poseidon(api, c.ProverPubKey[0], c.ProverPubKey[1])
	relationAddr := poseidon.Poseidon(api, c.RelationPubKey[0], c.RelationPubKey[1])

	// relation-pubkey binding: only enforced on a degree step.
	bindingDiff := api.Sub(relationAddr, c.StepIn[3])
	api.AssertIsEqual(api.Mul(isDegreeStep, bindingDiff), 0)

	// scope signature: message is prover_addr on identity, scope on degree;
	// gated "when NOT obfuscate" (both identity and degree steps).
	scopeMsg := api.Select(isDegreeStep, scope, proverAddr)
	scopePK := EdDSAPublicKey{A: twistededwards.Point{X: c.ProverPubKey[0], Y: c.ProverPubKey[1]}, Curve: curve}
	scopeSig := EdDSASignature{
		R: twistededwards.Point{X: c.ScopeSignature[0], Y: c.ScopeSignature[1]},
		S: c.ScopeSignature[2],
	}
	AssertEdDSAWhen(api, notObfuscate, scopeSig, scopeMsg, scopePK)

	// auth signature: gated "when is_degree_step".
	authMsg := poseidon.Poseidon(api, c.RelationNullifier, proverAddr)
	relationPK := EdDSAPublicKey{A: twistededwards.Point{X: c.RelationPubKey[0], Y: c.RelationPubKey[1]}, Curve: curve}
	authSig := EdDSASignature{
		R: twistededwards.Point{X: c.AuthSignature[0], Y: c.AuthSignature[1]},
		S: c.AuthSignature[2],
	}
	AssertEdDSAWhen(api, isDegreeStep, authSig, authMsg, relationPK)

	// Output marshalling.
	api.AssertIsEqual(c.StepOut[0], notObfuscate)

	degreeStepIncrement := isDegreeStep
	api.AssertIsEqual(c.StepOut[1], api.Add(degree, degreeStepIncrement))

	api.AssertIsEqual(c.StepOut[2], api.Select(isIdentityStep, proverAddr, scope))

	api.AssertIsEqual(c.StepOut[3], api.Select(notObfuscate, proverAddr, c.StepIn[3]))

	for i := 0; i < NullifierSlots; i++ {
		atSlot := api.IsZero(api.Sub(degree, i))
		writeThisSlot := api.Mul(isDegreeStep, atSlot)
		api.AssertIsEqual(c.StepOut[4+i], api.Select(writeThisSlot, c.RelationNullifier, c.StepIn[4+i]))
	}

	return nil
}

// rangeCheckLE returns 1 if v <= bound (as a small constant), 0 otherwise,
// implemented by exhaustive equality checks since bound is tiny (MaxDegree).
func rangeCheckLE(api frontend.API, v frontend.Variable, bound int) frontend.Variable {
	acc := frontend.Variable(0)
	for i := 0; i <= bound; i++ {
		acc = api.Add(acc, api.IsZero(api.Sub(v, i)))
	}
	return acc
}

// FrontendAssertZeroWhen asserts v == 0 whenever gate == 1; it is a no-op
// constraint when gate == 0.
func FrontendAssertZeroWhen(api frontend.API, gate, v frontend.Variable) {
	api.AssertIsEqual(api.Mul(gate, v), 0)
}
