// Package ivc drives the recursive folding of step proofs into a growing
// attestation, and manages the artifacts a step's circuit needs to run.
//
// gnark has no constant-size folding scheme of the Nova family: composing
// proofs here means one circuit verifying another, and a circuit can only
// verify a proof natively when the prover's curve embeds in the verifier's.
// StepCircuit runs on BN254, chosen for its native Baby Jubjub arithmetic.
// WrapCircuit runs on BLS12-377 and verifies a BN254 proof through the
// emulated verifier gadget, exactly as the vote circuit verifies a BN254
// ballot proof. The result is a chain of wrap proofs, one per step, rather
// than a single constant-size accumulator; ivc_verify walks the chain.
package ivc

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/emulated/sw_bn254"
	stdgroth16 "github.com/consensys/gnark/std/recursion/groth16"
)

// WrapCircuit verifies, inside a BLS12-377 circuit, that a BN254
// StepCircuit proof is valid for the given public step state transition.
type WrapCircuit struct {
	StepProof        stdgroth16.Proof[sw_bn254.G1Affine, sw_bn254.G2Affine]
	StepVerifyingKey stdgroth16.VerifyingKey[sw_bn254.G1Affine, sw_bn254.G2Affine, sw_bn254.GTEl] `gnark:"-"`
	StepPublicInputs stdgroth16.Witness[sw_bn254.ScalarField] `gnark:",public"`
}

// Define implements frontend.Circuit.
func (c *WrapCircuit) Define(api frontend.API) error {
	verifier, err := stdgroth16.NewVerifier[sw_bn254.ScalarField, sw_bn254.G1Affine, sw_bn254.G2Affine, sw_bn254.GTEl](api)
	if err != nil {
		return err
	}
	return verifier.AssertProof(c.StepVerifyingKey, c.StepProof, c.StepPublicInputs)
}
