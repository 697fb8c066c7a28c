package ivc

import (
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/emulated/sw_bn254"
	stdgroth16 "github.com/consensys/gnark/std/recursion/groth16"

	"github.com/grapevine-zk/grapevine/circuit"
	"github.com/grapevine-zk/grapevine/grapevineerrors"
	"github.com/grapevine-zk/grapevine/log"
)

// StepProof is one link in a FoldedProof's chain: the wrap proof attesting
// that a single step of the relation was applied correctly, together with
// the state the step transitioned from and to.
type StepProof struct {
	StepIn         circuit.StepState
	StepOut        circuit.StepState
	Wrap           groth16.Proof
	WrapPublicVals witness.Witness
}

// FoldedProof is the accumulating attestation a prover extends one step at
// a time. State is the current public StepState; Chain holds every step's
// wrap proof, oldest first, so ivc_verify can walk the whole derivation.
type FoldedProof struct {
	State circuit.StepState
	Chain []StepProof
}

// Init returns the zero-state FoldedProof a phrase-root attestation starts
// from, corresponding to ivc_init.
func Init() *FoldedProof {
	return &FoldedProof{State: circuit.ZeroState()}
}

// Step runs one fold: it evaluates the relation natively to get the next
// state, proves the step circuit for that transition, wraps the step proof
// in the recursion circuit, and appends the result to the chain. This is
// ivc_step; the driver never takes an explicit step-kind argument because
// StepCircuit derives it entirely from prior.State.
func Step(params *PublicParams, prior *FoldedProof, w circuit.Witness) (*FoldedProof, error) {
	stepIn := prior.State
	stepOut, err := circuit.Apply(stepIn, w)
	if err != nil {
		return nil, err
	}

	assignment := circuit.Assignment(stepIn, stepOut, w)
	fullWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "build step witness")
	}
	stepProof, err := groth16.Prove(params.StepCcs, params.StepPK, fullWitness)
	if err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "prove step circuit")
	}
	publicWitness, err := fullWitness.Public()
	if err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "extract public step witness")
	}
	if err := groth16.Verify(stepProof, params.StepVK, publicWitness); err != nil {
		return nil, grapevineerrors.VerificationFailuref("newly generated step proof failed self-check: %v", err)
	}

	wrapProof, wrapPublicVals, err := proveWrap(params, publicWitness, stepProof)
	if err != nil {
		return nil, err
	}

	next := &FoldedProof{
		State: stepOut,
		Chain: append(append([]StepProof(nil), prior.Chain...), StepProof{
			StepIn:         stepIn,
			StepOut:        stepOut,
			Wrap:           wrapProof,
			WrapPublicVals: wrapPublicVals,
		}),
	}
	log.Debugw("ivc step folded", "chainLength", len(next.Chain), "degree", stepOut.Degree())
	return next, nil
}

func proveWrap(params *PublicParams, stepPublicWitness witness.Witness, stepProof groth16.Proof) (groth16.Proof, witness.Witness, error) {
	recursiveProof, err := stdgroth16.ValueOfProof[sw_bn254.G1Affine, sw_bn254.G2Affine](stepProof)
	if err != nil {
		return nil, nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "convert step proof for recursion")
	}
	recursiveWitness, err := stdgroth16.ValueOfWitness[sw_bn254.ScalarField](stepPublicWitness)
	if err != nil {
		return nil, nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "convert step public witness for recursion")
	}
	fixedVK, err := stdgroth16.ValueOfVerifyingKeyFixed[sw_bn254.G1Affine, sw_bn254.G2Affine, sw_bn254.GTEl](params.StepVK)
	if err != nil {
		return nil, nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "fix step verifying key")
	}

	assignment := &WrapCircuit{
		StepProof:        recursiveProof,
		StepVerifyingKey: fixedVK,
		StepPublicInputs: recursiveWitness,
	}
	fullWitness, err := frontend.NewWitness(assignment, ecc.BLS12_377.ScalarField())
	if err != nil {
		return nil, nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "build wrap witness")
	}
	wrapProof, err := groth16.Prove(params.WrapCcs, params.WrapPK, fullWitness)
	if err != nil {
		return nil, nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "prove wrap circuit")
	}
	publicVals, err := fullWitness.Public()
	if err != nil {
		return nil, nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "extract wrap public witness")
	}
	return wrapProof, publicVals, nil
}

// Verify checks that proof's chain is internally consistent (each step's
// recorded StepOut feeds the next step's StepIn), that every wrap proof
// verifies, and that the final state matches expected. This is ivc_verify.
func Verify(params *PublicParams, proof *FoldedProof, expected circuit.StepState) (bool, error) {
	if !proof.State.Equal(expected) {
		return false, grapevineerrors.StateMismatchf("folded proof state does not match expected state")
	}

	current := circuit.ZeroState()
	for i, link := range proof.Chain {
		if !link.StepIn.Equal(current) {
			return false, grapevineerrors.StateMismatchf("chain link %d does not continue from the prior step", i)
		}
		if err := groth16.Verify(link.Wrap, params.WrapVK, link.WrapPublicVals); err != nil {
			return false, grapevineerrors.VerificationFailuref("chain link %d wrap proof does not verify: %v", i, err)
		}
		current = link.StepOut
	}

	if !current.Equal(expected) {
		return false, grapevineerrors.StateMismatchf("chain's final state does not match expected state")
	}
	return true, nil
}
