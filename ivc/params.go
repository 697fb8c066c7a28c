package ivc

import (
	"bytes"
	"context"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/std/algebra/emulated/sw_bn254"
	stdgroth16 "github.com/consensys/gnark/std/recursion/groth16"

	"github.com/grapevine-zk/grapevine/circuit"
	"github.com/grapevine-zk/grapevine/grapevineerrors"
	"github.com/grapevine-zk/grapevine/log"
)

// PublicParams bundles the proving and verifying material for both stages
// of the recursive chain: the native BN254 step relation, and the
// BLS12-377 circuit that wraps a step proof for folding.
type PublicParams struct {
	StepCcs constraint.ConstraintSystem
	StepPK  groth16.ProvingKey
	StepVK  groth16.VerifyingKey

	WrapCcs constraint.ConstraintSystem
	WrapPK  groth16.ProvingKey
	WrapVK  groth16.VerifyingKey
}

// SetupPublicParams compiles the step and wrap circuits and runs a fresh
// Groth16 trusted setup for each. It corresponds to public_params_setup;
// production deployments load pre-generated keys from CircuitArtifacts
// instead of calling this directly.
func SetupPublicParams() (*PublicParams, error) {
	stepCcs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit.Placeholder())
	if err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "compile step circuit")
	}
	stepPK, stepVK, err := groth16.Setup(stepCcs)
	if err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "setup step circuit")
	}

	fixedStepVK, err := stdgroth16.ValueOfVerifyingKeyFixed[sw_bn254.G1Affine, sw_bn254.G2Affine, sw_bn254.GTEl](stepVK)
	if err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "fix step verifying key")
	}
	wrapPlaceholder := &WrapCircuit{
		StepVerifyingKey: fixedStepVK,
		StepProof:        stdgroth16.PlaceholderProof[sw_bn254.G1Affine, sw_bn254.G2Affine](stepCcs),
		StepPublicInputs: stdgroth16.PlaceholderWitness[sw_bn254.ScalarField](stepCcs),
	}
	wrapCcs, err := frontend.Compile(ecc.BLS12_377.ScalarField(), r1cs.NewBuilder, wrapPlaceholder)
	if err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "compile wrap circuit")
	}
	wrapPK, wrapVK, err := groth16.Setup(wrapCcs)
	if err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "setup wrap circuit")
	}

	log.Infow("public params generated", "stepConstraints", stepCcs.GetNbConstraints(), "wrapConstraints", wrapCcs.GetNbConstraints())

	return &PublicParams{
		StepCcs: stepCcs,
		StepPK:  stepPK,
		StepVK:  stepVK,
		WrapCcs: wrapCcs,
		WrapPK:  wrapPK,
		WrapVK:  wrapVK,
	}, nil
}

// LoadPublicParams reads the step and wrap circuits' compiled constraint
// systems and Groth16 keys from StepArtifacts and FoldArtifacts, downloading
// on a cache miss. Production callers use this instead of generating a
// fresh (and untrusted) setup at startup.
func LoadPublicParams(ctx context.Context) (*PublicParams, error) {
	if err := StepArtifacts.LoadAll(ctx); err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "load step artifacts")
	}
	if err := FoldArtifacts.LoadAll(ctx); err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "load fold artifacts")
	}

	stepCcs := groth16.NewCS(ecc.BN254)
	if _, err := stepCcs.ReadFrom(bytes.NewReader(StepArtifacts.CircuitDefinition())); err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "read step constraint system")
	}
	stepPK := groth16.NewProvingKey(ecc.BN254)
	if _, err := stepPK.ReadFrom(bytes.NewReader(StepArtifacts.ProvingKey())); err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "read step proving key")
	}
	stepVK := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := stepVK.ReadFrom(bytes.NewReader(StepArtifacts.VerifyingKey())); err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "read step verifying key")
	}

	wrapCcs := groth16.NewCS(ecc.BLS12_377)
	if _, err := wrapCcs.ReadFrom(bytes.NewReader(FoldArtifacts.CircuitDefinition())); err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "read wrap constraint system")
	}
	wrapPK := groth16.NewProvingKey(ecc.BLS12_377)
	if _, err := wrapPK.ReadFrom(bytes.NewReader(FoldArtifacts.ProvingKey())); err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "read wrap proving key")
	}
	wrapVK := groth16.NewVerifyingKey(ecc.BLS12_377)
	if _, err := wrapVK.ReadFrom(bytes.NewReader(FoldArtifacts.VerifyingKey())); err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "read wrap verifying key")
	}

	log.Infow("public params loaded from artifact cache")

	return &PublicParams{
		StepCcs: stepCcs,
		StepPK:  stepPK,
		StepVK:  stepVK,
		WrapCcs: wrapCcs,
		WrapPK:  wrapPK,
		WrapVK:  wrapVK,
	}, nil
}
