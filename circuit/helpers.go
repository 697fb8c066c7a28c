package circuit

import (
	"bytes"
	"math/big"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"

	"github.com/grapevine-zk/grapevine/log"
)

// BoolToBigInt returns 1 when b is true, 0 otherwise, matching the native
// assignment conventions gnark witnesses expect for boolean flags.
func BoolToBigInt(b bool) *big.Int {
	if b {
		return big.NewInt(1)
	}
	return big.NewInt(0)
}

// Assignment builds a gnark witness assignment for one step of the circuit
// from a native StepState pair and Witness.
func Assignment(stepIn, stepOut StepState, w Witness) *StepCircuit {
	c := &StepCircuit{
		RelationPubKey:    [2]frontend.Variable{w.RelationPubKey[0], w.RelationPubKey[1]},
		ProverPubKey:      [2]frontend.Variable{w.ProverPubKey[0], w.ProverPubKey[1]},
		RelationNullifier: w.RelationNullifier,
		AuthSignature:     [3]frontend.Variable{w.AuthSignature.R8x, w.AuthSignature.R8y, w.AuthSignature.S},
		ScopeSignature:    [3]frontend.Variable{w.ScopeSignature.R8x, w.ScopeSignature.R8y, w.ScopeSignature.S},
	}
	for i := 0; i < Width; i++ {
		c.StepIn[i] = stepIn[i]
		c.StepOut[i] = stepOut[i]
	}
	return c
}

// Placeholder returns an empty circuit of the right shape, for use with
// frontend.Compile and groth16.Setup.
func Placeholder() *StepCircuit {
	return &StepCircuit{}
}

// StoreConstraintSystem writes a compiled constraint system to path via write, logging
// its destination the way the rest of this module logs artifact I/O.
func StoreConstraintSystem(cs constraint.ConstraintSystem, path string, write func(string, []byte) error) error {
	buf := new(bytes.Buffer)
	if _, err := cs.WriteTo(buf); err != nil {
		return err
	}
	if err := write(path, buf.Bytes()); err != nil {
		return err
	}
	log.Debugw("constraint system written", "path", path)
	return nil
}

// StoreVerifyingKey writes a Groth16 verifying key to path via write.
func StoreVerifyingKey(vk groth16.VerifyingKey, path string, write func(string, []byte) error) error {
	buf := new(bytes.Buffer)
	if _, err := vk.WriteRawTo(buf); err != nil {
		return err
	}
	if err := write(path, buf.Bytes()); err != nil {
		return err
	}
	log.Debugw("verifying key written", "path", path)
	return nil
}
