package ivc

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"

	"github.com/grapevine-zk/grapevine/circuit"
	"github.com/grapevine-zk/grapevine/grapevineerrors"
	"github.com/grapevine-zk/grapevine/types"
)

// externalStepProof is a StepProof's over-the-wire representation: the
// proof and its public inputs as hex bytes, the boundary states as decimal
// scalar strings.
type externalStepProof struct {
	StepIn      circuit.StepState `json:"step_in"`
	StepOut     circuit.StepState `json:"step_out"`
	Wrap        types.HexBytes    `json:"wrap_proof"`
	WrapPublics types.HexBytes    `json:"wrap_public_inputs"`
}

// externalFoldedProof is FoldedProof's over-the-wire JSON representation.
type externalFoldedProof struct {
	State circuit.StepState   `json:"state"`
	Chain []externalStepProof `json:"chain"`
}

// MarshalFoldedProof encodes proof for transport: the accumulator's proof bytes
// and public inputs as hex strings, StepState vectors as decimal strings.
func MarshalFoldedProof(proof *FoldedProof) ([]byte, error) {
	ext := externalFoldedProof{
		State: proof.State,
		Chain: make([]externalStepProof, len(proof.Chain)),
	}
	for i, link := range proof.Chain {
		wrapBytes, err := writeProofBytes(link.Wrap)
		if err != nil {
			return nil, err
		}
		publicBytes, err := link.WrapPublicVals.MarshalBinary()
		if err != nil {
			return nil, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "marshal wrap public inputs")
		}
		ext.Chain[i] = externalStepProof{
			StepIn:      link.StepIn,
			StepOut:     link.StepOut,
			Wrap:        wrapBytes,
			WrapPublics: publicBytes,
		}
	}
	return json.Marshal(ext)
}

func writeProofBytes(proof groth16.Proof) ([]byte, error) {
	wt, ok := proof.(io.WriterTo)
	if !ok {
		return nil, grapevineerrors.ProtocolViolationf("proof implementation does not support serialization")
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "write proof bytes")
	}
	return buf.Bytes(), nil
}

// UnmarshalFoldedProof decodes MarshalFoldedProof's output. newProof and
// newWitness construct the empty concrete values to read into, since
// groth16.Proof and witness.Witness are interfaces.
func UnmarshalFoldedProof(data []byte, newProof func() groth16.Proof, newWitness func() witness.Witness) (*FoldedProof, error) {
	var ext externalFoldedProof
	if err := json.Unmarshal(data, &ext); err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "decode folded proof")
	}
	out := &FoldedProof{
		State: ext.State,
		Chain: make([]StepProof, len(ext.Chain)),
	}
	for i, link := range ext.Chain {
		wrap := newProof()
		if rd, ok := wrap.(io.ReaderFrom); ok {
			if _, err := rd.ReadFrom(bytes.NewReader(link.Wrap)); err != nil {
				return nil, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "read wrap proof bytes")
			}
		} else {
			return nil, grapevineerrors.ProtocolViolationf("proof implementation does not support deserialization")
		}
		publics := newWitness()
		if err := publics.UnmarshalBinary(link.WrapPublics); err != nil {
			return nil, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "unmarshal wrap public inputs")
		}
		out.Chain[i] = StepProof{
			StepIn:         link.StepIn,
			StepOut:        link.StepOut,
			Wrap:           wrap,
			WrapPublicVals: publics,
		}
	}
	return out, nil
}

// EncodeHex is a small convenience wrapper matching how the rest of this
// module renders scalars and byte strings for logs and error messages.
func EncodeHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
