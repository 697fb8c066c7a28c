package storage

import (
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"

	"github.com/grapevine-zk/grapevine/ivc"
)

// proofRecord is the CBOR envelope a FoldedProof is stored under: the JSON
// form MarshalFoldedProof already produces, wrapped so it can sit alongside
// other artifact types under the same encodeArtifact/decodeArtifact helpers.
type proofRecord struct {
	JSON []byte
}

func newProofRecord(proof *ivc.FoldedProof) (*proofRecord, error) {
	data, err := ivc.MarshalFoldedProof(proof)
	if err != nil {
		return nil, err
	}
	return &proofRecord{JSON: data}, nil
}

func (r *proofRecord) decode() (*ivc.FoldedProof, error) {
	newProof := func() groth16.Proof { return groth16.NewProof(ecc.BLS12_377) }
	newWitness := func() witness.Witness {
		w, _ := witness.New(ecc.BLS12_377.ScalarField())
		return w
	}
	return ivc.UnmarshalFoldedProof(r.JSON, newProof, newWitness)
}
