package ivc

import (
	"encoding/hex"

	"github.com/grapevine-zk/grapevine/config"
)

func mustHash(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// StepArtifacts locates the compiled constraint system and Groth16 keys
// for the native step circuit.
var StepArtifacts = NewCircuitArtifacts(
	&Artifact{RemoteURL: config.StepCircuitDefinitionURL, Hash: mustHash(config.StepCircuitDefinitionHash)},
	&Artifact{RemoteURL: config.StepProvingKeyURL, Hash: mustHash(config.StepProvingKeyHash)},
	&Artifact{RemoteURL: config.StepVerifyingKeyURL, Hash: mustHash(config.StepVerifyingKeyHash)},
)

// FoldArtifacts locates the compiled constraint system and Groth16 keys
// for the recursive wrap circuit.
var FoldArtifacts = NewCircuitArtifacts(
	&Artifact{RemoteURL: config.FoldCircuitDefinitionURL, Hash: mustHash(config.FoldCircuitDefinitionHash)},
	&Artifact{RemoteURL: config.FoldProvingKeyURL, Hash: mustHash(config.FoldProvingKeyHash)},
	&Artifact{RemoteURL: config.FoldVerifyingKeyURL, Hash: mustHash(config.FoldVerifyingKeyHash)},
)
