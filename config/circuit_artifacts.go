// Package config holds the constants that tie this module to a concrete
// deployment: circuit artifact locations and content hashes, and the
// protocol's fixed numeric limits.
package config

const (
	// MaxDegree is the highest degree (number of folded relationship hops) a
	// FoldedProof may reach before ivc_step refuses to extend it further.
	MaxDegree = 8
	// PhraseFieldCount is the number of field elements a phrase is chunked
	// into before being hashed into a PhraseState.
	PhraseFieldCount = 6
	// PhraseMaxBytes is the maximum UTF-8 byte length of a phrase; it fits
	// within PhraseFieldCount 31-byte field-sized chunks, the rest of which
	// is zero padding.
	PhraseMaxBytes = 180
	// UsernameMaxBytes is the maximum ASCII byte length of a display handle.
	UsernameMaxBytes = 30
	// StepStateWidth is the number of scalars in the public IVC state
	// vector: obfuscate, degree, scope, relation, and eight nullifier slots.
	StepStateWidth = 12
	// NullifierSlots is the number of nullifier slots carried in StepState.
	NullifierSlots = 8
)

const (
	// StepCircuitDefinitionURL/Hash locate the compiled constraint system
	// for the per-hop step relation.
	StepCircuitDefinitionURL  = "https://artifacts.grapevine.example/circuits/dev/step.ccs"
	StepCircuitDefinitionHash = "b3b0b4f1a6c8d5e2f9a7c4d1e8b5f2a9c6d3e0f7a4b1c8d5e2f9a6c3d0e7b4a1"
	StepProvingKeyURL         = "https://artifacts.grapevine.example/circuits/dev/step.pk"
	StepProvingKeyHash        = "1a2b3c4d5e6f7081920a1b2c3d4e5f6071829304152637485960a1b2c3d4e5f"
	StepVerifyingKeyURL       = "https://artifacts.grapevine.example/circuits/dev/step.vk"
	StepVerifyingKeyHash      = "9f8e7d6c5b4a392817263544536271809f1e2d3c4b5a69788796a5b4c3d2e1f"

	// FoldCircuitDefinitionURL/Hash locate the compiled constraint system
	// for the recursive-verification circuit used to fold one step's proof
	// into the next.
	FoldCircuitDefinitionURL  = "https://artifacts.grapevine.example/circuits/dev/fold.ccs"
	FoldCircuitDefinitionHash = "2c4e6f8a1b3d5f7091a3c5e7092b4d6f8a1c3e5f7091b3d5f7a9c1e3f5a7c9e1"
	FoldProvingKeyURL         = "https://artifacts.grapevine.example/circuits/dev/fold.pk"
	FoldProvingKeyHash        = "7a9c1e3f5b7d9f1a3c5e7f9b1d3f5a7c9e1b3d5f7a9c1e3f5b7d9f1a3c5e7f9b"
	FoldVerifyingKeyURL       = "https://artifacts.grapevine.example/circuits/dev/fold.vk"
	FoldVerifyingKeyHash      = "3e5a7c9e1b3d5f7a9c1e3f5b7d9f1a3c5e7f9b1d3f5a7c9e1b3d5f7a9c1e3f5b"
)
