// Package babyjub wraps iden3's Baby Jubjub key material and EdDSA-Poseidon
// signature scheme, the out-of-circuit half of the sign/verify contract the
// folding relation depends on. The in-circuit half lives in package circuit.
package babyjub

import (
	"crypto/rand"
	"fmt"
	"math/big"

	iden3babyjub "github.com/iden3/go-iden3-crypto/babyjub"
)

// PrivateKey is a 32-byte Baby Jubjub signing key.
type PrivateKey struct {
	inner iden3babyjub.PrivateKey
}

// PublicKey is a Baby Jubjub point (Ax, Ay).
type PublicKey struct {
	X, Y *big.Int
}

// Signature is an EdDSA-Poseidon signature: R8 (a curve point) and S (a
// scalar), the three field elements the protocol calls auth_signature or
// scope_signature.
type Signature struct {
	R8x, R8y, S *big.Int
}

// GenerateKey samples a uniformly random private key.
func GenerateKey() (*PrivateKey, error) {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("sample private key: %w", err)
	}
	sk := iden3babyjub.PrivateKey(seed)
	return &PrivateKey{inner: sk}, nil
}

// Public derives the Baby Jubjub public point for this key.
func (sk *PrivateKey) Public() *PublicKey {
	pub := sk.inner.Public()
	return &PublicKey{X: pub.X, Y: pub.Y}
}

// Scalar returns the private key's underlying signing scalar.
func (sk *PrivateKey) Scalar() *big.Int {
	s := sk.inner.Scalar()
	return s.BigInt()
}

// Sign produces an EdDSA-Poseidon signature over a single field element.
func (sk *PrivateKey) Sign(msg *big.Int) (*Signature, error) {
	sig := sk.inner.SignPoseidon(msg)
	return &Signature{R8x: sig.R8.X, R8y: sig.R8.Y, S: sig.S}, nil
}

// Verify checks an EdDSA-Poseidon signature against a public key and a
// single field-element message, the eddsa_verify(A, msg, sig) primitive.
func Verify(pub *PublicKey, msg *big.Int, sig *Signature) bool {
	point := iden3babyjub.NewPoint()
	point.X, point.Y = pub.X, pub.Y
	pk := iden3babyjub.PublicKey(*point)

	sigPoint := iden3babyjub.NewPoint()
	sigPoint.X, sigPoint.Y = sig.R8x, sig.R8y
	fullSig := &iden3babyjub.Signature{R8: sigPoint, S: sig.S}

	return pk.VerifyPoseidon(msg, fullSig)
}
