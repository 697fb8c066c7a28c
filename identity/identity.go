// Package identity implements account key material, address derivation,
// and nullifier and signature issuance: everything a participant needs
// before they can assemble a folding-circuit witness.
package identity

import (
	"fmt"
	"math/big"

	"github.com/grapevine-zk/grapevine/crypto/babyjub"
	"github.com/grapevine-zk/grapevine/crypto/field"
	"github.com/grapevine-zk/grapevine/crypto/poseidon"
	"github.com/grapevine-zk/grapevine/grapevineerrors"
)

// Keypair is an account's secret scalar and the Baby Jubjub public point
// derived from it.
type Keypair struct {
	SK *babyjub.PrivateKey
	PK *babyjub.PublicKey
}

// AuthSecret is the per-account secret scalar used to derive nullifiers for
// every relationship this account issues.
type AuthSecret big.Int

// Address is addr = Poseidon(Ax, Ay), the compact identifier derived from a
// public key.
type Address big.Int

// Nullifier is null = Poseidon(issuer.AuthSecret, recipient.addr).
type Nullifier big.Int

// Relationship is a directed (issuer, recipient) pair carrying the
// nullifier the issuer gave the recipient and the issuer's auth signature
// over it.
type Relationship struct {
	Issuer    Address
	Recipient Address
	Nullifier Nullifier
	AuthSig   *babyjub.Signature
	// Reverse is set once the recipient has issued a matching relationship
	// back to the issuer, at which point the pair is active.
	Reverse *Relationship
}

// Active reports whether both directions of the relationship exist.
func (r *Relationship) Active() bool {
	return r.Reverse != nil
}

// GenerateAccount samples a uniform sk, derives pk, and samples a uniform
// authSecret.
func GenerateAccount() (*Keypair, *AuthSecret, error) {
	sk, err := babyjub.GenerateKey()
	if err != nil {
		return nil, nil, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "generate account key")
	}
	secretKey, err := babyjub.GenerateKey()
	if err != nil {
		return nil, nil, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "sample auth secret")
	}
	authSecret := AuthSecret(*secretKey.Scalar())
	return &Keypair{SK: sk, PK: sk.Public()}, &authSecret, nil
}

// DeriveAddress computes addr(pk) = Poseidon(Ax, Ay).
func DeriveAddress(pk *babyjub.PublicKey) (*Address, error) {
	h, err := poseidon.Hash2(pk.X, pk.Y)
	if err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "derive address")
	}
	addr := Address(*h)
	return &addr, nil
}

// IssueNullifier computes null = Poseidon(authSecret_issuer, addr_recipient).
func IssueNullifier(issuerAuthSecret *AuthSecret, recipient *Address) (*Nullifier, error) {
	h, err := poseidon.Hash2((*big.Int)(issuerAuthSecret), (*big.Int)(recipient))
	if err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "issue nullifier")
	}
	n := Nullifier(*h)
	return &n, nil
}

// SignAuth signs nullifier and the recipient's address on behalf of the
// issuer: sig = EdDSA_sign(sk_issuer, Poseidon(nullifier, addr_recipient)).
func SignAuth(issuerSK *babyjub.PrivateKey, nullifier *Nullifier, recipient *Address) (*babyjub.Signature, error) {
	msg, err := poseidon.Hash2((*big.Int)(nullifier), (*big.Int)(recipient))
	if err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "hash auth message")
	}
	sig, err := issuerSK.Sign(msg)
	if err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "sign auth")
	}
	return sig, nil
}

// SignScope signs a scope (or, on the identity step, the prover's own
// address) on behalf of the current prover: sig = EdDSA_sign(sk, scope_addr).
func SignScope(proverSK *babyjub.PrivateKey, scope *Address) (*babyjub.Signature, error) {
	sig, err := proverSK.Sign((*big.Int)(scope))
	if err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "sign scope")
	}
	return sig, nil
}

// IssueAuthorization builds the authorization token emitted by issuer I to
// recipient R once their relationship is active.
func IssueAuthorization(issuer *Keypair, issuerAddr *Address, authSecret *AuthSecret, recipientAddr *Address) (*Relationship, error) {
	nullifier, err := IssueNullifier(authSecret, recipientAddr)
	if err != nil {
		return nil, err
	}
	sig, err := SignAuth(issuer.SK, nullifier, recipientAddr)
	if err != nil {
		return nil, err
	}
	return &Relationship{
		Issuer:    *issuerAddr,
		Recipient: *recipientAddr,
		Nullifier: *nullifier,
		AuthSig:   sig,
	}, nil
}

// EncodePhrase chunks a UTF-8 phrase of at most PhraseMaxBytes bytes into
// PhraseFieldCount 31-byte little-endian field elements, ready to be hashed
// with Poseidon-6 into a PhraseState.
func EncodePhrase(phrase string, maxBytes, fieldCount int) ([6]*big.Int, error) {
	var out [6]*big.Int
	b := []byte(phrase)
	if len(b) > maxBytes {
		return out, grapevineerrors.MalformedInputf("phrase exceeds %d bytes (got %d)", maxBytes, len(b))
	}
	chunkSize := 31
	padded := make([]byte, fieldCount*chunkSize)
	copy(padded, b)
	for i := 0; i < fieldCount; i++ {
		chunk := padded[i*chunkSize : (i+1)*chunkSize]
		le := make([]byte, len(chunk))
		for j, v := range chunk {
			le[len(chunk)-1-j] = v
		}
		out[i] = field.Reduce(new(big.Int).SetBytes(le))
	}
	return out, nil
}

// PhraseHash returns Poseidon(phrase_felts[0..6]), the canonical handle to a
// phrase.
func PhraseHash(felts [6]*big.Int) (*big.Int, error) {
	return poseidon.Hash6(felts)
}

// EncodeUsername hashes an ASCII display handle of at most maxBytes bytes
// separately from the phrase; it plays no role in the circuit statement.
func EncodeUsername(username string, maxBytes int) (*big.Int, error) {
	b := []byte(username)
	if len(b) > maxBytes {
		return nil, grapevineerrors.MalformedInputf("username exceeds %d bytes (got %d)", maxBytes, len(b))
	}
	for _, c := range b {
		if c > 127 {
			return nil, grapevineerrors.MalformedInputf("username must be ASCII")
		}
	}
	le := make([]byte, len(b))
	for i, v := range b {
		le[len(b)-1-i] = v
	}
	return poseidon.HashAny(field.Reduce(new(big.Int).SetBytes(le)))
}

// String implements fmt.Stringer for Address, matching the "32-byte
// canonical encoding of a field element" wire convention.
func (a *Address) String() string {
	return fmt.Sprintf("0x%064x", (*big.Int)(a))
}
