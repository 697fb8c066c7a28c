package storage

import (
	"math/big"
	"sync"
	"testing"

	qt "github.com/frankban/quicktest"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/grapevine-zk/grapevine/circuit"
	"github.com/grapevine-zk/grapevine/crypto/babyjub"
	"github.com/grapevine-zk/grapevine/crypto/poseidon"
	"github.com/grapevine-zk/grapevine/identity"
	"github.com/grapevine-zk/grapevine/ivc"
)

// sharedParams amortizes the one-time Groth16 setup across every test in
// this file; a fresh dev-mode setup per test would make the suite run for
// minutes for no benefit.
var (
	sharedParamsOnce sync.Once
	sharedParams     *ivc.PublicParams
	sharedParamsErr  error
)

func testParams(t *testing.T) *ivc.PublicParams {
	sharedParamsOnce.Do(func() {
		sharedParams, sharedParamsErr = ivc.SetupPublicParams()
	})
	qt.Assert(t, sharedParamsErr, qt.IsNil)
	return sharedParams
}

func buildPhraseRootProof(t *testing.T) *ivc.FoldedProof {
	params := testParams(t)
	sk, err := babyjub.GenerateKey()
	qt.Assert(t, err, qt.IsNil)
	pk := sk.Public()
	addr, err := poseidon.Hash2(pk.X, pk.Y)
	qt.Assert(t, err, qt.IsNil)
	scopeSig, err := sk.Sign(addr)
	qt.Assert(t, err, qt.IsNil)

	identityWitness := circuit.Witness{
		RelationPubKey:    [2]*big.Int{big.NewInt(0), big.NewInt(0)},
		ProverPubKey:      [2]*big.Int{pk.X, pk.Y},
		RelationNullifier: big.NewInt(0),
		AuthSignature:     &babyjub.Signature{R8x: big.NewInt(0), R8y: big.NewInt(0), S: big.NewInt(0)},
		ScopeSignature:    scopeSig,
	}

	afterIdentity, err := ivc.Step(params, ivc.Init(), identityWitness)
	qt.Assert(t, err, qt.IsNil)
	proof, err := ivc.Step(params, afterIdentity, circuit.ZeroWitness())
	qt.Assert(t, err, qt.IsNil)
	return proof
}

func TestSetProofAndGetProofRoundTrip(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	proof := buildPhraseRootProof(t)
	key, err := stg.SetProof(proof)
	c.Assert(err, qt.IsNil)

	loaded, err := stg.GetProof(key)
	c.Assert(err, qt.IsNil)
	c.Assert(loaded.State.Equal(proof.State), qt.IsTrue)
	c.Assert(loaded.Chain, qt.HasLen, len(proof.Chain))
}

func TestSetRelationshipAndGetRelationshipRoundTrip(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	issuer, authSecret, err := identity.GenerateAccount()
	c.Assert(err, qt.IsNil)
	issuerAddr, err := identity.DeriveAddress(issuer.PK)
	c.Assert(err, qt.IsNil)
	recipient, _, err := identity.GenerateAccount()
	c.Assert(err, qt.IsNil)
	recipientAddr, err := identity.DeriveAddress(recipient.PK)
	c.Assert(err, qt.IsNil)

	rel, err := identity.IssueAuthorization(issuer, issuerAddr, authSecret, recipientAddr)
	c.Assert(err, qt.IsNil)

	c.Assert(stg.SetRelationship(rel), qt.IsNil)

	loaded, err := stg.GetRelationship(&rel.Nullifier)
	c.Assert(err, qt.IsNil)
	c.Assert(loaded.Issuer.String(), qt.Equals, rel.Issuer.String())
	c.Assert(loaded.Recipient.String(), qt.Equals, rel.Recipient.String())
	c.Assert((*big.Int)(&loaded.Nullifier).Cmp((*big.Int)(&rel.Nullifier)), qt.Equals, 0)
}

func TestNullifierSpentTracksSetRelationship(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	issuer, authSecret, err := identity.GenerateAccount()
	c.Assert(err, qt.IsNil)
	issuerAddr, err := identity.DeriveAddress(issuer.PK)
	c.Assert(err, qt.IsNil)
	recipient, _, err := identity.GenerateAccount()
	c.Assert(err, qt.IsNil)
	recipientAddr, err := identity.DeriveAddress(recipient.PK)
	c.Assert(err, qt.IsNil)

	rel, err := identity.IssueAuthorization(issuer, issuerAddr, authSecret, recipientAddr)
	c.Assert(err, qt.IsNil)

	spent, err := stg.NullifierSpent(&rel.Nullifier)
	c.Assert(err, qt.IsNil)
	c.Assert(spent, qt.IsFalse)

	c.Assert(stg.SetRelationship(rel), qt.IsNil)

	spent, err = stg.NullifierSpent(&rel.Nullifier)
	c.Assert(err, qt.IsNil)
	c.Assert(spent, qt.IsTrue)

	other, err := identity.IssueNullifier(authSecret, issuerAddr)
	c.Assert(err, qt.IsNil)
	spent, err = stg.NullifierSpent(other)
	c.Assert(err, qt.IsNil)
	c.Assert(spent, qt.IsFalse)
}
