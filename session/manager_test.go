package session

import (
	"math/big"
	"sync"
	"testing"

	qt "github.com/frankban/quicktest"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/grapevine-zk/grapevine/crypto/poseidon"
	"github.com/grapevine-zk/grapevine/identity"
	"github.com/grapevine-zk/grapevine/ivc"
	"github.com/grapevine-zk/grapevine/storage"
)

// newTestLedger gives each test its own RelationshipLedger backed by an
// in-memory database, the same way the reference storage tests do.
func newTestLedger(t *testing.T) RelationshipLedger {
	return storage.New(metadb.NewTest(t))
}

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

type testAccount struct {
	Keypair *identity.Keypair
	Auth    *identity.AuthSecret
	Addr    *identity.Address
}

func newTestAccount(t *testing.T) *testAccount {
	kp, auth, err := identity.GenerateAccount()
	qt.Assert(t, err, qt.IsNil)
	addr, err := identity.DeriveAddress(kp.PK)
	qt.Assert(t, err, qt.IsNil)
	return &testAccount{Keypair: kp, Auth: auth, Addr: addr}
}

// issueActiveRelationship has issuer and recipient authorize each other,
// returning the recipient's view of the active relationship (the
// authorization recipient will extend a proof with).
func issueActiveRelationship(t *testing.T, issuer, recipient *testAccount) *identity.Relationship {
	forward, err := identity.IssueAuthorization(issuer.Keypair, issuer.Addr, issuer.Auth, recipient.Addr)
	qt.Assert(t, err, qt.IsNil)
	reverse, err := identity.IssueAuthorization(recipient.Keypair, recipient.Addr, recipient.Auth, issuer.Addr)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, ActivateRelationship(forward, reverse), qt.IsNil)
	return forward
}

func TestCreatePhraseRootProof(t *testing.T) {
	c := qt.New(t)
	mgr := New(testParams(t), NewMemStore(), newTestLedger(t))

	alice := newTestAccount(t)
	proof, err := mgr.CreatePhraseRootProof(alice.Keypair)
	c.Assert(err, qt.IsNil)

	ok, err := mgr.VerifyProof(proof, 0, alice.Addr)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)

	stored, found, err := mgr.Proofs.Get(*alice.Addr, *alice.Addr)
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsTrue)
	c.Assert(stored.State.Equal(proof.State), qt.IsTrue)
}

func TestExtendProofChainOfFour(t *testing.T) {
	c := qt.New(t)
	params := testParams(t)
	mgr := New(params, NewMemStore(), newTestLedger(t))

	alice := newTestAccount(t)
	bob := newTestAccount(t)
	charlie := newTestAccount(t)
	theUser := newTestAccount(t)

	rootProof, err := mgr.CreatePhraseRootProof(alice.Keypair)
	c.Assert(err, qt.IsNil)

	aliceToBob := issueActiveRelationship(t, alice, bob)
	proof1, err := mgr.ExtendProof(rootProof, alice.Keypair.PK, aliceToBob, bob.Keypair)
	c.Assert(err, qt.IsNil)

	bobToCharlie := issueActiveRelationship(t, bob, charlie)
	proof2, err := mgr.ExtendProof(proof1, bob.Keypair.PK, bobToCharlie, charlie.Keypair)
	c.Assert(err, qt.IsNil)

	charlieToUser := issueActiveRelationship(t, charlie, theUser)
	proof3, err := mgr.ExtendProof(proof2, charlie.Keypair.PK, charlieToUser, theUser.Keypair)
	c.Assert(err, qt.IsNil)

	ok, err := mgr.VerifyProof(proof3, 3, alice.Addr)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)

	c.Assert(proof3.State.Nullifier(0).Cmp((*big.Int)(&aliceToBob.Nullifier)), qt.Equals, 0)
	c.Assert(proof3.State.Nullifier(1).Cmp((*big.Int)(&bobToCharlie.Nullifier)), qt.Equals, 0)
	c.Assert(proof3.State.Nullifier(2).Cmp((*big.Int)(&charlieToUser.Nullifier)), qt.Equals, 0)
	for i := 3; i < 8; i++ {
		c.Assert(proof3.State.Nullifier(i).Sign(), qt.Equals, 0)
	}
}

func TestExtendProofRejectsForgedAuthSignature(t *testing.T) {
	c := qt.New(t)
	params := testParams(t)
	mgr := New(params, NewMemStore(), newTestLedger(t))

	alice := newTestAccount(t)
	bob := newTestAccount(t)
	forger := newTestAccount(t)

	rootProof, err := mgr.CreatePhraseRootProof(alice.Keypair)
	c.Assert(err, qt.IsNil)

	genuine := issueActiveRelationship(t, alice, bob)

	nullifierMsg, err := poseidon.Hash2((*big.Int)(&genuine.Nullifier), (*big.Int)(bob.Addr))
	c.Assert(err, qt.IsNil)
	forgedSig, err := forger.Keypair.SK.Sign(nullifierMsg)
	c.Assert(err, qt.IsNil)

	forged := &identity.Relationship{
		Issuer:    genuine.Issuer,
		Recipient: genuine.Recipient,
		Nullifier: genuine.Nullifier,
		AuthSig:   forgedSig,
	}

	_, err = mgr.ExtendProof(rootProof, alice.Keypair.PK, forged, bob.Keypair)
	c.Assert(err, qt.ErrorMatches, "constraint_violation.*")
}

func TestReconcileShortestPath(t *testing.T) {
	c := qt.New(t)
	params := testParams(t)
	mgr := New(params, NewMemStore(), newTestLedger(t))

	alice := newTestAccount(t)
	bob := newTestAccount(t)
	theUser := newTestAccount(t)

	// alice -> bob -> the_user: the_user's proof of alice's phrase is degree 2.
	rootProof, err := mgr.CreatePhraseRootProof(alice.Keypair)
	c.Assert(err, qt.IsNil)
	aliceToBob := issueActiveRelationship(t, alice, bob)
	bobProof, err := mgr.ExtendProof(rootProof, alice.Keypair.PK, aliceToBob, bob.Keypair)
	c.Assert(err, qt.IsNil)
	bobToUser := issueActiveRelationship(t, bob, theUser)
	userProof, err := mgr.ExtendProof(bobProof, bob.Keypair.PK, bobToUser, theUser.Keypair)
	c.Assert(err, qt.IsNil)
	c.Assert(userProof.State.Degree().Int64(), qt.Equals, int64(2))

	// alice now opens a relationship directly with the_user: reconcile
	// should rebuild the_user's proof at degree 1.
	aliceToUser := issueActiveRelationship(t, alice, theUser)

	err = mgr.ReconcileShortestPath(theUser.Keypair, theUser.Addr,
		map[identity.Address]Candidate{
			*alice.Addr: {RelationPK: alice.Keypair.PK, Auth: aliceToUser},
		},
		func(relation, scope identity.Address) (*ivc.FoldedProof, bool, error) {
			if relation.String() == alice.Addr.String() && scope.String() == alice.Addr.String() {
				return rootProof, true, nil
			}
			return nil, false, nil
		})
	c.Assert(err, qt.IsNil)

	rebuilt, found, err := mgr.Proofs.Get(*theUser.Addr, *alice.Addr)
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsTrue)
	c.Assert(rebuilt.State.Degree().Int64(), qt.Equals, int64(1))

	ok, err := mgr.VerifyProof(rebuilt, 1, alice.Addr)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
}

// TestExtendProofRejectsReusedNullifier exercises the nullifier uniqueness
// policy: a nullifier I issued to R is one-time use, so a second attempt to
// fold it into a chain must be refused even though the signature it carries
// still verifies.
func TestExtendProofRejectsReusedNullifier(t *testing.T) {
	c := qt.New(t)
	params := testParams(t)
	mgr := New(params, NewMemStore(), newTestLedger(t))

	alice := newTestAccount(t)
	bob := newTestAccount(t)

	rootProof, err := mgr.CreatePhraseRootProof(alice.Keypair)
	c.Assert(err, qt.IsNil)

	aliceToBob := issueActiveRelationship(t, alice, bob)

	_, err = mgr.ExtendProof(rootProof, alice.Keypair.PK, aliceToBob, bob.Keypair)
	c.Assert(err, qt.IsNil)

	_, err = mgr.ExtendProof(rootProof, alice.Keypair.PK, aliceToBob, bob.Keypair)
	c.Assert(err, qt.ErrorMatches, "protocol_violation.*")
}
