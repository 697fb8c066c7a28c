// Package session implements the higher-level proof workflows built on top
// of the IVC driver: creating a phrase-root proof, extending a proof by one
// hop of relation, verifying a proof against a claimed degree and scope,
// issuing authorization tokens between active relationships, and
// reconciling a held proof against newly available shorter paths.
package session

import (
	"math/big"

	"github.com/grapevine-zk/grapevine/circuit"
	"github.com/grapevine-zk/grapevine/crypto/babyjub"
	"github.com/grapevine-zk/grapevine/grapevineerrors"
	"github.com/grapevine-zk/grapevine/identity"
	"github.com/grapevine-zk/grapevine/ivc"
	"github.com/grapevine-zk/grapevine/log"
)

// Manager runs proof workflows against a fixed set of public parameters, a
// proof store, and a relationship ledger. It holds no account secrets:
// every operation that needs a signing key takes it as an argument.
type Manager struct {
	Params *ivc.PublicParams
	Proofs ProofStore
	Ledger RelationshipLedger
}

// New builds a Manager over params, store, and ledger.
func New(params *ivc.PublicParams, store ProofStore, ledger RelationshipLedger) *Manager {
	return &Manager{Params: params, Proofs: store, Ledger: ledger}
}

// CreatePhraseRootProof runs the identity step followed by the terminating
// chaff step for prover, producing the phrase-root FoldedProof: degree 0,
// scope and relation both addr(prover).
func (m *Manager) CreatePhraseRootProof(prover *identity.Keypair) (*ivc.FoldedProof, error) {
	proverAddr, err := identity.DeriveAddress(prover.PK)
	if err != nil {
		return nil, err
	}
	scopeSig, err := identity.SignScope(prover.SK, proverAddr)
	if err != nil {
		return nil, err
	}

	identityWitness := circuit.Witness{
		RelationPubKey:    [2]*big.Int{big.NewInt(0), big.NewInt(0)},
		ProverPubKey:      [2]*big.Int{prover.PK.X, prover.PK.Y},
		RelationNullifier: big.NewInt(0),
		AuthSignature:     &babyjub.Signature{R8x: big.NewInt(0), R8y: big.NewInt(0), S: big.NewInt(0)},
		ScopeSignature:    scopeSig,
	}

	afterIdentity, err := ivc.Step(m.Params, ivc.Init(), identityWitness)
	if err != nil {
		return nil, err
	}
	proof, err := ivc.Step(m.Params, afterIdentity, circuit.ZeroWitness())
	if err != nil {
		return nil, err
	}

	if err := m.Proofs.Put(*proverAddr, *proverAddr, proof); err != nil {
		return nil, err
	}
	log.Infow("phrase-root proof created", "scope", proverAddr.String())
	return proof, nil
}

// ExtendProof builds the degree-extension of priorProof as recipient,
// binding relationPK (the issuer Q's public key) and auth (the nullifier
// and auth signature Q issued to recipient), and appends the terminating
// chaff step. The scope is inherited from priorProof; the caller is
// responsible for having verified priorProof beforehand.
func (m *Manager) ExtendProof(priorProof *ivc.FoldedProof, relationPK *babyjub.PublicKey, auth *identity.Relationship, recipient *identity.Keypair) (*ivc.FoldedProof, error) {
	recipientAddr, err := identity.DeriveAddress(recipient.PK)
	if err != nil {
		return nil, err
	}
	if auth.Recipient.String() != recipientAddr.String() {
		return nil, grapevineerrors.ProtocolViolationf("authorization was not issued to this recipient")
	}

	spent, err := m.Ledger.NullifierSpent(&auth.Nullifier)
	if err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "check nullifier spent")
	}
	if spent {
		return nil, grapevineerrors.ProtocolViolationf("nullifier already embedded in a chain")
	}

	scope := priorProof.State.Scope()
	scopeSig, err := recipient.SK.Sign(scope)
	if err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "sign inherited scope")
	}

	degreeWitness := circuit.Witness{
		RelationPubKey:    [2]*big.Int{relationPK.X, relationPK.Y},
		ProverPubKey:      [2]*big.Int{recipient.PK.X, recipient.PK.Y},
		RelationNullifier: (*big.Int)(&auth.Nullifier),
		AuthSignature:     auth.AuthSig,
		ScopeSignature:    scopeSig,
	}

	afterDegree, err := ivc.Step(m.Params, priorProof, degreeWitness)
	if err != nil {
		return nil, err
	}
	proof, err := ivc.Step(m.Params, afterDegree, circuit.ZeroWitness())
	if err != nil {
		return nil, err
	}

	// Record the nullifier as spent before persisting the proof, so a
	// crash between the two leaves the nullifier unusable rather than
	// replayable. The ledger only needs the fields that identify the
	// spend, not auth's Reverse link, which would otherwise make this a
	// cyclic structure once the relationship has been activated.
	spend := &identity.Relationship{
		Issuer:    auth.Issuer,
		Recipient: auth.Recipient,
		Nullifier: auth.Nullifier,
		AuthSig:   auth.AuthSig,
	}
	if err := m.Ledger.SetRelationship(spend); err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.ProtocolViolation, err, "record spent nullifier")
	}

	scopeAddr := identity.Address(*scope)
	if err := m.Proofs.Put(*recipientAddr, scopeAddr, proof); err != nil {
		return nil, err
	}
	log.Infow("proof extended", "scope", scopeAddr.String(), "degree", proof.State.Degree())
	return proof, nil
}

// VerifyProof checks that proof is a valid terminal FoldedProof claiming
// the given degree and scope. A valid terminal state always ends on the
// chaff step's output, which resets obfuscate to 0 (see DESIGN.md on the
// obfuscate-flag convention); VerifyProof rejects any state where that
// flag has not settled back to 0.
func (m *Manager) VerifyProof(proof *ivc.FoldedProof, degree int, scope *identity.Address) (bool, error) {
	state := proof.State
	if state.Obfuscate().Sign() != 0 {
		return false, grapevineerrors.VerificationFailuref("terminal state was not reached via the closing chaff step")
	}
	if state.Degree().Cmp(big.NewInt(int64(degree))) != 0 {
		return false, grapevineerrors.VerificationFailuref("proof degree %s does not match claimed degree %d", state.Degree(), degree)
	}
	if state.Scope().Cmp((*big.Int)(scope)) != 0 {
		return false, grapevineerrors.VerificationFailuref("proof scope does not match claimed scope")
	}
	return ivc.Verify(m.Params, proof, state)
}

// IssueAuthorization delegates to identity.IssueAuthorization: it is the
// manager-level entry point for issuing an authorization token from one
// side of a relationship to the other once that relationship is active.
func (m *Manager) IssueAuthorization(issuer *identity.Keypair, issuerAddr *identity.Address, authSecret *identity.AuthSecret, recipientAddr *identity.Address) (*identity.Relationship, error) {
	return identity.IssueAuthorization(issuer, issuerAddr, authSecret, recipientAddr)
}

// ActivateRelationship pairs a forward relationship (issuer -> recipient)
// with its reverse (recipient -> issuer), making both sides Active. It
// fails if the two relationships do not name each other as issuer and
// recipient.
func ActivateRelationship(forward, reverse *identity.Relationship) error {
	if forward.Issuer.String() != reverse.Recipient.String() || forward.Recipient.String() != reverse.Issuer.String() {
		return grapevineerrors.ProtocolViolationf("forward and reverse relationships do not name each other")
	}
	forward.Reverse = reverse
	reverse.Reverse = forward
	return nil
}

// Candidate is what ReconcileShortestPath needs about one direct relation
// of owner: the relation's public key (a FoldedProof only ever exposes
// addr = Poseidon(Ax, Ay), never the raw point, so it must be supplied out
// of band) and the authorization token that relation issued to owner.
type Candidate struct {
	RelationPK *babyjub.PublicKey
	Auth       *identity.Relationship
}

// ReconcileShortestPath looks, for every scope owner holds a proof for, at
// each candidate relation's proof of that same scope; if a relation's
// proof is short enough that extending from it would beat owner's current
// proof, it rebuilds the proof from that relation and discards the longer
// one. relations maps a relation's address to what's needed to extend from
// them; relationProofs supplies each relation's own proof of the scope
// under reconciliation.
func (m *Manager) ReconcileShortestPath(owner *identity.Keypair, ownerAddr *identity.Address, relations map[identity.Address]Candidate, relationProofs func(relation, scope identity.Address) (*ivc.FoldedProof, bool, error)) error {
	held, err := m.Proofs.ByScope(*ownerAddr)
	if err != nil {
		return err
	}

	for scope, oldProof := range held {
		dOld := oldProof.State.Degree()

		for relationAddr, candidate := range relations {
			relationProof, ok, err := relationProofs(relationAddr, scope)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			dNew := relationProof.State.Degree()
			if new(big.Int).Add(dNew, big.NewInt(1)).Cmp(dOld) >= 0 {
				continue
			}

			rebuilt, err := m.ExtendProof(relationProof, candidate.RelationPK, candidate.Auth, owner)
			if err != nil {
				return err
			}
			log.Infow("reconciled shorter path", "scope", scope.String(), "oldDegree", dOld, "newDegree", rebuilt.State.Degree())
			dOld = rebuilt.State.Degree()
		}
	}
	return nil
}
