package session

import (
	"fmt"
	"sync"

	"github.com/grapevine-zk/grapevine/identity"
	"github.com/grapevine-zk/grapevine/ivc"
	"github.com/grapevine-zk/grapevine/storage"
)

// ProofStore holds at most one FoldedProof per (owner, scope) pair. Owner
// is the account the proof belongs to; scope is the address of the phrase
// the proof attests knowledge of.
type ProofStore interface {
	Get(owner, scope identity.Address) (*ivc.FoldedProof, bool, error)
	Put(owner, scope identity.Address, proof *ivc.FoldedProof) error
	Delete(owner, scope identity.Address) error
	// ByScope returns every proof owner holds, keyed by the scope it
	// attests, used by ReconcileShortestPath to find a shorter path.
	ByScope(owner identity.Address) (map[identity.Address]*ivc.FoldedProof, error)
}

// RelationshipLedger tracks which nullifiers have already been embedded in
// some prover's chain, so ExtendProof can refuse to reuse one.
// *storage.Storage satisfies this directly.
type RelationshipLedger interface {
	NullifierSpent(nullifier *identity.Nullifier) (bool, error)
	SetRelationship(rel *identity.Relationship) error
}

func proofKey(owner, scope identity.Address) string {
	return fmt.Sprintf("%s:%s", owner.String(), scope.String())
}

// MemStore is an in-process ProofStore with no persistence, the backend
// the example end-to-end scenarios run against.
type MemStore struct {
	mu   sync.RWMutex
	byID map[string]*ivc.FoldedProof
	// index maps owner -> scope -> proof key, so ByScope can enumerate an
	// owner's proofs without scanning byID.
	index map[identity.Address]map[identity.Address]string
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		byID:  make(map[string]*ivc.FoldedProof),
		index: make(map[identity.Address]map[identity.Address]string),
	}
}

func (m *MemStore) Get(owner, scope identity.Address) (*ivc.FoldedProof, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	proof, ok := m.byID[proofKey(owner, scope)]
	return proof, ok, nil
}

func (m *MemStore) Put(owner, scope identity.Address, proof *ivc.FoldedProof) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[proofKey(owner, scope)] = proof
	if m.index[owner] == nil {
		m.index[owner] = make(map[identity.Address]string)
	}
	m.index[owner][scope] = proofKey(owner, scope)
	return nil
}

func (m *MemStore) Delete(owner, scope identity.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, proofKey(owner, scope))
	delete(m.index[owner], scope)
	return nil
}

func (m *MemStore) ByScope(owner identity.Address) (map[identity.Address]*ivc.FoldedProof, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[identity.Address]*ivc.FoldedProof, len(m.index[owner]))
	for scope, key := range m.index[owner] {
		out[scope] = m.byID[key]
	}
	return out, nil
}

// DBStore is a ProofStore backed by a persistent storage.Storage. It keeps
// the (owner, scope) index in memory and delegates the proof bytes
// themselves to storage, splitting an in-memory routing table from an
// on-disk artifact cache.
type DBStore struct {
	mu    sync.RWMutex
	db    *storage.Storage
	index map[identity.Address]map[identity.Address]string // owner -> scope -> storage key
}

// NewDBStore wraps db for use as a ProofStore.
func NewDBStore(db *storage.Storage) *DBStore {
	return &DBStore{db: db, index: make(map[identity.Address]map[identity.Address]string)}
}

func (d *DBStore) Get(owner, scope identity.Address) (*ivc.FoldedProof, bool, error) {
	d.mu.RLock()
	storageKey, ok := d.index[owner][scope]
	d.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	proof, err := d.db.GetProof(storageKey)
	if err != nil {
		return nil, false, err
	}
	return proof, true, nil
}

func (d *DBStore) Put(owner, scope identity.Address, proof *ivc.FoldedProof) error {
	storageKey, err := d.db.SetProof(proof)
	if err != nil {
		return err
	}
	d.mu.Lock()
	if d.index[owner] == nil {
		d.index[owner] = make(map[identity.Address]string)
	}
	d.index[owner][scope] = storageKey
	d.mu.Unlock()
	return nil
}

func (d *DBStore) Delete(owner, scope identity.Address) error {
	d.mu.Lock()
	delete(d.index[owner], scope)
	d.mu.Unlock()
	return nil
}

func (d *DBStore) ByScope(owner identity.Address) (map[identity.Address]*ivc.FoldedProof, error) {
	d.mu.RLock()
	keys := make(map[identity.Address]string, len(d.index[owner]))
	for scope, storageKey := range d.index[owner] {
		keys[scope] = storageKey
	}
	d.mu.RUnlock()

	out := make(map[identity.Address]*ivc.FoldedProof, len(keys))
	for scope, storageKey := range keys {
		proof, err := d.db.GetProof(storageKey)
		if err != nil {
			return nil, err
		}
		out[scope] = proof
	}
	return out, nil
}
