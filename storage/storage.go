// Package storage is a prefixed key-value store for the artifacts a proof
// session needs to persist across requests: folded proofs, issued
// relationships, and the nullifiers a server has already seen. The
// following prefixes are used:
//   - 'pf/' for folded proofs, keyed by a hash of their encoded record
//   - 'rl/' for relationships, keyed by the nullifier they issued
//   - 'nf/' for the set of spent nullifiers
package storage

import (
	"encoding/hex"
	"math/big"

	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"

	"github.com/grapevine-zk/grapevine/identity"
	"github.com/grapevine-zk/grapevine/ivc"
)

var (
	proofPrefix        = []byte("pf/")
	relationshipPrefix = []byte("rl/")
	nullifierPrefix    = []byte("nf/")
)

const (
	// maxKeySize is the number of bytes a hashed key is truncated to.
	maxKeySize = 12
)

// Storage wraps a prefixed key-value database with the operations the
// proof session manager needs.
type Storage struct {
	db db.Database
}

// New creates a new Storage instance over db.
func New(db db.Database) *Storage {
	return &Storage{db: db}
}

// Close closes the underlying database.
func (s *Storage) Close() {
	s.db.Close()
}

// GetProof retrieves a folded proof by the key returned from SetProof.
func (s *Storage) GetProof(key string) (*ivc.FoldedProof, error) {
	bkey, err := hex.DecodeString(key)
	if err != nil {
		return nil, err
	}
	rTx := prefixeddb.NewPrefixedReader(s.db, proofPrefix)
	data, err := rTx.Get(bkey)
	if err != nil {
		return nil, err
	}
	var record proofRecord
	if err := decodeArtifact(data, &record); err != nil {
		return nil, err
	}
	return record.decode()
}

// SetProof stores a folded proof, keyed by a truncated hash of its
// marshalled form, and returns that key hex-encoded.
func (s *Storage) SetProof(proof *ivc.FoldedProof) (string, error) {
	record, err := newProofRecord(proof)
	if err != nil {
		return "", err
	}
	data, err := encodeArtifact(record)
	if err != nil {
		return "", err
	}
	key := hashKey(data)
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), proofPrefix)
	if err := wTx.Set(key, data); err != nil {
		return "", err
	}
	if err := wTx.Commit(); err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}

// GetRelationship retrieves the relationship that issued nullifier.
func (s *Storage) GetRelationship(nullifier *identity.Nullifier) (*identity.Relationship, error) {
	rTx := prefixeddb.NewPrefixedReader(s.db, relationshipPrefix)
	data, err := rTx.Get(nullifierKeyBytes(nullifier))
	if err != nil {
		return nil, err
	}
	rel := &identity.Relationship{}
	if err := decodeArtifact(data, rel); err != nil {
		return nil, err
	}
	return rel, nil
}

// SetRelationship stores rel, keyed by the nullifier it issued, and marks
// that nullifier spent.
func (s *Storage) SetRelationship(rel *identity.Relationship) error {
	data, err := encodeArtifact(rel)
	if err != nil {
		return err
	}
	key := nullifierKeyBytes(&rel.Nullifier)
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), relationshipPrefix)
	if err := wTx.Set(key, data); err != nil {
		return err
	}
	if err := wTx.Commit(); err != nil {
		return err
	}
	return s.markNullifierSpent(key)
}

// NullifierSpent reports whether nullifier has already been recorded by a
// stored relationship.
func (s *Storage) NullifierSpent(nullifier *identity.Nullifier) (bool, error) {
	rTx := prefixeddb.NewPrefixedReader(s.db, nullifierPrefix)
	_, err := rTx.Get(nullifierKeyBytes(nullifier))
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (s *Storage) markNullifierSpent(key []byte) error {
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), nullifierPrefix)
	if err := wTx.Set(key, []byte{1}); err != nil {
		return err
	}
	return wTx.Commit()
}

func nullifierKeyBytes(n *identity.Nullifier) []byte {
	b := (*big.Int)(n).Bytes()
	return hashKey(b)
}
