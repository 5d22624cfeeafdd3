package catalog

import (
	"runtime"
	"sync"

	"github.com/2x3systems/goaeg/aeg"
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

/***

Catalog database format:

	gCatalogStateKey                 => catalogState

	gGraphPrefix, CanonicGraphString => nil
	...

	gProofPrefix, ProofName          => Proof (see encoding.go)
	...

Graph keys are canonical serializations, so a graph is present iff an equal graph was added.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
	gGraphPrefix     = []byte{0x01}
	gProofPrefix     = []byte{0x02}
)

const (
	kMajorVers = 2024
	kMinorVers = 1
)

// catalog is a db wrapper for graphs and proofs
type catalog struct {
	mu         sync.Mutex
	readOnly   bool
	stateDirty bool
	state      catalogState
	db         *badger.DB
	pathname   string
}

func OpenCatalog(opts aeg.CatalogOpts) (aeg.Catalog, error) {
	cat := &catalog{
		readOnly: opts.ReadOnly,
		pathname: opts.DbPathName,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(aeg.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = true
		cat.state.MajorVers = kMajorVers
		cat.state.MinorVers = kMinorVers
	}

	if err == nil && (cat.state.MajorVers != kMajorVers || cat.state.MinorVers != kMinorVers) {
		err = errors.Wrapf(aeg.ErrBadCatalogParam, "catalog version %d.%d is incompatible", cat.state.MajorVers, cat.state.MinorVers)
	}

	if err != nil {
		cat.db.Close()
		return nil, err
	}

	klog.V(2).Infof("opened catalog %q (%d graphs, read-only=%v)", cat.pathname, cat.state.NumGraphs, cat.readOnly)
	return cat, nil
}

func (cat *catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cat.state.Unmarshal(val)
		})
	})
}

func (cat *catalog) flushState() error {
	if !cat.stateDirty || cat.readOnly {
		return nil
	}
	err := cat.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gCatalogStateKey, cat.state.Marshal())
	})
	if err == nil {
		cat.stateDirty = false
	}
	return err
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) NumGraphs() int64 {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	return int64(cat.state.NumGraphs)
}

func (cat *catalog) TryAddGraph(X aeg.GraphState) bool {
	var keyBuf [256]byte
	key := X.AppendTo(append(keyBuf[:0], gGraphPrefix...))

	// A read-only catalog never adds
	if cat.readOnly {
		return false
	}

	cat.mu.Lock()
	defer cat.mu.Unlock()

	// The graph key and the updated count are committed together.
	added := false
	next := cat.state
	next.NumGraphs++
	err := cat.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err != badger.ErrKeyNotFound {
			return err
		}
		added = true
		if err = txn.Set(key, nil); err != nil {
			return err
		}
		return txn.Set(gCatalogStateKey, next.Marshal())
	})
	if err != nil {
		klog.Errorf("catalog: adding graph %v: %v", X, err)
		return false
	}

	if added {
		cat.state = next
		cat.stateDirty = false
	}
	return added
}

func proofKey(name string) []byte {
	key := make([]byte, 0, len(gProofPrefix)+len(name))
	key = append(key, gProofPrefix...)
	return append(key, name...)
}

func (cat *catalog) PutProof(proof *aeg.Proof) error {
	if cat.readOnly {
		return aeg.ErrReadOnly
	}
	if len(proof.Name) == 0 {
		return errors.Wrap(aeg.ErrBadCatalogParam, "proof name must be set")
	}

	err := cat.db.Update(func(txn *badger.Txn) error {
		return txn.Set(proofKey(proof.Name), marshalProof(proof))
	})
	if err != nil {
		return errors.Wrapf(err, "storing proof %q", proof.Name)
	}

	klog.V(2).Infof("catalog: stored proof %q (%d steps)", proof.Name, len(proof.Steps))
	return nil
}

func (cat *catalog) GetProof(name string) (*aeg.Proof, error) {
	var proof *aeg.Proof
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(proofKey(name))
		if err == badger.ErrKeyNotFound {
			return errors.Wrapf(aeg.ErrProofNotFound, "%q", name)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			proof, err = unmarshalProof(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return proof, nil
}

func (cat *catalog) SelectProofs(onHit chan<- *aeg.Proof) error {
	return cat.db.View(func(txn *badger.Txn) error {
		itr := txn.NewIterator(badger.DefaultIteratorOptions)
		defer itr.Close()

		for itr.Seek(gProofPrefix); itr.ValidForPrefix(gProofPrefix); itr.Next() {
			var proof *aeg.Proof
			err := itr.Item().Value(func(val []byte) error {
				var err error
				proof, err = unmarshalProof(val)
				return err
			})
			if err != nil {
				return err
			}
			onHit <- proof
		}
		return nil
	})
}

func (cat *catalog) Close() error {
	if cat.db == nil {
		return nil
	}

	cat.mu.Lock()
	err := cat.flushState()
	cat.mu.Unlock()

	if cerr := cat.db.Close(); err == nil {
		err = cerr
	}
	cat.db = nil

	klog.V(2).Infof("closed catalog %q", cat.pathname)
	return err
}
