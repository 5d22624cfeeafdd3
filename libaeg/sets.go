package libaeg

import (
	"github.com/2x3systems/goaeg/aeg"
	"github.com/dgraph-io/badger/v3"
	"github.com/emirpasic/gods/sets/treeset"
)

// pathSet is an ordered set of paths; Paths() returns them sorted and without duplicates.
type pathSet struct {
	tree *treeset.Set
}

func newPathSet() pathSet {
	return pathSet{
		tree: treeset.NewWith(func(A, B interface{}) int {
			return A.(aeg.Path).Compare(B.(aeg.Path))
		}),
	}
}

func (set pathSet) Add(path aeg.Path) {
	set.tree.Add(path)
}

func (set pathSet) Paths() []aeg.Path {
	paths := make([]aeg.Path, 0, set.tree.Size())
	itr := set.tree.Iterator()
	for itr.Next() {
		paths = append(paths, itr.Value().(aeg.Path))
	}
	return paths
}

func containsPath(paths []aeg.Path, path aeg.Path) bool {
	for _, pi := range paths {
		if pi.Equals(path) {
			return true
		}
	}
	return false
}

// CanonicSet allows adding graphs and returning if an equal graph (same canonical serialization) has already been added.
type CanonicSet interface {

	// TryAddGraph adds the given graph if it is not already present.
	//
	// If an equal graph already is in this CanonicSet, this call has no effect and false is returned.
	// If X isn't in this set, X is added and true is returned.
	//
	// After one or more calls to TryAddGraph(), call Close() for cleanup.
	aeg.GraphAdder

	// Close removes all previously added items from this set.
	//
	// If you make subsequent calls to TryAddGraph(), be sure you call Close() when you're done.
	Close()
}

// NewCanonicSet returns an empty in-memory set keyed by canonical serialization.  It is the store
// behind GraphStream.DropDupes in scripts and the dedupe stage of a replayed proof.
func NewCanonicSet() CanonicSet {
	return &canonicSet{}
}

type canonicSet struct {
	db *badger.DB
}

func (set *canonicSet) autoOpen() {
	if set.db == nil {
		dbOpts := badger.DefaultOptions("").WithInMemory(true)
		dbOpts.Logger = nil
		dbOpts.MetricsEnabled = false

		var err error
		set.db, err = badger.Open(dbOpts)
		if err != nil {
			panic(err)
		}
	}
}

func (set *canonicSet) TryAddGraph(X aeg.GraphState) bool {
	var buf [256]byte
	return set.tryAdd(X.AppendTo(buf[:0]))
}

func (set *canonicSet) tryAdd(key []byte) bool {
	set.autoOpen()

	txn := set.db.NewTransaction(true)
	defer txn.Discard()

	added := false
	_, err := txn.Get(key)
	if err == nil {
		// no-op since the key is already in the db
	} else if err == badger.ErrKeyNotFound {
		err = txn.Set(key, nil)
		added = true
	}
	if err == nil {
		err = txn.Commit()
	}

	if err != nil {
		panic(err)
	}

	return added
}

func (set *canonicSet) Close() {
	if set.db != nil {
		set.db.Close()
		set.db = nil
	}
}
