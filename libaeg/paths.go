package libaeg

import (
	"github.com/2x3systems/goaeg/aeg"
)

// ContainsAtom returns true if atom is asserted in this context or any context nested in it.
func (X *Graph) ContainsAtom(atom string) bool {
	for _, ai := range X.atoms {
		if ai == atom {
			return true
		}
	}
	for _, child := range X.children {
		if child.ContainsAtom(atom) {
			return true
		}
	}
	return false
}

// ContainsGraph returns true if a cut equal to sub is nested at any depth inside this context.
func (X *Graph) ContainsGraph(sub *Graph) bool {
	for _, child := range X.children {
		if child.repr == sub.repr || child.ContainsGraph(sub) {
			return true
		}
	}
	return false
}

// PathsToAtom returns the path of every occurrence of atom.
//
// An atom that is the sole element of this (outermost) context is left out: there is no path
// "into" a singleton root for a rule to act on.
func (X *Graph) PathsToAtom(atom string) []aeg.Path {
	var paths []aeg.Path

	Ns := len(X.children)
	if X.Size() > 1 {
		for i, ai := range X.atoms {
			if ai == atom {
				paths = append(paths, aeg.Path{Ns + i})
			}
		}
	}

	for i, child := range X.children {
		if child.ContainsAtom(atom) {
			paths = child.appendAtomPaths(paths, aeg.Path{i}, atom)
		}
	}
	return paths
}

func (X *Graph) appendAtomPaths(paths []aeg.Path, prefix aeg.Path, atom string) []aeg.Path {
	Ns := len(X.children)
	for i, ai := range X.atoms {
		if ai == atom {
			paths = append(paths, prefix.Child(Ns+i))
		}
	}
	for i, child := range X.children {
		if child.ContainsAtom(atom) {
			paths = child.appendAtomPaths(paths, prefix.Child(i), atom)
		}
	}
	return paths
}

// PathsToGraph returns the path of every cut equal to sub.
// At each level, a matching cut that is the sole element of its context is skipped.
func (X *Graph) PathsToGraph(sub *Graph) []aeg.Path {
	return X.appendGraphPaths(nil, nil, sub.repr)
}

func (X *Graph) appendGraphPaths(paths []aeg.Path, prefix aeg.Path, key string) []aeg.Path {
	for i, child := range X.children {
		if child.repr == key && X.Size() > 1 {
			paths = append(paths, prefix.Child(i))
		} else {
			paths = child.appendGraphPaths(paths, prefix.Child(i), key)
		}
	}
	return paths
}

// appendOccurrences appends the path of every element nested at any depth in X whose key
// (see keyAt) equals key.  Unlike PathsToAtom and PathsToGraph, no occurrence is skipped.
func (X *Graph) appendOccurrences(paths []aeg.Path, prefix aeg.Path, key string) []aeg.Path {
	Ns := len(X.children)
	for i, child := range X.children {
		if child.repr == key {
			paths = append(paths, prefix.Child(i))
		} else {
			paths = child.appendOccurrences(paths, prefix.Child(i), key)
		}
	}
	for i, ai := range X.atoms {
		if ai == key {
			paths = append(paths, prefix.Child(Ns+i))
		}
	}
	return paths
}

// ElementPaths returns the path of every element at every depth, in depth-first order.
func (X *Graph) ElementPaths() []aeg.Path {
	return X.appendElementPaths(nil, nil)
}

func (X *Graph) appendElementPaths(paths []aeg.Path, prefix aeg.Path) []aeg.Path {
	for i, child := range X.children {
		at := prefix.Child(i)
		paths = append(paths, at)
		paths = child.appendElementPaths(paths, at)
	}
	Ns := len(X.children)
	for i := range X.atoms {
		paths = append(paths, prefix.Child(Ns+i))
	}
	return paths
}
