package libaeg

import (
	"github.com/2x3systems/goaeg/aeg"
	"github.com/pkg/errors"
)

func errPathAt(path aeg.Path, depth int) error {
	return errors.Wrapf(aeg.ErrInvalidPath, "%v: no element at index %d (depth %d)", path, path[depth], depth)
}

// rewrite returns a copy of X where the context at ctxPath is replaced by edit(context).
// Only the contexts along ctxPath are rebuilt; every other cut is shared with X.
func (X *Graph) rewrite(ctxPath aeg.Path, depth int, edit func(ctx *Graph) (*Graph, error)) (*Graph, error) {
	if depth == len(ctxPath) {
		return edit(X)
	}

	i := ctxPath[depth]
	if i < 0 || i >= len(X.children) {
		return nil, errPathAt(ctxPath, depth)
	}

	child, err := X.children[i].rewrite(ctxPath, depth+1, edit)
	if err != nil {
		return nil, err
	}

	children := make([]*Graph, len(X.children))
	copy(children, X.children)
	children[i] = child
	return newGraph(X.isSheet, X.atoms, children), nil
}

// splitPath separates a non-empty element path into the path of its context and its index there.
func splitPath(path aeg.Path) (aeg.Path, int, error) {
	if len(path) == 0 {
		return nil, 0, errors.Wrap(aeg.ErrInvalidPath, "empty path")
	}
	N := len(path) - 1
	return path[:N], path[N], nil
}

// without returns a copy of X with the element at index idx removed.
func (X *Graph) without(idx int) (*Graph, error) {
	Ns := len(X.children)
	switch {
	case idx >= 0 && idx < Ns:
		children := make([]*Graph, 0, Ns-1)
		children = append(children, X.children[:idx]...)
		children = append(children, X.children[idx+1:]...)
		return newGraph(X.isSheet, X.atoms, children), nil
	case idx >= Ns && idx < X.Size():
		ai := idx - Ns
		atoms := make([]string, 0, len(X.atoms)-1)
		atoms = append(atoms, X.atoms[:ai]...)
		atoms = append(atoms, X.atoms[ai+1:]...)
		return newGraph(X.isSheet, atoms, X.children), nil
	}
	return nil, errors.Wrapf(aeg.ErrInvalidPath, "no element at index %d", idx)
}

func (X *Graph) removeAt(path aeg.Path) (*Graph, error) {
	ctxPath, idx, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	return X.rewrite(ctxPath, 0, func(ctx *Graph) (*Graph, error) {
		return ctx.without(idx)
	})
}

// isDoubleCut returns true if this cut's sole element is another cut.
func (X *Graph) isDoubleCut() bool {
	return len(X.atoms) == 0 && len(X.children) == 1
}

// PossibleDoubleCuts returns the path of every nested cut whose sole element is another cut, in depth-first order.
func (X *Graph) PossibleDoubleCuts() []aeg.Path {
	return X.appendDoubleCuts(nil, nil)
}

func (X *Graph) appendDoubleCuts(paths []aeg.Path, prefix aeg.Path) []aeg.Path {
	for i, child := range X.children {
		at := prefix.Child(i)
		if child.isDoubleCut() {
			paths = append(paths, at)
		}
		paths = child.appendDoubleCuts(paths, at)
	}
	return paths
}

// DoubleCut removes the double cut at path: both cuts go away and the inner cut's atoms and cuts
// are placed directly in the context that held the outer cut.
func (X *Graph) DoubleCut(path aeg.Path) (*Graph, error) {
	ctxPath, idx, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	Xout, err := X.rewrite(ctxPath, 0, func(ctx *Graph) (*Graph, error) {
		if idx < 0 || idx >= len(ctx.children) || !ctx.children[idx].isDoubleCut() {
			return nil, errors.Wrap(aeg.ErrInvalidPath, "not a double cut")
		}
		inner := ctx.children[idx].children[0]

		children := make([]*Graph, 0, len(ctx.children)-1+len(inner.children))
		children = append(children, ctx.children[:idx]...)
		children = append(children, ctx.children[idx+1:]...)
		children = append(children, inner.children...)

		atoms := make([]string, 0, len(ctx.atoms)+len(inner.atoms))
		atoms = append(atoms, ctx.atoms...)
		atoms = append(atoms, inner.atoms...)

		return newGraph(ctx.isSheet, atoms, children), nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "double-cut at %v", path)
	}
	return Xout, nil
}

// InsertDoubleCut encloses the element at path in two cuts, the inverse of DoubleCut.
func (X *Graph) InsertDoubleCut(path aeg.Path) (*Graph, error) {
	ctxPath, idx, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	Xout, err := X.rewrite(ctxPath, 0, func(ctx *Graph) (*Graph, error) {
		var inner *Graph
		Ns := len(ctx.children)
		switch {
		case idx >= 0 && idx < Ns:
			inner = NewCut(nil, ctx.children[idx])
		case idx >= Ns && idx < ctx.Size():
			inner = NewCut(ctx.atoms[idx-Ns : idx-Ns+1])
		default:
			return nil, errors.Wrapf(aeg.ErrInvalidPath, "no element at index %d", idx)
		}

		rest, err := ctx.without(idx)
		if err != nil {
			return nil, err
		}
		children := append(rest.Children(), NewCut(nil, inner))
		return newGraph(ctx.isSheet, rest.atoms, children), nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "insert-double-cut at %v", path)
	}
	return Xout, nil
}

// PossibleErasures returns the sorted paths of elements that may be erased, where level is the
// nesting level of this context.  A level of -1 denotes the outermost call, where erasure is unrestricted.
//
// A cut is listed if something inside it is itself erasable; an atom is listed at an odd level only when
// more than one atom shares its context.  Paths found further down are kept only when their length
// has the same parity as level.
func (X *Graph) PossibleErasures(level int) []aeg.Path {
	paths := newPathSet()

	Ns := len(X.children)
	parity := level % 2
	if parity < 0 {
		parity = -parity
	}

	for i, child := range X.children {
		r := child.PossibleErasures(level + 1)
		if len(r) != 0 || level == -1 {
			paths.Add(aeg.Path{i})
		}
		for _, ri := range r {
			v := make(aeg.Path, 0, len(ri)+1)
			v = append(v, i)
			v = append(v, ri...)
			if len(v)%2 == parity {
				paths.Add(v)
			}
		}
	}

	for i := range X.atoms {
		if (len(X.atoms) > 1 && level%2 == 1) || level == -1 {
			paths.Add(aeg.Path{Ns + i})
		}
	}

	return paths.Paths()
}

// Erase removes the element at path, which must be one of PossibleErasures(-1).
func (X *Graph) Erase(path aeg.Path) (*Graph, error) {
	if !containsPath(X.PossibleErasures(-1), path) {
		return nil, errors.Wrapf(aeg.ErrInvalidPath, "erase at %v: not an erasable element", path)
	}
	return X.removeAt(path)
}

// PossibleDeiterations returns the sorted paths of elements that duplicate a dominating element.
//
// An element E may be deiterated when an equal element is a sibling of E, or is a sibling of one of
// the cuts enclosing E (i.e. appears in an enclosing context without itself containing E).
func (X *Graph) PossibleDeiterations() []aeg.Path {
	paths := newPathSet()
	X.collectDeiterations(paths, nil)
	return paths.Paths()
}

func (X *Graph) collectDeiterations(paths pathSet, prefix aeg.Path) {
	Ns := len(X.children)
	N := X.Size()

	// Element i dominates its equal siblings and every equal copy nested inside its sibling cuts.
	var inner []aeg.Path
	for i := 0; i < N; i++ {
		key := X.keyAt(i)
		for j := 0; j < N; j++ {
			if j == i {
				continue
			}
			if X.keyAt(j) == key {
				paths.Add(prefix.Child(j))
			} else if j < Ns {
				inner = X.children[j].appendOccurrences(inner[:0], prefix.Child(j), key)
				for _, pi := range inner {
					paths.Add(pi)
				}
			}
		}
	}

	for i, child := range X.children {
		child.collectDeiterations(paths, prefix.Child(i))
	}
}

// Deiterate removes the duplicate element at path, which must be one of PossibleDeiterations().
func (X *Graph) Deiterate(path aeg.Path) (*Graph, error) {
	if !containsPath(X.PossibleDeiterations(), path) {
		return nil, errors.Wrapf(aeg.ErrInvalidPath, "deiterate at %v: not a duplicate of a dominating element", path)
	}
	return X.removeAt(path)
}

// PossibleSteps returns every path where the given rule applies.
func (X *Graph) PossibleSteps(rule aeg.Rule) ([]aeg.Path, error) {
	switch rule {
	case aeg.RuleDoubleCut:
		return X.PossibleDoubleCuts(), nil
	case aeg.RuleInsertDoubleCut:
		return X.ElementPaths(), nil
	case aeg.RuleErase:
		return X.PossibleErasures(-1), nil
	case aeg.RuleDeiterate:
		return X.PossibleDeiterations(), nil
	}
	return nil, errors.Wrapf(aeg.ErrUnknownRule, "%q", rule)
}

// Apply performs a single rule application and returns the resulting graph.
func (X *Graph) Apply(step aeg.Step) (*Graph, error) {
	switch step.Rule {
	case aeg.RuleDoubleCut:
		return X.DoubleCut(step.Path)
	case aeg.RuleInsertDoubleCut:
		return X.InsertDoubleCut(step.Path)
	case aeg.RuleErase:
		return X.Erase(step.Path)
	case aeg.RuleDeiterate:
		return X.Deiterate(step.Path)
	}
	return nil, errors.Wrapf(aeg.ErrUnknownRule, "%q", step.Rule)
}
