package libaeg

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/2x3systems/goaeg/aeg"
)

// Graph is a context of an Alpha existential graph: either the sheet of assertion (the root) or a cut.
// It holds the atoms asserted directly in this context and the cuts nested directly inside it.
//
// A Graph is canonical and immutable once constructed: atoms are sorted, children are sorted by
// their serialization, and every rule application returns a new Graph.  Unchanged children are
// shared between versions.
type Graph struct {
	isSheet  bool
	atoms    []string
	children []*Graph
	repr     string // canonical serialization, computed once at construction
}

var emptyCut = newGraph(false, nil, nil)

// NewSheet returns the canonical sheet of assertion holding the given atoms and cuts.
// A sheet passed as a child is nested as a cut with the same contents.
func NewSheet(atoms []string, children ...*Graph) *Graph {
	return newGraph(true, atoms, children)
}

// NewCut returns the canonical cut holding the given atoms and cuts.
func NewCut(atoms []string, children ...*Graph) *Graph {
	return newGraph(false, atoms, children)
}

// EmptyCut returns the empty cut "[]", which denotes false.
func EmptyCut() *Graph {
	return emptyCut
}

func newGraph(isSheet bool, atoms []string, children []*Graph) *Graph {
	X := &Graph{
		isSheet: isSheet,
	}

	if len(atoms) > 0 {
		X.atoms = append(make([]string, 0, len(atoms)), atoms...)
		sort.Strings(X.atoms)
	}

	if len(children) > 0 {
		X.children = make([]*Graph, 0, len(children))
		for _, child := range children {
			if child == nil {
				continue
			}
			if child.isSheet {
				child = newGraph(false, child.atoms, child.children)
			}
			X.children = append(X.children, child)
		}
		sort.SliceStable(X.children, func(i, j int) bool {
			return X.children[i].repr < X.children[j].repr
		})
	}

	X.repr = string(X.appendRepr(make([]byte, 0, 16)))
	return X
}

func (X *Graph) appendRepr(dst []byte) []byte {
	lhs, rhs := byte('['), byte(']')
	if X.isSheet {
		lhs, rhs = '(', ')'
	}

	dst = append(dst, lhs)
	for i, child := range X.children {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = append(dst, child.repr...)
	}
	for i, atom := range X.atoms {
		if i > 0 || len(X.children) > 0 {
			dst = append(dst, ", "...)
		}
		dst = append(dst, atom...)
	}
	return append(dst, rhs)
}

// IsSheet returns true if this is the sheet of assertion (rendered with round brackets).
func (X *Graph) IsSheet() bool {
	return X.isSheet
}

// IsEmpty returns true if this context holds neither atoms nor cuts.
func (X *Graph) IsEmpty() bool {
	return X.Size() == 0
}

func (X *Graph) NumAtoms() int {
	return len(X.atoms)
}

func (X *Graph) NumSubgraphs() int {
	return len(X.children)
}

// Size returns the number of direct elements of this context: NumAtoms() + NumSubgraphs().
func (X *Graph) Size() int {
	return len(X.atoms) + len(X.children)
}

// Atoms returns a copy of the (sorted) atoms asserted directly in this context.
func (X *Graph) Atoms() []string {
	return append([]string(nil), X.atoms...)
}

// Children returns a copy of the (sorted) list of cuts nested directly in this context.
func (X *Graph) Children() []*Graph {
	return append([]*Graph(nil), X.children...)
}

// At indexes the combined element sequence children ++ atoms.
//
// An index selecting an atom returns a one-atom cut wrapping it.  Any index out of range
// (including a negative one) returns the empty cut rather than failing, so callers can look
// ahead without bounds checks.
func (X *Graph) At(i int) *Graph {
	Ns := len(X.children)
	switch {
	case i < 0:
		return emptyCut
	case i < Ns:
		return X.children[i]
	case i < X.Size():
		return newGraph(false, X.atoms[i-Ns:i-Ns+1], nil)
	}
	return emptyCut
}

// keyAt returns the canonical key of the element at index i: an atom's name, or a child's serialization.
// The two never collide since atoms contain no brackets.
func (X *Graph) keyAt(i int) string {
	Ns := len(X.children)
	if i < Ns {
		return X.children[i].repr
	}
	return X.atoms[i-Ns]
}

// Resolve returns the element the given path addresses.  Unlike At, an index out of range is an error.
func (X *Graph) Resolve(path aeg.Path) (*Graph, error) {
	cur := X
	for depth, idx := range path {
		last := depth == len(path)-1
		if idx < 0 || idx >= cur.Size() || (!last && idx >= len(cur.children)) {
			return nil, errPathAt(path, depth)
		}
		cur = cur.At(idx)
	}
	return cur, nil
}

// Equals returns true if X and other have the same canonical serialization.
func (X *Graph) Equals(other *Graph) bool {
	if X == nil || other == nil {
		return X == other
	}
	return X.repr == other.repr
}

// Compare orders graphs by their canonical serialization.
func (X *Graph) Compare(other *Graph) int {
	return strings.Compare(X.repr, other.repr)
}

// String returns the canonical serialization, e.g. "([A], B, C)".
func (X *Graph) String() string {
	if X == nil {
		return "<nil>"
	}
	return X.repr
}

// AppendTo appends the canonical serialization to dst.
func (X *Graph) AppendTo(dst []byte) []byte {
	return append(dst, X.repr...)
}

var siteRules = []aeg.Rule{
	aeg.RuleDoubleCut,
	aeg.RuleErase,
	aeg.RuleDeiterate,
}

// WriteAsString writes the canonical serialization and, if opts.Sites is set, the paths where each
// rule applies.  opts.Label is left to the caller (see GraphStream.Print).
func (X *Graph) WriteAsString(out io.Writer, opts aeg.PrintOpts) {
	buf := make([]byte, 0, 2*len(X.repr))

	if opts.Graph {
		buf = X.AppendTo(buf)
	}

	if opts.Sites {
		for _, rule := range siteRules {
			paths, _ := X.PossibleSteps(rule)
			if len(buf) > 0 {
				buf = append(buf, ' ')
			}
			buf = append(buf, rule...)
			buf = append(buf, ":{"...)
			for i, path := range paths {
				if i > 0 {
					buf = append(buf, ", "...)
				}
				buf = append(buf, path.String()...)
			}
			buf = append(buf, '}')
		}
	}

	out.Write(buf)
}

func (X *Graph) Println(prefix string) {
	b := strings.Builder{}
	b.Grow(192)
	b.WriteString(prefix)
	X.WriteAsString(&b, aeg.DefaultPrintOpts)
	fmt.Println(b.String())
}
