// Package logic gives Alpha graphs their propositional meaning.
//
// A graph is compiled into an and-inverter circuit: a context is the conjunction of its
// elements, a cut negates that conjunction, and each atom name is one circuit variable.
// Satisfiability questions are then answered by a SAT solver.
package logic

import (
	"sort"

	"github.com/2x3systems/goaeg/aeg"
	"github.com/2x3systems/goaeg/libaeg"
	"github.com/go-air/gini"
	aig "github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
)

const (
	satisfiable   = 1
	unsatisfiable = -1
)

// Circuit compiles any number of graphs into one circuit so that equal atom names share a variable.
type Circuit struct {
	c     *aig.C
	vars  map[string]z.Lit
	names []string
}

func NewCircuit() *Circuit {
	return &Circuit{
		c:    aig.NewC(),
		vars: make(map[string]z.Lit),
	}
}

func (cc *Circuit) atom(name string) z.Lit {
	m, ok := cc.vars[name]
	if !ok {
		m = cc.c.Lit()
		cc.vars[name] = m
		cc.names = append(cc.names, name)
	}
	return m
}

// Lit returns the circuit literal that is true exactly when X holds.
func (cc *Circuit) Lit(X *libaeg.Graph) z.Lit {
	lits := make([]z.Lit, 0, X.Size())
	for _, atom := range X.Atoms() {
		lits = append(lits, cc.atom(atom))
	}
	for _, child := range X.Children() {
		lits = append(lits, cc.Lit(child))
	}

	conj := cc.c.Ands(lits...)
	if X.IsSheet() {
		return conj
	}
	return conj.Not()
}

// solve returns the solver after solving for m, or nil if m is a constant.
func (cc *Circuit) solve(m z.Lit) (*gini.Gini, int) {
	switch m {
	case cc.c.T:
		return nil, satisfiable
	case cc.c.F:
		return nil, unsatisfiable
	}

	g := gini.New()
	cc.c.ToCnf(g)
	g.Assume(m)
	return g, g.Solve()
}

func (cc *Circuit) satisfiable(m z.Lit) bool {
	_, result := cc.solve(m)
	return result == satisfiable
}

func (cc *Circuit) implies(a, b z.Lit) bool {
	return !cc.satisfiable(cc.c.And(a, b.Not()))
}

func (cc *Circuit) equivalent(a, b z.Lit) bool {
	return cc.implies(a, b) && cc.implies(b, a)
}

// Satisfiable returns true if some assignment of the atoms makes X true.
func Satisfiable(X *libaeg.Graph) bool {
	cc := NewCircuit()
	return cc.satisfiable(cc.Lit(X))
}

// Valid returns true if X holds under every assignment of its atoms.
func Valid(X *libaeg.Graph) bool {
	cc := NewCircuit()
	return !cc.satisfiable(cc.Lit(X).Not())
}

// Implies returns true if every assignment making A true also makes B true.
func Implies(A, B *libaeg.Graph) bool {
	cc := NewCircuit()
	return cc.implies(cc.Lit(A), cc.Lit(B))
}

// Equivalent returns true if A and B hold under exactly the same assignments.
func Equivalent(A, B *libaeg.Graph) bool {
	cc := NewCircuit()
	return cc.equivalent(cc.Lit(A), cc.Lit(B))
}

// Assignment maps atom names to truth values.
type Assignment map[string]bool

// Names returns the assigned atom names in sorted order.
func (A Assignment) Names() []string {
	names := make([]string, 0, len(A))
	for name := range A {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Model returns an assignment under which X holds, or false if X is unsatisfiable.
func Model(X *libaeg.Graph) (Assignment, bool) {
	cc := NewCircuit()
	m := cc.Lit(X)

	g, result := cc.solve(m)
	if result != satisfiable {
		return nil, false
	}

	model := make(Assignment, len(cc.names))
	for _, name := range cc.names {
		model[name] = g != nil && g.Value(cc.vars[name])
	}
	return model, true
}

// CheckStep verifies that after follows from before by the given rule.  Double cuts and deiteration
// must give an equivalent graph; erasure must give a graph implied by before.
func CheckStep(before, after *libaeg.Graph, rule aeg.Rule) error {
	cc := NewCircuit()
	a, b := cc.Lit(before), cc.Lit(after)

	if rule.PreservesEquivalence() {
		if !cc.equivalent(a, b) {
			return errors.Wrapf(aeg.ErrUnsound, "%s: %v is not equivalent to %v", rule, before, after)
		}
	} else if !cc.implies(a, b) {
		return errors.Wrapf(aeg.ErrUnsound, "%s: %v does not imply %v", rule, before, after)
	}
	return nil
}

// CheckProof replays the proof and checks every step with CheckStep.
func CheckProof(proof *aeg.Proof) error {
	trace, err := libaeg.Replay(proof)
	if err != nil {
		return err
	}
	for i, step := range proof.Steps {
		if err = CheckStep(trace[i], trace[i+1], step.Rule); err != nil {
			return errors.Wrapf(err, "step %d", i+1)
		}
	}
	return nil
}
