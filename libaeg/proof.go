package libaeg

import (
	"github.com/2x3systems/goaeg/aeg"
	"github.com/pkg/errors"
)

// Replay parses the proof's premise and applies each step in order.
//
// The returned trace holds the premise followed by the graph after each step.  If a step fails,
// the trace up to the failing step is returned along with the error.
func Replay(proof *aeg.Proof) ([]*Graph, error) {
	X, err := Parse(proof.Premise)
	if err != nil {
		return nil, errors.Wrap(err, "premise")
	}

	trace := make([]*Graph, 1, len(proof.Steps)+1)
	trace[0] = X

	for i, step := range proof.Steps {
		X, err = X.Apply(step)
		if err != nil {
			return trace, errors.Wrapf(err, "step %d (%s %v)", i+1, step.Rule, step.Path)
		}
		trace = append(trace, X)
	}
	return trace, nil
}

// StreamProof replays the given proof and streams the premise and each successive graph.
func StreamProof(proof *aeg.Proof) (*aeg.GraphStream, error) {
	trace, err := Replay(proof)
	if err != nil {
		return nil, err
	}

	next := aeg.NewGraphStream()
	go func() {
		for _, X := range trace {
			next.Outlet <- X
		}
		next.Close()
	}()

	return next, nil
}

// Derivation records the steps applied to a premise so they can be replayed or stored as a Proof.
type Derivation struct {
	proof aeg.Proof
	trace []*Graph
}

func NewDerivation(name string, premise *Graph) *Derivation {
	return &Derivation{
		proof: aeg.Proof{
			Name:    name,
			Premise: premise.String(),
		},
		trace: []*Graph{premise},
	}
}

// Current returns the graph produced by the most recent step (or the premise).
func (d *Derivation) Current() *Graph {
	return d.trace[len(d.trace)-1]
}

// Apply applies step to the current graph.  A failed step is not recorded.
func (d *Derivation) Apply(step aeg.Step) (*Graph, error) {
	X, err := d.Current().Apply(step)
	if err != nil {
		return nil, err
	}
	d.proof.Steps = append(d.proof.Steps, aeg.Step{
		Rule: step.Rule,
		Path: append(aeg.Path(nil), step.Path...),
	})
	d.trace = append(d.trace, X)
	return X, nil
}

// Undo drops the most recent step, returning false if there is nothing to undo.
func (d *Derivation) Undo() bool {
	N := len(d.proof.Steps)
	if N == 0 {
		return false
	}
	d.proof.Steps = d.proof.Steps[:N-1]
	d.trace = d.trace[:N]
	return true
}

// Trace returns the premise followed by the graph after each recorded step.
func (d *Derivation) Trace() []*Graph {
	return append([]*Graph(nil), d.trace...)
}

// Proof returns a copy of the recorded proof.
func (d *Derivation) Proof() *aeg.Proof {
	proof := d.proof
	proof.Steps = append([]aeg.Step(nil), d.proof.Steps...)
	return &proof
}
