package aeg

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Path addresses an element of a graph: each entry selects a child cut at that depth,
// except the last entry, which may select an atom (an index >= the number of children).
type Path []int

// String renders the path as dotted indices, e.g. "0.2.1".
func (p Path) String() string {
	buf := make([]byte, 0, 4*len(p))
	for i, idx := range p {
		if i > 0 {
			buf = append(buf, '.')
		}
		buf = strconv.AppendInt(buf, int64(idx), 10)
	}
	return string(buf)
}

// Compare orders paths lexicographically, a proper prefix sorting first.
func (p Path) Compare(other Path) int {
	for i, idx := range p {
		if i == len(other) {
			return 1
		}
		if d := idx - other[i]; d != 0 {
			return d
		}
	}
	return len(p) - len(other)
}

func (p Path) Equals(other Path) bool {
	return p.Compare(other) == 0
}

// Child returns a new path that addresses index i inside the element p addresses.
func (p Path) Child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// ParsePath reads a path written as dotted ("0.1"), comma or space separated indices.
func ParsePath(str string) (Path, error) {
	fields := strings.FieldsFunc(str, func(r rune) bool {
		return r == '.' || r == ',' || r == ' ' || r == '\t' || r == '{' || r == '}' || r == '[' || r == ']'
	})
	path := make(Path, 0, len(fields))
	for _, fi := range fields {
		idx, err := strconv.Atoi(fi)
		if err != nil || idx < 0 {
			return nil, errors.Wrapf(ErrInvalidPath, "bad path index %q", fi)
		}
		path = append(path, idx)
	}
	return path, nil
}

// Rule names one of the structural inference rules of the Alpha calculus.
type Rule string

const (
	RuleDoubleCut       Rule = "double-cut"
	RuleInsertDoubleCut Rule = "insert-double-cut"
	RuleErase           Rule = "erase"
	RuleDeiterate       Rule = "deiterate"
)

// Rules lists every supported rule in the order the driver reports them.
var Rules = []Rule{
	RuleDoubleCut,
	RuleInsertDoubleCut,
	RuleErase,
	RuleDeiterate,
}

// ParseRule accepts a rule name with either dashes or underscores.
func ParseRule(name string) (Rule, error) {
	norm := Rule(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-"))
	switch norm {
	case RuleDoubleCut, RuleInsertDoubleCut, RuleErase, RuleDeiterate:
		return norm, nil
	}
	return "", errors.Wrapf(ErrUnknownRule, "%q", name)
}

// PreservesEquivalence reports if applying this rule always yields a logically equivalent graph.
// Otherwise (erasure) the result is only implied by the premise.
func (r Rule) PreservesEquivalence() bool {
	return r == RuleDoubleCut || r == RuleInsertDoubleCut || r == RuleDeiterate
}

// Step is a single rule application at a path.
type Step struct {
	Rule Rule `yaml:"rule"`
	Path Path `yaml:"path,flow"`
}

// Proof is a premise followed by a sequence of rule applications.
type Proof struct {
	Name    string `yaml:"name"`
	Premise string `yaml:"premise"`
	Steps   []Step `yaml:"steps"`
}

// ReadProof decodes a YAML proof document.
func ReadProof(in io.Reader) (*Proof, error) {
	proof := &Proof{}
	if err := yaml.NewDecoder(in).Decode(proof); err != nil {
		return nil, errors.Wrap(err, "reading proof")
	}
	for i := range proof.Steps {
		rule, err := ParseRule(string(proof.Steps[i].Rule))
		if err != nil {
			return nil, errors.Wrapf(err, "step %d", i+1)
		}
		proof.Steps[i].Rule = rule
	}
	return proof, nil
}

// LoadProof reads a YAML proof file.
func LoadProof(pathname string) (*Proof, error) {
	file, err := os.Open(pathname)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadProof(file)
}

// WriteProof encodes a proof as YAML.
func WriteProof(out io.Writer, proof *Proof) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(proof); err != nil {
		return err
	}
	return enc.Close()
}

// GraphState is the read-only view of a graph shared by streams and catalogs.
type GraphState interface {

	// Size returns the number of direct elements (atoms plus child cuts) of the outermost context.
	Size() int

	// AppendTo appends the canonical serialization to the given buffer.
	AppendTo(dst []byte) []byte

	// WriteAsString writes the canonical serialization, plus whatever else opts asks for.
	WriteAsString(out io.Writer, opts PrintOpts)

	String() string
}

type GraphAdder interface {

	// Tries to add the given graph to this set.
	// If true is returned, X (or a graph equal to it) was not present and was added.
	TryAddGraph(X GraphState) bool
}

// CatalogOpts specifies params for opening a Catalog
type CatalogOpts struct {
	DbPathName string // omit for in-memory db
	ReadOnly   bool   // open in read-only mode
}

// Catalog stores canonical graphs and named proofs.
type Catalog interface {
	GraphAdder

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// NumGraphs returns the number of distinct graphs added to this catalog.
	NumGraphs() int64

	// PutProof stores (or replaces) the proof under proof.Name.
	PutProof(proof *Proof) error

	// GetProof returns the proof stored under the given name or ErrProofNotFound.
	GetProof(name string) (*Proof, error)

	// SelectProofs sends every stored proof (ordered by name) to onHit.
	SelectProofs(onHit chan<- *Proof) error

	Close() error
}

// PrintOpts specifies what is printed when printing a graph
type PrintOpts struct {
	Label string // Prefix label
	Graph bool   // If set, prints the canonical serialization
	Sites bool   // If set, prints the possible rule application sites
}

// DefaultPrintOpts{}
var DefaultPrintOpts = PrintOpts{
	Graph: true,
}
