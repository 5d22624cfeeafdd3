package libaeg

import (
	"strings"

	"github.com/2x3systems/goaeg/aeg"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// GraphExpr is a bracketed context: "(" for the sheet or "[" for a cut, a comma separated list of
// elements, then the matching closing bracket.
type GraphExpr struct {
	Open  string  `parser:"@( \"(\" | \"[\" )"`
	Elems []*Elem `parser:"( @@ ( \",\" @@ )* )?"`
	Close string  `parser:"@( \")\" | \"]\" )"`
}

// Elem is either a nested context or an atom token.
type Elem struct {
	Cut  *GraphExpr `parser:"  @@"`
	Atom *string    `parser:"| @Atom"`
}

// Atom tokens hold no brackets or commas.  Inner spaces are kept and surrounding whitespace is dropped.
var sGraphLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Punct", Pattern: `[()\[\],]`},
	{Name: "Atom", Pattern: `[^()\[\],\s]([^()\[\],]*[^()\[\],\s])?`},
})

var sParseGraphExpr = participle.MustBuild[GraphExpr](
	participle.Lexer(sGraphLexer),
	participle.Elide("Whitespace"),
)

// Parse reads a graph from its bracket notation, e.g. "(A, [B, [C]])", and returns it in canonical form.
//
// The outermost context may be the sheet "(...)" or a cut "[...]"; every nested context must be a cut.
func Parse(graphExpr string) (*Graph, error) {
	graphExpr = strings.TrimSpace(graphExpr)

	expr, err := sParseGraphExpr.ParseString("", graphExpr)
	if err != nil {
		return nil, errors.Wrapf(aeg.ErrMalformedGraph, "%q: %v", graphExpr, err)
	}

	X, err := expr.build(true)
	if err != nil {
		return nil, errors.Wrapf(err, "%q", graphExpr)
	}
	return X, nil
}

// MustParse is like Parse but panics if graphExpr is malformed.
func MustParse(graphExpr string) *Graph {
	X, err := Parse(graphExpr)
	if err != nil {
		panic(err)
	}
	return X
}

func (expr *GraphExpr) build(isRoot bool) (*Graph, error) {
	isSheet := false
	switch {
	case expr.Open == "[" && expr.Close == "]":
	case expr.Open == "(" && expr.Close == ")" && isRoot:
		isSheet = true
	case expr.Open == "(":
		return nil, errors.Wrap(aeg.ErrMalformedGraph, "a nested context must be a cut")
	default:
		return nil, errors.Wrapf(aeg.ErrMalformedGraph, "%q closed by %q", expr.Open, expr.Close)
	}

	var (
		atoms    []string
		children []*Graph
	)
	for _, elem := range expr.Elems {
		switch {
		case elem.Cut != nil:
			child, err := elem.Cut.build(false)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		case elem.Atom != nil:
			atoms = append(atoms, strings.TrimSpace(*elem.Atom))
		}
	}

	return newGraph(isSheet, atoms, children), nil
}
