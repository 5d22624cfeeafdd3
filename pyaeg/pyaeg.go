// Package pyaeg registers the "_pyaeg" gpython module, exposing Alpha graphs and their rules to scripts.
package pyaeg

import (
	"github.com/2x3systems/goaeg/aeg"
	"github.com/2x3systems/goaeg/libaeg"
	"github.com/go-python/gpython/py"
	"github.com/pkg/errors"
)

var (
	LIB_VERSION = "v1.2024.1"
)

var (
	pyGraphType = py.NewType("Graph", "an immutable Alpha existential graph")
)

type pyGraph struct {
	*libaeg.Graph
}

func (X pyGraph) Type() *py.Type {
	return pyGraphType
}

func (X pyGraph) M__str__() (py.Object, error) {
	return py.String(X.String()), nil
}

func (X pyGraph) M__repr__() (py.Object, error) {
	return X.M__str__()
}

func (X pyGraph) M__eq__(other py.Object) (py.Object, error) {
	Y, ok := other.(pyGraph)
	if !ok {
		return py.False, nil
	}
	return pyBool(X.Equals(Y.Graph)), nil
}

func pyBool(b bool) py.Object {
	if b {
		return py.True
	}
	return py.False
}

// exception maps library errors onto python exceptions
func exception(err error) error {
	switch {
	case errors.Is(err, aeg.ErrMalformedGraph), errors.Is(err, aeg.ErrUnknownRule):
		return py.ExceptionNewf(py.ValueError, "%v", err)
	case errors.Is(err, aeg.ErrInvalidPath):
		return py.ExceptionNewf(py.IndexError, "%v", err)
	}
	return py.ExceptionNewf(py.RuntimeError, "%v", err)
}

func getGraph(obj py.Object) (pyGraph, error) {
	X, ok := obj.(pyGraph)
	if !ok {
		return pyGraph{}, py.ExceptionNewf(py.TypeError, "expected Graph object (got %v)", obj.Type().Name)
	}
	return X, nil
}

// loadPath accepts a tuple or list of ints, a single int, or a dotted string such as "0.1".
func loadPath(obj py.Object) (aeg.Path, error) {
	var items []py.Object
	switch v := obj.(type) {
	case py.Tuple:
		items = v
	case *py.List:
		items = v.Items
	case py.Int:
		return aeg.Path{int(v)}, nil
	case py.String:
		path, err := aeg.ParsePath(string(v))
		if err != nil {
			return nil, exception(err)
		}
		return path, nil
	default:
		return nil, py.ExceptionNewf(py.TypeError, "expected a path (got %v)", obj.Type().Name)
	}

	path := make(aeg.Path, len(items))
	for i, item := range items {
		idx, err := py.GetInt(item)
		if err != nil {
			return nil, err
		}
		path[i] = int(idx)
	}
	return path, nil
}

func wrapPaths(paths []aeg.Path) py.Tuple {
	out := make(py.Tuple, len(paths))
	for i, path := range paths {
		tuple := make(py.Tuple, len(path))
		for j, idx := range path {
			tuple[j] = py.Int(idx)
		}
		out[i] = tuple
	}
	return out
}

func wrapGraph(X *libaeg.Graph, err error) (py.Object, error) {
	if err != nil {
		return nil, exception(err)
	}
	return pyGraph{X}, nil
}

// Arg 1 (str): graph expression, e.g. "(A, [B])"
func py_Parse(module py.Object, args py.Tuple) (py.Object, error) {
	var expr py.Object
	err := py.ParseTuple(args, "s", &expr)
	if err != nil {
		return nil, err
	}
	return wrapGraph(libaeg.Parse(string(expr.(py.String))))
}

// Arg 1 (str): premise
// Arg 2 (sequence): steps, each a (rule, path) pair
// Returns a tuple of the premise and every derived graph.
func py_Replay(module py.Object, args py.Tuple) (py.Object, error) {
	var premise, steps py.Object
	err := py.ParseTuple(args, "sO", &premise, &steps)
	if err != nil {
		return nil, err
	}

	var items []py.Object
	switch v := steps.(type) {
	case py.Tuple:
		items = v
	case *py.List:
		items = v.Items
	default:
		return nil, py.ExceptionNewf(py.TypeError, "expected a sequence of steps (got %v)", steps.Type().Name)
	}

	proof := &aeg.Proof{
		Premise: string(premise.(py.String)),
	}
	for _, item := range items {
		var rule, path py.Object
		pair, ok := item.(py.Tuple)
		if !ok {
			return nil, py.ExceptionNewf(py.TypeError, "expected a (rule, path) tuple")
		}
		if err = py.ParseTuple(pair, "sO", &rule, &path); err != nil {
			return nil, err
		}
		step := aeg.Step{}
		if step.Rule, err = aeg.ParseRule(string(rule.(py.String))); err != nil {
			return nil, exception(err)
		}
		if step.Path, err = loadPath(path); err != nil {
			return nil, err
		}
		proof.Steps = append(proof.Steps, step)
	}

	trace, err := libaeg.Replay(proof)
	if err != nil {
		return nil, exception(err)
	}
	out := make(py.Tuple, len(trace))
	for i, X := range trace {
		out[i] = pyGraph{X}
	}
	return out, nil
}

func py_Graph_Size(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	return py.Int(X.Size()), nil
}

func py_Graph_IsSheet(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	return pyBool(X.IsSheet()), nil
}

func py_Graph_Atoms(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	atoms := X.Atoms()
	out := make(py.Tuple, len(atoms))
	for i, atom := range atoms {
		out[i] = py.String(atom)
	}
	return out, nil
}

func py_Graph_At(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	var idx py.Object
	if err := py.ParseTuple(args, "i", &idx); err != nil {
		return nil, err
	}
	return pyGraph{X.At(int(idx.(py.Int)))}, nil
}

// Arg 1 (str or Graph): an atom name or a cut to look for
func py_Graph_Contains(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	var what py.Object
	if err := py.ParseTuple(args, "O", &what); err != nil {
		return nil, err
	}
	if atom, isStr := what.(py.String); isStr {
		return pyBool(X.ContainsAtom(string(atom))), nil
	}
	sub, err := getGraph(what)
	if err != nil {
		return nil, err
	}
	return pyBool(X.ContainsGraph(sub.Graph)), nil
}

func py_Graph_PathsTo(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	var what py.Object
	if err := py.ParseTuple(args, "O", &what); err != nil {
		return nil, err
	}
	if atom, isStr := what.(py.String); isStr {
		return wrapPaths(X.PathsToAtom(string(atom))), nil
	}
	sub, err := getGraph(what)
	if err != nil {
		return nil, err
	}
	return wrapPaths(X.PathsToGraph(sub.Graph)), nil
}

func py_Graph_DoubleCuts(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	return wrapPaths(X.PossibleDoubleCuts()), nil
}

// Arg 1 (int, optional): nesting level, -1 (the default) for unrestricted erasure at the outermost context
func py_Graph_Erasures(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	level := -1
	if len(args) > 0 {
		lvl, err := py.GetInt(args[0])
		if err != nil {
			return nil, err
		}
		level = int(lvl)
	}
	return wrapPaths(X.PossibleErasures(level)), nil
}

func py_Graph_Deiterations(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	return wrapPaths(X.PossibleDeiterations()), nil
}

func py_Graph_Equals(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "Equals() takes one Graph")
	}
	Y, err := getGraph(args[0])
	if err != nil {
		return nil, err
	}
	return pyBool(X.Equals(Y.Graph)), nil
}

func ruleMethod(rule aeg.Rule) func(self py.Object, args py.Tuple) (py.Object, error) {
	return func(self py.Object, args py.Tuple) (py.Object, error) {
		X := self.(pyGraph)
		if len(args) != 1 {
			return nil, py.ExceptionNewf(py.TypeError, "%s() takes exactly one path argument", rule)
		}
		path, err := loadPath(args[0])
		if err != nil {
			return nil, err
		}
		return wrapGraph(X.Apply(aeg.Step{Rule: rule, Path: path}))
	}
}

func init() {

	/////////////////////////////////
	// Graph
	{
		pyGraphType.Dict["Size"] = py.MustNewMethod("Size", py_Graph_Size, 0, "returns the number of direct elements of the outermost context")
		pyGraphType.Dict["IsSheet"] = py.MustNewMethod("IsSheet", py_Graph_IsSheet, 0, "")
		pyGraphType.Dict["Atoms"] = py.MustNewMethod("Atoms", py_Graph_Atoms, 0, "")
		pyGraphType.Dict["At"] = py.MustNewMethod("At", py_Graph_At, 0, "indexes children then atoms; out of range gives the empty cut")
		pyGraphType.Dict["Contains"] = py.MustNewMethod("Contains", py_Graph_Contains, 0, "")
		pyGraphType.Dict["PathsTo"] = py.MustNewMethod("PathsTo", py_Graph_PathsTo, 0, "")
		pyGraphType.Dict["DoubleCuts"] = py.MustNewMethod("DoubleCuts", py_Graph_DoubleCuts, 0, "")
		pyGraphType.Dict["Erasures"] = py.MustNewMethod("Erasures", py_Graph_Erasures, 0, "")
		pyGraphType.Dict["Deiterations"] = py.MustNewMethod("Deiterations", py_Graph_Deiterations, 0, "")
		pyGraphType.Dict["Equals"] = py.MustNewMethod("Equals", py_Graph_Equals, 0, "")
		pyGraphType.Dict["DoubleCut"] = py.MustNewMethod("DoubleCut", ruleMethod(aeg.RuleDoubleCut), 0, "")
		pyGraphType.Dict["InsertDoubleCut"] = py.MustNewMethod("InsertDoubleCut", ruleMethod(aeg.RuleInsertDoubleCut), 0, "")
		pyGraphType.Dict["Erase"] = py.MustNewMethod("Erase", ruleMethod(aeg.RuleErase), 0, "")
		pyGraphType.Dict["Deiterate"] = py.MustNewMethod("Deiterate", ruleMethod(aeg.RuleDeiterate), 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("Parse", py_Parse, 0, "parses a graph from its bracket notation"),
			py.MustNewMethod("Replay", py_Replay, 0, "applies (rule, path) steps to a premise"),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
			"SHEET_EMPTY": py.String("()"),
			"READ_ONLY":   py.Int(READ_ONLY),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_pyaeg",
				Doc:  "Alpha existential graphs gpython module",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})
	}
}
