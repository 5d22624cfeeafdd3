package pyaeg

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/2x3systems/goaeg/aeg"
	"github.com/2x3systems/goaeg/libaeg"
	"github.com/2x3systems/goaeg/libaeg/catalog"
	"github.com/go-python/gpython/py"
)

const (
	READ_ONLY = 0x01

	kWorkspaceAttr = "_Workspace"
)

var (
	pyGraphStreamType = py.NewType("GraphStream", "aeg.GraphStream")
	pyCatalogType     = py.NewType("Catalog", "aeg.Catalog")
	pyWorkspaceType   = py.NewType("Workspace", "collects the catalogs a script has opened")
)

// Workspace closes the catalogs a script opened once its context closes.
type Workspace struct {
	mu   sync.Mutex
	cats []aeg.Catalog
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func (ws *Workspace) track(cat aeg.Catalog) {
	ws.mu.Lock()
	ws.cats = append(ws.cats, cat)
	ws.mu.Unlock()
}

func (ws *Workspace) Close() {
	ws.mu.Lock()
	cats := ws.cats
	ws.cats = nil
	ws.mu.Unlock()
	for _, cat := range cats {
		cat.Close()
	}
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		wsObj = &Workspace{}
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

// Arg 1 (str): catalog pathname, "" for an in-memory catalog
// Arg 2 (int, optional): flags, e.g. READ_ONLY
func py_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathname string
	var flags int32
	err := py.LoadTuple(args, []interface{}{&pathname, &flags})
	if err != nil {
		return nil, err
	}

	cat, err := catalog.OpenCatalog(aeg.CatalogOpts{
		DbPathName: pathname,
		ReadOnly:   (flags & READ_ONLY) != 0,
	})
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	ws.track(cat)
	return pyCatalog{cat}, nil
}

func py_Workspace_CatalogExists(self py.Object, args py.Tuple) (py.Object, error) {
	var pathname string
	err := py.LoadTuple(args, []interface{}{&pathname})
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(pathname)
	switch {
	case err == nil:
		return py.True, nil
	case os.IsNotExist(err):
		return py.False, nil
	}
	return nil, py.ExceptionNewf(py.OSError, "%v", err)
}

type pyCatalog struct {
	aeg.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

func py_Catalog_NumGraphs(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	return py.Int(cat.NumGraphs()), nil
}

func py_Catalog_IsReadOnly(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	return pyBool(cat.IsReadOnly()), nil
}

// Returns the names of the stored proofs, in key order.
func py_Catalog_Proofs(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)

	proofs := make(chan *aeg.Proof, 1)
	var err error
	go func() {
		err = cat.SelectProofs(proofs)
		close(proofs)
	}()

	var names py.Tuple
	for proof := range proofs {
		names = append(names, py.String(proof.Name))
	}
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return names, nil
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.Catalog != nil {
		cat.Close()
	}
	return py.None, nil
}

type graphStream struct {
	*aeg.GraphStream
}

func (stream graphStream) Type() *py.Type {
	return pyGraphStreamType
}

func wrapGraphStream(stream *aeg.GraphStream) py.Object {
	return py.Object(graphStream{stream})
}

func py_Graph_Stream(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	return wrapGraphStream(aeg.StreamGraph(X.Graph)), nil
}

// Streams every graph reachable in one step by rule; the rule name is optional and defaults to all rules except insertion.
func py_Graph_Successors(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)

	rules := []aeg.Rule{aeg.RuleDoubleCut, aeg.RuleErase, aeg.RuleDeiterate}
	if len(args) > 0 {
		name, isStr := args[0].(py.String)
		if !isStr {
			return nil, py.ExceptionNewf(py.TypeError, "expected a rule name")
		}
		rule, err := aeg.ParseRule(string(name))
		if err != nil {
			return nil, exception(err)
		}
		rules = []aeg.Rule{rule}
	}

	var next []*libaeg.Graph
	for _, rule := range rules {
		paths, err := X.PossibleSteps(rule)
		if err != nil {
			return nil, exception(err)
		}
		for _, path := range paths {
			Y, err := X.Apply(aeg.Step{Rule: rule, Path: path})
			if err != nil {
				return nil, exception(err)
			}
			next = append(next, Y)
		}
	}

	stream := aeg.NewGraphStream()
	go func() {
		for _, Y := range next {
			stream.PushGraph(Y)
		}
		stream.Close()
	}()
	return wrapGraphStream(stream), nil
}

func py_GraphStream_Go(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(graphStream)
	count := stream.PullAll()
	return py.Int(count), nil
}

func py_GraphStream_Collect(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(graphStream)
	all := stream.Collect()
	out := make(py.Tuple, len(all))
	for i, X := range all {
		out[i] = pyGraph{X.(*libaeg.Graph)}
	}
	return out, nil
}

type echoToWriter struct {
	stdout *os.File
	to     io.WriteCloser
}

func (echo *echoToWriter) Write(buf []byte) (int, error) {
	if echo.to == nil {
		return echo.stdout.Write(buf)
	}
	return echo.to.Write(buf)
}

func (echo *echoToWriter) Close() error {
	if echo.to != nil {
		return echo.to.Close()
	}
	return nil
}

// Print(label="", sites=False, file="")
func py_GraphStream_Print(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(graphStream)
	var pathname string

	opts := aeg.DefaultPrintOpts

	py.LoadTuple(args, []interface{}{&opts.Label})
	if opts.Label == "" {
		py.LoadAttr(kwargs, "label", &opts.Label)
	}
	py.LoadAttr(kwargs, "sites", &opts.Sites)
	py.LoadAttr(kwargs, "file", &pathname)

	writer := &echoToWriter{
		stdout: os.Stdout,
	}
	if len(pathname) > 0 {
		os.MkdirAll(filepath.Dir(pathname), 0700)

		file, err := os.OpenFile(pathname, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			return nil, py.ExceptionNewf(py.FileNotFoundError, "%v", err)
		}
		writer.to = file
	}

	next := stream.Print(writer, opts)
	return wrapGraphStream(next), nil
}

func py_GraphStream_AddTo(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(graphStream)
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "AddTo() takes a Catalog")
	}
	cat, ok := args[0].(pyCatalog)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "expected Catalog object (got %v)", args[0].Type().Name)
	}
	if cat.IsReadOnly() {
		return nil, py.ExceptionNewf(py.PermissionError, "%v", aeg.ErrReadOnly)
	}

	next := stream.AddTo(cat)
	return wrapGraphStream(next), nil
}

func py_GraphStream_DropDupes(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(graphStream)

	// memory resident set that is closed when the stream is drained
	set := libaeg.NewCanonicSet()
	added := stream.AddTo(set)
	next := aeg.NewGraphStream()
	go func() {
		for X := range added.Outlet {
			next.PushGraph(X)
		}
		set.Close()
		next.Close()
	}()
	return wrapGraphStream(next), nil
}

func py_GraphStream_Select(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(graphStream)

	var atom string
	var minSize, maxSize int32 = 0, -1
	err := py.LoadTuple(args, []interface{}{&atom, &minSize, &maxSize})
	if err != nil {
		return nil, err
	}

	next := stream.Select(func(X aeg.GraphState) bool {
		Y := X.(*libaeg.Graph)
		if atom != "" && !Y.ContainsAtom(atom) {
			return false
		}
		if Y.Size() < int(minSize) {
			return false
		}
		return maxSize < 0 || Y.Size() <= int(maxSize)
	})
	return wrapGraphStream(next), nil
}

func init() {
	pyGraphType.Dict["Stream"] = py.MustNewMethod("Stream", py_Graph_Stream, 0, "")
	pyGraphType.Dict["Successors"] = py.MustNewMethod("Successors", py_Graph_Successors, 0, "streams the graphs reachable in one step")

	pyGraphStreamType.Dict["Go"] = py.MustNewMethod("Go", py_GraphStream_Go, 0, "counts the number of graphs output from the GraphStream")
	pyGraphStreamType.Dict["Collect"] = py.MustNewMethod("Collect", py_GraphStream_Collect, 0, "")
	pyGraphStreamType.Dict["Print"] = py.MustNewMethod("Print", py_GraphStream_Print, 0, "prints each graph from the GraphStream")
	pyGraphStreamType.Dict["AddTo"] = py.MustNewMethod("AddTo", py_GraphStream_AddTo, 0, "")
	pyGraphStreamType.Dict["DropDupes"] = py.MustNewMethod("DropDupes", py_GraphStream_DropDupes, 0, "")
	pyGraphStreamType.Dict["Select"] = py.MustNewMethod("Select", py_GraphStream_Select, 0, "(atom, min_size, max_size)")

	pyCatalogType.Dict["NumGraphs"] = py.MustNewMethod("NumGraphs", py_Catalog_NumGraphs, 0, "")
	pyCatalogType.Dict["IsReadOnly"] = py.MustNewMethod("IsReadOnly", py_Catalog_IsReadOnly, 0, "")
	pyCatalogType.Dict["Proofs"] = py.MustNewMethod("Proofs", py_Catalog_Proofs, 0, "")
	pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")

	pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", py_Workspace_OpenCatalog, 0, "")
	pyWorkspaceType.Dict["CatalogExists"] = py.MustNewMethod("CatalogExists", py_Workspace_CatalogExists, 0, "")
}
