package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/2x3systems/goaeg/aeg"
	"github.com/2x3systems/goaeg/libaeg"
	"github.com/2x3systems/goaeg/libaeg/catalog"
	"github.com/2x3systems/goaeg/libaeg/logic"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// DriverOpts configures Run.
type DriverOpts struct {
	ProofPathname string // replay this proof file instead of reading commands
	Check         bool   // verify each step with the SAT checker
	CatalogPath   string // if set, derived graphs and proofs are stored here
	Name          string // proof name used when storing an interactive derivation
}

// Run drives a derivation from in and writes each resulting graph to out.
func Run(in io.Reader, out io.Writer, opts DriverOpts) error {
	var cat aeg.Catalog
	if len(opts.CatalogPath) > 0 {
		var err error
		cat, err = catalog.OpenCatalog(aeg.CatalogOpts{
			DbPathName: opts.CatalogPath,
		})
		if err != nil {
			return err
		}
		defer cat.Close()
	}

	if len(opts.ProofPathname) > 0 {
		proof, err := aeg.LoadProof(opts.ProofPathname)
		if err != nil {
			return err
		}
		return replayProof(proof, out, cat, opts.Check)
	}

	sess := &session{
		out:   out,
		check: opts.Check,
	}
	err := sess.run(in)
	if err != nil {
		return err
	}
	if sess.deriv != nil && cat != nil {
		proof := sess.deriv.Proof()
		if len(opts.Name) > 0 {
			proof.Name = opts.Name
		}
		if err = storeProof(cat, proof, sess.deriv.Trace()); err != nil {
			return err
		}
	}
	if sess.failed > 0 {
		return errors.Errorf("%d command(s) failed", sess.failed)
	}
	return nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func replayProof(proof *aeg.Proof, out io.Writer, cat aeg.Catalog, check bool) error {
	if check {
		if err := logic.CheckProof(proof); err != nil {
			return err
		}
		klog.V(1).Infof("proof %q: %d steps verified", proof.Name, len(proof.Steps))
	}

	stream, err := libaeg.StreamProof(proof)
	if err != nil {
		return err
	}

	opts := aeg.DefaultPrintOpts
	opts.Label = proof.Name
	stream = stream.Print(nopCloser{out}, opts)

	var trace []*libaeg.Graph
	distinct := libaeg.NewCanonicSet()
	defer distinct.Close()
	for X := range stream.AddTo(distinct).Outlet {
		trace = append(trace, X.(*libaeg.Graph))
	}
	klog.V(1).Infof("proof %q: %d distinct graphs", proof.Name, len(trace))

	if cat != nil {
		return storeProof(cat, proof, trace)
	}
	return nil
}

func storeProof(cat aeg.Catalog, proof *aeg.Proof, trace []*libaeg.Graph) error {
	added := 0
	for _, X := range trace {
		if cat.TryAddGraph(X) {
			added++
		}
	}
	klog.V(1).Infof("catalog: %d new graphs (%d total)", added, cat.NumGraphs())
	if len(proof.Name) == 0 {
		return nil
	}
	return cat.PutProof(proof)
}

type session struct {
	out    io.Writer
	check  bool
	deriv  *libaeg.Derivation
	failed int
}

func (sess *session) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if err := sess.exec(line); err != nil {
			sess.failed++
			klog.Errorf("%q: %v", line, err)
			fmt.Fprintf(sess.out, "! %v\n", err)
		}
	}
	return scanner.Err()
}

func (sess *session) exec(line string) error {
	if sess.deriv == nil {
		premise, err := libaeg.Parse(line)
		if err != nil {
			return err
		}
		sess.deriv = libaeg.NewDerivation("", premise)
		fmt.Fprintln(sess.out, premise.String())
		return nil
	}

	cmd, args := line, ""
	if idx := strings.IndexAny(line, " \t"); idx > 0 {
		cmd, args = line[:idx], strings.TrimSpace(line[idx+1:])
	}

	cur := sess.deriv.Current()
	switch strings.ToLower(cmd) {
	case "list":
		cur.WriteAsString(sess.out, aeg.PrintOpts{Sites: true})
		fmt.Fprintln(sess.out)
		return nil
	case "undo":
		if !sess.deriv.Undo() {
			return errors.New("nothing to undo")
		}
		fmt.Fprintln(sess.out, sess.deriv.Current().String())
		return nil
	case "proof":
		return aeg.WriteProof(sess.out, sess.deriv.Proof())
	case "model":
		model, ok := logic.Model(cur)
		if !ok {
			fmt.Fprintln(sess.out, "unsatisfiable")
			return nil
		}
		for _, name := range model.Names() {
			fmt.Fprintf(sess.out, "%s=%v ", name, model[name])
		}
		fmt.Fprintln(sess.out)
		return nil
	}

	rule, err := aeg.ParseRule(cmd)
	if err != nil {
		return err
	}
	path, err := aeg.ParsePath(args)
	if err != nil {
		return err
	}
	step := aeg.Step{Rule: rule, Path: path}
	next, err := sess.deriv.Apply(step)
	if err != nil {
		return err
	}
	if sess.check {
		if err = logic.CheckStep(cur, next, rule); err != nil {
			sess.deriv.Undo()
			return err
		}
	}
	klog.V(1).Infof("%s %v => %v", rule, path, next)
	fmt.Fprintln(sess.out, next.String())
	return nil
}
