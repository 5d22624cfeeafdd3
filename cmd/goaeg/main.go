package main

import (
	"flag"
	"os"

	"github.com/plan-systems/klog"
)

func main() {

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "0")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	opts := DriverOpts{}
	flag.StringVar(&opts.ProofPathname, "proof", "", "replay a YAML proof file")
	flag.BoolVar(&opts.Check, "check", false, "verify each step with the SAT checker")
	flag.StringVar(&opts.CatalogPath, "catalog", "", "store derived graphs and proofs in this catalog dir")
	flag.StringVar(&opts.Name, "name", "", "name under which an interactive derivation is stored")
	script := flag.String("script", "", "run a gpython script with _pyaeg available (\"-\" for a REPL)")
	verbosity := flag.String("v", "0", "log verbosity")
	flag.Parse()
	fset.Set("v", *verbosity)

	var err error
	if len(*script) > 0 {
		pathname := *script
		if pathname == "-" {
			pathname = ""
		}
		err = go_gpython(pathname)
	} else {
		err = Run(os.Stdin, os.Stdout, opts)
	}

	if err != nil {
		klog.Errorf("goaeg: %v", err)
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}
