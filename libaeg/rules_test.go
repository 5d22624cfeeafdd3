package libaeg_test

import (
	"strings"
	"testing"

	"github.com/2x3systems/goaeg/aeg"
	"github.com/2x3systems/goaeg/libaeg"
	"github.com/pkg/errors"
)

func TestDoubleCut(t *testing.T) {
	X := libaeg.MustParse("([[A]])")
	paths := X.PossibleDoubleCuts()
	expectPaths(t, paths, "0")

	Y, err := X.DoubleCut(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	if !Y.Equals(libaeg.MustParse("(A)")) {
		t.Fatalf("got %v", Y)
	}
	if X.String() != "([[A]])" {
		t.Fatal("source graph was modified")
	}

	cases := []struct {
		in    string
		sites []string
		at    aeg.Path
		out   string
	}{
		{"([[A, [B]]], C)", []string{"0"}, aeg.Path{0}, "([B], A, C)"},
		{"([A, [[B]]])", []string{"0.0"}, aeg.Path{0, 0}, "([A, B])"},
		{"([[]], A)", []string{"0"}, aeg.Path{0}, "(A)"},
		{"([[[[A]]]])", []string{"0", "0.0", "0.0.0"}, aeg.Path{0, 0}, "([[A]])"},
	}
	for _, tc := range cases {
		X := libaeg.MustParse(tc.in)
		expectPaths(t, X.PossibleDoubleCuts(), tc.sites...)
		Y, err := X.DoubleCut(tc.at)
		if err != nil {
			t.Fatalf("%v: %v", tc.in, err)
		}
		if Y.String() != tc.out {
			t.Fatalf("%v: got %v, expected %v", tc.in, Y, tc.out)
		}
	}

	for _, path := range []aeg.Path{nil, {0}, {1}, {0, 0}, {5, 0}} {
		_, err := libaeg.MustParse("([A], B)").DoubleCut(path)
		if !errors.Is(err, aeg.ErrInvalidPath) {
			t.Fatalf("%v: expected ErrInvalidPath, got %v", path, err)
		}
	}
}

func TestDoubleCutRoundTrip(t *testing.T) {
	for _, str := range []string{
		"(A)",
		"([A])",
		"(A, [B])",
		"([A, [B, C]], D)",
		"([[A]], [B], C)",
	} {
		X := libaeg.MustParse(str)
		for _, path := range X.ElementPaths() {
			Y, err := X.InsertDoubleCut(path)
			if err != nil {
				t.Fatalf("%v at %v: %v", X, path, err)
			}
			if len(Y.ElementPaths()) != len(X.ElementPaths())+2 {
				t.Fatalf("%v at %v: got %v", X, path, Y)
			}

			undone := false
			for _, site := range Y.PossibleDoubleCuts() {
				Z, err := Y.DoubleCut(site)
				if err != nil {
					t.Fatal(err)
				}
				if Z.Equals(X) {
					undone = true
				}
			}
			if !undone {
				t.Fatalf("%v: no double cut of %v gives back the original", X, Y)
			}
		}
	}

	Y, err := libaeg.MustParse("([B], A)").InsertDoubleCut(aeg.Path{1})
	if err != nil {
		t.Fatal(err)
	}
	if Y.String() != "([B], [[A]])" {
		t.Fatalf("got %v", Y)
	}
	if _, err = Y.InsertDoubleCut(aeg.Path{2}); !errors.Is(err, aeg.ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

func TestErasures(t *testing.T) {
	expectPaths(t, libaeg.MustParse("[A, A]").PossibleErasures(-1), "0", "1")
	expectPaths(t, libaeg.MustParse("[A]").PossibleErasures(1))
	expectPaths(t, libaeg.MustParse("[A, B]").PossibleErasures(1), "0", "1")
	expectPaths(t, libaeg.MustParse("[A, B]").PossibleErasures(0))

	X := libaeg.MustParse("(A, [B, C])")
	expectPaths(t, X.PossibleErasures(-1), "0", "1")
	Y, err := X.Erase(aeg.Path{1})
	if err != nil {
		t.Fatal(err)
	}
	if Y.String() != "([B, C])" {
		t.Fatalf("got %v", Y)
	}
	if Y, _ = X.Erase(aeg.Path{0}); Y.String() != "(A)" {
		t.Fatalf("got %v", Y)
	}
	if _, err = X.Erase(aeg.Path{0, 0}); !errors.Is(err, aeg.ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}

	X = libaeg.MustParse("([[A, B]])")
	expectPaths(t, X.PossibleErasures(-1), "0", "0.0.0", "0.0.1")
	if Y, err = X.Erase(aeg.Path{0, 0, 1}); err != nil {
		t.Fatal(err)
	}
	if Y.String() != "([[A]])" {
		t.Fatalf("got %v", Y)
	}
	if _, err = X.Erase(aeg.Path{0, 0}); !errors.Is(err, aeg.ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}

	// erasure only removes
	for _, path := range X.PossibleErasures(-1) {
		Y, err := X.Erase(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(Y.ElementPaths()) >= len(X.ElementPaths()) {
			t.Fatalf("erase at %v: %v is not smaller than %v", path, Y, X)
		}
	}
}

func TestDeiterations(t *testing.T) {
	cases := []struct {
		in    string
		sites []string
		at    aeg.Path
		out   string
	}{
		{"(A, [A, B])", []string{"0.0"}, aeg.Path{0, 0}, "([B], A)"},
		{"(A, A)", []string{"0", "1"}, aeg.Path{1}, "(A)"},
		{"([B], [[B], C])", []string{"1.0"}, aeg.Path{1, 0}, "([B], [C])"},
		{"(A, [[A]])", []string{"0.0.0"}, aeg.Path{0, 0, 0}, "([[]], A)"},
	}
	for _, tc := range cases {
		X := libaeg.MustParse(tc.in)
		expectPaths(t, X.PossibleDeiterations(), tc.sites...)
		Y, err := X.Deiterate(tc.at)
		if err != nil {
			t.Fatalf("%v: %v", tc.in, err)
		}
		if Y.String() != tc.out {
			t.Fatalf("%v: got %v, expected %v", tc.in, Y, tc.out)
		}
	}

	expectPaths(t, libaeg.MustParse("(A, [B])").PossibleDeiterations())
	_, err := libaeg.MustParse("(A, B)").Deiterate(aeg.Path{0})
	if !errors.Is(err, aeg.ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

func TestApply(t *testing.T) {
	X := libaeg.MustParse("([[A]], B)")

	_, err := X.Apply(aeg.Step{Rule: "bogus", Path: aeg.Path{0}})
	if !errors.Is(err, aeg.ErrUnknownRule) {
		t.Fatalf("expected ErrUnknownRule, got %v", err)
	}
	if _, err = X.PossibleSteps("bogus"); !errors.Is(err, aeg.ErrUnknownRule) {
		t.Fatalf("expected ErrUnknownRule, got %v", err)
	}

	for _, rule := range aeg.Rules {
		paths, err := X.PossibleSteps(rule)
		if err != nil {
			t.Fatal(err)
		}
		for _, path := range paths {
			if _, err = X.Apply(aeg.Step{Rule: rule, Path: path}); err != nil {
				t.Fatalf("%s at %v: %v", rule, path, err)
			}
		}
	}

	buf := strings.Builder{}
	X.WriteAsString(&buf, aeg.PrintOpts{Graph: true, Sites: true})
	if got := buf.String(); got != "([[A]], B) double-cut:{0} erase:{0, 1} deiterate:{}" {
		t.Fatalf("got %q", got)
	}

	// the label belongs to the stream printer, not the graph
	buf.Reset()
	X.WriteAsString(&buf, aeg.PrintOpts{Label: "L", Graph: true})
	if got := buf.String(); got != "([[A]], B)" {
		t.Fatalf("got %q", got)
	}
}
