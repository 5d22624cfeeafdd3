package libaeg_test

import (
	"testing"

	"github.com/2x3systems/goaeg/aeg"
	"github.com/2x3systems/goaeg/libaeg"
	"github.com/pkg/errors"
)

func TestParse(t *testing.T) {
	X := libaeg.MustParse("(A, B)")
	if !X.IsSheet() || X.NumAtoms() != 2 || X.NumSubgraphs() != 0 {
		t.Fatalf("unexpected structure: %v", X)
	}
	if X.String() != "(A, B)" {
		t.Fatalf("got %q", X.String())
	}

	cases := []struct {
		in, out string
	}{
		{"()", "()"},
		{"[]", "[]"},
		{"([B], [A])", "([A], [B])"},
		{"(B, [A])", "([A], B)"},
		{"  ( B ,  [ A ] ) ", "([A], B)"},
		{"(big dog, [cat])", "([cat], big dog)"},
		{"(A, [[A]], [A])", "([A], [[A]], A)"},
		{"([], A)", "([], A)"},
		{"[A, A]", "[A, A]"},
		{"(C, [B, [A, x]], A)", "([[A, x], B], A, C)"},
	}
	for _, tc := range cases {
		X, err := libaeg.Parse(tc.in)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if X.String() != tc.out {
			t.Fatalf("%q: got %q, expected %q", tc.in, X.String(), tc.out)
		}

		// canonical form is a fixed point
		Y := libaeg.MustParse(X.String())
		if Y.String() != X.String() || !Y.Equals(X) {
			t.Fatalf("%q: reparse gave %q", tc.in, Y.String())
		}
	}
}

func TestMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"A",
		"(A",
		"(A]",
		"[A)",
		"((A))",
		"([A], (B))",
		"(A,)",
		"(,A)",
		"(A) B",
		"(A))",
	} {
		_, err := libaeg.Parse(in)
		if err == nil {
			t.Fatalf("%q: expected an error", in)
		}
		if !errors.Is(err, aeg.ErrMalformedGraph) {
			t.Fatalf("%q: expected ErrMalformedGraph, got %v", in, err)
		}
	}
}

func TestCounts(t *testing.T) {
	X := libaeg.MustParse("([A], B, C)")
	if X.Size() != 3 || X.NumAtoms() != 2 || X.NumSubgraphs() != 1 {
		t.Fatalf("bad counts for %v", X)
	}
	if X.IsEmpty() || !libaeg.MustParse("()").IsEmpty() {
		t.Fatal("IsEmpty")
	}

	// built graphs are canonical too
	Y := libaeg.NewSheet([]string{"C", "B"}, libaeg.NewCut([]string{"A"}))
	if !Y.Equals(X) {
		t.Fatalf("got %v", Y)
	}
	if libaeg.NewCut(nil, libaeg.MustParse("(A)")).String() != "[[A]]" {
		t.Fatal("a nested sheet should become a cut")
	}
}

func TestAt(t *testing.T) {
	X := libaeg.MustParse("([A], B)")
	expect := map[int]string{
		0:  "[A]",
		1:  "[B]",
		2:  "[]",
		-1: "[]",
		99: "[]",
	}
	for i, str := range expect {
		if got := X.At(i).String(); got != str {
			t.Fatalf("At(%d): got %q, expected %q", i, got, str)
		}
	}

	if _, err := X.Resolve(aeg.Path{0, 0}); err != nil {
		t.Fatal(err)
	}
	if _, err := X.Resolve(aeg.Path{1, 0}); !errors.Is(err, aeg.ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
	if _, err := X.Resolve(aeg.Path{2}); !errors.Is(err, aeg.ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

func TestEquality(t *testing.T) {
	A := libaeg.MustParse("(B, A, [D, C])")
	B := libaeg.MustParse("([C, D], A, B)")
	if !A.Equals(B) || A.Compare(B) != 0 {
		t.Fatal("expected equal graphs")
	}
	if libaeg.MustParse("[A]").Equals(libaeg.MustParse("(A)")) {
		t.Fatal("a cut is not the sheet")
	}
	if libaeg.MustParse("(A)").Compare(libaeg.MustParse("(B)")) >= 0 {
		t.Fatal("bad ordering")
	}
	var nilGraph *libaeg.Graph
	if nilGraph.Equals(A) || !nilGraph.Equals(nil) {
		t.Fatal("nil equality")
	}
}

func TestPaths(t *testing.T) {
	X := libaeg.MustParse("([A], [[A]])")
	if !X.ContainsAtom("A") || X.ContainsAtom("B") {
		t.Fatal("ContainsAtom")
	}

	paths := X.PathsToAtom("A")
	expectPaths(t, paths, "0.0", "1.0.0")

	// the sole atom of the root has no path
	expectPaths(t, libaeg.MustParse("(A)").PathsToAtom("A"))
	expectPaths(t, libaeg.MustParse("(A, B)").PathsToAtom("A"), "0")

	sub := libaeg.MustParse("[A]")
	if !X.ContainsGraph(sub) || X.ContainsGraph(libaeg.MustParse("[B]")) {
		t.Fatal("ContainsGraph")
	}
	expectPaths(t, X.PathsToGraph(sub), "0")

	Y := libaeg.MustParse("([A], B, [[A], C])")
	expectPaths(t, Y.PathsToGraph(sub), "0", "1.0")

	expectPaths(t, libaeg.MustParse("([A], B)").ElementPaths(), "0", "0.0", "1")
}

func expectPaths(t *testing.T, paths []aeg.Path, expect ...string) {
	t.Helper()
	if len(paths) != len(expect) {
		t.Fatalf("got %v, expected %v", paths, expect)
	}
	for i, path := range paths {
		if path.String() != expect[i] {
			t.Fatalf("got %v, expected %v", paths, expect)
		}
	}
}
