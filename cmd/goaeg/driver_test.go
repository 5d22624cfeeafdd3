package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2x3systems/goaeg/aeg"
	"github.com/2x3systems/goaeg/libaeg/catalog"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession(t *testing.T) {
	in := strings.Join([]string{
		"([[A]], B)",
		"# comment",
		"list",
		"double_cut 0",
		"erase 1",
		"bogus 0",
		"deiterate 0",
		"undo",
	}, "\n")

	out := strings.Builder{}
	err := Run(strings.NewReader(in), &out, DriverOpts{Check: true})
	require.Error(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "([[A]], B)", lines[0])
	assert.Equal(t, "double-cut:{0} erase:{0, 1} deiterate:{}", lines[1])
	assert.Equal(t, "(A, B)", lines[2])
	assert.Equal(t, "(A)", lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "! "), lines[4])
	assert.True(t, strings.HasPrefix(lines[5], "! "), lines[5])
	assert.Equal(t, "(A, B)", lines[6])
}

func TestSessionMalformed(t *testing.T) {
	out := strings.Builder{}
	err := Run(strings.NewReader("(A\n(A)\nerase 0\n"), &out, DriverOpts{})
	require.Error(t, err)
	assert.Equal(t, "(A)\n()\n", out.String()[strings.Index(out.String(), "\n")+1:])
}

func TestStoreDerivation(t *testing.T) {
	dir := t.TempDir()
	opts := DriverOpts{
		CatalogPath: filepath.Join(dir, "cat"),
		Name:        "dn",
	}
	out := strings.Builder{}
	require.NoError(t, Run(strings.NewReader("([[A]])\ndouble-cut 0\n"), &out, opts))

	cat, err := catalog.OpenCatalog(aeg.CatalogOpts{DbPathName: opts.CatalogPath, ReadOnly: true})
	require.NoError(t, err)
	defer cat.Close()

	assert.EqualValues(t, 2, cat.NumGraphs())
	proof, err := cat.GetProof("dn")
	require.NoError(t, err)
	assert.Equal(t, "([[A]])", proof.Premise)
	assert.Equal(t, []aeg.Step{{Rule: aeg.RuleDoubleCut, Path: aeg.Path{0}}}, proof.Steps)
}

func TestProofFile(t *testing.T) {
	dir := t.TempDir()
	pathname := filepath.Join(dir, "mp.yaml")
	require.NoError(t, os.WriteFile(pathname, []byte(`
name: mp
premise: (A, [A, [B]])
steps:
  - rule: deiterate
    path: [0, 1]
  - rule: double-cut
    path: [0]
  - rule: insert-double-cut
    path: [1]
  - rule: double-cut
    path: [0]
`), 0600))

	out := strings.Builder{}
	opts := DriverOpts{
		ProofPathname: pathname,
		Check:         true,
	}
	require.NoError(t, Run(strings.NewReader(""), &out, opts))
	assert.Equal(t, strings.Join([]string{
		"mp,000001,([[B], A], A)",
		"mp,000002,([[B]], A)",
		"mp,000003,(A, B)",
		"mp,000004,([[B]], A)",
		"mp,000005,(A, B)",
		"",
	}, "\n"), out.String())

	// the whole cut may be erased from the sheet, but not an atom inside it
	require.NoError(t, os.WriteFile(pathname, []byte(`
premise: ([A, B])
steps:
  - rule: erase
    path: [0]
`), 0600))
	err := Run(strings.NewReader(""), &out, opts)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(pathname, []byte(`
premise: ([A, B])
steps:
  - rule: erase
    path: [0, 1]
`), 0600))
	err = Run(strings.NewReader(""), &out, opts)
	assert.True(t, errors.Is(err, aeg.ErrInvalidPath))
}

func TestExampleProofs(t *testing.T) {
	files, err := filepath.Glob("proofs/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, pathname := range files {
		out := strings.Builder{}
		err = Run(strings.NewReader(""), &out, DriverOpts{ProofPathname: pathname, Check: true})
		require.NoError(t, err, pathname)
	}

	out := strings.Builder{}
	require.NoError(t, Run(nil, &out, DriverOpts{ProofPathname: "proofs/syllogism.yaml"}))
	assert.True(t, strings.HasSuffix(out.String(), ",(R)\n"), out.String())
}
