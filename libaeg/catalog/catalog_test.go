package catalog_test

import (
	"os"
	"path"
	"testing"

	"github.com/2x3systems/goaeg/aeg"
	"github.com/2x3systems/goaeg/libaeg"
	"github.com/2x3systems/goaeg/libaeg/catalog"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gGraphs = []string{
	"()",
	"(A)",
	"(A, B)",
	"([A], B)",
	"([[A]])",
	"[A, [B]]",
}

var gProof = &aeg.Proof{
	Name:    "double-negation",
	Premise: "([[A]], B)",
	Steps: []aeg.Step{
		{Rule: aeg.RuleDoubleCut, Path: aeg.Path{0}},
		{Rule: aeg.RuleErase, Path: aeg.Path{1}},
	},
}

func TestBasics(t *testing.T) {
	dir, err := os.MkdirTemp("", "junk*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	opts := aeg.CatalogOpts{
		DbPathName: path.Join(dir, "TestBasics"),
	}
	cat, err := catalog.OpenCatalog(opts)
	require.NoError(t, err)

	for _, str := range gGraphs {
		assert.True(t, cat.TryAddGraph(libaeg.MustParse(str)), str)
	}
	assert.False(t, cat.TryAddGraph(libaeg.MustParse("(B, A)")))
	assert.EqualValues(t, len(gGraphs), cat.NumGraphs())

	require.NoError(t, cat.PutProof(gProof))
	assert.True(t, errors.Is(cat.PutProof(&aeg.Proof{Premise: "(A)"}), aeg.ErrBadCatalogParam))
	require.NoError(t, cat.Close())

	// reopen read-only: contents persist and nothing can be added
	opts.ReadOnly = true
	cat, err = catalog.OpenCatalog(opts)
	require.NoError(t, err)
	defer cat.Close()

	assert.True(t, cat.IsReadOnly())
	assert.EqualValues(t, len(gGraphs), cat.NumGraphs())
	assert.False(t, cat.TryAddGraph(libaeg.MustParse("(C)")))
	assert.True(t, errors.Is(cat.PutProof(gProof), aeg.ErrReadOnly))

	proof, err := cat.GetProof(gProof.Name)
	require.NoError(t, err)
	assert.Equal(t, gProof, proof)

	_, err = cat.GetProof("nope")
	assert.True(t, errors.Is(err, aeg.ErrProofNotFound))
}

func TestSelectProofs(t *testing.T) {
	cat, err := catalog.OpenCatalog(aeg.CatalogOpts{})
	require.NoError(t, err)
	defer cat.Close()

	names := []string{"c", "a", "b"}
	for _, name := range names {
		proof := *gProof
		proof.Name = name
		require.NoError(t, cat.PutProof(&proof))
	}

	proofs := make(chan *aeg.Proof, len(names))
	require.NoError(t, cat.SelectProofs(proofs))
	close(proofs)

	var got []string
	for proof := range proofs {
		got = append(got, proof.Name)
		trace, err := libaeg.Replay(proof)
		require.NoError(t, err)
		assert.Equal(t, "(A)", trace[len(trace)-1].String())
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestBadParams(t *testing.T) {
	_, err := catalog.OpenCatalog(aeg.CatalogOpts{ReadOnly: true})
	assert.True(t, errors.Is(err, aeg.ErrBadCatalogParam))
}
