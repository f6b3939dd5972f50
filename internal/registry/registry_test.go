package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/needl-go/netseek/internal/registry"
	"github.com/needl-go/netseek/internal/snpset"
)

func mustAdd(t *testing.T, r *registry.Registry, name string) snpset.SNP {
	t.Helper()
	id, err := r.Add(name)
	require.NoError(t, err)
	return id
}

// TestRegistry_ByNameRsFallback locks in scenario S1: by_name("rs3") hits
// directly, by_name("3") falls back to the registered "rs3", and an unknown
// rs-number fails with ErrNotFound.
func TestRegistry_ByNameRsFallback(t *testing.T) {
	r := registry.New()
	mustAdd(t, r, "rs1")
	mustAdd(t, r, "rs2")
	rs3 := mustAdd(t, r, "rs3")

	id, err := r.ByName("rs3")
	require.NoError(t, err)
	require.Equal(t, rs3, id)

	id, err = r.ByName("3")
	require.NoError(t, err)
	require.Equal(t, rs3, id)

	_, err = r.ByName("rs99")
	require.ErrorIs(t, err, registry.ErrNotFound)
}

func TestRegistry_AddDuplicateName(t *testing.T) {
	r := registry.New()
	mustAdd(t, r, "rs1")
	_, err := r.Add("rs1")
	require.ErrorIs(t, err, registry.ErrDuplicateName)
}

func TestRegistry_AnnotationsFilterRemoved(t *testing.T) {
	r := registry.New()
	a := mustAdd(t, r, "rs1")
	b := mustAdd(t, r, "rs2")

	r.AddAnnotations([]struct {
		SNP        snpset.SNP
		Annotation string
	}{
		{SNP: a, Annotation: "GENE_X"},
		{SNP: b, Annotation: "GENE_X"},
	})
	r.SetRemoved(b, true)

	all := r.ByAnnotation("GENE_X", true)
	require.ElementsMatch(t, []snpset.SNP{a, b}, all)

	kept := r.ByAnnotation("GENE_X", false)
	require.Equal(t, []snpset.SNP{a}, kept)
}

func TestRegistry_SetOrAddVariableAttributeUnionsAndSorts(t *testing.T) {
	r := registry.New()
	id := mustAdd(t, r, "rs1")

	r.SetOrAddVariableAttribute(id, "ms_source", "net_b", ",")
	r.SetOrAddVariableAttribute(id, "ms_source", "net_a", ",")
	r.SetOrAddVariableAttribute(id, "ms_source", "net_b", ",")

	v, ok := r.VariableAttribute(id, "ms_source")
	require.True(t, ok)
	require.Equal(t, "net_a,net_b", v)
}

func TestRegistry_MAFAndMMARoundTrip(t *testing.T) {
	r := registry.New()
	id := mustAdd(t, r, "rs1")

	_, ok := r.MAF(id)
	require.False(t, ok)

	r.SetMAF(id, 0.23)
	maf, ok := r.MAF(id)
	require.True(t, ok)
	require.InDelta(t, 0.23, maf, 1e-9)

	r.SetMMA(id, 5.5)
	mma, ok := r.MMA(id)
	require.True(t, ok)
	require.InDelta(t, 5.5, mma, 1e-9)
}
