package snpset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/needl-go/netseek/internal/snpset"
)

func TestSet_SortedAndDeduped(t *testing.T) {
	s, err := snpset.New([]snpset.SNP{5, 1, 3, 1, 5})
	require.NoError(t, err)
	require.Equal(t, []snpset.SNP{1, 3, 5}, s.SNPs())
	require.Equal(t, 3, s.Len())
}

func TestSet_TooLarge(t *testing.T) {
	ids := make([]snpset.SNP, snpset.MaxSetSize+1)
	for i := range ids {
		ids[i] = snpset.SNP(i)
	}
	_, err := snpset.New(ids)
	require.ErrorIs(t, err, snpset.ErrSetTooLarge)
}

// TestSet_AddExceedsCap locks in boundary property 14: a set that exceeds
// the cap via Add fails with ErrSetTooLarge.
func TestSet_AddExceedsCap(t *testing.T) {
	ids := make([]snpset.SNP, snpset.MaxSetSize)
	for i := range ids {
		ids[i] = snpset.SNP(i)
	}
	s, err := snpset.New(ids)
	require.NoError(t, err)

	_, err = s.Add(snpset.SNP(999))
	require.ErrorIs(t, err, snpset.ErrSetTooLarge)
}

func TestSet_AddRemoveRoundTrip(t *testing.T) {
	s, err := snpset.New([]snpset.SNP{1, 2})
	require.NoError(t, err)

	s2, err := s.Add(3)
	require.NoError(t, err)
	require.Equal(t, []snpset.SNP{1, 2, 3}, s2.SNPs())

	s3, err := s2.Remove(2)
	require.NoError(t, err)
	require.Equal(t, []snpset.SNP{1, 3}, s3.SNPs())

	_, err = s3.Remove(2)
	require.ErrorIs(t, err, snpset.ErrNotMember)
}

func TestSet_MutationClearsScoreCacheKeepsAttrs(t *testing.T) {
	s, err := snpset.New([]snpset.SNP{1, 2})
	require.NoError(t, err)
	s.SetAttribute("SEED_ORIGIN", "RANDOM_CONNECTED")
	s.SetCachedScore(0, 4.2)

	s2, err := s.Add(3)
	require.NoError(t, err)

	_, valid := s2.CachedScore(0)
	require.False(t, valid, "score cache must be cleared on mutation")

	v, ok := s2.Attribute("SEED_ORIGIN")
	require.True(t, ok)
	require.Equal(t, "RANDOM_CONNECTED", v)
}

func TestSet_EqualIsElementWise(t *testing.T) {
	a, _ := snpset.New([]snpset.SNP{1, 2, 3})
	b, _ := snpset.New([]snpset.SNP{1, 2, 4})
	c, _ := snpset.New([]snpset.SNP{1, 2, 3})

	require.True(t, a.Equal(c))
	require.False(t, a.Equal(b))
	require.False(t, a.Less(c), "Less must report false for fully-equal sets, not the original's buggy true")
}

func TestEdge_Canonicalized(t *testing.T) {
	e1, ok := snpset.NewEdge(5, 2)
	require.True(t, ok)
	e2, ok := snpset.NewEdge(2, 5)
	require.True(t, ok)
	require.Equal(t, e1, e2)

	lo, hi := e1.Endpoints()
	require.Equal(t, snpset.SNP(2), lo)
	require.Equal(t, snpset.SNP(5), hi)
}

func TestEdge_SelfLoopDropped(t *testing.T) {
	_, ok := snpset.NewEdge(3, 3)
	require.False(t, ok)
}
