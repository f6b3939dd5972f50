package output_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/needl-go/netseek/internal/output"
	"github.com/needl-go/netseek/internal/snpset"
)

func TestNodeIDDeterministicAndDistinct(t *testing.T) {
	a := output.NodeID(snpset.SNP(0))
	b := output.NodeID(snpset.SNP(1))
	require.NotEmpty(t, a)
	require.NotEqual(t, a, b)
	require.Equal(t, a, output.NodeID(snpset.SNP(0)))
}
