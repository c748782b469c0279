package pms

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRefinePlanes_FrontoModeIsNoOp(t *testing.T) {
	s, left, _ := testRig(t, 12, 16, 5, 2, 1, 31)

	planes := make([]Plane, len(left.field.planes))
	copy(planes, left.field.planes)

	s.refinePlanes(left)
	require.Equal(t, planes, left.field.planes)
}

func TestRefinePlanes_NeverWorsensCosts(t *testing.T) {
	s, left, _ := testRig(t, 12, 16, 5, 2, 1, 32)
	s.cfg.FrontoParallelOnly = false

	before := make([]float32, len(left.field.bestCost))
	copy(before, left.field.bestCost)

	s.refinePlanes(left)

	for i := range left.field.bestCost {
		require.LessOrEqual(t, left.field.bestCost[i], before[i])
	}
	requireCostsConsistent(t, s, left)
}
