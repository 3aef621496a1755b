package xfmr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		conns  []string
		want   Topology
		phases int
	}{
		{[]string{"Y", "Y"}, TopologyWyeWye, 3},
		{[]string{"Yn", "Yn"}, TopologyWyeWye, 3},
		{[]string{"D", "D"}, TopologyDeltaDelta, 3},
		{[]string{"D", "Yn"}, TopologyDeltaGwye, 3},
		{[]string{"Y", "D"}, TopologyYD, 3},
		{[]string{"I", "I"}, TopologySinglePhase, 1},
		{[]string{"I", "I", "I"}, TopologySinglePhaseCenterTapped, 1},
	}
	for _, tc := range cases {
		t.Run(string(tc.want), func(t *testing.T) {
			got, err := Classify(tc.conns, len(tc.conns))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Topology)
			assert.Equal(t, tc.phases, got.Phases)
		})
	}

	t.Run("should reject combinations outside the table", func(t *testing.T) {
		_, err := Classify([]string{"Z", "D"}, 2)
		assert.True(t, IsKind(err, KindUnknownTopology))
		assert.Contains(t, err.Error(), "Z,D")

		for _, conns := range [][]string{{"Y", "Y", "Y"}, {"Y", "Y", "D"}, {"D", "Y", "Y"}, {"I", "Y", "Y"}, {"Y", "I", "I"}} {
			_, err = Classify(conns, 3)
			assert.True(t, IsKind(err, KindUnknownTopology), "conns %v", conns)
		}
	})

	t.Run("should only consider the first n windings", func(t *testing.T) {
		got, err := Classify([]string{"D", "D", "I"}, 2)
		require.NoError(t, err)
		assert.Equal(t, TopologyDeltaDelta, got.Topology)
	})

	t.Run("should reject a winding count beyond the connections", func(t *testing.T) {
		_, err := Classify([]string{"Y"}, 2)
		assert.True(t, IsKind(err, KindInconsistentWindingCount))
	})
}

func TestMarkers(t *testing.T) {
	assert.Equal(t, 1, PhaseCount([]string{"Y", "I"}))
	assert.Equal(t, 3, PhaseCount([]string{"D", "Yn"}))
	assert.True(t, IsDelta("D"))
	assert.False(t, IsDelta("Yn"))
	assert.Equal(t, "d", DSSConn(true))
	assert.Equal(t, "w", DSSConn(false))
}
