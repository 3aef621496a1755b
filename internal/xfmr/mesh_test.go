package xfmr

import (
	"testing"

	"cimhub-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meshRow(pname, fnum, tnum, r, x string) models.PowerXfmrMeshRow {
	return models.PowerXfmrMeshRow{PName: sp(pname), FNum: sp(fnum), TNum: sp(tnum), R: sp(r), X: sp(x)}
}

func TestNewMeshImpedanceModels(t *testing.T) {
	counts := map[string]int{"sub 1": 3, "sub2": 1}
	rows := []models.PowerXfmrMeshRow{
		meshRow("sub 1", "1", "2", "0.1", "1.2"),
		meshRow("sub 1", "1", "3", "0.1", "1.3"),
		meshRow("sub 1", "2", "3", "0.2", "2.3"),
		meshRow("sub2", "1", "2", "0.5", "x"),
		meshRow("sub3", "1", "2", "0.5", "1"),
	}

	meshes, err := NewMeshImpedanceModels(rows, counts)

	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnparsableNumeric))
	assert.True(t, IsKind(err, KindInconsistentWindingCount))
	require.Len(t, meshes, 1)

	m := meshes[0]
	assert.Equal(t, "sub_1", m.Key())
	assert.Equal(t, MeshEntry{From: 2, To: 3, R: 0.2, X: 2.3}, m.Entries[2])
	assert.Equal(t, "sub_1 3"+
		"\n  fwdg=1 twdg=2 r=0.100000 x=1.200000"+
		"\n  fwdg=1 twdg=3 r=0.100000 x=1.300000"+
		"\n  fwdg=2 twdg=3 r=0.200000 x=2.300000", m.DisplayString())
	assert.Equal(t, `{"name":"sub_1"}`, m.CatalogEntry())
}

func TestNewMeshImpedanceModelRowCount(t *testing.T) {
	_, err := NewMeshImpedanceModel([]models.PowerXfmrMeshRow{meshRow("sub1", "1", "2", "0", "1")}, map[string]int{"sub1": 3})
	assert.True(t, IsKind(err, KindInconsistentWindingCount))
}
