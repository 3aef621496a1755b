package xfmr

import (
	"testing"

	"cimhub-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShortCircuitTest(t *testing.T) {
	t.Run("should parse entries in order", func(t *testing.T) {
		rows := []models.XfmrCodeSCTestRow{
			{TName: sp("CT25"), Enum: sp("1"), Gnum: sp("2"), Z: sp("4147.2"), LL: sp("300")},
			{TName: sp("CT25"), Enum: sp("2"), Gnum: sp("3"), Z: sp("2.304"), LL: sp("0")},
		}
		sct, err := NewShortCircuitTest("CT25", rows)
		require.NoError(t, err)
		require.Len(t, sct.Entries, 2)
		assert.Equal(t, SCTestEntry{From: 1, To: 2, ZOhm: 4147.2, LoadLossW: 300}, sct.Entries[0])
		assert.Equal(t, 3, sct.Entries[1].To)
	})

	t.Run("should fail on a non-numeric impedance", func(t *testing.T) {
		rows := []models.XfmrCodeSCTestRow{{Enum: sp("1"), Gnum: sp("2"), Z: sp("n/a"), LL: sp("0")}}
		_, err := NewShortCircuitTest("T50", rows)
		assert.True(t, IsKind(err, KindUnparsableNumeric))
		assert.Contains(t, err.Error(), "T50")
	})
}

func TestNewOpenCircuitTest(t *testing.T) {
	oct, err := NewOpenCircuitTest("T50", models.XfmrCodeOCTestRow{NLL: sp("100"), IExc: sp("0.5")})
	require.NoError(t, err)
	assert.Equal(t, OpenCircuitTest{ExcitationPercent: 0.5, NoLoadLossW: 100}, oct)

	_, err = NewOpenCircuitTest("T50", models.XfmrCodeOCTestRow{NLL: sp("100")})
	assert.True(t, IsKind(err, KindMissingField))
}

func TestPairOf(t *testing.T) {
	assert.Equal(t, Pair12, PairOf(1, 2))
	assert.Equal(t, Pair12, PairOf(2, 1))
	assert.Equal(t, Pair13, PairOf(3, 1))
	assert.Equal(t, Pair23, PairOf(2, 3))
	assert.Equal(t, PairNone, PairOf(1, 1))
}
