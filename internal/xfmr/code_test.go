package xfmr

import (
	"testing"

	"cimhub-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransformerCode(t *testing.T) {
	counts := map[string]int{"T50": 2, "CT25": 3}

	t.Run("should build windings in row order", func(t *testing.T) {
		rows := []models.XfmrCodeRatingRow{
			ratingRow("xf 1", "T50", "_A1", 1, "Y", 50000, 12470, 1.0),
			ratingRow("xf 1", "T50", "_A1", 2, "Y", 50000, 240, 0.001),
		}
		code, err := NewTransformerCode(rows, counts)
		require.NoError(t, err)

		assert.Equal(t, "xf_1", code.PName)
		assert.Equal(t, "T50", code.Key())
		assert.Equal(t, "_A1", code.ID)
		require.Equal(t, 2, code.Size())
		assert.Equal(t, 1, code.Windings[0].Number)
		assert.Equal(t, 12470.0, code.Windings[0].RatedU)
		assert.Equal(t, 240.0, code.Windings[1].RatedU)
		assert.Equal(t, []string{"Y", "Y"}, code.Conns())
	})

	t.Run("should reject a row count that disagrees with the lookup", func(t *testing.T) {
		rows := []models.XfmrCodeRatingRow{
			ratingRow("xf1", "CT25", "_C", 1, "I", 25000, 7200, 0.5),
			ratingRow("xf1", "CT25", "_C", 2, "I", 25000, 120, 0.002),
		}
		_, err := NewTransformerCode(rows, counts)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindInconsistentWindingCount))
		assert.Contains(t, err.Error(), "CT25")
	})

	t.Run("should reject a type missing from the lookup", func(t *testing.T) {
		rows := []models.XfmrCodeRatingRow{ratingRow("xf1", "NOPE", "_N", 1, "Y", 1, 1, 0)}
		_, err := NewTransformerCode(rows, counts)
		assert.True(t, IsKind(err, KindInconsistentWindingCount))
	})

	t.Run("should report an unparsable numeric with device and field", func(t *testing.T) {
		rows := []models.XfmrCodeRatingRow{
			ratingRow("xf1", "T50", "_A1", 1, "Y", 50000, 12470, 1.0),
			ratingRow("xf1", "T50", "_A1", 2, "Y", 50000, 240, 0.001),
		}
		rows[1].RatedU = sp("two-forty")
		_, err := NewTransformerCode(rows, counts)
		require.Error(t, err)

		var xe *Error
		require.ErrorAs(t, err, &xe)
		assert.Equal(t, KindUnparsableNumeric, xe.Kind)
		assert.Equal(t, "T50", xe.Device)
		assert.Equal(t, "ratedU", xe.Field)
		assert.Equal(t, "two-forty", xe.Value)
	})

	t.Run("should report a missing field", func(t *testing.T) {
		rows := []models.XfmrCodeRatingRow{
			ratingRow("xf1", "T50", "_A1", 1, "Y", 50000, 12470, 1.0),
			ratingRow("xf1", "T50", "_A1", 2, "Y", 50000, 240, 0.001),
		}
		rows[0].Conn = nil
		_, err := NewTransformerCode(rows, counts)
		assert.True(t, IsKind(err, KindMissingField))
		assert.Equal(t, KindMissingField, KindOf(err))
	})

	t.Run("should reject a non-positive rating", func(t *testing.T) {
		rows := []models.XfmrCodeRatingRow{
			ratingRow("xf1", "T50", "_A1", 1, "Y", 0, 12470, 1.0),
			ratingRow("xf1", "T50", "_A1", 2, "Y", 50000, 240, 0.001),
		}
		_, err := NewTransformerCode(rows, counts)
		assert.True(t, IsKind(err, KindInconsistentWindingCount))
	})
}

func TestNewTransformerCodes(t *testing.T) {
	counts := map[string]int{"T50": 2, "T75": 2}
	rows := []models.XfmrCodeRatingRow{
		ratingRow("xf1", "T50", "_A1", 1, "Y", 50000, 12470, 1.0),
		ratingRow("xf1", "T50", "_A1", 2, "Y", 50000, 240, 0.001),
		ratingRow("xf2", "BAD", "_B1", 1, "Y", 50000, 12470, 1.0),
		ratingRow("xf3", "T75", "_C1", 1, "D", 75000, 12470, 1.5),
		ratingRow("xf3", "T75", "_C1", 2, "Y", 75000, 480, 0.002),
	}

	codes, err := NewTransformerCodes(rows, counts)

	require.Error(t, err)
	assert.True(t, IsKind(err, KindInconsistentWindingCount))
	require.Len(t, codes, 2)
	assert.Equal(t, "T50", codes[0].TName)
	assert.Equal(t, "T75", codes[1].TName)
	assert.Equal(t, 75000.0, codes[1].Windings[1].RatedS)
}

func TestDisplayString(t *testing.T) {
	want := "xf1:T50" +
		"\n  wdg=1 conn=Y ang=0 U=12470.0000 S=50000.0000 r=1.0000" +
		"\n  wdg=2 conn=Y ang=0 U=240.0000 S=50000.0000 r=0.0010"
	assert.Equal(t, want, wyeWye().DisplayString())
}

func TestCatalogEntry(t *testing.T) {
	assert.Equal(t, `{"name":"xf1","mRID":"_A1B2"}`, wyeWye().CatalogEntry())
}
