package xfmr

import (
	"cimhub-go/internal/models"
)

// SCTestEntry is one short-circuit test: winding From energised, winding To shorted.
type SCTestEntry struct {
	From      int
	To        int
	ZOhm      float64
	LoadLossW float64
}

// ShortCircuitTest holds the short-circuit tests of one transformer code in row order.
type ShortCircuitTest struct {
	Entries []SCTestEntry
}

// OpenCircuitTest is the excitation test of one transformer code, relative to winding 1.
type OpenCircuitTest struct {
	ExcitationPercent float64
	NoLoadLossW       float64
}

// NewShortCircuitTest parses the short-circuit rows of the code named tname.
// Winding numbers are range-checked later against the code's size.
func NewShortCircuitTest(tname string, rows []models.XfmrCodeSCTestRow) (ShortCircuitTest, error) {
	sct := ShortCircuitTest{Entries: make([]SCTestEntry, 0, len(rows))}
	for _, row := range rows {
		r := fieldReader{device: tname}
		e := SCTestEntry{
			From:      r.int("enum", row.Enum),
			To:        r.int("gnum", row.Gnum),
			ZOhm:      r.float("z", row.Z),
			LoadLossW: r.float("ll", row.LL),
		}
		if err := r.failed(); err != nil {
			return ShortCircuitTest{}, err
		}
		sct.Entries = append(sct.Entries, e)
	}
	return sct, nil
}

// NewOpenCircuitTest parses the open-circuit row of the code named tname.
func NewOpenCircuitTest(tname string, row models.XfmrCodeOCTestRow) (OpenCircuitTest, error) {
	r := fieldReader{device: tname}
	oct := OpenCircuitTest{
		NoLoadLossW:       r.float("nll", row.NLL),
		ExcitationPercent: r.float("iexc", row.IExc),
	}
	if err := r.failed(); err != nil {
		return OpenCircuitTest{}, err
	}
	return oct, nil
}

// Pair identifies an unordered winding pair of a three-winding short-circuit set.
type Pair int

const (
	PairNone Pair = iota - 1
	Pair12
	Pair13
	Pair23
)

// PairOf maps a from/to winding couple to its unordered pair.
func PairOf(from, to int) Pair {
	switch {
	case (from == 1 && to == 2) || (from == 2 && to == 1):
		return Pair12
	case (from == 1 && to == 3) || (from == 3 && to == 1):
		return Pair13
	case (from == 2 && to == 3) || (from == 3 && to == 2):
		return Pair23
	}
	return PairNone
}
