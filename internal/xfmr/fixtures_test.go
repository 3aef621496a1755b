package xfmr

import (
	"strconv"

	"cimhub-go/internal/models"
)

func sp(s string) *string { return &s }

func ratingRow(pname, tname, id string, enum int, conn string, s, u, r float64) models.XfmrCodeRatingRow {
	return models.XfmrCodeRatingRow{
		PName:  sp(pname),
		TName:  sp(tname),
		ID:     sp(id),
		EID:    sp(id + "_w" + strconv.Itoa(enum)),
		EName:  sp(tname + "_" + strconv.Itoa(enum)),
		ENum:   sp(strconv.Itoa(enum)),
		Conn:   sp(conn),
		Ang:    sp("0"),
		RatedS: sp(strconv.FormatFloat(s, 'g', -1, 64)),
		RatedU: sp(strconv.FormatFloat(u, 'g', -1, 64)),
		Res:    sp(strconv.FormatFloat(r, 'g', -1, 64)),
	}
}

// wyeWye is a 50 kVA 12.47 kV / 240 V three-phase code.
func wyeWye() *TransformerCode {
	return &TransformerCode{
		PName: "xf1",
		TName: "T50",
		ID:    "_A1B2",
		Windings: []Winding{
			{Number: 1, Conn: "Y", RatedS: 50000, RatedU: 12470, ResistanceOhm: 1.0},
			{Number: 2, Conn: "Y", RatedS: 50000, RatedU: 240, ResistanceOhm: 0.001},
		},
	}
}

func wyeWyeTests() (ShortCircuitTest, OpenCircuitTest) {
	return ShortCircuitTest{Entries: []SCTestEntry{{From: 1, To: 2, ZOhm: 62.2, LoadLossW: 500}}},
		OpenCircuitTest{ExcitationPercent: 0.5, NoLoadLossW: 100}
}

// centerTapped is a 25 kVA 7.2 kV / 120-120 V three-winding code whose
// short-circuit tests give pairwise reactances of 2, 3 and 4 per unit.
func centerTapped() *TransformerCode {
	return &TransformerCode{
		PName: "xf_ct",
		TName: "CT25",
		ID:    "_C3D4",
		Windings: []Winding{
			{Number: 1, Conn: "I", RatedS: 25000, RatedU: 7200, ResistanceOhm: 0.5},
			{Number: 2, Conn: "I", RatedS: 25000, RatedU: 120, ResistanceOhm: 0.002},
			{Number: 3, Conn: "I", RatedS: 25000, RatedU: 120, ResistanceOhm: 0.002},
		},
	}
}

func centerTappedTests() (ShortCircuitTest, OpenCircuitTest) {
	return ShortCircuitTest{Entries: []SCTestEntry{
			{From: 1, To: 2, ZOhm: 4147.2, LoadLossW: 300},
			{From: 1, To: 3, ZOhm: 6220.8, LoadLossW: 300},
			{From: 2, To: 3, ZOhm: 2.304},
		}},
		OpenCircuitTest{ExcitationPercent: 0.4, NoLoadLossW: 60}
}

// substation is a 10 MVA 115 / 12.47 / 4.16 kV three-phase code with a delta
// tertiary. Its short-circuit tests give 8, 10 and 6 percent.
func substation() *TransformerCode {
	return &TransformerCode{
		PName: "sub1",
		TName: "T3W",
		ID:    "_E5F6",
		Windings: []Winding{
			{Number: 1, Conn: "Y", RatedS: 10e6, RatedU: 115000, ResistanceOhm: 1.0},
			{Number: 2, Conn: "Y", RatedS: 10e6, RatedU: 12470, ResistanceOhm: 0.01},
			{Number: 3, Conn: "D", RatedS: 5e6, RatedU: 4160, ResistanceOhm: 0.005},
		},
	}
}

func substationTests() (ShortCircuitTest, OpenCircuitTest) {
	return ShortCircuitTest{Entries: []SCTestEntry{
			{From: 1, To: 2, ZOhm: 105.8, LoadLossW: 20000},
			{From: 1, To: 3, ZOhm: 132.25},
			{From: 2, To: 3, ZOhm: 0.9330054},
		}},
		OpenCircuitTest{ExcitationPercent: 0.3, NoLoadLossW: 5000}
}
