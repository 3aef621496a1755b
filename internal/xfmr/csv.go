package xfmr

import (
	"encoding/csv"
	"strconv"
	"strings"

	"cimhub-go/internal/format"
)

// CSVHeader names the 20 columns of a CSV row.
var CSVHeader = []string{
	"Name", "NumWindings", "NumPhases",
	"Wdg1kV", "Wdg1kVA", "Wdg1Conn", "Wdg1R",
	"Wdg2kV", "Wdg2kVA", "Wdg2Conn", "Wdg2R",
	"Wdg3kV", "Wdg3kVA", "Wdg3Conn", "Wdg3R",
	"%x12", "%x13", "%x23", "%imag", "%NoLoadLoss",
}

const csvMaxWindings = 3

// CSVRecord returns the CSV fields of p, always len(CSVHeader) of them.
// Missing windings are left as empty fields.
//
// The no-load loss column is 0.001*nll/S1, unlike the OpenDSS %noloadloss
// which is 100*1000*nll/S1.
func CSVRecord(p *Parameters) []string {
	rec := make([]string, 0, len(CSVHeader))
	rec = append(rec, p.TName, strconv.Itoa(p.Size()), strconv.Itoa(p.Phases))
	for i := 0; i < csvMaxWindings; i++ {
		if i >= p.Size() {
			rec = append(rec, "", "", "", "")
			continue
		}
		w := p.Windings[i]
		rec = append(rec, format.F3(0.001*w.RatedU), format.F1(0.001*w.RatedS), DSSConn(w.Delta), format.F6(w.RPercent))
	}
	for i := range p.PairX {
		rec = append(rec, format.F6(100.0*p.PairX[i]))
	}
	oct := p.OpenCircuit
	rec = append(rec, format.F3(oct.ExcitationPercent), format.F3(0.001*oct.NoLoadLossW/p.Windings[0].RatedS))
	return rec
}

// CSV renders p as one newline-terminated CSV line.
func CSV(p *Parameters) string {
	return csvLine(CSVRecord(p))
}

// CSVHeaderLine is the header line preceding all rows of a batch export.
func CSVHeaderLine() string {
	return csvLine(CSVHeader)
}

func csvLine(fields []string) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(fields)
	w.Flush()
	return b.String()
}
