package xfmr

import (
	"strconv"
	"strings"

	"cimhub-go/internal/format"
)

var dssPairKeys = [3]string{"xhl", "xht", "xlt"}

// DSS renders p as an OpenDSS Xfmrcode definition: a header line with the
// pairwise percent reactances and the open-circuit test, then one ~ line per
// winding.
func DSS(p *Parameters) string {
	var b strings.Builder
	b.WriteString("new Xfmrcode." + p.TName + " windings=" + strconv.Itoa(p.Size()) + " phases=" + strconv.Itoa(p.Phases))

	// percent of the energised winding's base; load loss is not subtracted
	for i, seen := range p.PairSeen {
		if seen {
			b.WriteString(" " + dssPairKeys[i] + "=" + format.F6(100.0*p.PairX[i]))
		}
	}

	oct := p.OpenCircuit
	b.WriteString(" %imag=" + format.F3(oct.ExcitationPercent) +
		" %noloadloss=" + format.F3(100.0*1000.0*oct.NoLoadLossW/p.Windings[0].RatedS) + "\n")

	for _, w := range p.Windings {
		b.WriteString("~ wdg=" + strconv.Itoa(w.Number) + " conn=" + DSSConn(w.Delta) +
			" kv=" + format.F3(0.001*w.RatedU) + " kva=" + format.F1(0.001*w.RatedS) +
			" %r=" + format.F6(w.RPercent) + "\n")
	}
	return b.String()
}
