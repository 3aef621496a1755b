package xfmr

import (
	"strings"

	"cimhub-go/internal/format"
)

// GLM renders p as a GridLAB-D transformer_configuration object. use carries
// the primary phases of the tanks referencing the code; it only matters for
// single-phase topologies. Parameters without a GridLAB-D topology return
// their TopologyErr.
func GLM(p *Parameters, use PhaseUsage) (string, error) {
	if p.TopologyErr != nil {
		return "", p.TopologyErr
	}

	var b strings.Builder
	b.WriteString("object transformer_configuration {\n")

	kva := format.F3(p.Windings[0].RatedS * 0.001)
	b.WriteString("  name \"xcon_" + p.TName + "\";\n")
	b.WriteString("  power_rating " + kva + ";\n")
	if p.Topology == TopologySinglePhase || p.Topology == TopologySinglePhaseCenterTapped {
		writePhaseRatings(&b, kva, use)
	}
	// single-phase primary stays line-to-neutral; Vll is not the impedance base
	b.WriteString("  primary_voltage " + format.F3(p.Windings[0].RatedU) + ";\n")
	b.WriteString("  secondary_voltage " + format.F3(p.Windings[1].RatedU) + ";\n")

	connect := p.ConnectType()
	if connect == TopologyYD {
		b.WriteString("  connect_type WYE_WYE; // should be Y_D\n")
	} else {
		b.WriteString("  connect_type " + string(connect) + ";\n")
	}

	if connect == TopologySinglePhaseCenterTapped {
		suffix := []string{"", "1", "2"}
		for i, br := range p.Branches {
			b.WriteString("  impedance" + suffix[i] + " " + format.Complex(br.R, br.X) + ";\n")
		}
	} else {
		b.WriteString("  resistance " + format.F6(p.RPU) + ";\n")
		b.WriteString("  reactance " + format.F6(p.XPU) + ";\n")
	}

	if p.Shunt.HasReactance {
		b.WriteString("  shunt_reactance " + format.F6(p.Shunt.Reactance) + ";\n")
	}
	if p.Shunt.HasResistance {
		b.WriteString("  shunt_resistance " + format.F6(p.Shunt.Resistance) + ";\n")
	}
	b.WriteString("}\n")
	return b.String(), nil
}

// writePhaseRatings gives the full rating to the first used phase, A before
// B before C, and zero to the other two.
func writePhaseRatings(b *strings.Builder, kva string, use PhaseUsage) {
	var ratings [3]string
	switch {
	case use.A:
		ratings = [3]string{kva, "0.0", "0.0"}
	case use.B:
		ratings = [3]string{"0.0", kva, "0.0"}
	case use.C:
		ratings = [3]string{"0.0", "0.0", kva}
	default:
		return
	}
	b.WriteString("  powerA_rating " + ratings[0] + ";\n")
	b.WriteString("  powerB_rating " + ratings[1] + ";\n")
	b.WriteString("  powerC_rating " + ratings[2] + ";\n")
}
