package xfmr

import (
	"errors"
	"fmt"
	"math"
)

// MinResistancePU is the floor applied to the series resistance; GridLAB-D
// rejects a zero impedance.
const MinResistancePU = 1e-6

// ReactanceMode selects how the per-unit reactance is taken from the
// short-circuit impedance.
type ReactanceMode int

const (
	// ReactanceFromImpedance uses xpu = zpu.
	ReactanceFromImpedance ReactanceMode = iota
	// ReactanceSubtractResistance uses xpu = sqrt(zpu² - rpu²) when zpu >= rpu.
	ReactanceSubtractResistance
)

// ParseReactanceMode maps a configuration value to a ReactanceMode.
func ParseReactanceMode(s string) (ReactanceMode, error) {
	switch s {
	case "", "impedance":
		return ReactanceFromImpedance, nil
	case "subtract":
		return ReactanceSubtractResistance, nil
	}
	return ReactanceFromImpedance, fmt.Errorf("unknown reactance mode %q", s)
}

// Options tune the derivation.
type Options struct {
	Reactance ReactanceMode
}

// Branch is one series branch of the center-tapped model, in per unit.
type Branch struct {
	R float64
	X float64
}

// Shunt is the magnetising branch. Each value is only meaningful when its
// Has flag is set.
type Shunt struct {
	Reactance     float64
	Resistance    float64
	HasReactance  bool
	HasResistance bool
}

// WindingRating is the per-winding view the OpenDSS and CSV exporters need.
type WindingRating struct {
	Number   int
	Delta    bool
	RatedU   float64
	RatedS   float64
	ZBase    float64
	RPercent float64
}

// Parameters is the equivalent-circuit model derived from a transformer code
// and its test data. Every renderer works from this value alone.
type Parameters struct {
	PName string
	TName string
	ID    string

	Topology Topology
	Phases   int
	Windings []WindingRating

	RPU float64
	ZPU float64
	XPU float64

	// Branches is set for SINGLE_PHASE_CENTER_TAPPED only: primary, then the
	// two secondary halves.
	Branches []Branch

	// PairX holds the short-circuit impedance of winding pairs 1-2, 1-3, 2-3
	// divided by the base of the energised winding. PairSeen marks which
	// pairs were tested.
	PairX    [3]float64
	PairSeen [3]bool

	Shunt       Shunt
	OpenCircuit OpenCircuitTest

	// TopologyErr is set when the windings match no GridLAB-D connect_type.
	// Only GLM refuses such parameters; OpenDSS and CSV do not need a topology.
	TopologyErr error
}

// Size is the number of windings.
func (p *Parameters) Size() int {
	return len(p.Windings)
}

// ConnectType is the topology after the single-phase substitution GridLAB-D
// needs: SINGLE_PHASE tanks are modelled as WYE_WYE with per-phase ratings.
func (p *Parameters) ConnectType() Topology {
	if p.Topology == TopologySinglePhase {
		return TopologyWyeWye
	}
	return p.Topology
}

// Derive computes the equivalent-circuit parameters of code from its
// short-circuit and open-circuit tests. It is a pure function.
func Derive(code *TransformerCode, sct ShortCircuitTest, oct OpenCircuitTest, opts Options) (*Parameters, error) {
	size := code.Size()
	if size < 2 {
		return nil, windingCountError(code.TName, "derivation needs at least 2 windings, have %d", size)
	}
	for i, e := range sct.Entries {
		if e.From < 1 || e.From > size || e.To < 1 || e.To > size {
			return nil, windingCountError(code.TName, "short-circuit test %d joins windings %d-%d of a %d-winding code", i+1, e.From, e.To, size)
		}
	}

	p := &Parameters{
		PName:       code.PName,
		TName:       code.TName,
		ID:          code.ID,
		Phases:      PhaseCount(code.Conns()),
		Windings:    make([]WindingRating, size),
		OpenCircuit: oct,
	}

	cls, err := Classify(code.Conns(), size)
	if err != nil {
		var xe *Error
		if errors.As(err, &xe) {
			xe.Device = code.TName
		}
		if !IsKind(err, KindUnknownTopology) {
			return nil, err
		}
		p.TopologyErr = err
	} else {
		p.Topology = cls.Topology
		p.Phases = cls.Phases
	}

	zbase := make([]float64, size)
	for i, w := range code.Windings {
		zbase[i] = w.ZBase()
		p.Windings[i] = WindingRating{
			Number:   i + 1,
			Delta:    IsDelta(w.Conn),
			RatedU:   w.RatedU,
			RatedS:   w.RatedS,
			ZBase:    zbase[i],
			RPercent: 100.0 * w.ResistanceOhm / zbase[i],
		}
	}

	for _, e := range sct.Entries {
		pair := PairOf(e.From, e.To)
		if pair == PairNone {
			continue
		}
		p.PairX[pair] = e.ZOhm / zbase[e.From-1]
		p.PairSeen[pair] = true
	}

	primary, hasPrimary := primaryTest(sct)
	if hasPrimary && primary.LoadLossW > 0 && size < 3 {
		p.RPU = 1000.0 * primary.LoadLossW / code.Windings[0].RatedS
	} else {
		p.RPU = code.Windings[0].ResistanceOhm/zbase[0] + 0.5*(code.Windings[1].ResistanceOhm/zbase[1])
	}
	if p.RPU <= MinResistancePU {
		p.RPU = MinResistancePU
	}

	if hasPrimary {
		p.ZPU = primary.ZOhm / zbase[primary.From-1]
	}
	p.XPU = p.ZPU
	if opts.Reactance == ReactanceSubtractResistance && p.ZPU >= p.RPU {
		p.XPU = math.Sqrt(p.ZPU*p.ZPU - p.RPU*p.RPU)
	}

	if p.Topology == TopologySinglePhaseCenterTapped {
		p.Branches = centerTapBranches(code, zbase, p)
	}

	switch p.ConnectType() {
	case TopologyWyeWye, TopologySinglePhaseCenterTapped:
		if oct.ExcitationPercent > 0 {
			p.Shunt.Reactance = 100.0 / oct.ExcitationPercent
			p.Shunt.HasReactance = true
		}
		if oct.NoLoadLossW > 0 {
			p.Shunt.Resistance = code.Windings[0].RatedS / (1000.0 * oct.NoLoadLossW)
			p.Shunt.HasResistance = true
		}
	}
	return p, nil
}

// primaryTest picks the short-circuit test that energises winding 1, falling
// back to one that shorts it.
func primaryTest(sct ShortCircuitTest) (SCTestEntry, bool) {
	for _, e := range sct.Entries {
		if e.From == 1 {
			return e, true
		}
	}
	for _, e := range sct.Entries {
		if e.To == 1 {
			return e, true
		}
	}
	return SCTestEntry{}, false
}

func centerTapBranches(code *TransformerCode, zbase []float64, p *Parameters) []Branch {
	if code.Size() < 3 {
		// fixed interlace ratios; these match X12 and X13 but not X23
		return []Branch{
			{R: 0.5 * p.RPU, X: 0.8 * p.ZPU},
			{R: p.RPU, X: 0.4 * p.ZPU},
			{R: p.RPU, X: 0.4 * p.ZPU},
		}
	}
	x12, x13, x23 := p.PairX[Pair12], p.PairX[Pair13], p.PairX[Pair23]
	return []Branch{
		{R: code.Windings[0].ResistanceOhm / zbase[0], X: 0.5 * (x12 + x13 - x23)},
		{R: code.Windings[1].ResistanceOhm / zbase[1], X: 0.5 * (x12 + x23 - x13)},
		{R: code.Windings[2].ResistanceOhm / zbase[2], X: 0.5 * (x13 + x23 - x12)},
	}
}
