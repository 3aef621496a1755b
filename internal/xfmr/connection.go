package xfmr

import (
	"fmt"
	"strings"
)

// Topology is the GridLAB-D connect_type a transformer code maps to.
type Topology string

const (
	TopologyWyeWye                  Topology = "WYE_WYE"
	TopologyDeltaDelta              Topology = "DELTA_DELTA"
	TopologyDeltaGwye               Topology = "DELTA_GWYE"
	TopologyYD                      Topology = "Y_D"
	TopologySinglePhase             Topology = "SINGLE_PHASE"
	TopologySinglePhaseCenterTapped Topology = "SINGLE_PHASE_CENTER_TAPPED"
)

// Raw CIM WindingConnection tokens.
const (
	ConnD  = "D"
	ConnY  = "Y"
	ConnYn = "Yn"
	ConnZ  = "Z"
	ConnZn = "Zn"
	ConnA  = "A"
	ConnI  = "I"
)

// markerDelta and markerInterlaced are matched by substring, not token equality,
// by the OpenDSS and CSV exporters.
const (
	markerDelta      = "D"
	markerInterlaced = "I"
)

type connKey struct {
	windings int
	conns    string
}

func key(conns ...string) connKey {
	return connKey{windings: len(conns), conns: strings.Join(conns, ",")}
}

// topologyTable lists every accepted winding-connection combination. Order of
// the tuple is winding order; a combination not listed is UnknownTopology.
// Three-winding three-phase codes (Y,Y,D and the like) have no GridLAB-D
// connect_type and are not listed.
var topologyTable = map[connKey]Topology{
	key(ConnD, ConnD):   TopologyDeltaDelta,
	key(ConnD, ConnY):   TopologyDeltaGwye,
	key(ConnD, ConnYn):  TopologyDeltaGwye,
	key(ConnY, ConnD):   TopologyYD,
	key(ConnYn, ConnD):  TopologyYD,
	key(ConnY, ConnY):   TopologyWyeWye,
	key(ConnY, ConnYn):  TopologyWyeWye,
	key(ConnYn, ConnY):  TopologyWyeWye,
	key(ConnYn, ConnYn): TopologyWyeWye,
	key(ConnY, ConnA):   TopologyWyeWye,
	key(ConnYn, ConnA):  TopologyWyeWye,
	key(ConnA, ConnY):   TopologyWyeWye,
	key(ConnA, ConnYn):  TopologyWyeWye,
	key(ConnA, ConnA):   TopologyWyeWye,
	key(ConnI, ConnI):   TopologySinglePhase,

	key(ConnI, ConnI, ConnI): TopologySinglePhaseCenterTapped,
}

// Classification is the outcome of classifying a code's winding connections.
type Classification struct {
	Topology Topology
	Phases   int
}

// Classify maps the per-winding connection tokens of a code to its topology.
// Only the first n entries of conns are considered.
func Classify(conns []string, n int) (Classification, error) {
	if n < 1 || n > len(conns) {
		return Classification{}, &Error{
			Kind: KindInconsistentWindingCount,
			Err:  fmt.Errorf("%d windings requested, %d connections given", n, len(conns)),
		}
	}
	used := conns[:n]
	top, ok := topologyTable[key(used...)]
	if !ok {
		return Classification{}, &Error{
			Kind:  KindUnknownTopology,
			Field: "conn",
			Value: strings.Join(used, ","),
		}
	}
	return Classification{Topology: top, Phases: PhaseCount(used)}, nil
}

// PhaseCount is 1 when any winding carries the interlaced marker, else 3.
func PhaseCount(conns []string) int {
	for _, c := range conns {
		if strings.Contains(c, markerInterlaced) {
			return 1
		}
	}
	return 3
}

// IsDelta reports whether a raw connection token denotes a delta winding.
func IsDelta(conn string) bool {
	return strings.Contains(conn, markerDelta)
}

// DSSConn is the OpenDSS conn= value for a winding.
func DSSConn(delta bool) string {
	if delta {
		return "d"
	}
	return "w"
}
