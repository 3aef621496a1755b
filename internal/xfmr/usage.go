package xfmr

import (
	"strings"

	"cimhub-go/internal/format"
	"cimhub-go/internal/models"
)

// PhaseUsage records which primary phases reference a transformer code.
type PhaseUsage struct {
	A bool
	B bool
	C bool
}

// UsageContext maps a code's type name to the primary phases of the tanks
// that use it. It is built in one pass over all tanks before rendering.
type UsageContext map[string]PhaseUsage

// NewUsageContext builds the usage context from tank phase assignments.
func NewUsageContext(rows []models.XfmrTankPhaseRow) UsageContext {
	uc := UsageContext{}
	for _, row := range rows {
		uc.AddPrimaryPhase(format.SafeName(strings.TrimSpace(row.TName)), row.Phases)
	}
	return uc
}

// AddPrimaryPhase marks each of A, B and C found in phs as used by tname.
func (uc UsageContext) AddPrimaryPhase(tname, phs string) {
	u := uc[tname]
	if strings.Contains(phs, "A") {
		u.A = true
	}
	if strings.Contains(phs, "B") {
		u.B = true
	}
	if strings.Contains(phs, "C") {
		u.C = true
	}
	uc[tname] = u
}

// For returns the usage of tname; the zero value when no tank uses it.
func (uc UsageContext) For(tname string) PhaseUsage {
	return uc[tname]
}
