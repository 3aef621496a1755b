package xfmr

import (
	"testing"

	"cimhub-go/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestUsageContext(t *testing.T) {
	uc := NewUsageContext([]models.XfmrTankPhaseRow{
		{TankName: "tank1", TName: "CT 25", Phases: "B"},
		{TankName: "tank2", TName: "CT 25", Phases: "CN"},
		{TankName: "tank3", TName: "T50", Phases: "ABC"},
	})

	assert.Equal(t, PhaseUsage{B: true, C: true}, uc.For("CT_25"))
	assert.Equal(t, PhaseUsage{A: true, B: true, C: true}, uc.For("T50"))
	assert.Equal(t, PhaseUsage{}, uc.For("unused"))
}
