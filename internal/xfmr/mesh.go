package xfmr

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cimhub-go/internal/format"
	"cimhub-go/internal/models"
)

// MeshEntry is the series impedance between two windings of a power transformer.
type MeshEntry struct {
	From int
	To   int
	R    float64
	X    float64
}

// MeshImpedanceModel is the winding-pair impedance mesh of a multi-winding
// power transformer, used when test-derived per-unit values are not wanted.
type MeshImpedanceModel struct {
	Name    string
	Entries []MeshEntry
}

// Key is the sanitised device name.
func (m *MeshImpedanceModel) Key() string {
	return m.Name
}

// DisplayString is a short human-readable dump of the mesh.
func (m *MeshImpedanceModel) DisplayString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d", m.Name, len(m.Entries))
	for _, e := range m.Entries {
		fmt.Fprintf(&b, "\n  fwdg=%d twdg=%d r=%s x=%s", e.From, e.To, format.F6(e.R), format.F6(e.X))
	}
	return b.String()
}

// CatalogEntry is the inventory JSON object of the mesh.
func (m *MeshImpedanceModel) CatalogEntry() string {
	b, _ := json.Marshal(struct {
		Name string `json:"name"`
	}{m.Name})
	return string(b)
}

// NewMeshImpedanceModel builds one mesh from its contiguous rows. counts is
// keyed by the raw device name, as the size query returns it.
func NewMeshImpedanceModel(rows []models.PowerXfmrMeshRow, counts map[string]int) (*MeshImpedanceModel, error) {
	if len(rows) == 0 {
		return nil, windingCountError("", "no rows")
	}
	head := fieldReader{}
	raw := head.str("pname", rows[0].PName)
	if err := head.failed(); err != nil {
		return nil, err
	}
	name := format.SafeName(raw)
	size, ok := counts[raw]
	if !ok {
		return nil, windingCountError(name, "no mesh size for device")
	}
	if len(rows) != size {
		return nil, windingCountError(name, "expected %d mesh rows, got %d", size, len(rows))
	}
	m := &MeshImpedanceModel{Name: name, Entries: make([]MeshEntry, size)}
	for i, row := range rows {
		r := fieldReader{device: name}
		m.Entries[i] = MeshEntry{
			From: r.int("fnum", row.FNum),
			To:   r.int("tnum", row.TNum),
			R:    r.float("r", row.R),
			X:    r.float("x", row.X),
		}
		if err := r.failed(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewMeshImpedanceModels groups contiguous rows by device name, one mesh per
// group; failing groups are skipped and reported in the joined error.
func NewMeshImpedanceModels(rows []models.PowerXfmrMeshRow, counts map[string]int) ([]*MeshImpedanceModel, error) {
	var meshes []*MeshImpedanceModel
	var errs []error
	for start := 0; start < len(rows); {
		end := start + 1
		for end < len(rows) && rawName(rows[end].PName) == rawName(rows[start].PName) {
			end++
		}
		m, err := NewMeshImpedanceModel(rows[start:end], counts)
		if err != nil {
			errs = append(errs, err)
		} else {
			meshes = append(meshes, m)
		}
		start = end
	}
	return meshes, errors.Join(errs...)
}

func rawName(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
