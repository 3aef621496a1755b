package xfmr

import (
	"errors"
	"fmt"
	"strings"

	"cimhub-go/internal/format"
	"cimhub-go/internal/models"
)

// Winding is one coil of a transformer code. Index in the owning code is
// Number-1.
type Winding struct {
	ExternalID    string
	Name          string
	Number        int
	Conn          string
	PhaseAngle    int
	RatedS        float64
	RatedU        float64
	ResistanceOhm float64
}

// ZBase is the winding's own base impedance, U²/S.
func (w Winding) ZBase() float64 {
	return w.RatedU * w.RatedU / w.RatedS
}

// TransformerCode is the nameplate rating of a transformer type. It is
// immutable once constructed.
type TransformerCode struct {
	PName    string
	TName    string
	ID       string
	Windings []Winding
}

// Size is the number of windings.
func (c *TransformerCode) Size() int {
	return len(c.Windings)
}

// Key is the lookup key of the code, its sanitised type name.
func (c *TransformerCode) Key() string {
	return c.TName
}

// Conns returns the raw connection token of each winding in order.
func (c *TransformerCode) Conns() []string {
	conns := make([]string, len(c.Windings))
	for i, w := range c.Windings {
		conns[i] = w.Conn
	}
	return conns
}

// DisplayString is a short human-readable dump of the code.
func (c *TransformerCode) DisplayString() string {
	var b strings.Builder
	b.WriteString(c.PName + ":" + c.TName)
	for _, w := range c.Windings {
		fmt.Fprintf(&b, "\n  wdg=%d conn=%s ang=%d", w.Number, w.Conn, w.PhaseAngle)
		b.WriteString(" U=" + format.F4(w.RatedU) + " S=" + format.F4(w.RatedS) + " r=" + format.F4(w.ResistanceOhm))
	}
	return b.String()
}

// NewTransformerCode builds one code from its contiguous winding rows.
// counts maps the sanitised type name to its winding count.
func NewTransformerCode(rows []models.XfmrCodeRatingRow, counts map[string]int) (*TransformerCode, error) {
	if len(rows) == 0 {
		return nil, windingCountError("", "no rows")
	}
	head := fieldReader{device: groupName(rows[0].TName)}
	pname := format.SafeName(head.str("pname", rows[0].PName))
	tname := format.SafeName(head.str("tname", rows[0].TName))
	id := head.str("id", rows[0].ID)
	if err := head.failed(); err != nil {
		return nil, err
	}

	size, ok := counts[tname]
	if !ok {
		return nil, windingCountError(tname, "no winding count for type")
	}
	if size < 1 || size > 3 {
		return nil, windingCountError(tname, "winding count %d outside 1..3", size)
	}
	if len(rows) != size {
		return nil, windingCountError(tname, "expected %d winding rows, got %d", size, len(rows))
	}

	code := &TransformerCode{PName: pname, TName: tname, ID: id, Windings: make([]Winding, size)}
	for i, row := range rows {
		r := fieldReader{device: tname}
		if t := format.SafeName(r.str("tname", row.TName)); r.err == nil && t != tname {
			return nil, windingCountError(tname, "row %d belongs to type %s", i+1, t)
		}
		w := Winding{
			ExternalID:    r.str("eid", row.EID),
			Name:          format.SafeName(r.str("ename", row.EName)),
			Number:        r.int("enum", row.ENum),
			Conn:          r.str("conn", row.Conn),
			PhaseAngle:    r.int("ang", row.Ang),
			RatedS:        r.float("ratedS", row.RatedS),
			RatedU:        r.float("ratedU", row.RatedU),
			ResistanceOhm: r.float("res", row.Res),
		}
		if err := r.failed(); err != nil {
			return nil, err
		}
		if w.RatedS <= 0 || w.RatedU <= 0 {
			return nil, windingCountError(tname, "winding %d rating must be positive (U=%g S=%g)", i+1, w.RatedU, w.RatedS)
		}
		code.Windings[i] = w
	}
	return code, nil
}

// NewTransformerCodes walks rows grouped contiguously by type name and builds
// one code per group. A group that fails is skipped and its error joined into
// the returned error; the other codes are still returned.
func NewTransformerCodes(rows []models.XfmrCodeRatingRow, counts map[string]int) ([]*TransformerCode, error) {
	var codes []*TransformerCode
	var errs []error
	for start := 0; start < len(rows); {
		end := start + 1
		name := groupName(rows[start].TName)
		for end < len(rows) && groupName(rows[end].TName) == name {
			end++
		}
		code, err := NewTransformerCode(rows[start:end], counts)
		if err != nil {
			errs = append(errs, err)
		} else {
			codes = append(codes, code)
		}
		start = end
	}
	return codes, errors.Join(errs...)
}

func groupName(v *string) string {
	if v == nil {
		return ""
	}
	return format.SafeName(strings.TrimSpace(*v))
}
