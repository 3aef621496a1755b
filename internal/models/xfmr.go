package models

import (
	"github.com/uptrace/bun"
)

// XfmrCodeRatingRow is one winding of a transformer code as returned by the
// CIM model query. Values are kept as the literal strings the query produced;
// parsing happens when the code is constructed.
type XfmrCodeRatingRow struct {
	bun.BaseModel `bun:"table:xfmr_code_ratings,alias:xcr"`

	PName  *string `bun:"pname" json:"pname"`
	TName  *string `bun:"tname" json:"tname"`
	ID     *string `bun:"id" json:"id"`
	EID    *string `bun:"eid" json:"eid"`
	EName  *string `bun:"ename" json:"ename"`
	ENum   *string `bun:"enum" json:"enum"`
	Conn   *string `bun:"conn" json:"conn"`
	Ang    *string `bun:"ang" json:"ang"`
	RatedS *string `bun:"rated_s" json:"ratedS"`
	RatedU *string `bun:"rated_u" json:"ratedU"`
	Res    *string `bun:"res" json:"res"`
}

// XfmrCodeSCTestRow is one short-circuit test between two windings of a code.
type XfmrCodeSCTestRow struct {
	bun.BaseModel `bun:"table:xfmr_code_sc_tests,alias:xsc"`

	TName *string `bun:"tname" json:"tname"`
	Enum  *string `bun:"enum" json:"enum"`
	Gnum  *string `bun:"gnum" json:"gnum"`
	Z     *string `bun:"z" json:"z"`
	LL    *string `bun:"ll" json:"ll"`
}

// XfmrCodeOCTestRow is the open-circuit test of a code.
type XfmrCodeOCTestRow struct {
	bun.BaseModel `bun:"table:xfmr_code_oc_tests,alias:xoc"`

	TName *string `bun:"tname" json:"tname"`
	NLL   *string `bun:"nll" json:"nll"`
	IExc  *string `bun:"iexc" json:"iexc"`
}

// XfmrTankPhaseRow ties a transformer tank's primary phases to the code it uses.
type XfmrTankPhaseRow struct {
	bun.BaseModel `bun:"table:xfmr_tank_phases,alias:xtp"`

	TankName string `bun:"tank_name" json:"tank_name"`
	TName    string `bun:"tname" json:"tname"`
	Phases   string `bun:"phs" json:"phs"`
}

// PowerXfmrMeshRow is one winding-pair entry of a power transformer's mesh impedance.
type PowerXfmrMeshRow struct {
	bun.BaseModel `bun:"table:power_xfmr_meshes,alias:pxm"`

	PName *string `bun:"pname" json:"pname"`
	FNum  *string `bun:"fnum" json:"fnum"`
	TNum  *string `bun:"tnum" json:"tnum"`
	R     *string `bun:"r" json:"r"`
	X     *string `bun:"x" json:"x"`
}

// GroupCount is a name → row count entry, used for the winding-count and
// mesh-size lookups that drive row grouping.
type GroupCount struct {
	Name  string `bun:"name" json:"name"`
	Count int    `bun:"count" json:"count"`
}

// XfmrCodeFilterParams narrows an export to a set of transformer codes.
type XfmrCodeFilterParams struct {
	Names []string
}
