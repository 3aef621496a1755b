package handlers

import (
	"context"
	"net/http"
	"strconv"

	"cimhub-go/internal/models"
	"cimhub-go/internal/services"
	"cimhub-go/internal/utils"
	"cimhub-go/internal/xfmr"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Exporter builds export batches; *services.ExportService satisfies it.
type Exporter interface {
	Build(ctx context.Context, filter models.XfmrCodeFilterParams) (*services.Batch, error)
	Meshes(ctx context.Context) ([]*xfmr.MeshImpedanceModel, []error, error)
}

type XfmrCodeHandler struct {
	service Exporter
	logr    *zap.Logger
}

func NewXfmrCodeHandler(svc Exporter, logr *zap.Logger) *XfmrCodeHandler {
	return &XfmrCodeHandler{service: svc, logr: logr}
}

// build runs an export for the ?name= filter and writes the failure
// response itself; a nil batch means the request is finished.
func (h *XfmrCodeHandler) build(w http.ResponseWriter, r *http.Request, names []string) *services.Batch {
	batch, err := h.service.Build(r.Context(), models.XfmrCodeFilterParams{Names: names})
	if err != nil {
		h.logr.Error("failed to build export", zap.Error(err), zap.Strings("names", names))
		writeError(w, http.StatusInternalServerError, "failed to load transformer codes")
		return nil
	}
	w.Header().Set("X-Export-Run", batch.RunID)
	w.Header().Set("X-Export-Skipped", strconv.Itoa(len(batch.Errors)))
	return batch
}

// GET /xfmrcodes
func (h *XfmrCodeHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	batch := h.build(w, r, utils.ParseQueryList(r.URL.Query(), "name"))
	if batch == nil {
		return
	}
	catalog := batch.Catalog()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    catalog,
		"count":   len(catalog),
		"skipped": batch.ErrorMessages(),
	})
}

// GET /xfmrcodes/glm
func (h *XfmrCodeHandler) GLM(w http.ResponseWriter, r *http.Request) {
	batch := h.build(w, r, utils.ParseQueryList(r.URL.Query(), "name"))
	if batch == nil {
		return
	}
	out, errs := batch.GLM()
	for _, err := range errs {
		h.logr.Warn("no GridLAB-D configuration for device", zap.String("run_id", batch.RunID), zap.Error(err))
	}
	w.Header().Set("X-Export-Skipped", strconv.Itoa(len(batch.Errors)+len(errs)))
	writeText(w, "text/plain; charset=utf-8", out)
}

// GET /xfmrcodes/dss
func (h *XfmrCodeHandler) DSS(w http.ResponseWriter, r *http.Request) {
	if batch := h.build(w, r, utils.ParseQueryList(r.URL.Query(), "name")); batch != nil {
		writeText(w, "text/plain; charset=utf-8", batch.DSS())
	}
}

// GET /xfmrcodes/csv
func (h *XfmrCodeHandler) CSV(w http.ResponseWriter, r *http.Request) {
	if batch := h.build(w, r, utils.ParseQueryList(r.URL.Query(), "name")); batch != nil {
		writeText(w, "text/csv; charset=utf-8", batch.CSV())
	}
}

type xfmrCodeDetail struct {
	Name        string        `json:"name"`
	MRID        string        `json:"mRID"`
	TypeName    string        `json:"tname"`
	Topology    xfmr.Topology `json:"topology,omitempty"`
	ConnectType xfmr.Topology `json:"connect_type,omitempty"`
	Phases      int           `json:"phases"`
	RPU         float64       `json:"rpu"`
	ZPU         float64       `json:"zpu"`
	XPU         float64       `json:"xpu"`
	Branches    []xfmr.Branch `json:"branches,omitempty"`
	Display     string        `json:"display"`
	GLM         string        `json:"glm"`
	GLMError    string        `json:"glm_error,omitempty"`
	DSS         string        `json:"dss"`
	CSV         string        `json:"csv"`
}

// GET /xfmrcodes/{name}
func (h *XfmrCodeHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	batch := h.build(w, r, []string{name})
	if batch == nil {
		return
	}
	d, ok := batch.Find(name)
	if !ok && batch.ErrorFor(name) == nil {
		// the source filters on stored names; name may be a sanitised key
		if batch = h.build(w, r, nil); batch == nil {
			return
		}
		d, ok = batch.Find(name)
	}
	if !ok {
		if err := batch.ErrorFor(name); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusNotFound, "transformer code not found")
		return
	}

	p := d.Params
	glm, err := xfmr.GLM(p, d.Usage)
	var glmErr string
	if err != nil {
		glmErr = err.Error()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": xfmrCodeDetail{
			Name:        d.Code.PName,
			MRID:        d.Code.ID,
			TypeName:    d.Code.TName,
			Topology:    p.Topology,
			ConnectType: p.ConnectType(),
			Phases:      p.Phases,
			RPU:         p.RPU,
			ZPU:         p.ZPU,
			XPU:         p.XPU,
			Branches:    p.Branches,
			Display:     d.Code.DisplayString(),
			GLM:         glm,
			GLMError:    glmErr,
			DSS:         xfmr.DSS(p),
			CSV:         xfmr.CSV(p),
		},
	})
}

type meshView struct {
	Name    string           `json:"name"`
	Entries []xfmr.MeshEntry `json:"entries"`
	Display string           `json:"display"`
}

// GET /meshes
func (h *XfmrCodeHandler) Meshes(w http.ResponseWriter, r *http.Request) {
	meshes, errs, err := h.service.Meshes(r.Context())
	if err != nil {
		h.logr.Error("failed to load meshes", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load mesh impedances")
		return
	}
	views := make([]meshView, len(meshes))
	for i, m := range meshes {
		views[i] = meshView{Name: m.Name, Entries: m.Entries, Display: m.DisplayString()}
	}
	skipped := make([]string, len(errs))
	for i, e := range errs {
		skipped[i] = e.Error()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    views,
		"count":   len(views),
		"skipped": skipped,
	})
}
