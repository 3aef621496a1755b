package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"cimhub-go/internal/format"
	"cimhub-go/internal/logger"
	"cimhub-go/internal/metrics"
	"cimhub-go/internal/models"
	"cimhub-go/internal/xfmr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Device is one exportable transformer code with its derived parameters.
type Device struct {
	Code   *xfmr.TransformerCode
	Params *xfmr.Parameters
	Usage  xfmr.PhaseUsage
}

// Batch is the result of one export run. Devices keep the order of the
// source rows; Errors holds one entry per skipped device.
type Batch struct {
	RunID   string
	Devices []Device
	Errors  []error
}

type ExportService struct {
	src     RowSource
	srcName string
	workers int
	opts    xfmr.Options
	logr    *logger.Logger
}

func NewExportService(src RowSource, srcName string, workers int, opts xfmr.Options, logr *logger.Logger) *ExportService {
	if workers < 1 {
		workers = 1
	}
	return &ExportService{src: src, srcName: srcName, workers: workers, opts: opts, logr: logr}
}

// Build loads every transformer code matching filter and derives its
// equivalent-circuit parameters. Devices with bad data are skipped and
// reported in Batch.Errors; an error is returned only when the source fails.
func (s *ExportService) Build(ctx context.Context, filter models.XfmrCodeFilterParams) (*Batch, error) {
	start := time.Now()
	batch := &Batch{RunID: uuid.New().String()}
	log := s.logr.With(zap.String("run_id", batch.RunID), zap.String("source", s.srcName))

	countRows, err := s.src.XfmrCodeWindingCounts(ctx, filter)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(countRows))
	for _, c := range countRows {
		counts[format.SafeName(strings.TrimSpace(c.Name))] = c.Count
	}

	ratings, err := s.src.XfmrCodeRatings(ctx, filter)
	if err != nil {
		return nil, err
	}
	scRows, err := s.src.XfmrCodeSCTests(ctx, filter)
	if err != nil {
		return nil, err
	}
	ocRows, err := s.src.XfmrCodeOCTests(ctx, filter)
	if err != nil {
		return nil, err
	}
	tankRows, err := s.src.XfmrTankPhases(ctx, filter)
	if err != nil {
		return nil, err
	}

	codes, err := xfmr.NewTransformerCodes(ratings, counts)
	batch.Errors = append(batch.Errors, flatten(err)...)

	scByName := make(map[string][]models.XfmrCodeSCTestRow)
	for _, row := range scRows {
		key := safeKey(row.TName)
		scByName[key] = append(scByName[key], row)
	}
	ocByName := make(map[string]models.XfmrCodeOCTestRow)
	for _, row := range ocRows {
		ocByName[safeKey(row.TName)] = row
	}
	usage := xfmr.NewUsageContext(tankRows)

	devices := make([]Device, len(codes))
	deviceErrs := make([]error, len(codes))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				devices[i], deviceErrs[i] = s.derive(codes[i], scByName, ocByName, usage)
			}
		}()
	}
	for i := range codes {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i := range codes {
		if deviceErrs[i] != nil {
			batch.Errors = append(batch.Errors, deviceErrs[i])
			continue
		}
		batch.Devices = append(batch.Devices, devices[i])
	}

	for _, e := range batch.Errors {
		kind := string(xfmr.KindOf(e))
		if kind == "" {
			kind = "other"
		}
		metrics.DeviceErrors.WithLabelValues(kind).Inc()
		log.Warn("skipped device", zap.String("kind", kind), zap.Error(e))
	}

	elapsed := time.Since(start)
	metrics.BuildDuration.WithLabelValues(s.srcName).Observe(elapsed.Seconds())
	log.Info("export batch built",
		zap.Int("devices", len(batch.Devices)),
		zap.Int("skipped", len(batch.Errors)),
		zap.Duration("elapsed", elapsed))

	return batch, nil
}

func (s *ExportService) derive(code *xfmr.TransformerCode, scByName map[string][]models.XfmrCodeSCTestRow, ocByName map[string]models.XfmrCodeOCTestRow, usage xfmr.UsageContext) (Device, error) {
	sct, err := xfmr.NewShortCircuitTest(code.TName, scByName[code.Key()])
	if err != nil {
		return Device{}, err
	}
	var oct xfmr.OpenCircuitTest
	if row, ok := ocByName[code.Key()]; ok {
		if oct, err = xfmr.NewOpenCircuitTest(code.TName, row); err != nil {
			return Device{}, err
		}
	}
	p, err := xfmr.Derive(code, sct, oct, s.opts)
	if err != nil {
		return Device{}, err
	}
	return Device{Code: code, Params: p, Usage: usage.For(code.Key())}, nil
}

// Meshes loads the mesh impedance models of all power transformers. Devices
// with bad rows are skipped and returned as errors alongside the good ones.
func (s *ExportService) Meshes(ctx context.Context) ([]*xfmr.MeshImpedanceModel, []error, error) {
	sizes, err := s.src.PowerXfmrMeshSizes(ctx)
	if err != nil {
		return nil, nil, err
	}
	counts := make(map[string]int, len(sizes))
	for _, c := range sizes {
		counts[strings.TrimSpace(c.Name)] = c.Count
	}
	rows, err := s.src.PowerXfmrMeshes(ctx)
	if err != nil {
		return nil, nil, err
	}
	meshes, err := xfmr.NewMeshImpedanceModels(rows, counts)
	errs := flatten(err)
	for _, e := range errs {
		s.logr.Warn("skipped mesh", zap.Error(e))
	}
	return meshes, errs, nil
}

// Find returns the device whose key is name. A raw stored type name is
// sanitised before the lookup.
func (b *Batch) Find(name string) (Device, bool) {
	key := format.SafeName(strings.TrimSpace(name))
	for _, d := range b.Devices {
		if d.Code.Key() == key {
			return d, true
		}
	}
	return Device{}, false
}

// GLM renders every device as a GridLAB-D transformer_configuration.
// Devices with no GridLAB-D connect_type are left out and returned as errors;
// they still appear in the other exports.
func (b *Batch) GLM() (string, []error) {
	var sb strings.Builder
	var errs []error
	for _, d := range b.Devices {
		out, err := xfmr.GLM(d.Params, d.Usage)
		if err != nil {
			metrics.DeviceErrors.WithLabelValues(string(xfmr.KindOf(err))).Inc()
			errs = append(errs, err)
			continue
		}
		sb.WriteString(out)
	}
	metrics.DevicesExported.WithLabelValues("glm").Add(float64(len(b.Devices) - len(errs)))
	return sb.String(), errs
}

// DSS renders every device as an OpenDSS Xfmrcode.
func (b *Batch) DSS() string {
	var sb strings.Builder
	for _, d := range b.Devices {
		sb.WriteString(xfmr.DSS(d.Params))
	}
	metrics.DevicesExported.WithLabelValues("dss").Add(float64(len(b.Devices)))
	return sb.String()
}

// CSV renders the header line followed by one row per device.
func (b *Batch) CSV() string {
	var sb strings.Builder
	sb.WriteString(xfmr.CSVHeaderLine())
	for _, d := range b.Devices {
		sb.WriteString(xfmr.CSV(d.Params))
	}
	metrics.DevicesExported.WithLabelValues("csv").Add(float64(len(b.Devices)))
	return sb.String()
}

// Catalog lists the inventory item of every device.
func (b *Batch) Catalog() []xfmr.CatalogItem {
	items := make([]xfmr.CatalogItem, len(b.Devices))
	for i, d := range b.Devices {
		items[i] = d.Code.Catalog()
	}
	metrics.DevicesExported.WithLabelValues("json").Add(float64(len(b.Devices)))
	return items
}

// ErrorFor returns the error that caused the device name to be skipped, or
// nil. Like Find it accepts either the key or the stored type name.
func (b *Batch) ErrorFor(name string) error {
	key := format.SafeName(strings.TrimSpace(name))
	for _, e := range b.Errors {
		var xe *xfmr.Error
		if errors.As(e, &xe) && xe.Device == key {
			return e
		}
	}
	return nil
}

// ErrorMessages is the text of every per-device error, for responses.
func (b *Batch) ErrorMessages() []string {
	msgs := make([]string, len(b.Errors))
	for i, e := range b.Errors {
		msgs[i] = e.Error()
	}
	return msgs
}

func safeKey(v *string) string {
	if v == nil {
		return ""
	}
	return format.SafeName(strings.TrimSpace(*v))
}

// flatten splits an errors.Join result back into its parts.
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}
