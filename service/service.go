package service

import (
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"unicode/utf8"

	"ecoreport-service/excel"
	"ecoreport-service/images"
	"ecoreport-service/mapview"
	"ecoreport-service/metrics"
	"ecoreport-service/models"
	"ecoreport-service/rabbitmq"
	"ecoreport-service/storage"
	"ecoreport-service/websocket"

	"github.com/apex/log"
	"github.com/jonboulle/clockwork"
	"github.com/xuri/excelize/v2"
)

const maxDescriptionLen = 1000

// Service owns the report lifecycle: validation, image persistence,
// storage, and post-accept fan-out. The publisher and hub are optional
// collaborators and may be nil.
type Service struct {
	store     *storage.Store
	images    *images.Store
	publisher *rabbitmq.Publisher
	hub       *websocket.Hub
	clock     clockwork.Clock
}

// New wires a service from its collaborators.
func New(store *storage.Store, imgs *images.Store, publisher *rabbitmq.Publisher, hub *websocket.Hub, clock clockwork.Clock) *Service {
	return &Service{
		store:     store,
		images:    imgs,
		publisher: publisher,
		hub:       hub,
		clock:     clock,
	}
}

// SubmitInput carries the raw form fields of one submission.
type SubmitInput struct {
	Type        string
	Location    string
	Description string
	CoordX      string
	CoordY      string
	Files       []*multipart.FileHeader
}

// SubmitReport validates the submission, stores the images and the
// report, and returns the stored record with its sequence index. Nothing
// touches the disk before validation has passed.
func (s *Service) SubmitReport(in SubmitInput) (*models.Report, int, error) {
	if in.Type == "" || in.Location == "" || in.Description == "" {
		return nil, 0, ValidationError("Missing required fields")
	}
	if utf8.RuneCountInString(in.Description) > maxDescriptionLen {
		return nil, 0, ValidationError("Description too long.")
	}

	coordX, coordY, err := resolveCoordinates(in)
	if err != nil {
		return nil, 0, err
	}

	if !hasUpload(in.Files) {
		return nil, 0, ValidationError("At least one image is required.")
	}

	category := models.NormalizeCategory(in.Type)
	stored := s.images.SaveAll(category, in.Files)
	if len(stored) == 0 {
		return nil, 0, &StorageError{Op: "Failed to save images."}
	}

	report := models.Report{
		Type:        in.Type,
		Location:    in.Location,
		Description: in.Description,
		CoordX:      coordX,
		CoordY:      coordY,
		Datetime:    s.clock.Now().Format(models.DatetimeLayout),
		Images:      stored,
	}

	index, err := s.store.Append(report)
	if err != nil {
		return nil, 0, &StorageError{Op: "Failed to save report.", Err: err}
	}

	s.fanOut(index, report)
	metrics.ReportsSubmittedTotal.WithLabelValues(category).Inc()
	log.Infof("Stored report %d in category %s with %d images", index, category, len(stored))

	return &report, index, nil
}

// ListReports returns every stored report in order.
func (s *Service) ListReports() ([]models.Report, error) {
	reports, err := s.store.Load()
	if err != nil {
		return nil, &StorageError{Op: "Could not load reports.", Err: err}
	}
	return reports, nil
}

// ExportWorkbook projects the stored reports into a workbook: the flat
// single-sheet export by default, the per-category mirror when grouped.
func (s *Service) ExportWorkbook(grouped bool) (*excelize.File, error) {
	reports, err := s.store.Load()
	if err != nil {
		return nil, &StorageError{Op: "Failed to export reports.", Err: err}
	}
	if len(reports) == 0 {
		return nil, ErrNoReports
	}

	var f *excelize.File
	if grouped {
		f, err = excel.GroupedWorkbook(reports)
	} else {
		f, err = excel.FlatWorkbook(reports)
	}
	if err != nil {
		return nil, &StorageError{Op: "Failed to export reports.", Err: err}
	}

	format := "flat"
	if grouped {
		format = "grouped"
	}
	metrics.ExportsTotal.WithLabelValues(format).Inc()
	return f, nil
}

// MapResults returns markers inside the viewport, aggregated when dense.
// The selection rectangle is extended by half its size on each side so
// panning has markers ready at the edges.
func (s *Service) MapResults(args models.MapArgs) ([]models.MapResult, error) {
	reports, err := s.store.Load()
	if err != nil {
		return nil, &StorageError{Op: "Could not load reports.", Err: err}
	}

	vp := args.VPort
	latSize := vp.LatMax - vp.LatMin
	lonSize := vp.LonMax - vp.LonMin
	vp.LatMin -= latSize / 2
	vp.LatMax += latSize / 2
	vp.LonMin -= lonSize / 2
	vp.LonMax += lonSize / 2

	agg := mapview.NewAggregator(&args.VPort, &args.Center)
	for i, r := range reports {
		if r.CoordX <= vp.LatMin || r.CoordX > vp.LatMax ||
			r.CoordY <= vp.LonMin || r.CoordY > vp.LonMax {
			continue
		}
		agg.Add(models.MapResult{
			Latitude:  r.CoordX,
			Longitude: r.CoordY,
			Count:     1,
			Index:     i,
			Category:  r.Category(),
		})
	}
	return agg.Results(), nil
}

// fanOut notifies the optional collaborators after a successful append.
func (s *Service) fanOut(index int, report models.Report) {
	if s.publisher != nil {
		if err := s.publisher.Publish(models.ReportEvent{Index: index, Report: report}); err != nil {
			log.Errorf("Failed to publish report %d: %v", index, err)
		}
	}
	if s.hub != nil {
		s.hub.BroadcastReport(index, report)
	}
}

// resolveCoordinates prefers the explicit form coordinates and falls back
// to parsing a "Lat: X, Lon: Y" location string.
func resolveCoordinates(in SubmitInput) (float64, float64, error) {
	if in.CoordX != "" && in.CoordY != "" {
		x, errX := strconv.ParseFloat(strings.TrimSpace(in.CoordX), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(in.CoordY), 64)
		if errX != nil || errY != nil {
			return 0, 0, ValidationError("Invalid location format: coordinates must be numeric")
		}
		return x, y, nil
	}
	return parseLocation(in.Location)
}

// parseLocation extracts coordinates from a "Lat: X, Lon: Y" string.
func parseLocation(location string) (float64, float64, error) {
	cleaned := strings.ReplaceAll(location, "Lat: ", "")
	cleaned = strings.ReplaceAll(cleaned, "Lon: ", "")
	parts := strings.Split(cleaned, ", ")
	if len(parts) != 2 {
		return 0, 0, ValidationError(fmt.Sprintf("Invalid location format: expected \"Lat: X, Lon: Y\", got %q", location))
	}

	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		return 0, 0, ValidationError(fmt.Sprintf("Invalid location format: %q", location))
	}
	return lat, lon, nil
}

func hasUpload(files []*multipart.FileHeader) bool {
	for _, fh := range files {
		if fh != nil && fh.Filename != "" {
			return true
		}
	}
	return false
}
