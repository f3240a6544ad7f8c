package handlers

import (
	"errors"
	"net/http"

	"ecoreport-service/config"
	"ecoreport-service/images"
	"ecoreport-service/mapview"
	"ecoreport-service/metrics"
	"ecoreport-service/models"
	"ecoreport-service/service"
	"ecoreport-service/translate"
	ws "ecoreport-service/websocket"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	svc        *service.Service
	translator *translate.Client
	imgs       *images.Store
	hub        *ws.Hub
	cfg        *config.Config
}

// NewHandlers creates a new handlers instance
func NewHandlers(svc *service.Service, translator *translate.Client, imgs *images.Store, hub *ws.Hub, cfg *config.Config) *Handlers {
	return &Handlers{
		svc:        svc,
		translator: translator,
		imgs:       imgs,
		hub:        hub,
		cfg:        cfg,
	}
}

func errorBody(message string) models.ErrorResponse {
	return models.ErrorResponse{Status: "error", Message: message}
}

// Index serves the map page
func (h *Handlers) Index(c *gin.Context) {
	page, err := mapview.IndexPage(mapview.PageData{
		CenterLat: h.cfg.MapCenterLat,
		CenterLon: h.cfg.MapCenterLon,
		Zoom:      h.cfg.MapZoom,
	})
	if err != nil {
		log.Errorf("Failed to render the map page: %v", err)
		c.JSON(http.StatusInternalServerError, errorBody("Internal server error."))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// Health returns the service health status
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SubmitReport handles POST /submit_report
func (h *Handlers) SubmitReport(c *gin.Context) {
	in := service.SubmitInput{
		Type:        firstOf(c, "type", "reportType"),
		Location:    c.PostForm("reportLocation"),
		Description: firstOf(c, "description", "reportDescription"),
		CoordX:      c.PostForm("coordX"),
		CoordY:      c.PostForm("coordY"),
	}
	// The form may arrive without a file part at all. Validation decides
	// what that means, so a missing multipart body is not an error here.
	if form, err := c.MultipartForm(); err == nil && form != nil {
		in.Files = form.File["images"]
	}

	report, _, err := h.svc.SubmitReport(in)
	if err != nil {
		h.renderSubmitError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SubmitReportResponse{Status: "success", Report: report})
}

func (h *Handlers) renderSubmitError(c *gin.Context, err error) {
	var verr service.ValidationError
	if errors.As(err, &verr) {
		metrics.ReportsRejectedTotal.Inc()
		c.JSON(http.StatusBadRequest, errorBody(verr.Error()))
		return
	}

	var serr *service.StorageError
	if errors.As(err, &serr) {
		log.Errorf("Failed to persist a report: %v", err)
		c.JSON(http.StatusInternalServerError, errorBody(serr.Op))
		return
	}

	log.Errorf("Failed to submit a report: %v", err)
	c.JSON(http.StatusInternalServerError, errorBody("Internal server error."))
}

// ServeUpload serves a stored report image
func (h *Handlers) ServeUpload(c *gin.Context) {
	path, ok := h.imgs.Resolve(c.Param("category"), c.Param("filename"))
	if !ok {
		c.JSON(http.StatusNotFound, errorBody("Image not found."))
		return
	}
	c.File(path)
}

// GetReports returns the full report log
func (h *Handlers) GetReports(c *gin.Context) {
	reports, err := h.svc.ListReports()
	if err != nil {
		log.Errorf("Failed to load reports: %v", err)
		c.JSON(http.StatusInternalServerError, errorBody("Could not load reports."))
		return
	}
	c.JSON(http.StatusOK, reports)
}

// RecentReports returns the reports submitted during the current session
func (h *Handlers) RecentReports(c *gin.Context) {
	// Session tracking was dropped together with server-side sessions, so
	// the session log is always empty.
	c.JSON(http.StatusOK, []models.Report{})
}

// Translate translates English text to Urdu
func (h *Handlers) Translate(c *gin.Context) {
	var req models.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Invalid request body."))
		return
	}

	translated, err := h.translator.EnglishToUrdu(c.Request.Context(), req.Text)
	if err != nil {
		log.Warnf("Translation failed, serving fallback: %v", err)
		metrics.TranslationsTotal.WithLabelValues("fallback").Inc()
		c.JSON(http.StatusOK, models.TranslateResponse{TranslatedText: translate.FallbackMessage})
		return
	}

	metrics.TranslationsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, models.TranslateResponse{TranslatedText: translated})
}

// ExportReportsExcel streams the report log as an Excel workbook
func (h *Handlers) ExportReportsExcel(c *gin.Context) {
	grouped := c.Query("grouped") == "true"

	f, err := h.svc.ExportWorkbook(grouped)
	if err != nil {
		if errors.Is(err, service.ErrNoReports) {
			c.JSON(http.StatusNotFound, errorBody("No reports to export."))
			return
		}
		log.Errorf("Failed to export reports: %v", err)
		c.JSON(http.StatusInternalServerError, errorBody("Failed to export reports."))
		return
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Errorf("Failed to serialize the workbook: %v", err)
		c.JSON(http.StatusInternalServerError, errorBody("Failed to export reports."))
		return
	}

	c.Header("Content-Disposition", `attachment; filename=reports_export.xlsx`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// GetMap handles POST /get_map
func (h *Handlers) GetMap(c *gin.Context) {
	var ma models.MapArgs

	// Get the arguments.
	if err := c.BindJSON(&ma); err != nil {
		log.Errorf("Failed to get the argument in /get_map call: %w", err)
		return
	}

	r, err := h.svc.MapResults(ma)
	if err != nil {
		log.Errorf("Failed to build the map with %w", err)
		c.Status(http.StatusInternalServerError) // 500
		return
	}
	c.IndentedJSON(http.StatusOK, r) // 200
}

// MapMarkers returns all reports as a GeoJSON feature collection
func (h *Handlers) MapMarkers(c *gin.Context) {
	reports, err := h.svc.ListReports()
	if err != nil {
		log.Errorf("Failed to load reports for markers: %v", err)
		c.JSON(http.StatusInternalServerError, errorBody("Could not load reports."))
		return
	}
	c.JSON(http.StatusOK, mapview.FeatureCollection(reports))
}

// WebSocket upgrader
var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now
		// In production, you should implement proper origin checking
		return true
	},
}

// ListenReports handles WebSocket connections for report listening
func (h *Handlers) ListenReports(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("Failed to upgrade connection to WebSocket: %v", err)
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	log.Infof("WebSocket connection established from %s", c.ClientIP())
}

// Logo redirects to the static logo asset
func (h *Handlers) Logo(c *gin.Context) {
	c.Redirect(http.StatusMovedPermanently, "/static/logo.png")
}

// firstOf returns the first non-empty form value among the given keys.
func firstOf(c *gin.Context, keys ...string) string {
	for _, key := range keys {
		if value := c.PostForm(key); value != "" {
			return value
		}
	}
	return ""
}
