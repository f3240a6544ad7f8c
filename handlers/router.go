package handlers

import (
	"time"

	"ecoreport-service/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	EndPointIndex         = "/"
	EndPointHealth        = "/health"
	EndPointSubmitReport  = "/submit_report"
	EndPointUploads       = "/uploads/:category/:filename"
	EndPointGetReports    = "/get_reports"
	EndPointRecentReports = "/recent_reports"
	EndPointTranslate     = "/translate"
	EndPointExportExcel   = "/export_reports_excel"
	EndPointGetMap        = "/get_map"
	EndPointMapMarkers    = "/map_markers"
	EndPointListenReports = "/listen_reports"
	EndPointMetrics       = "/metrics"
	EndPointLogo          = "/logo.png"
)

// NewRouter wires all endpoints. The submit limiter is optional and only
// applied to report submission when present.
func NewRouter(h *Handlers, cfg *config.Config, submitLimiter gin.HandlerFunc) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowOrigins:     []string{"*"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	// Compress everything except raw image downloads.
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/uploads", "/static"})))

	router.GET(EndPointIndex, h.Index)
	router.GET(EndPointHealth, h.Health)
	if submitLimiter != nil {
		router.POST(EndPointSubmitReport, submitLimiter, h.SubmitReport)
	} else {
		router.POST(EndPointSubmitReport, h.SubmitReport)
	}
	router.GET(EndPointUploads, h.ServeUpload)
	router.GET(EndPointGetReports, h.GetReports)
	router.GET(EndPointRecentReports, h.RecentReports)
	router.POST(EndPointTranslate, h.Translate)
	router.GET(EndPointExportExcel, h.ExportReportsExcel)
	router.POST(EndPointGetMap, h.GetMap)
	router.GET(EndPointMapMarkers, h.MapMarkers)
	router.GET(EndPointListenReports, h.ListenReports)
	router.GET(EndPointMetrics, gin.WrapH(promhttp.Handler()))
	router.GET(EndPointLogo, h.Logo)
	router.Static("/static", cfg.StaticDir)

	return router
}
