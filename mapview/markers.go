package mapview

import (
	"strings"

	"ecoreport-service/models"

	geojson "github.com/paulmach/go.geojson"
)

// Marker colors per category. Unrecognized types render blue.
var markerColors = map[string]string{
	models.CategoryPollution:     "red",
	models.CategoryDeforestation: "darkred",
	models.CategoryImprovement:   "green",
	models.CategoryOther:         "orange",
}

const defaultMarkerColor = "blue"

// MarkerColor returns the map pin color for a raw report type.
func MarkerColor(reportType string) string {
	if color, ok := markerColors[strings.ToLower(reportType)]; ok {
		return color
	}
	return defaultMarkerColor
}

// FeatureCollection projects reports onto GeoJSON point features for the
// map page. Coordinates follow GeoJSON order: longitude first.
func FeatureCollection(reports []models.Report) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range reports {
		f := geojson.NewPointFeature([]float64{r.CoordY, r.CoordX})
		f.Properties["type"] = r.Type
		f.Properties["description"] = r.Description
		f.Properties["datetime"] = r.Datetime
		f.Properties["images"] = r.Images
		f.Properties["color"] = MarkerColor(r.Type)
		fc.AddFeature(f)
	}
	return fc
}
