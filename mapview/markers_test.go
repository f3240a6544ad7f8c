package mapview

import (
	"strings"
	"testing"

	"ecoreport-service/models"
)

func TestMarkerColor(t *testing.T) {
	testCases := []struct {
		reportType string
		expected   string
	}{
		{"pollution", "red"},
		{"Pollution", "red"},
		{"deforestation", "darkred"},
		{"improvement", "green"},
		{"other", "orange"},
		{"Garbage", "blue"},
		{"", "blue"},
	}

	for _, testCase := range testCases {
		if got := MarkerColor(testCase.reportType); got != testCase.expected {
			t.Errorf("MarkerColor(%q): expected %q, got %q", testCase.reportType, testCase.expected, got)
		}
	}
}

func TestFeatureCollection(t *testing.T) {
	reports := []models.Report{
		{
			Type:        "pollution",
			Description: "Plastic waste",
			CoordX:      35.92,
			CoordY:      74.30,
			Datetime:    "2024-05-01 10:30:00",
			Images:      []string{"20240501_103000_1.jpg"},
		},
		{
			Type:        "Garbage",
			Description: "Dumped furniture",
			CoordX:      35.96,
			CoordY:      74.36,
			Datetime:    "2024-05-01 12:00:00",
			Images:      []string{"20240501_120000_1.jpg"},
		},
	}

	fc := FeatureCollection(reports)

	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(fc.Features))
	}

	first := fc.Features[0]
	// GeoJSON points carry longitude first.
	if first.Geometry.Point[0] != 74.30 || first.Geometry.Point[1] != 35.92 {
		t.Errorf("expected [lon lat] coordinates, got %v", first.Geometry.Point)
	}
	if first.Properties["color"] != "red" {
		t.Errorf("expected red pollution marker, got %v", first.Properties["color"])
	}
	if fc.Features[1].Properties["color"] != "blue" {
		t.Errorf("expected blue marker for an unrecognized type, got %v", fc.Features[1].Properties["color"])
	}
	if first.Properties["description"] != "Plastic waste" {
		t.Errorf("expected description property, got %v", first.Properties["description"])
	}
}

func TestIndexPage(t *testing.T) {
	page, err := IndexPage(PageData{CenterLat: 35.9208, CenterLon: 74.3088, Zoom: 9})
	if err != nil {
		t.Fatalf("IndexPage: unexpected error %v", err)
	}

	for _, fragment := range []string{"leaflet", "/map_markers", "35.9208", "74.3088"} {
		if !strings.Contains(page, fragment) {
			t.Errorf("expected page to contain %q", fragment)
		}
	}
}
