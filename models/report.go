package models

import "strings"

// Report categories. Free-text types outside this set fall back to
// CategoryOther when resolving folders and sheets.
const (
	CategoryPollution     = "pollution"
	CategoryDeforestation = "deforestation"
	CategoryImprovement   = "improvement"
	CategoryOther         = "other"
)

// Categories lists all report categories in display order.
var Categories = []string{
	CategoryPollution,
	CategoryDeforestation,
	CategoryImprovement,
	CategoryOther,
}

// DatetimeLayout is the format reports carry in their datetime field.
const DatetimeLayout = "2006-01-02 15:04:05"

// Report is a single community incident report. Reports carry no id; the
// index in the stored sequence is their only handle.
type Report struct {
	Type        string   `json:"type"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	CoordX      float64  `json:"coord_x"`
	CoordY      float64  `json:"coord_y"`
	Datetime    string   `json:"datetime"`
	Images      []string `json:"images"`
}

// Category returns the derived category for the report type.
func (r *Report) Category() string {
	return NormalizeCategory(r.Type)
}

// NormalizeCategory lowercases a report type and maps anything outside
// the known set to CategoryOther.
func NormalizeCategory(reportType string) string {
	c := strings.ToLower(reportType)
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return CategoryOther
}
