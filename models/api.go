package models

import "time"

// ViewPort is a map selection rectangle in degrees.
type ViewPort struct {
	LatMin float64 `json:"latmin"`
	LonMin float64 `json:"lonmin"`
	LatMax float64 `json:"latmax"`
	LonMax float64 `json:"lonmax"`
}

// Point is a geographical point in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MapArgs is the request body of the viewport marker query.
type MapArgs struct {
	VPort  ViewPort `json:"vport"`
	Center Point    `json:"center"`
}

// MapResult is one marker returned by the viewport query. Index and
// Category are meaningful only when Count == 1.
type MapResult struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Count     int64   `json:"count"`
	Index     int     `json:"index"`
	Category  string  `json:"category"`
}

// SubmitReportResponse echoes an accepted report back to the client.
type SubmitReportResponse struct {
	Status string  `json:"status"`
	Report *Report `json:"report"`
}

// ErrorResponse is the error body shape shared by all endpoints.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TranslateRequest asks for an English to Urdu translation.
type TranslateRequest struct {
	Text string `json:"text"`
}

// TranslateResponse carries the translation or the fallback message.
type TranslateResponse struct {
	TranslatedText string `json:"translated_text"`
}

// ReportEvent is the payload fanned out for each accepted report.
type ReportEvent struct {
	Index  int    `json:"index"`
	Report Report `json:"report"`
}

// BroadcastMessage wraps data sent to WebSocket listeners.
type BroadcastMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
