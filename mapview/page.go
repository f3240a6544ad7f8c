package mapview

import (
	"bytes"
	"html/template"
)

// indexTemplate is the public map page. Markers are fetched live from the
// markers endpoint so the page always reflects the stored reports.
const indexTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Community Environmental Reports</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
html, body { height: 100%; margin: 0; }
#map { height: 100%; }
</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
	maxZoom: 19,
	attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

function esc(s) {
	return String(s).replace(/&/g, '&amp;').replace(/</g, '&lt;').replace(/>/g, '&gt;');
}

fetch('/map_markers')
	.then(function (resp) { return resp.json(); })
	.then(function (fc) {
		fc.features.forEach(function (f) {
			var p = f.properties;
			var marker = L.circleMarker(
				[f.geometry.coordinates[1], f.geometry.coordinates[0]],
				{ radius: 8, color: p.color, fillColor: p.color, fillOpacity: 0.8 }
			).addTo(map);
			marker.bindPopup('<b>Type:</b> ' + esc(p.type) + '<br><b>Description:</b> ' + esc(p.description));
		});
	});
</script>
</body>
</html>
`

var indexTmpl = template.Must(template.New("index").Parse(indexTemplate))

// PageData parameterizes the map page.
type PageData struct {
	CenterLat float64
	CenterLon float64
	Zoom      int
}

// IndexPage renders the map page HTML.
func IndexPage(data PageData) (string, error) {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
