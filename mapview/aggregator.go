package mapview

import (
	"ecoreport-service/models"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const (
	// Target number of S2 cells covering the viewport.
	expectedCells = 16

	minLevel = 2
	maxLevel = 18

	// Cells holding at most this many reports keep their individual markers.
	maxSingleMarkers = 10

	// Children this many times lighter than the heaviest sibling are
	// ignored when placing the parent pin.
	weightDiffThreshold = 8
)

type aggrUnit struct {
	count       int64
	containment [4]bool // one flag per child cell
	pin         s2.Point
	origResults []*models.MapResult
}

// Aggregator clusters viewport markers into S2 cells sized so that the
// viewport spans roughly expectedCells of them. Sparse cells keep their
// individual markers; dense cells collapse into a centroid pin with a
// count.
type Aggregator struct {
	level  int
	points map[s2.CellID][]*models.MapResult
	units  map[s2.CellID]*aggrUnit
}

// cellBaseLevel finds the S2 level whose cells cover the viewport area
// with about expectedCells cells.
func cellBaseLevel(vp *models.ViewPort, center *models.Point) int {
	minLL := s2.LatLngFromDegrees(vp.LatMin, vp.LonMin)
	maxLL := s2.LatLngFromDegrees(vp.LatMax, vp.LonMax)

	rect := s2.Rect{
		Lat: r1.Interval{
			Lo: minLL.Lat.Radians(),
			Hi: maxLL.Lat.Radians()},
		Lng: s1.Interval{
			Lo: minLL.Lng.Radians(),
			Hi: maxLL.Lng.Radians()},
	}
	vpArea := rect.Area()

	centerCell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(center.Lat, center.Lon))
	for lv := maxLevel; lv >= minLevel; lv-- {
		cc := s2.CellFromCellID(centerCell.Parent(lv))
		if vpArea/cc.ApproxArea() < expectedCells {
			return lv
		}
	}
	return minLevel
}

// NewAggregator creates an aggregator tuned to the viewport.
func NewAggregator(vp *models.ViewPort, center *models.Point) Aggregator {
	return Aggregator{
		level:  cellBaseLevel(vp, center),
		points: make(map[s2.CellID][]*models.MapResult),
		units:  make(map[s2.CellID]*aggrUnit),
	}
}

// Add registers one marker for aggregation.
func (a *Aggregator) Add(res models.MapResult) {
	cell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(res.Latitude, res.Longitude)).Parent(maxLevel)
	a.points[cell] = append(a.points[cell], &res)
}

// Results aggregates and returns the final marker set.
func (a *Aggregator) Results() []models.MapResult {
	a.aggregate()
	r := make([]models.MapResult, 0, len(a.units))
	for _, unit := range a.units {
		if unit.count <= maxSingleMarkers {
			for _, res := range unit.origResults {
				r = append(r, *res)
			}
			continue
		}
		ll := s2.LatLngFromPoint(unit.pin)
		r = append(r, models.MapResult{
			Latitude:  ll.Lat.Degrees(),
			Longitude: ll.Lng.Degrees(),
			Count:     unit.count,
		})
	}
	return r
}

func (a *Aggregator) aggregate() {
	for cell, pts := range a.points {
		unit := &aggrUnit{
			count:       int64(len(pts)),
			containment: [4]bool{true, true, true, true},
			pin:         s2.PointFromLatLng(cell.LatLng()),
		}
		if len(pts) <= maxSingleMarkers {
			unit.origResults = pts
		}
		a.units[cell] = unit
	}
	a.aggrStep(maxLevel - 1)
}

// aggrStep folds the aggregation units one S2 level up and recurses until
// the base level is reached.
func (a *Aggregator) aggrStep(level int) {
	if level < a.level {
		return
	}

	next := make(map[s2.CellID]*aggrUnit)
	for cell, unit := range a.units {
		p := cell.Parent(level)
		existing, ok := next[p]
		if !ok {
			// First child on this level, carry the aggregation over
			// without containment info.
			next[p] = &aggrUnit{
				count:       unit.count,
				containment: [4]bool{},
				origResults: unit.origResults,
			}
		} else {
			next[p] = &aggrUnit{
				count:       existing.count + unit.count,
				containment: existing.containment,
			}
			if existing.count+unit.count <= maxSingleMarkers {
				next[p].origResults = append(existing.origResults, unit.origResults...)
			}
		}
		// The unit lives on level+1, so it is a child of next[p].
		next[p].containment[cell.ChildPosition(level+1)] = true
	}

	// Pin each parent at the centroid of its surviving child pins.
	for pCell, pUnit := range next {
		children := make([]*aggrUnit, 0, 4)
		for i, present := range pUnit.containment {
			if present {
				if child, ok := a.units[pCell.Children()[i]]; ok {
					children = append(children, child)
				}
			}
		}
		pUnit.pin = a.centroid(pCell, children)
	}

	a.units = next
	a.aggrStep(level - 1)
}

// centroid places a parent pin from its child pins, ignoring children far
// lighter than the heaviest sibling.
func (a *Aggregator) centroid(cell s2.CellID, children []*aggrUnit) s2.Point {
	maxWeight := int64(0)
	for _, child := range children {
		if child.count > maxWeight {
			maxWeight = child.count
		}
	}

	pins := make([]s2.Point, 0, len(children))
	for _, child := range children {
		if maxWeight/child.count < weightDiffThreshold {
			pins = append(pins, child.pin)
		}
	}

	switch len(pins) {
	case 1:
		return pins[0]
	case 2:
		return s2.PlanarCentroid(pins[0], pins[0], pins[1])
	case 3:
		return s2.PlanarCentroid(pins[0], pins[1], pins[2])
	}
	return s2.PointFromLatLng(cell.LatLng())
}
