package sim

import "fmt"

// POI is a point of interest: a response station or an incident site.
type POI struct {
	ID     string
	Pos    Point
	Radius float64 // hit-test radius
	Icon   string  // optional icon tag for the renderer
}

// Contains reports whether p lies within the POI's influence radius.
func (p POI) Contains(q Point) bool {
	return p.Pos.Dist(q) <= p.Radius
}

// IncidentKind is the closed set of incident types.
type IncidentKind int

const (
	KindThief IncidentKind = iota
	KindFire
	KindMedical
	kindCount
)

// Kinds lists every incident kind in declaration order.
var Kinds = [kindCount]IncidentKind{KindThief, KindFire, KindMedical}

func (k IncidentKind) String() string {
	switch k {
	case KindThief:
		return "thief"
	case KindFire:
		return "fire"
	case KindMedical:
		return "medical"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Mark is the icon tag drawn over the incident site.
func (k IncidentKind) Mark() string {
	switch k {
	case KindThief:
		return "robber"
	case KindFire:
		return "flame"
	case KindMedical:
		return "dizzy"
	}
	return ""
}

// World is the static map: road network, one station per incident kind and
// the pool incident targets are drawn from.
type World struct {
	Graph    *RoadGraph
	Stations [kindCount]POI
	Targets  []POI
}

// NewWorld validates that every station and target is reachable from every
// other one through the road network.
func NewWorld(graph *RoadGraph, stations [kindCount]POI, targets []POI) (*World, error) {
	if graph == nil {
		return nil, fmt.Errorf("world has no road graph")
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("world has an empty target pool")
	}
	seen := make(map[string]bool, len(targets))
	for _, t := range targets {
		if seen[t.ID] {
			return nil, fmt.Errorf("target %q listed twice", t.ID)
		}
		seen[t.ID] = true
	}
	for _, k := range Kinds {
		if stations[k].ID == "" {
			return nil, fmt.Errorf("no station for incident kind %s", k)
		}
	}

	all := append(stations[:len(stations):len(stations)], targets...)
	anchor := graph.NearestWaypoint(all[0].Pos)
	for _, p := range all[1:] {
		if wp := graph.NearestWaypoint(p.Pos); !graph.Reachable(anchor, wp) {
			return nil, fmt.Errorf("%q (waypoint %s) is not reachable from %q (waypoint %s)",
				p.ID, wp, all[0].ID, anchor)
		}
	}
	return &World{Graph: graph, Stations: stations, Targets: append([]POI(nil), targets...)}, nil
}

// Station returns the station that responds to incidents of kind k.
func (w *World) Station(k IncidentKind) POI {
	return w.Stations[k]
}

// Route returns the computed road route from station to target.
func (w *World) Route(station, target POI) []Point {
	return w.Graph.Route(station.Pos, target.Pos)
}

// DefaultWorld returns the rug map.
func DefaultWorld() (*World, error) {
	graph, err := NewRoadGraph(defaultWaypoints, defaultSegments)
	if err != nil {
		return nil, fmt.Errorf("default road graph: %w", err)
	}
	stations := [kindCount]POI{
		KindThief:   {ID: "police", Pos: Point{110, 700}, Radius: 55, Icon: "police-car"},
		KindFire:    {ID: "fire", Pos: Point{445, 500}, Radius: 65, Icon: "fire-engine"},
		KindMedical: {ID: "hospital", Pos: Point{705, 505}, Radius: 70, Icon: "ambulance"},
	}
	targets := []POI{
		{ID: "village", Pos: Point{610, 265}, Radius: 85},
		{ID: "castle", Pos: Point{215, 505}, Radius: 85},
		{ID: "shop", Pos: Point{835, 740}, Radius: 70},
		{ID: "desert", Pos: Point{240, 820}, Radius: 80},
		{ID: "lighthouse", Pos: Point{85, 125}, Radius: 70},
	}
	return NewWorld(graph, stations, targets)
}

var defaultWaypoints = []Waypoint{
	{"A", Point{110, 850}},
	{"B", Point{110, 700}},
	{"C", Point{110, 560}},
	{"D", Point{110, 410}},
	{"E", Point{110, 255}},
	{"F", Point{110, 110}},

	{"G", Point{285, 700}},
	{"H", Point{285, 520}},
	{"I", Point{285, 340}},

	{"J", Point{450, 700}},
	{"K", Point{450, 520}},
	{"L", Point{450, 340}},
	{"M", Point{450, 170}},

	{"R", Point{650, 700}},
	{"S", Point{650, 520}},
	{"T", Point{650, 340}},
	{"U", Point{650, 170}},

	{"V", Point{820, 700}},
	{"W", Point{820, 520}},
	{"X", Point{820, 340}},
	{"Y", Point{820, 170}},

	{"Z", Point{450, 820}},
	{"Z2", Point{650, 820}},
}

var defaultSegments = []Segment{
	{"A", "B"}, {"B", "C"}, {"C", "D"}, {"D", "E"}, {"E", "F"},
	{"B", "G"}, {"G", "J"}, {"J", "R"}, {"R", "V"},
	{"C", "H"}, {"H", "K"}, {"K", "S"}, {"S", "W"},
	{"D", "I"}, {"I", "L"}, {"L", "T"}, {"T", "X"},
	{"M", "U"}, {"U", "Y"},
	{"L", "M"}, {"T", "U"},
	{"J", "K"}, {"K", "L"}, {"S", "T"}, {"T", "R"},
	{"J", "Z"}, {"Z", "Z2"}, {"Z2", "R"},
	{"V", "W"}, {"W", "X"}, {"X", "Y"},
	{"M", "F"},
	{"E", "M"},
}
