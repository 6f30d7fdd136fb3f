package sim

import (
	"fmt"
	"math"
)

// WaypointID names a node of the road network.
type WaypointID string

// Waypoint is a named point of the road network.
type Waypoint struct {
	ID  WaypointID
	Pos Point
}

// Segment is an undirected road between two waypoints.
type Segment struct {
	A, B WaypointID
}

// RoadGraph is an immutable undirected road network. Waypoint order is the
// declaration order and is used to break nearest-waypoint ties.
type RoadGraph struct {
	waypoints []Waypoint
	index     map[WaypointID]int
	segments  []Segment
	adj       map[WaypointID][]WaypointID
	component map[WaypointID]int
}

// NewRoadGraph builds a graph, returning an error for duplicate waypoint IDs,
// self-loops, or segments that reference unknown waypoints.
func NewRoadGraph(waypoints []Waypoint, segments []Segment) (*RoadGraph, error) {
	if len(waypoints) == 0 {
		return nil, fmt.Errorf("road graph has no waypoints")
	}
	g := &RoadGraph{
		waypoints: append([]Waypoint(nil), waypoints...),
		index:     make(map[WaypointID]int, len(waypoints)),
		segments:  append([]Segment(nil), segments...),
		adj:       make(map[WaypointID][]WaypointID, len(waypoints)),
	}
	for i, w := range g.waypoints {
		if _, exists := g.index[w.ID]; exists {
			return nil, fmt.Errorf("waypoint %q already exists", w.ID)
		}
		g.index[w.ID] = i
	}
	for _, s := range g.segments {
		if _, ok := g.index[s.A]; !ok {
			return nil, fmt.Errorf("segment %s-%s: waypoint %q not found", s.A, s.B, s.A)
		}
		if _, ok := g.index[s.B]; !ok {
			return nil, fmt.Errorf("segment %s-%s: waypoint %q not found", s.A, s.B, s.B)
		}
		if s.A == s.B {
			return nil, fmt.Errorf("segment %s-%s is a self-loop", s.A, s.B)
		}
		g.adj[s.A] = append(g.adj[s.A], s.B)
		g.adj[s.B] = append(g.adj[s.B], s.A)
	}
	g.labelComponents()
	return g, nil
}

// labelComponents assigns each waypoint the index of its connected component.
func (g *RoadGraph) labelComponents() {
	g.component = make(map[WaypointID]int, len(g.waypoints))
	next := 0
	for _, w := range g.waypoints {
		if _, seen := g.component[w.ID]; seen {
			continue
		}
		queue := []WaypointID{w.ID}
		g.component[w.ID] = next
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, nb := range g.adj[cur] {
				if _, seen := g.component[nb]; seen {
					continue
				}
				g.component[nb] = next
				queue = append(queue, nb)
			}
		}
		next++
	}
}

// Waypoints returns the waypoints in declaration order.
func (g *RoadGraph) Waypoints() []Waypoint {
	return append([]Waypoint(nil), g.waypoints...)
}

// Segments returns the road segments in declaration order.
func (g *RoadGraph) Segments() []Segment {
	return append([]Segment(nil), g.segments...)
}

// Position returns the location of a waypoint and whether it exists.
func (g *RoadGraph) Position(id WaypointID) (Point, bool) {
	i, ok := g.index[id]
	if !ok {
		return Point{}, false
	}
	return g.waypoints[i].Pos, true
}

// HasSegment reports whether a and b are joined by a road.
func (g *RoadGraph) HasSegment(a, b WaypointID) bool {
	for _, nb := range g.adj[a] {
		if nb == b {
			return true
		}
	}
	return false
}

// Reachable reports whether a path exists between from and to.
func (g *RoadGraph) Reachable(from, to WaypointID) bool {
	cf, ok1 := g.component[from]
	ct, ok2 := g.component[to]
	return ok1 && ok2 && cf == ct
}

// NearestWaypoint returns the waypoint closest to p. Exact ties resolve to
// the waypoint declared first.
func (g *RoadGraph) NearestWaypoint(p Point) WaypointID {
	best := g.waypoints[0].ID
	bestD := math.Inf(1)
	for _, w := range g.waypoints {
		if d := dist2(p, w.Pos); d < bestD {
			bestD = d
			best = w.ID
		}
	}
	return best
}

// ShortestPath returns the fewest-segment route from `from` to `to`,
// inclusive of both ends. An unreachable or unknown destination yields
// []WaypointID{from}.
func (g *RoadGraph) ShortestPath(from, to WaypointID) []WaypointID {
	if from == to {
		return []WaypointID{from}
	}
	prev := map[WaypointID]WaypointID{from: from}
	queue := []WaypointID{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range g.adj[cur] {
			if _, seen := prev[nb]; seen {
				continue
			}
			prev[nb] = cur
			if nb == to {
				return buildRoute(prev, from, to)
			}
			queue = append(queue, nb)
		}
	}
	return []WaypointID{from}
}

func buildRoute(prev map[WaypointID]WaypointID, from, to WaypointID) []WaypointID {
	route := []WaypointID{to}
	for cur := to; cur != from; {
		cur = prev[cur]
		route = append(route, cur)
	}
	for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
		route[i], route[j] = route[j], route[i]
	}
	return route
}

// DistanceToNetwork returns the distance from p to the closest point on any
// road segment. A graph without segments is infinitely far away.
func (g *RoadGraph) DistanceToNetwork(p Point) float64 {
	best := math.Inf(1)
	for _, s := range g.segments {
		a := g.waypoints[g.index[s.A]].Pos
		b := g.waypoints[g.index[s.B]].Pos
		if d := pointToSegmentDist(p, a, b); d < best {
			best = d
		}
	}
	return best
}

// Route snaps from and to onto their nearest waypoints, walks the shortest
// path between them and ends exactly at to.
func (g *RoadGraph) Route(from, to Point) []Point {
	ids := g.ShortestPath(g.NearestWaypoint(from), g.NearestWaypoint(to))
	pts := make([]Point, 0, len(ids)+1)
	for _, id := range ids {
		pos, _ := g.Position(id)
		pts = append(pts, pos)
	}
	return append(pts, to)
}
