// Package graphbuild walks the element registry to build a per-container,
// ELK-style node/edge tree suitable for submission to the layered-layout
// oracle (package oracle), detects cycles via a three-color DFS so the
// oracle's cycle breaker knows which edges to treat as back edges, and
// synthesizes proxy edges for boundary-event outgoing flows.
//
// The back-edge DFS only needs to mark which edges close a cycle (a
// Gray→Gray edge during the walk), not enumerate every simple cycle.
package graphbuild

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/bpmnlayout/engine/model"
)

// EdgePriority values; markBackEdges sets LowPriority on every back edge.
// DefaultOracle's layering reads Edge.BackEdge, not Priority.
const (
	NormalPriority = 0
	LowPriority    = -1
)

// Node is one ELK-style graph node: a layoutable shape, or a compound node
// for a container with its own nested children/edges.
type Node struct {
	ID            string
	Width, Height float64
	X, Y          float64 // filled in by the oracle; container-relative
	Children      []*Node
	Edges         []*Edge
	PaddingTop    float64
	PaddingLeft   float64
	PaddingRight  float64
	PaddingBottom float64
	ElementID     string // the model.Element this node represents (== ID unless proxy)
}

// Edge is one ELK-style graph edge.
type Edge struct {
	ID        string
	Sources   []string
	Targets   []string
	Priority  int
	ElementID string // the model.Element this edge represents, "" for proxy edges
	IsProxy   bool
	BackEdge  bool
}

// three-color DFS states.
const (
	white = 0
	gray  = 1
	black = 2
)

// Build walks registry starting at containerID (use "" for the canvas root)
// and returns the node tree the oracle consumes. containerID's own node is
// not included; Build returns its direct children and their internal edges.
func Build(registry *model.Registry, containerID string) (*Node, error) {
	root := &Node{ID: containerID, ElementID: containerID}
	if err := buildChildren(registry, containerID, root); err != nil {
		return nil, fmt.Errorf("graphbuild: %w", err)
	}
	return root, nil
}

func buildChildren(registry *model.Registry, containerID string, out *Node) error {
	children := registry.Children(containerID)
	sort.Slice(children, func(i, j int) bool { return children[i].ID < children[j].ID })

	nodeIDs := make(map[string]bool)
	for _, child := range children {
		// containers are admitted even when not plain layoutable shapes:
		// participants become compound nodes so their interior is laid out
		if !model.IsLayoutableShape(child.Type) && !model.IsContainer(child.Type) {
			continue
		}
		n := &Node{ID: child.ID, ElementID: child.ID}
		w, h := child.Width, child.Height
		if w == 0 || h == 0 {
			w, h = model.DefaultSize(child.Type)
		}
		n.Width, n.Height = w, h

		if model.IsContainer(child.Type) {
			if model.IsParticipant(child.Type) {
				n.PaddingTop, n.PaddingLeft, n.PaddingRight, n.PaddingBottom = 40, 60, 60, 40
			} else {
				n.PaddingTop, n.PaddingLeft, n.PaddingRight, n.PaddingBottom = 20, 20, 20, 20
			}
			if err := buildChildren(registry, child.ID, n); err != nil {
				return err
			}
		}

		out.Children = append(out.Children, n)
		nodeIDs[child.ID] = true
	}

	edges, err := buildEdges(registry, containerID, nodeIDs)
	if err != nil {
		return err
	}
	out.Edges = edges

	return markBackEdges(out.Children, out.Edges)
}

// buildEdges collects one edge per connection whose source and target are
// both in nodeIDs, plus a proxy edge per boundary-event outgoing flow whose
// host is in nodeIDs, so the oracle positions the downstream element as if
// the flow left the host itself.
func buildEdges(registry *model.Registry, containerID string, nodeIDs map[string]bool) ([]*Edge, error) {
	var edges []*Edge

	conns := registry.Filter(func(e *model.Element) bool {
		return model.IsConnection(e.Type) && e.Parent == containerID
	})
	sort.Slice(conns, func(i, j int) bool { return conns[i].ID < conns[j].ID })

	for _, c := range conns {
		if !nodeIDs[c.Source] || !nodeIDs[c.Target] {
			continue
		}
		edges = append(edges, &Edge{
			ID:        c.ID,
			Sources:   []string{c.Source},
			Targets:   []string{c.Target},
			ElementID: c.ID,
		})
	}

	boundaryEvents := registry.Filter(func(e *model.Element) bool {
		return model.IsBoundaryEvent(e.Type) && nodeIDs[e.Host]
	})
	sort.Slice(boundaryEvents, func(i, j int) bool { return boundaryEvents[i].ID < boundaryEvents[j].ID })

	for _, be := range boundaryEvents {
		outgoing := registry.Filter(func(e *model.Element) bool {
			return model.IsConnection(e.Type) && e.Source == be.ID
		})
		sort.Slice(outgoing, func(i, j int) bool { return outgoing[i].ID < outgoing[j].ID })
		for _, out := range outgoing {
			if !nodeIDs[out.Target] {
				continue
			}
			edges = append(edges, &Edge{
				ID:      "proxy-" + uuid.NewString(),
				Sources: []string{be.Host},
				Targets: []string{out.Target},
				IsProxy: true,
			})
		}
	}

	return edges, nil
}

// markBackEdges runs the three-color DFS over the container's internal edge
// set and marks every edge found to close a cycle (a Gray→Gray back-edge)
// as BackEdge, lowering its oracle priority so the cycle breaker reverses
// exactly those edges.
func markBackEdges(children []*Node, edges []*Edge) error {
	adjacency := make(map[string][]*Edge)
	indegree := make(map[string]int)
	nodeSet := make(map[string]bool, len(children))
	for _, n := range children {
		nodeSet[n.ID] = true
		indegree[n.ID] = 0
	}
	for _, e := range edges {
		if len(e.Sources) != 1 || len(e.Targets) != 1 {
			continue
		}
		src, tgt := e.Sources[0], e.Targets[0]
		if !nodeSet[src] || !nodeSet[tgt] {
			continue
		}
		adjacency[src] = append(adjacency[src], e)
		indegree[tgt]++
	}

	state := make(map[string]int, len(children))
	var starts []string
	for _, n := range children {
		if indegree[n.ID] == 0 {
			starts = append(starts, n.ID)
		}
	}
	sort.Strings(starts)
	// Nodes that only appear in a cycle (every node has indegree > 0) still
	// need a traversal root; fall back to all node IDs sorted.
	if len(starts) == 0 {
		for _, n := range children {
			starts = append(starts, n.ID)
		}
		sort.Strings(starts)
	}

	var visit func(id string)
	visit = func(id string) {
		state[id] = gray
		for _, e := range adjacency[id] {
			tgt := e.Targets[0]
			switch state[tgt] {
			case white:
				visit(tgt)
			case gray:
				e.BackEdge = true
				e.Priority = LowPriority
			}
		}
		state[id] = black
	}

	for _, id := range starts {
		if state[id] == white {
			visit(id)
		}
	}

	return nil
}
