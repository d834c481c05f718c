package oracle

import (
	"context"
	"errors"
	"fmt"

	"github.com/bpmnlayout/engine/geometry"
	"github.com/bpmnlayout/engine/graphbuild"
)

// ErrOracleUnavailable is returned by an Oracle implementation that cannot
// reach its backing algorithm (e.g. a remote service timeout). The driver
// treats this as a layout failure and leaves the registry untouched.
var ErrOracleUnavailable = errors.New("oracle: layout computation unavailable")

// Section is one continuous segment of an edge's route as returned by the
// oracle: a start point, optional interior bend points, and an end point,
// all container-relative.
type Section struct {
	Start geometry.Point
	Bends []geometry.Point
	End   geometry.Point
}

// NodeResult carries the position the oracle computed for one node,
// relative to its parent container, plus its resolved children. Width and
// Height are non-zero only for compound nodes, whose size the oracle
// derives from their laid-out interior.
type NodeResult struct {
	ID            string
	X, Y          float64
	Width, Height float64
	Children      []*NodeResult
}

// EdgeResult carries the section list the oracle computed for one
// submitted edge; Sections is nil if the oracle did not route the edge
// (e.g. boundary-event proxy edges, which exist only to influence
// placement).
type EdgeResult struct {
	ID          string
	ContainerID string // NodeResult.ID this edge's Sections are relative to
	Sections    []Section
}

// Result is the oracle's full output for one Run call.
type Result struct {
	Root  *NodeResult
	Edges map[string]*EdgeResult
}

// Oracle is the external layered-layout contract: submit a graph plus
// options, get back node positions and edge sections. Any implementation
// of a layered graph-layout algorithm is a legal substitute.
type Oracle interface {
	Run(ctx context.Context, graph *graphbuild.Node, opts Options) (*Result, error)
}

// DefaultOracle is the in-process Sugiyama-style implementation this
// repository ships: longest-path layering (honoring back-edge reversal),
// a barycenter crossing-minimization sweep repeated Options.Thoroughness
// times, and linear, evenly-spaced node placement within each layer.
type DefaultOracle struct{}

// NewDefaultOracle returns a ready-to-use DefaultOracle.
func NewDefaultOracle() *DefaultOracle { return &DefaultOracle{} }

// Run implements Oracle. It recurses into compound nodes, laying out each
// container's subgraph independently and sizing the container to enclose
// its children plus padding.
func (o *DefaultOracle) Run(ctx context.Context, graph *graphbuild.Node, opts Options) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("oracle: %w: %v", ErrOracleUnavailable, ctx.Err())
	default:
	}

	edges := make(map[string]*EdgeResult)
	root, err := layoutContainer(graph, opts, edges)
	if err != nil {
		return nil, err
	}

	return &Result{Root: root, Edges: edges}, nil
}

// layoutContainer lays out node.Children/node.Edges, recursing first so
// compound children already know their own footprint, then returns a
// NodeResult tree with every node's position relative to its parent.
func layoutContainer(node *graphbuild.Node, opts Options, edgeOut map[string]*EdgeResult) (*NodeResult, error) {
	subResults := make(map[string]*NodeResult)
	for _, child := range node.Children {
		if len(child.Children) > 0 {
			sub, err := layoutContainer(child, opts, edgeOut)
			if err != nil {
				return nil, err
			}
			dx, dy := fitContainerToChildren(child, sub)
			shiftContainerSections(child, dx, dy, edgeOut)
			sub.Width, sub.Height = child.Width, child.Height
			subResults[child.ID] = sub
		}
	}

	layers := assignLayers(node.Children, node.Edges)
	order := minimizeCrossings(layers, node.Edges, opts.Thoroughness)
	positions := placeNodes(order, node.Children, opts)

	result := &NodeResult{ID: node.ID}
	for _, child := range node.Children {
		pos := positions[child.ID]
		childResult := subResults[child.ID]
		if childResult == nil {
			childResult = &NodeResult{ID: child.ID}
		}
		childResult.X, childResult.Y = pos.X, pos.Y
		result.Children = append(result.Children, childResult)
	}

	routeEdges(node.ID, node.Children, node.Edges, positions, opts, edgeOut)

	return result, nil
}

// fitContainerToChildren grows container (a compound node, e.g. a
// subprocess) to enclose sub's children plus the container's own padding,
// and offsets every sub-child so (0,0) sits at the padded origin. It
// returns the applied offset so the container's interior edge sections can
// be shifted by the same amount.
func fitContainerToChildren(container *graphbuild.Node, sub *NodeResult) (offsetX, offsetY float64) {
	if len(sub.Children) == 0 {
		return 0, 0
	}
	minX, minY := sub.Children[0].X, sub.Children[0].Y
	maxX, maxY := minX, minY
	byID := make(map[string]*graphbuild.Node, len(container.Children))
	for _, c := range container.Children {
		byID[c.ID] = c
	}
	for _, c := range sub.Children {
		src := byID[c.ID]
		right := c.X + src.Width
		bottom := c.Y + src.Height
		if c.X < minX {
			minX = c.X
		}
		if c.Y < minY {
			minY = c.Y
		}
		if right > maxX {
			maxX = right
		}
		if bottom > maxY {
			maxY = bottom
		}
	}

	offsetX = container.PaddingLeft - minX
	offsetY = container.PaddingTop - minY
	for _, c := range sub.Children {
		c.X += offsetX
		c.Y += offsetY
	}

	container.Width = (maxX - minX) + container.PaddingLeft + container.PaddingRight
	container.Height = (maxY - minY) + container.PaddingTop + container.PaddingBottom
	return offsetX, offsetY
}

// shiftContainerSections moves the already-routed sections of container's
// interior edges by the padding offset fitContainerToChildren applied to
// its nodes, keeping edges and nodes in the same relative frame.
func shiftContainerSections(container *graphbuild.Node, dx, dy float64, edgeOut map[string]*EdgeResult) {
	if dx == 0 && dy == 0 {
		return
	}
	for _, e := range container.Edges {
		er, ok := edgeOut[e.ID]
		if !ok {
			continue
		}
		for i, sec := range er.Sections {
			er.Sections[i].Start = geometry.Point{X: sec.Start.X + dx, Y: sec.Start.Y + dy}
			er.Sections[i].End = geometry.Point{X: sec.End.X + dx, Y: sec.End.Y + dy}
			for j, b := range sec.Bends {
				er.Sections[i].Bends[j] = geometry.Point{X: b.X + dx, Y: b.Y + dy}
			}
		}
	}
}
