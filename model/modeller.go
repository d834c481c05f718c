package model

import "github.com/bpmnlayout/engine/geometry"

// Modeller is the mutation capability the layout pipeline uses to change
// element geometry. It exposes two tiers of write: direct geometry writes
// bypass any modeller-mediated side effects (boundary-event repositioning
// uses these, since a bulk move can reclassify a boundary event in headless
// modellers), while the remaining methods are modeller-mediated and may
// perform additional bookkeeping (e.g. re-deriving a connection's DI from
// its waypoints) in a real bpmn-js-backed implementation.
//
// DefaultModeller is the in-process implementation this repository ships:
// the engine owns the registry outright during a layout call, so
// "modeller-mediated" here just means "goes through the same validating
// setters a real external modeller would expose", and tests can run the
// full pipeline without a real BPMN editor attached.
type Modeller interface {
	// MoveElements shifts every element in els by delta, in place. This is a
	// modeller-mediated write.
	MoveElements(els []*Element, delta geometry.Point) error

	// ResizeShape sets the element's bounding box. Modeller-mediated.
	ResizeShape(e *Element, rect geometry.Rect) error

	// UpdateWaypoints replaces a connection's waypoint list. Rejects updates
	// that would leave an invalid route (fewer than 2 points, or NaN
	// coordinates) by leaving the prior waypoints in place and returning an
	// error the caller is expected to treat as non-fatal.
	UpdateWaypoints(conn *Element, wps []geometry.Point) error

	// LayoutConnection asks the modeller to re-derive a connection's route
	// from its current source/target geometry. The in-process
	// implementation is a no-op placeholder: real orthogonal re-routing is
	// owned by the routing package, not the modeller.
	LayoutConnection(conn *Element) error

	// SetDirectGeometry writes x, y (and optionally width/height via the
	// rect's dimensions) directly onto the element, without going through
	// MoveElements/ResizeShape. Used by boundary-event repositioning
	// specifically to avoid modeller-mediated side effects.
	SetDirectGeometry(e *Element, rect geometry.Rect)
}

// DefaultModeller is a straightforward, validating in-memory Modeller
// implementation. It holds no state of its own; every method operates on
// the *Element pointers it is given, which all live inside some Registry.
type DefaultModeller struct{}

// NewDefaultModeller returns a ready-to-use DefaultModeller.
func NewDefaultModeller() *DefaultModeller { return &DefaultModeller{} }

// MoveElements implements Modeller.
func (m *DefaultModeller) MoveElements(els []*Element, delta geometry.Point) error {
	for _, e := range els {
		if e == nil {
			continue
		}
		e.X += delta.X
		e.Y += delta.Y
		if e.LabelID != "" {
			// label offset is applied by the caller, which has registry
			// access to resolve LabelID; MoveElements only moves what it's
			// given.
			continue
		}
	}
	return nil
}

// ResizeShape implements Modeller.
func (m *DefaultModeller) ResizeShape(e *Element, rect geometry.Rect) error {
	if e == nil {
		return ErrElementNotFound
	}
	e.X, e.Y, e.Width, e.Height = rect.X, rect.Y, rect.Width, rect.Height
	return nil
}

// UpdateWaypoints implements Modeller.
func (m *DefaultModeller) UpdateWaypoints(conn *Element, wps []geometry.Point) error {
	if conn == nil {
		return ErrElementNotFound
	}
	if !IsConnection(conn.Type) {
		return ErrNotAConnection
	}
	if len(wps) < 2 {
		return ErrInvalidWaypoints
	}
	for _, p := range wps {
		if isNaN(p.X) || isNaN(p.Y) {
			return ErrInvalidWaypoints
		}
	}
	conn.Waypoints = wps
	return nil
}

// LayoutConnection implements Modeller. The in-process engine routes
// connections explicitly via the routing package, so this is a no-op.
func (m *DefaultModeller) LayoutConnection(conn *Element) error { return nil }

// SetDirectGeometry implements Modeller.
func (m *DefaultModeller) SetDirectGeometry(e *Element, rect geometry.Rect) {
	if e == nil {
		return
	}
	e.X, e.Y = rect.X, rect.Y
	if rect.Width > 0 {
		e.Width = rect.Width
	}
	if rect.Height > 0 {
		e.Height = rect.Height
	}
}

func isNaN(f float64) bool { return f != f }
