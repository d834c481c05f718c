// Package boundary handles boundary-event save/restore and border-choice
// repositioning.
package boundary

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/bpmnlayout/engine/geometry"
	"github.com/bpmnlayout/engine/model"
)

// RepositionTolerance bounds how far a boundary event may drift during an
// incidental pass before a reposition is forced again.
const RepositionTolerance = 2.0

// Border is the host-relative side a boundary event's centre is pinned to.
type Border int

const (
	BorderBottom Border = iota
	BorderTop
	BorderLeft
	BorderRight
)

// Snapshot records a boundary event's id and its host's id, captured
// before any geometry mutation so a later pass that accidentally
// reclassifies the element can be detected and reversed.
type Snapshot struct {
	EventID string
	HostID  string
}

// CaptureSnapshots records (event id, host id) for every boundary event
// currently in the registry.
func CaptureSnapshots(registry *model.Registry) []Snapshot {
	events := registry.Filter(func(e *model.Element) bool { return model.IsBoundaryEvent(e.Type) })
	snapshots := make([]Snapshot, 0, len(events))
	for _, e := range events {
		snapshots = append(snapshots, Snapshot{EventID: e.ID, HostID: e.Host})
	}
	return snapshots
}

// Restore rewrites every snapshotted element back to BoundaryEvent (on both
// its Type and its BusinessObject) and reattaches Host, undoing any
// accidental reclassification an intermediate pass caused. A snapshotted
// host that no longer resolves to a task or subprocess is reported as a
// wrapped model.ErrInvalidHost and that event's reattachment is skipped;
// the remaining snapshots are still processed.
func Restore(registry *model.Registry, snapshots []Snapshot) error {
	var errs []error
	for _, s := range snapshots {
		e, ok := registry.Get(s.EventID)
		if !ok {
			continue
		}
		if e.Type != model.TypeBoundaryEvent {
			e.Type = model.TypeBoundaryEvent
			if e.BusinessObject != nil {
				e.BusinessObject.Type = model.TypeBoundaryEvent
			}
		}
		host, ok := registry.Get(s.HostID)
		if !ok || !model.IsActivity(host.Type) {
			errs = append(errs, fmt.Errorf("boundary: restore %s: %w", s.EventID, model.ErrInvalidHost))
			continue
		}
		e.Host = s.HostID
	}
	return errors.Join(errs...)
}

// Reposition chooses a border for every boundary event in the registry and
// moves its centre to match, using SetDirectGeometry to avoid triggering
// modeller-mediated reclassification side effects. force determines
// whether to reposition unconditionally (true, e.g. end of a full pipeline
// run) or only when the event has drifted past RepositionTolerance from its
// already-correct border point (false, incidental passes).
func Reposition(registry *model.Registry, modeller model.Modeller, force bool) {
	events := registry.Filter(func(e *model.Element) bool { return model.IsBoundaryEvent(e.Type) })
	for _, ev := range events {
		host, ok := registry.Get(ev.Host)
		if !ok || isNaN(host.X) || isNaN(host.Y) {
			continue // degenerate host: skip, non-fatal
		}

		border := chooseBorder(registry, host, ev)
		target := borderCenter(host.Rect(), border)

		if !force {
			cur := ev.Rect().Center()
			if math.Hypot(target.X-cur.X, target.Y-cur.Y) <= RepositionTolerance {
				continue
			}
		}

		delta := geometry.Point{X: target.X - ev.Rect().CenterX(), Y: target.Y - ev.Rect().CenterY()}
		modeller.SetDirectGeometry(ev, geometry.Rect{X: ev.X + delta.X, Y: ev.Y + delta.Y, Width: ev.Width, Height: ev.Height})

		if ev.LabelID != "" {
			if label, ok := registry.Get(ev.LabelID); ok {
				modeller.SetDirectGeometry(label, geometry.Rect{X: label.X + delta.X, Y: label.Y + delta.Y, Width: label.Width, Height: label.Height})
			}
		}
	}
}

// chooseBorder picks the host side a boundary event sits on: bottom if
// there is no outgoing flow (exception flows exit downward by convention),
// otherwise a comparison of the first outgoing target's centre against the
// host's centre.
func chooseBorder(registry *model.Registry, host, ev *model.Element) Border {
	outgoing := registry.Filter(func(e *model.Element) bool {
		return model.IsConnection(e.Type) && e.Source == ev.ID
	})
	if len(outgoing) == 0 {
		return BorderBottom
	}
	sort.Slice(outgoing, func(i, j int) bool { return outgoing[i].ID < outgoing[j].ID })

	tgt, ok := registry.Get(outgoing[0].Target)
	if !ok {
		return BorderBottom
	}

	hostRect := host.Rect()
	dx := tgt.Rect().CenterX() - hostRect.CenterX()
	dy := tgt.Rect().CenterY() - hostRect.CenterY()
	absDx, absDy := math.Abs(dx), math.Abs(dy)

	switch {
	case dy < 0 && absDy > hostRect.Height/2 && absDy > absDx:
		return BorderTop
	case absDx > absDy && dx < 0:
		return BorderLeft
	case dx > 0 && absDy < hostRect.Height:
		return BorderRight
	default:
		return BorderBottom
	}
}

// borderCenter computes the border centre point for host: top sits at
// host-x + 0.67*width, bottom at the host's centre-X; left/right sit at
// host-y + 0.67*height.
func borderCenter(hostRect geometry.Rect, border Border) geometry.Point {
	switch border {
	case BorderTop:
		return geometry.Point{X: hostRect.X + 0.67*hostRect.Width, Y: hostRect.Top()}
	case BorderLeft:
		return geometry.Point{X: hostRect.Left(), Y: hostRect.Y + 0.67*hostRect.Height}
	case BorderRight:
		return geometry.Point{X: hostRect.Right(), Y: hostRect.Y + 0.67*hostRect.Height}
	default: // BorderBottom
		return geometry.Point{X: hostRect.CenterX(), Y: hostRect.Bottom()}
	}
}

func isNaN(f float64) bool { return f != f }
