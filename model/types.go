// Package model defines the Element and Registry types the layout pipeline
// operates on: a mutable, typed graph of BPMN shapes and connections with
// geometry, containment, and attachment relationships.
//
// Element mirrors the BPMN diagram-interchange object the original
// bpmn-js-backed implementation treats as dynamically typed; here it is a
// single struct with a Type discriminator and per-kind optional fields
// (Waypoints for connections, Host for boundary events, FlowNodeRefs for
// lanes) rather than a tagged union, which keeps the registry's storage a
// flat map[string]*Element indexed by stable string IDs.
package model

import (
	"sync"

	"github.com/bpmnlayout/engine/geometry"
)

// Type is the BPMN/diagram-interchange element kind.
type Type string

// Flow node types.
const (
	TypeStartEvent             Type = "bpmn:StartEvent"
	TypeEndEvent               Type = "bpmn:EndEvent"
	TypeIntermediateCatchEvent Type = "bpmn:IntermediateCatchEvent"
	TypeIntermediateThrowEvent Type = "bpmn:IntermediateThrowEvent"
	TypeBoundaryEvent          Type = "bpmn:BoundaryEvent"
	TypeTask                   Type = "bpmn:Task"
	TypeUserTask               Type = "bpmn:UserTask"
	TypeServiceTask            Type = "bpmn:ServiceTask"
	TypeScriptTask             Type = "bpmn:ScriptTask"
	TypeSendTask               Type = "bpmn:SendTask"
	TypeReceiveTask            Type = "bpmn:ReceiveTask"
	TypeManualTask             Type = "bpmn:ManualTask"
	TypeBusinessRuleTask       Type = "bpmn:BusinessRuleTask"
	TypeSubProcess             Type = "bpmn:SubProcess"
	TypeCallActivity           Type = "bpmn:CallActivity"
	TypeExclusiveGateway       Type = "bpmn:ExclusiveGateway"
	TypeInclusiveGateway       Type = "bpmn:InclusiveGateway"
	TypeParallelGateway        Type = "bpmn:ParallelGateway"
	TypeEventBasedGateway      Type = "bpmn:EventBasedGateway"
	TypeComplexGateway         Type = "bpmn:ComplexGateway"
)

// Connection types.
const (
	TypeSequenceFlow         Type = "bpmn:SequenceFlow"
	TypeMessageFlow          Type = "bpmn:MessageFlow"
	TypeAssociation          Type = "bpmn:Association"
	TypeDataInputAssociation Type = "bpmn:DataInputAssociation"
)

// Container / structural types.
const (
	TypeParticipant   Type = "bpmn:Participant"
	TypeLane          Type = "bpmn:Lane"
	TypeProcess       Type = "bpmn:Process"
	TypeCollaboration Type = "bpmn:Collaboration"
)

// Artifact types.
const (
	TypeTextAnnotation Type = "bpmn:TextAnnotation"
	TypeDataObjectRef  Type = "bpmn:DataObjectReference"
	TypeDataStoreRef   Type = "bpmn:DataStoreReference"
	TypeGroup          Type = "bpmn:Group"
)

// Diagram-interchange infrastructure types.
const (
	TypeLabel   Type = "bpmndi:BPMNLabel"
	TypePlane   Type = "bpmndi:BPMNPlane"
	TypeDiagram Type = "bpmndi:BPMNDiagram"
)

// BusinessObject carries the BPMN-semantic payload for an Element: its
// declared type (normally identical to Element.Type, but kept distinct so a
// corrupted Element.Type can be detected and repaired by boundary-event
// restore), free-form extension properties, and, for lanes, the member
// flow-node id list.
type BusinessObject struct {
	Type           Type
	Name           string
	ExtensionProps map[string]string
	FlowNodeRefs   []string // lane membership, authoritative for lane banding
}

// Element is the atomic unit the layout engine reads and mutates.
type Element struct {
	ID     string
	Type   Type
	Parent string // parent element ID, "" for the canvas root

	X, Y, Width, Height float64

	// Waypoints is populated for connections only; length >= 2 once routed.
	Waypoints []geometry.Point

	// Source/Target hold the connection's endpoint element IDs.
	Source, Target string

	// Host holds the attached-to element ID for boundary events.
	Host string

	// LabelID, if non-empty, names a Type==TypeLabel element positioned
	// alongside this one; boundary-event repositioning moves it in lockstep.
	LabelID string

	BusinessObject *BusinessObject
}

// Rect returns the element's bounding box.
func (e *Element) Rect() geometry.Rect {
	return geometry.Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// Registry owns the set of elements for the lifetime of a layout call. It is
// never replaced; passes mutate element geometry in place, guarded by an
// RWMutex. A layout call is single-threaded except for the oracle's own
// suspension, but the lock keeps the registry safe to share with a caller's
// own goroutine that reads intermediate state for diagnostics.
type Registry struct {
	mu       sync.RWMutex
	elements map[string]*Element
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{elements: make(map[string]*Element)}
}

// Add inserts or replaces the element. Returns ErrEmptyID if e.ID is empty.
func (r *Registry) Add(e *Element) error {
	if e == nil || e.ID == "" {
		return ErrEmptyID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.elements[e.ID] = e
	return nil
}

// Get returns the element with the given id, or (nil, false).
func (r *Registry) Get(id string) (*Element, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.elements[id]
	return e, ok
}

// MustGet returns the element with the given id or nil.
func (r *Registry) MustGet(id string) *Element {
	e, _ := r.Get(id)
	return e
}

// GetAll returns every element currently in the registry, in unspecified
// order; callers that need determinism sort by ID themselves.
func (r *Registry) GetAll() []*Element {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Element, 0, len(r.elements))
	for _, e := range r.elements {
		out = append(out, e)
	}
	return out
}

// Filter returns every element for which pred returns true.
func (r *Registry) Filter(pred func(*Element) bool) []*Element {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Element
	for _, e := range r.elements {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// Children returns the direct children of parentID (elements whose Parent
// field equals it).
func (r *Registry) Children(parentID string) []*Element {
	return r.Filter(func(e *Element) bool { return e.Parent == parentID })
}

// Remove deletes the element with the given id, if present.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.elements, id)
}
