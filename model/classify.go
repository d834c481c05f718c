package model

// Type classifier: pure predicates over Element.Type that every later pass
// uses instead of re-deriving "what kind of thing is this" from scratch.

var connectionTypes = map[Type]bool{
	TypeSequenceFlow:         true,
	TypeMessageFlow:          true,
	TypeAssociation:          true,
	TypeDataInputAssociation: true,
}

var infrastructureTypes = map[Type]bool{
	TypeProcess:       true,
	TypeCollaboration: true,
	TypeLabel:         true,
	TypePlane:         true,
	TypeDiagram:       true,
}

var artifactTypes = map[Type]bool{
	TypeTextAnnotation: true,
	TypeDataObjectRef:  true,
	TypeDataStoreRef:   true,
	TypeGroup:          true,
}

var gatewayTypes = map[Type]bool{
	TypeExclusiveGateway:  true,
	TypeInclusiveGateway:  true,
	TypeParallelGateway:   true,
	TypeEventBasedGateway: true,
	TypeComplexGateway:    true,
}

var eventTypes = map[Type]bool{
	TypeStartEvent:             true,
	TypeEndEvent:               true,
	TypeIntermediateCatchEvent: true,
	TypeIntermediateThrowEvent: true,
	TypeBoundaryEvent:          true,
}

var activityTypes = map[Type]bool{
	TypeTask:             true,
	TypeUserTask:         true,
	TypeServiceTask:      true,
	TypeScriptTask:       true,
	TypeSendTask:         true,
	TypeReceiveTask:      true,
	TypeManualTask:       true,
	TypeBusinessRuleTask: true,
	TypeSubProcess:       true,
	TypeCallActivity:     true,
}

// IsConnection reports whether t is a sequence flow, message flow,
// association, or data association.
func IsConnection(t Type) bool { return connectionTypes[t] }

// IsInfrastructure reports whether t is a process, collaboration, label,
// plane, or diagram: elements the layout engine never positions directly.
func IsInfrastructure(t Type) bool { return infrastructureTypes[t] }

// IsArtifact reports whether t is a text annotation, data object reference,
// data store reference, or group.
func IsArtifact(t Type) bool { return artifactTypes[t] }

// IsLane reports whether t is a lane.
func IsLane(t Type) bool { return t == TypeLane }

// IsParticipant reports whether t is a participant/pool.
func IsParticipant(t Type) bool { return t == TypeParticipant }

// IsGateway reports whether t is any gateway kind.
func IsGateway(t Type) bool { return gatewayTypes[t] }

// IsEvent reports whether t is any event kind, including boundary events.
func IsEvent(t Type) bool { return eventTypes[t] }

// IsBoundaryEvent reports whether t is specifically a boundary event.
func IsBoundaryEvent(t Type) bool { return t == TypeBoundaryEvent }

// IsActivity reports whether t is a task, subprocess, or call activity.
func IsActivity(t Type) bool { return activityTypes[t] }

// IsContainer reports whether t can hold layoutable descendants (subprocess,
// call activity, or participant).
func IsContainer(t Type) bool {
	return t == TypeSubProcess || t == TypeCallActivity || t == TypeParticipant
}

// IsLayoutableShape reports whether t is a shape the oracle should place:
// not infrastructure, not a connection, not an artifact, not a lane, not a
// label, and not a participant or boundary event (participants are admitted
// separately by graphbuild as compound nodes sized around their children;
// boundary events are positioned relative to their host after the oracle
// runs).
func IsLayoutableShape(t Type) bool {
	if IsConnection(t) || IsInfrastructure(t) || IsArtifact(t) || IsLane(t) {
		return false
	}
	if t == TypeLabel || t == TypeParticipant || t == TypeBoundaryEvent {
		return false
	}
	return true
}

// DefaultSize returns the default width/height for a flow-node type when the
// registry has none recorded yet.
func DefaultSize(t Type) (width, height float64) {
	switch {
	case IsGateway(t):
		return 50, 50
	case IsEvent(t):
		return 36, 36
	case IsActivity(t):
		return 100, 80
	default:
		return 100, 80
	}
}
