package model

import "errors"

// Sentinel errors for model operations, checked with errors.Is.
var (
	// ErrEmptyID indicates an element was added with an empty ID.
	ErrEmptyID = errors.New("model: element ID is empty")

	// ErrElementNotFound indicates an operation referenced a missing element.
	ErrElementNotFound = errors.New("model: element not found")

	// ErrInvalidWaypoints indicates a connection update would leave fewer
	// than 2 waypoints.
	ErrInvalidWaypoints = errors.New("model: waypoint sequence shorter than 2 points")

	// ErrNotAConnection indicates an operation expected a connection-typed
	// element but received something else.
	ErrNotAConnection = errors.New("model: element is not a connection")

	// ErrInvalidHost indicates a boundary event's host does not resolve to a
	// task or subprocess.
	ErrInvalidHost = errors.New("model: boundary event host is not a task or subprocess")
)
