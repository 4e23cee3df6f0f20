// Package components defines ECS components for the simulation.
package components

// Position is an agent's continuous world position, clamped to field bounds.
// One world unit is one field cell.
type Position struct {
	X, Y float32
}

// Heading is an agent's travel direction in radians.
type Heading struct {
	Angle float32
}

// Energy tracks an agent's metabolic state.
// Value stays in [0, species energy cap]; an agent at zero is marked dead
// and removed at the end of the tick. Age counts ticks since birth.
type Energy struct {
	Value float32
	Age   int32
	Alive bool
}

// Agent bundles identity and species assignment.
// Species indexes the shared, read-only species profile list; agents never
// own or mutate their profile.
type Agent struct {
	ID      uint32
	Species uint8
}
