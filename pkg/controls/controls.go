// Package controls defines small generic read-only views onto live values,
// used to expose capture telemetry (audio level, file size) without handing
// out the producing machinery.
package controls

import "golang.org/x/exp/constraints"

// Number constrains telemetry values to integers and floats.
type Number interface {
	constraints.Integer | constraints.Float
}

// Dial reads a single instantaneous value.
type Dial[N Number] interface {
	Read() N
}

// CappedDial is a Dial with an upper bound, for progress-style readouts.
type CappedDial[N Number] interface {
	Dial[N]
	Cap() (current, max N)
}
