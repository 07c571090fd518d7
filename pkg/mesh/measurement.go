package mesh

// Measurement is an optional bandwidth value in Gbps.
// Zero value is an empty measurement.
type Measurement struct {
	gbps  float64
	valid bool
}

// Some returns measurement holding given value.
func Some(gbps float64) Measurement {
	return Measurement{gbps: gbps, valid: true}
}

// None returns empty measurement.
func None() Measurement {
	return Measurement{}
}

// Empty checks if measurement has no value.
func (m Measurement) Empty() bool {
	return !m.valid
}

// Get returns the value. It panics when empty.
func (m Measurement) Get() float64 {
	if !m.valid {
		panic("measurement is empty")
	}
	return m.gbps
}

// GetOrElse returns the value or given fallback when empty.
func (m Measurement) GetOrElse(fallback float64) float64 {
	if !m.valid {
		return fallback
	}
	return m.gbps
}

// Result binds a measurement to the link it was harvested from.
type Result struct {
	Link        Link
	Measurement Measurement
}
