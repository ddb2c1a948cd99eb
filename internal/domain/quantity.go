package domain

const (
	// MinQuantity and MaxQuantity bound every stored line item. A row is
	// deleted rather than kept at zero.
	MinQuantity = 1
	MaxQuantity = 99
)

// ClampQuantity bounds a requested quantity to the storable 1..99 range.
func ClampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

// ClampSetQuantity bounds a set-quantity request to 0..99, zero meaning
// "remove the row".
func ClampSetQuantity(q int) int {
	if q < 0 {
		return 0
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}
