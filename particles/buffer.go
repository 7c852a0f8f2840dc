package particles

// Buffers are the flat vertex attribute arrays of a particle set: position
// triple i and randomness triple i belong to the same point.
type Buffers struct {
	Positions  []float32
	Randomness []float32
}

// Count returns the number of points in the buffers.
func (b Buffers) Count() int {
	return len(b.Positions) / 3
}

// Build packs set into two parallel xyz arrays in iteration order.
func Build(set Set) Buffers {
	b := Buffers{
		Positions:  make([]float32, 0, len(set)*3),
		Randomness: make([]float32, 0, len(set)*3),
	}
	for _, p := range set {
		b.Positions = append(b.Positions, p.Position[0], p.Position[1], p.Position[2])
		b.Randomness = append(b.Randomness, p.Randomness[0], p.Randomness[1], p.Randomness[2])
	}
	return b
}
