package alu

// Comparison holds both branch comparator outputs.
type Comparison struct {
	Equal    bool
	LessThan bool
}

// Compare relates a and b as unsigned bit patterns or as two's-complement integers.
func Compare(unsigned bool, a, b uint32) Comparison {
	if unsigned {
		return Comparison{Equal: a == b, LessThan: a < b}
	}
	return Comparison{Equal: int32(a) == int32(b), LessThan: int32(a) < int32(b)}
}
