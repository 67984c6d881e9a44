package board

// CastleRights represents one color's remaining castling rights as a small
// lattice: rights are only ever lost, never regained, as a game progresses.
// 2 bits.
type CastleRights uint8

const (
	NoCastleRights   CastleRights = 0
	KingSideRights   CastleRights = 1
	QueenSideRights  CastleRights = 2
	BothCastleRights              = KingSideRights | QueenSideRights
)

// Has returns true iff all of the given rights are present.
func (c CastleRights) Has(right CastleRights) bool {
	return c&right == right
}

// Without returns the rights remaining after removing the given ones. Never
// adds a right back: the result is always <= c in the lattice order.
func (c CastleRights) Without(right CastleRights) CastleRights {
	return c &^ right
}

func (c CastleRights) String() string {
	switch c {
	case NoCastleRights:
		return "-"
	case KingSideRights:
		return "k"
	case QueenSideRights:
		return "q"
	case BothCastleRights:
		return "kq"
	default:
		return "?"
	}
}
