package board

import "fmt"

// Apply returns the Board that results from playing m on b. It implements
// castling (rook follows a two-file king move), en passant capture, pawn
// promotion (auto-queen when the move carries no explicit promotion piece),
// castling-rights bookkeeping, and the halfmove/fullmove counters — all of
// the bookkeeping a legal-move generator would otherwise hand back as part
// of making a move. It does not check legality: the caller (the PGN lowering
// step, or any other oracle-validated source) is responsible for only
// applying moves that are actually legal in b.
func Apply(b Board, m Move) (Board, error) {
	color, piece, ok := b.Square(m.From)
	if !ok {
		return Board{}, fmt.Errorf("no piece on %v: %v", m.From, m)
	}
	if color != b.Turn() {
		return Board{}, fmt.Errorf("%v to move, but %v is %v's piece: %v", b.Turn(), m.From, color, m)
	}
	if !m.To.IsValid() {
		return Board{}, fmt.Errorf("invalid destination: %v", m)
	}
	if toColor, _, occupied := b.Square(m.To); occupied && toColor == color {
		return Board{}, fmt.Errorf("own piece on destination %v: %v", m.To, m)
	}

	next := b
	next.hasEP = false

	_, isCapture := b.Square(m.To)
	isPawn := piece == Pawn

	switch piece {
	case King:
		if df := int(m.To.File()) - int(m.From.File()); df == 2 || df == -2 {
			rank := m.From.Rank()
			rookFrom, rookTo := NewSquare(FileH, rank), NewSquare(FileF, rank)
			if df == -2 {
				rookFrom, rookTo = NewSquare(FileA, rank), NewSquare(FileD, rank)
			}
			next = next.clear(rookFrom)
			next = next.set(rookTo, color, Rook)
		}
		next.castleRights[color] = NoCastleRights

	case Rook:
		home := homeRank(color)
		switch m.From {
		case NewSquare(FileA, home):
			next.castleRights[color] = next.castleRights[color].Without(QueenSideRights)
		case NewSquare(FileH, home):
			next.castleRights[color] = next.castleRights[color].Without(KingSideRights)
		}
	}

	if isPawn {
		fromRank, toRank := int(m.From.Rank()), int(m.To.Rank())
		switch dr := toRank - fromRank; {
		case dr == 2 || dr == -2:
			opp := color.Opponent()
			adjacent := false
			if sq, ok := m.To.East(); ok {
				if c, p, occ := b.Square(sq); occ && c == opp && p == Pawn {
					adjacent = true
				}
			}
			if sq, ok := m.To.West(); ok {
				if c, p, occ := b.Square(sq); occ && c == opp && p == Pawn {
					adjacent = true
				}
			}
			if adjacent {
				next.epTarget = NewSquare(m.From.File(), Rank((fromRank+toRank)/2))
				next.hasEP = true
			}
		case m.To.File() != m.From.File() && !isCapture:
			// Diagonal move onto an empty square can only be en passant.
			ep, hasEP := b.EnPassant()
			if !hasEP || ep != m.To {
				return Board{}, fmt.Errorf("illegal pawn move: %v", m)
			}
			next = next.clear(NewSquare(m.To.File(), m.From.Rank()))
			isCapture = true
		}
	}

	if isCapture {
		opp := color.Opponent()
		oppHome := homeRank(opp)
		switch m.To {
		case NewSquare(FileA, oppHome):
			next.castleRights[opp] = next.castleRights[opp].Without(QueenSideRights)
		case NewSquare(FileH, oppHome):
			next.castleRights[opp] = next.castleRights[opp].Without(KingSideRights)
		}
	}

	next = next.clear(m.From)

	landing := piece
	if isPawn && m.To.Rank() == lastRank(color) {
		landing = m.Promotion
		if landing == NoPiece {
			landing = Queen // auto-queen: see design notes on promotion.
		}
	}
	next = next.set(m.To, color, landing)

	if isPawn || isCapture {
		next.halfmoveClock = 0
	} else {
		next.halfmoveClock++
	}

	next.sideToMove = color.Opponent()
	if color == Black {
		next.fullmoveNumber++
	}

	return next, nil
}

func homeRank(c Color) Rank {
	if c == White {
		return Rank1
	}
	return Rank8
}

func lastRank(c Color) Rank {
	if c == White {
		return Rank8
	}
	return Rank1
}
