package pgn

import (
	"fmt"

	"github.com/chessnotation/pgntree/pkg/board"
)

// Resolve finds the concrete Move a parsed CMove refers to on b. SAN leaves
// the source square implicit (or only partly disambiguated), so this walks
// the candidate squares geometrically rather than through a legal-move
// generator: move/search/legality machinery is out of scope, so anything
// beyond "does this piece reach that square unobstructed" is left for the
// caller's own rules (check, pin, stalemate, ...) to enforce if it cares.
func Resolve(b board.Board, cm CMove) (board.Move, error) {
	return resolve(b, cm)
}

func resolve(b board.Board, cm CMove) (board.Move, error) {
	if cm.Castle != NoCastle {
		return resolveCastle(b, cm.Castle)
	}

	d := cm.Details
	to := board.NewSquare(d.DstFile, d.DstRank)
	if !to.IsValid() {
		return board.Move{}, &ParseError{Kind: ErrIllegalMove, Msg: fmt.Sprintf("invalid destination %v", to)}
	}

	if d.Piece == board.Pawn {
		return resolvePawn(b, d, to)
	}

	color := b.Turn()
	if c, _, occ := b.Square(to); occ && c == color {
		return board.Move{}, &ParseError{Kind: ErrIllegalMove, Msg: fmt.Sprintf("own piece on %v", to)}
	}

	var candidates []board.Square
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		c, p, ok := b.Square(sq)
		if !ok || c != color || p != d.Piece {
			continue
		}
		if d.HasFromFile && sq.File() != d.FromFile {
			continue
		}
		if d.HasFromRank && sq.Rank() != d.FromRank {
			continue
		}
		if !reaches(b, sq, to, p) {
			continue
		}
		candidates = append(candidates, sq)
	}

	switch len(candidates) {
	case 0:
		return board.Move{}, &ParseError{Kind: ErrIllegalMove, Msg: fmt.Sprintf("no %v reaches %v", d.Piece, to)}
	case 1:
		return board.Move{From: candidates[0], To: to}, nil
	default:
		return board.Move{}, &ParseError{Kind: ErrIllegalMove, Msg: fmt.Sprintf("ambiguous %v move to %v", d.Piece, to)}
	}
}

// resolvePawn handles pawn pushes and captures directly: SAN always gives a
// pawn move enough information (destination file plus, for captures, the
// source file) to name the source square without scanning the board.
func resolvePawn(b board.Board, d MoveDetails, to board.Square) (board.Move, error) {
	color := b.Turn()

	if d.Capture {
		if !d.HasFromFile {
			return board.Move{}, &ParseError{Kind: ErrIllegalMove, Msg: "pawn capture missing source file"}
		}
		behind, ok := to.Forward(color.Opponent())
		if df := int(d.FromFile) - int(to.File()); !ok || (df != 1 && df != -1) {
			return board.Move{}, &ParseError{Kind: ErrIllegalMove, Msg: fmt.Sprintf("no pawn capture reaches %v", to)}
		}
		from := board.NewSquare(d.FromFile, behind.Rank())
		return board.Move{From: from, To: to, Promotion: d.Promotion}, nil
	}

	one, ok := to.Forward(color.Opponent())
	if !ok {
		return board.Move{}, &ParseError{Kind: ErrIllegalMove, Msg: fmt.Sprintf("no pawn push reaches %v", to)}
	}
	if c, p, occ := b.Square(one); occ && c == color && p == board.Pawn {
		return board.Move{From: one, To: to, Promotion: d.Promotion}, nil
	}

	two, ok := one.Forward(color.Opponent())
	if ok {
		if c, p, occ := b.Square(two); occ && c == color && p == board.Pawn && two.Rank() == board.Rank2.Relative(color) {
			return board.Move{From: two, To: to, Promotion: d.Promotion}, nil
		}
	}

	return board.Move{}, &ParseError{Kind: ErrIllegalMove, Msg: fmt.Sprintf("no pawn push reaches %v", to)}
}

func resolveCastle(b board.Board, side CastleSide) (board.Move, error) {
	color := b.Turn()
	rank := board.Rank1.Relative(color)
	from := board.NewSquare(board.FileE, rank)

	var to board.Square
	switch side {
	case KingSideCastle:
		to = board.NewSquare(board.FileG, rank)
	case QueenSideCastle:
		to = board.NewSquare(board.FileC, rank)
	default:
		return board.Move{}, &ParseError{Kind: ErrIllegalCastle, Msg: "not a castle"}
	}
	return board.Move{From: from, To: to}, nil
}

// reaches reports whether p, sitting on from, moves to to along one of its
// geometric patterns with no pieces blocking the way (sliding pieces only;
// knight and king moves can't be blocked).
func reaches(b board.Board, from, to board.Square, p board.Piece) bool {
	if to == from {
		return false
	}

	df := to.File().V() - from.File().V()
	dr := to.Rank().V() - from.Rank().V()
	adf, adr := abs(df), abs(dr)

	switch p {
	case board.Knight:
		return (adf == 1 && adr == 2) || (adf == 2 && adr == 1)
	case board.King:
		return adf <= 1 && adr <= 1
	case board.Bishop:
		return adf == adr && clearPath(b, from, to, sign(df), sign(dr))
	case board.Rook:
		return (df == 0) != (dr == 0) && clearPath(b, from, to, sign(df), sign(dr))
	case board.Queen:
		if adf == adr {
			return clearPath(b, from, to, sign(df), sign(dr))
		}
		return (df == 0) != (dr == 0) && clearPath(b, from, to, sign(df), sign(dr))
	default:
		return false
	}
}

func clearPath(b board.Board, from, to board.Square, stepFile, stepRank int) bool {
	sq, ok := step(from, stepFile, stepRank)
	for ok && sq != to {
		if !b.IsEmpty(sq) {
			return false
		}
		sq, ok = step(sq, stepFile, stepRank)
	}
	return ok
}

// step moves df files and dr ranks away from sq, reporting ok=false if that
// would leave the board (board.Square has no exported equivalent: its own
// step is edge-aware but unexported, so sliding-path code outside the
// package restates the same bounds check here).
func step(sq board.Square, df, dr int) (board.Square, bool) {
	f := sq.File().V() + df
	r := sq.Rank().V() + dr
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return 0, false
	}
	return board.NewSquare(board.File(f), board.Rank(r)), true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
