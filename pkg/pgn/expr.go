package pgn

import "github.com/chessnotation/pgntree/pkg/board"

// CastleSide distinguishes a castling CMove from an ordinary one.
type CastleSide int

const (
	NoCastle CastleSide = iota
	KingSideCastle
	QueenSideCastle
)

// MoveDetails is the disambiguation data parsed out of a non-castling SAN
// move, before it has been resolved against a Board to a concrete Move.
type MoveDetails struct {
	Piece board.Piece // board.Pawn for pawn moves.

	HasFromFile bool
	FromFile    board.File
	HasFromRank bool
	FromRank    board.Rank

	DstFile board.File
	DstRank board.Rank

	Capture   bool
	Promotion board.Piece // NoPiece if the SAN carried none.
}

// CMove ("candidate move") is one parsed ply: everything the grammar could
// read off the token stream for a single move, prior to resolving it
// against a Board to find the actual source square.
type CMove struct {
	HasMoveNumber bool
	MoveNumber    int
	White         bool // the move number's dot count said this was White's move.

	Notation string // the SAN text as written, used for movetree deduplication.

	Castle  CastleSide
	Details MoveDetails // meaningful only when Castle == NoCastle.

	Check     bool
	Checkmate bool

	NAGs    []NAG
	Comment string
}

// ExprKind distinguishes the two shapes an Expression can take.
type ExprKind int

const (
	ExprMove ExprKind = iota
	ExprVariation
)

// Expression is one element of parsed movetext: either a single played move
// or a parenthesized variation containing a nested sequence of expressions.
type Expression struct {
	Kind ExprKind

	Move      CMove
	Variation []Expression
}
