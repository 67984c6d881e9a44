// Package fen contains utilities for reading and writing board positions in
// FEN (Forsyth-Edwards Notation).
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/chessnotation/pgntree/pkg/board"
)

const (
	Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

// Decode returns a new Board from a FEN description.
//
// Example:
//
//	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
func Decode(fen string) (board.Board, error) {
	// A FEN record contains six space-separated fields.

	parts := strings.Split(strings.TrimSpace(fen), " ")
	if len(parts) != 6 {
		return board.Board{}, fmt.Errorf("invalid number of sections in FEN: '%v'", fen)
	}

	// (1) Piece placement (from white's perspective). Each rank is described,
	// starting with rank 8 and ending with rank 1; within each rank, the
	// contents of each square are described from file a through file h.

	var pieces []board.Placement

	f, r := board.ZeroFile, board.Rank8
	for _, ch := range []rune(parts[0]) {
		switch {
		case ch == '/':
			if r == board.ZeroRank {
				return board.Board{}, fmt.Errorf("too many ranks in FEN: '%v'", fen)
			}
			r--
			f = board.ZeroFile

		case unicode.IsDigit(ch):
			// Blank squares are noted using digits 1 through 8.

			f = f.Offset(int(ch - '0'))

		case unicode.IsLetter(ch):
			// Each piece is identified by a single letter taken from the
			// standard English names (pawn = "P", knight = "N", bishop =
			// "B", rook = "R", queen = "Q" and king = "K"). White pieces use
			// upper-case letters, Black lower-case.

			if f > board.FileH {
				return board.Board{}, fmt.Errorf("too many files in FEN: '%v'", fen)
			}
			color, piece, ok := parsePiece(ch)
			if !ok {
				return board.Board{}, fmt.Errorf("invalid piece '%v' in FEN: '%v'", ch, fen)
			}
			pieces = append(pieces, board.Placement{Square: board.NewSquare(f, r), Color: color, Piece: piece})
			f++

		default:
			return board.Board{}, fmt.Errorf("invalid character in FEN: '%v'", fen)
		}
	}

	// (2) Active color. "w" means white moves next, "b" means black.

	active, ok := parseColor(parts[1])
	if !ok {
		return board.Board{}, fmt.Errorf("invalid active color in FEN: '%v'", fen)
	}

	// (3) Castling availability. If neither side can castle, this is
	// "-". Otherwise, this has one or more letters: "K" (White can castle
	// kingside), "Q" (White can castle queenside), "k" (Black can castle
	// kingside), and/or "q" (Black can castle queenside).

	rights, ok := parseCastling(parts[2])
	if !ok {
		return board.Board{}, fmt.Errorf("invalid castling in FEN: '%v'", fen)
	}

	// (4) En passant target square in algebraic notation. If there's no en
	// passant target square, this is "-". If a pawn has just made a
	// 2-square move, this is the position "behind" the pawn.

	var ep board.Square
	var hasEP bool
	if parts[3] != "-" {
		sq, err := board.ParseSquareStr(parts[3])
		if err != nil {
			return board.Board{}, fmt.Errorf("invalid en passant in FEN: '%v'", fen)
		}
		ep, hasEP = sq, true
	}

	// (5) Halfmove clock: the number of halfmoves since the last pawn
	// advance or capture, used for the fifty move rule.

	hm, err := strconv.Atoi(parts[4])
	if err != nil || hm < 0 {
		return board.Board{}, fmt.Errorf("invalid halfmove clock in FEN: '%v'", fen)
	}

	// (6) Fullmove number: starts at 1, incremented after Black's move.

	fm, err := strconv.Atoi(parts[5])
	if err != nil || fm < 0 {
		return board.Board{}, fmt.Errorf("invalid fullmove number in FEN: '%v'", fen)
	}

	return board.NewBoard(pieces, active, rights, ep, hasEP, hm, fm)
}

// Encode encodes a Board in FEN notation.
func Encode(b board.Board) string {
	var sb strings.Builder
	for r := int(board.NumRanks) - 1; r >= 0; r-- {
		blanks := 0
		for f := board.ZeroFile; f < board.NumFiles; f++ {
			color, piece, ok := b.Square(board.NewSquare(f, board.Rank(r)))
			if !ok {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(printPiece(color, piece))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r > 0 {
			sb.WriteString("/")
		}
	}

	turn := printColor(b.Turn())
	castling := printCastling(b.CastleRights(board.White), b.CastleRights(board.Black))

	ep := "-"
	if sq, ok := b.EnPassant(); ok {
		ep = sq.String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), turn, castling, ep, b.HalfmoveClock(), b.FullmoveNumber())
}

func parseCastling(str string) ([2]board.CastleRights, bool) {
	var ret [2]board.CastleRights

	if str == "-" {
		return ret, true
	}
	for _, r := range []rune(str) {
		switch r {
		case 'K':
			ret[board.White] |= board.KingSideRights
		case 'Q':
			ret[board.White] |= board.QueenSideRights
		case 'k':
			ret[board.Black] |= board.KingSideRights
		case 'q':
			ret[board.Black] |= board.QueenSideRights
		default:
			return [2]board.CastleRights{}, false
		}
	}
	return ret, true
}

func printCastling(white, black board.CastleRights) string {
	var sb strings.Builder
	if white.Has(board.KingSideRights) {
		sb.WriteString("K")
	}
	if white.Has(board.QueenSideRights) {
		sb.WriteString("Q")
	}
	if black.Has(board.KingSideRights) {
		sb.WriteString("k")
	}
	if black.Has(board.QueenSideRights) {
		sb.WriteString("q")
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

func parseColor(str string) (board.Color, bool) {
	switch str {
	case "w", "W":
		return board.White, true
	case "b", "B":
		return board.Black, true
	default:
		return 0, false
	}
}

func printColor(c board.Color) string {
	if c == board.White {
		return "w"
	}
	return "b"
}

func parsePiece(r rune) (board.Color, board.Piece, bool) {
	switch r {
	case 'P':
		return board.White, board.Pawn, true
	case 'B':
		return board.White, board.Bishop, true
	case 'N':
		return board.White, board.Knight, true
	case 'R':
		return board.White, board.Rook, true
	case 'Q':
		return board.White, board.Queen, true
	case 'K':
		return board.White, board.King, true

	case 'p':
		return board.Black, board.Pawn, true
	case 'b':
		return board.Black, board.Bishop, true
	case 'n':
		return board.Black, board.Knight, true
	case 'r':
		return board.Black, board.Rook, true
	case 'q':
		return board.Black, board.Queen, true
	case 'k':
		return board.Black, board.King, true

	default:
		return 0, 0, false
	}
}

func printPiece(c board.Color, p board.Piece) rune {
	letters := "pbnrqk"
	r := rune(letters[p-board.Pawn])
	if c == board.White {
		return unicode.ToUpper(r)
	}
	return r
}
