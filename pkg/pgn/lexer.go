package pgn

import (
	"strings"
	"unicode"

	"github.com/chessnotation/pgntree/pkg/board"
)

// Tokenize converts PGN movetext into a flat token stream. It is a single
// character-by-character pass with small amounts of lookahead for the
// handful of multi-character tokens (!!, !?, ?!, ??, the result strings,
// braced comments). It never fails: characters it cannot classify become
// Invalid tokens, leaving the parser to report the actual syntax error at
// the point it expected something else.
func Tokenize(input string) []Token {
	runes := []rune(input)
	var tokens []Token

	for i := 0; i < len(runes); {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++

		case r == '{':
			start := i
			j := i + 1
			for j < len(runes) && runes[j] != '}' {
				j++
			}
			text := string(runes[i+1 : j])
			if j < len(runes) {
				j++ // consume closing brace
			}
			tokens = append(tokens, Token{Kind: Comment, Text: strings.TrimSpace(text), Pos: start})
			i = j

		case r == ';':
			start := i
			j := i
			for j < len(runes) && runes[j] != '\n' {
				j++
			}
			tokens = append(tokens, Token{Kind: Comment, Text: strings.TrimSpace(string(runes[i+1 : j])), Pos: start})
			i = j

		case r == '$':
			// Numeric annotation glyph, e.g. "$3". Only the punctuation forms
			// (!, ?, !!, ...) carry meaning to the parser; $1..$6 are mapped
			// onto the punctuation they stand for, and any other number is
			// accepted lexically and recorded as NAGGood.
			start := i
			j := i + 1
			n := 0
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				n = n*10 + int(runes[j]-'0')
				j++
			}
			nag := NAGGood
			switch n {
			case 2:
				nag = NAGPoor
			case 3:
				nag = NAGExcellent
			case 4:
				nag = NAGBlunder
			case 5:
				nag = NAGInteresting
			case 6:
				nag = NAGDubious
			}
			tokens = append(tokens, Token{Kind: NAGKind, NAGVal: nag, Pos: start})
			i = j

		case r == '!' || r == '?':
			start := i
			nag, width := scanNAG(runes[i:])
			tokens = append(tokens, Token{Kind: NAGKind, NAGVal: nag, Pos: start})
			i += width

		case r == '1' && hasPrefix(runes[i:], "1-0"):
			tokens = append(tokens, Token{Kind: Result, Text: "1-0", Pos: i})
			i += 3

		case r == '0' && hasPrefix(runes[i:], "0-1"):
			tokens = append(tokens, Token{Kind: Result, Text: "0-1", Pos: i})
			i += 3

		case r == '1' && hasPrefix(runes[i:], "1/2-1/2"):
			tokens = append(tokens, Token{Kind: Result, Text: "1/2-1/2", Pos: i})
			i += 7

		case r == '*':
			tokens = append(tokens, Token{Kind: Result, Text: "*", Pos: i})
			i++

		case unicode.IsDigit(r):
			start := i
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			n := 0
			for _, d := range runes[start:j] {
				n = n*10 + int(d-'0')
			}
			tokens = append(tokens, Token{Kind: Number, NumberVal: n, Pos: start})
			i = j

		case r == 'O' || r == 'o':
			// Accepted alongside '0' as the castling digit (see design notes).
			tokens = append(tokens, Token{Kind: Number, NumberVal: 0, Pos: i})
			i++

		case r == '-':
			tokens = append(tokens, Token{Kind: Hyphen, Pos: i})
			i++

		case r == '=':
			tokens = append(tokens, Token{Kind: Equals, Pos: i})
			i++

		case r == '.':
			tokens = append(tokens, Token{Kind: Dot, Pos: i})
			i++

		case r == 'x' || r == 'X':
			tokens = append(tokens, Token{Kind: Captures, Pos: i})
			i++

		case r == '+':
			tokens = append(tokens, Token{Kind: Check, Pos: i})
			i++

		case r == '#':
			tokens = append(tokens, Token{Kind: Checkmate, Pos: i})
			i++

		case r == '(':
			tokens = append(tokens, Token{Kind: StartVariation, Pos: i})
			i++

		case r == ')':
			tokens = append(tokens, Token{Kind: EndVariation, Pos: i})
			i++

		case r >= 'a' && r <= 'h':
			f, _ := board.ParseFile(r)
			tokens = append(tokens, Token{Kind: File, FileVal: f, Pos: i})
			i++

		case r == 'K' || r == 'Q' || r == 'R' || r == 'B' || r == 'N':
			p, _ := board.ParsePiece(r)
			tokens = append(tokens, Token{Kind: PieceKind, PieceVal: p, Pos: i})
			i++

		default:
			tokens = append(tokens, Token{Kind: Invalid, Text: string(r), Pos: i})
			i++
		}
	}

	return tokens
}

func hasPrefix(runes []rune, s string) bool {
	want := []rune(s)
	if len(runes) < len(want) {
		return false
	}
	for i, w := range want {
		if runes[i] != w {
			return false
		}
	}
	return true
}

// scanNAG disambiguates the punctuation NAG forms via one rune of lookahead,
// mirroring how the original tokenizer resolves "??"/"?!"/"!!"/"!?".
func scanNAG(runes []rune) (NAG, int) {
	if len(runes) >= 2 {
		switch string(runes[0:2]) {
		case "!!":
			return NAGExcellent, 2
		case "!?":
			return NAGInteresting, 2
		case "?!":
			return NAGDubious, 2
		case "??":
			return NAGBlunder, 2
		}
	}
	if runes[0] == '!' {
		return NAGGood, 1
	}
	return NAGPoor, 1
}
