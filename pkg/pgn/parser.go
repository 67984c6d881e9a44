package pgn

import (
	"strings"

	"github.com/chessnotation/pgntree/pkg/board"
	"github.com/chessnotation/pgntree/pkg/movetree"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Game is the syntactic result of Parse: the movetext as a sequence of
// expressions, plus the trailing result token if the input carried one.
type Game struct {
	Expressions []Expression
	Result      board.Result
	HasResult   bool
}

// parser is a recursive-descent reader over a Token stream. It backtracks by
// explicit cursor save/restore rather than panic/recover: every production
// that can fail returns an error and leaves the caller to rewind.
type parser struct {
	src    []rune
	tokens []Token
	pos    int
}

func newParser(input string) *parser {
	return &parser{src: []rune(input), tokens: Tokenize(input)}
}

func (p *parser) save() int        { return p.pos }
func (p *parser) restore(mark int) { p.pos = mark }
func (p *parser) atEnd() bool      { return p.pos >= len(p.tokens) }

func (p *parser) peek() (Token, bool) {
	if p.atEnd() {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) peekKind() Kind {
	t, ok := p.peek()
	if !ok {
		return Invalid
	}
	return t.Kind
}

func (p *parser) consume() Token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) expect(k Kind) (Token, error) {
	t, ok := p.peek()
	if !ok {
		return Token{}, &ParseError{Index: p.pos, Kind: ErrUnexpectedEOF}
	}
	if t.Kind != k {
		return Token{}, &ParseError{Index: p.pos, Kind: ErrUnexpectedToken}
	}
	return p.consume(), nil
}

func (p *parser) expectZero() (Token, error) {
	t, ok := p.peek()
	if !ok {
		return Token{}, &ParseError{Index: p.pos, Kind: ErrUnexpectedEOF}
	}
	if t.Kind != Number || t.NumberVal != 0 {
		return Token{}, &ParseError{Index: p.pos, Kind: ErrUnexpectedToken}
	}
	return p.consume(), nil
}

// Parse reads PGN movetext (no tag pairs) into its syntax tree: a flat
// sequence of move/variation expressions plus the trailing result, if any.
// It does not resolve moves against a board — see ParseGame for that.
func Parse(input string) (Game, error) {
	p := newParser(input)

	exprs, err := p.expressions(false)
	if err != nil {
		return Game{}, err
	}
	g := Game{Expressions: exprs}

	if p.atEnd() {
		return g, nil
	}
	res, err := p.result()
	if err != nil {
		return Game{}, err
	}
	g.Result = res
	g.HasResult = true

	if !p.atEnd() {
		return Game{}, &ParseError{Index: p.pos, Kind: ErrUnexpectedToken, Msg: "trailing tokens after result"}
	}
	return g, nil
}

// ParseGame parses input and lowers it directly into tree, starting from
// start. Each parsed move is resolved against the board reached so far,
// applied, and recorded; a variation branches from the position before the
// move it follows. Returns the game's result, if the movetext carried one.
func ParseGame(tree *movetree.MoveTree, start board.Board, input string) (board.Result, bool, error) {
	p := newParser(input)

	exprs, err := p.expressions(false)
	if err != nil {
		return board.NoResult, false, err
	}
	if _, _, err := buildTree(tree, start, lang.Optional[movetree.NodeId]{}, exprs); err != nil {
		return board.NoResult, false, err
	}

	if p.atEnd() {
		return board.NoResult, false, nil
	}
	res, err := p.result()
	if err != nil {
		return board.NoResult, false, err
	}
	return res, true, nil
}

// buildTree walks exprs, applying each move against cur (and recording it in
// tree as a child of last) in order. A variation recurses from the board and
// parent in effect just before the move it trails, since that is the
// position it offers an alternative to.
func buildTree(tree *movetree.MoveTree, cur board.Board, last lang.Optional[movetree.NodeId], exprs []Expression) (board.Board, lang.Optional[movetree.NodeId], error) {
	prevBoard, prevLast := cur, last

	for _, e := range exprs {
		switch e.Kind {
		case ExprMove:
			mv, err := resolve(cur, e.Move)
			if err != nil {
				return cur, last, err
			}
			next, err := board.Apply(cur, mv)
			if err != nil {
				return cur, last, err
			}
			meta := movetree.MoveMeta{Check: e.Move.Check, Checkmate: e.Move.Checkmate, Comment: e.Move.Comment}
			id := tree.AddNewMove(last, e.Move.Notation, meta, next)
			prevBoard, prevLast = cur, last
			cur, last = next, lang.Some(id)

		case ExprVariation:
			if _, _, err := buildTree(tree, prevBoard, prevLast, e.Variation); err != nil {
				return cur, last, err
			}
		}
	}
	return cur, last, nil
}

// expressions reads a sequence of move/variation expressions, stopping at
// end of input, at a result token, or (inside a variation) at ")".
func (p *parser) expressions(insideVariation bool) ([]Expression, error) {
	var exprs []Expression
	for {
		if p.atEnd() || p.peekKind() == Result {
			break
		}
		if insideVariation && p.peekKind() == EndVariation {
			break
		}
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func (p *parser) expression() (Expression, error) {
	mark := p.save()

	mv, err := p.moveText()
	if err == nil {
		return Expression{Kind: ExprMove, Move: mv}, nil
	}
	if pe, ok := err.(*ParseError); ok && pe.Kind == ErrAmbiguousMoveNumber {
		return Expression{}, err
	}
	p.restore(mark)

	if v, err := p.variation(); err == nil {
		return Expression{Kind: ExprVariation, Variation: v}, nil
	}
	p.restore(mark)

	return Expression{}, &ParseError{Index: p.pos, Kind: ErrUnexpectedToken, Msg: "expected a move or a variation"}
}

func (p *parser) variation() ([]Expression, error) {
	mark := p.save()
	if _, err := p.expect(StartVariation); err != nil {
		return nil, err
	}
	exprs, err := p.expressions(true)
	if err != nil {
		p.restore(mark)
		return nil, err
	}
	if _, err := p.expect(EndVariation); err != nil {
		p.restore(mark)
		return nil, &ParseError{Index: p.pos, Kind: ErrUnexpectedEOF, Msg: "unterminated variation"}
	}
	return exprs, nil
}

func (p *parser) result() (board.Result, error) {
	t, err := p.expect(Result)
	if err != nil {
		return board.NoResult, err
	}
	switch t.Text {
	case "1-0":
		return board.WhiteWins, nil
	case "0-1":
		return board.BlackWins, nil
	case "1/2-1/2":
		return board.Draw, nil
	case "*":
		return board.NoResult, nil
	default:
		return board.NoResult, &ParseError{Index: p.pos, Kind: ErrUnexpectedToken, Msg: "unrecognized result"}
	}
}

// moveText is one movetext unit: either a bare move (an implicit
// continuation of Black's reply, written without its move number) or a move
// number followed by the move it numbers.
func (p *parser) moveText() (CMove, error) {
	mark := p.save()

	if mv, err := p.move(); err == nil {
		mv.White = false
		return mv, nil
	}
	p.restore(mark)

	mn, err := p.moveNumber()
	if err != nil {
		p.restore(mark)
		return CMove{}, err
	}
	mv, err := p.move()
	if err != nil {
		p.restore(mark)
		return CMove{}, err
	}
	mv.HasMoveNumber = true
	mv.MoveNumber = mn.number
	mv.White = mn.white
	return mv, nil
}

type moveNumberResult struct {
	number int
	white  bool
}

// moveNumber reads a digit run followed by exactly one dot (White's move,
// "12.") or exactly three dots (Black's move, "12..."). Any other dot count
// is a syntax error: zero dots isn't a move number at all, and two dots is
// ambiguous between the two forms.
func (p *parser) moveNumber() (moveNumberResult, error) {
	mark := p.save()
	t, err := p.expect(Number)
	if err != nil {
		return moveNumberResult{}, err
	}

	dots := 0
	for p.peekKind() == Dot {
		p.consume()
		dots++
	}

	switch dots {
	case 1:
		return moveNumberResult{number: t.NumberVal, white: true}, nil
	case 3:
		return moveNumberResult{number: t.NumberVal, white: false}, nil
	case 2:
		p.restore(mark)
		return moveNumberResult{}, &ParseError{Index: p.pos, Kind: ErrAmbiguousMoveNumber}
	default:
		p.restore(mark)
		return moveNumberResult{}, &ParseError{Index: p.pos, Kind: ErrUnexpectedToken, Msg: "move number must be followed by one or three dots"}
	}
}

// move reads one SAN move (piece move, pawn move or castle), its optional
// check/checkmate suffix, and any trailing NAGs, and slices its own source
// text back out of src for use as the movetree notation.
func (p *parser) move() (CMove, error) {
	mark := p.save()

	mv, err := p.pieceMove()
	if err != nil {
		p.restore(mark)
		if mv, err = p.pawnMove(); err != nil {
			p.restore(mark)
			if mv, err = p.castle(); err != nil {
				p.restore(mark)
				return CMove{}, &ParseError{Index: p.pos, Kind: ErrUnexpectedToken, Msg: "expected a move"}
			}
		}
	}

	if t, ok := p.peek(); ok && t.Kind == Checkmate {
		p.consume()
		mv.Checkmate = true
	} else if ok && t.Kind == Check {
		p.consume()
		mv.Check = true
	}

	for p.peekKind() == NAGKind {
		t := p.consume()
		mv.NAGs = append(mv.NAGs, t.NAGVal)
	}

	startTok := p.tokens[mark]
	endPos := len(p.src)
	if !p.atEnd() {
		endPos = p.tokens[p.pos].Pos
	}
	mv.Notation = strings.TrimSpace(string(p.src[startTok.Pos:endPos]))

	if c, ok := p.comment(); ok {
		mv.Comment = c
	}

	return mv, nil
}

// comment reads a trailing brace/semicolon comment, if present.
func (p *parser) comment() (string, bool) {
	if p.peekKind() != Comment {
		return "", false
	}
	return p.consume().Text, true
}

func (p *parser) pieceMove() (CMove, error) {
	pieceMark := p.save()
	piece, err := p.expect(PieceKind)
	if err != nil {
		p.restore(pieceMark)
		return CMove{}, err
	}
	afterPiece := p.save()

	attempts := []func() (MoveDetails, error){
		func() (MoveDetails, error) { return p.pieceMoveFR(piece.PieceVal) },
		func() (MoveDetails, error) { return p.pieceMoveF(piece.PieceVal) },
		func() (MoveDetails, error) { return p.pieceMoveR(piece.PieceVal) },
		func() (MoveDetails, error) { return p.pieceMoveBare(piece.PieceVal) },
	}
	for _, attempt := range attempts {
		p.restore(afterPiece)
		if d, err := attempt(); err == nil {
			return CMove{Details: d}, nil
		}
	}

	p.restore(pieceMark)
	return CMove{}, &ParseError{Index: p.pos, Kind: ErrUnexpectedToken, Msg: "expected a piece move"}
}

func (p *parser) pieceMoveFR(piece board.Piece) (MoveDetails, error) {
	f, err := p.file()
	if err != nil {
		return MoveDetails{}, err
	}
	r, err := p.rank()
	if err != nil {
		return MoveDetails{}, err
	}
	capture := p.tryCaptures()
	df, err := p.file()
	if err != nil {
		return MoveDetails{}, err
	}
	dr, err := p.rank()
	if err != nil {
		return MoveDetails{}, err
	}
	return MoveDetails{Piece: piece, HasFromFile: true, FromFile: f, HasFromRank: true, FromRank: r, DstFile: df, DstRank: dr, Capture: capture}, nil
}

func (p *parser) pieceMoveF(piece board.Piece) (MoveDetails, error) {
	f, err := p.file()
	if err != nil {
		return MoveDetails{}, err
	}
	capture := p.tryCaptures()
	df, err := p.file()
	if err != nil {
		return MoveDetails{}, err
	}
	dr, err := p.rank()
	if err != nil {
		return MoveDetails{}, err
	}
	return MoveDetails{Piece: piece, HasFromFile: true, FromFile: f, DstFile: df, DstRank: dr, Capture: capture}, nil
}

func (p *parser) pieceMoveR(piece board.Piece) (MoveDetails, error) {
	r, err := p.rank()
	if err != nil {
		return MoveDetails{}, err
	}
	capture := p.tryCaptures()
	df, err := p.file()
	if err != nil {
		return MoveDetails{}, err
	}
	dr, err := p.rank()
	if err != nil {
		return MoveDetails{}, err
	}
	return MoveDetails{Piece: piece, HasFromRank: true, FromRank: r, DstFile: df, DstRank: dr, Capture: capture}, nil
}

func (p *parser) pieceMoveBare(piece board.Piece) (MoveDetails, error) {
	capture := p.tryCaptures()
	df, err := p.file()
	if err != nil {
		return MoveDetails{}, err
	}
	dr, err := p.rank()
	if err != nil {
		return MoveDetails{}, err
	}
	return MoveDetails{Piece: piece, DstFile: df, DstRank: dr, Capture: capture}, nil
}

func (p *parser) pawnMove() (CMove, error) {
	mark := p.save()

	if d, err := p.pawnCapture(); err == nil {
		d.Promotion = p.tryPromotion()
		return CMove{Details: d}, nil
	}
	p.restore(mark)

	if d, err := p.pawnPush(); err == nil {
		d.Promotion = p.tryPromotion()
		return CMove{Details: d}, nil
	}
	p.restore(mark)

	return CMove{}, &ParseError{Index: p.pos, Kind: ErrUnexpectedToken, Msg: "expected a pawn move"}
}

func (p *parser) pawnCapture() (MoveDetails, error) {
	f, err := p.file()
	if err != nil {
		return MoveDetails{}, err
	}
	if _, err := p.expect(Captures); err != nil {
		return MoveDetails{}, err
	}
	df, err := p.file()
	if err != nil {
		return MoveDetails{}, err
	}
	dr, err := p.rank()
	if err != nil {
		return MoveDetails{}, err
	}
	return MoveDetails{Piece: board.Pawn, HasFromFile: true, FromFile: f, DstFile: df, DstRank: dr, Capture: true}, nil
}

func (p *parser) pawnPush() (MoveDetails, error) {
	f, err := p.file()
	if err != nil {
		return MoveDetails{}, err
	}
	r, err := p.rank()
	if err != nil {
		return MoveDetails{}, err
	}
	return MoveDetails{Piece: board.Pawn, DstFile: f, DstRank: r}, nil
}

func (p *parser) tryPromotion() board.Piece {
	mark := p.save()
	if _, err := p.expect(Equals); err != nil {
		return board.NoPiece
	}
	t, err := p.expect(PieceKind)
	if err != nil {
		p.restore(mark)
		return board.NoPiece
	}
	return t.PieceVal
}

func (p *parser) tryCaptures() bool {
	if p.peekKind() == Captures {
		p.consume()
		return true
	}
	return false
}

// castle reads "O-O"/"0-0" (kingside) or "O-O-O"/"0-0-0" (queenside); the
// lexer already folds 'O'/'o' into the same Number(0) token castling's
// digit form uses.
func (p *parser) castle() (CMove, error) {
	mark := p.save()
	if _, err := p.expectZero(); err != nil {
		p.restore(mark)
		return CMove{}, err
	}
	if _, err := p.expect(Hyphen); err != nil {
		p.restore(mark)
		return CMove{}, err
	}
	if _, err := p.expectZero(); err != nil {
		p.restore(mark)
		return CMove{}, err
	}

	side := KingSideCastle
	queenMark := p.save()
	if _, err := p.expect(Hyphen); err == nil {
		if _, err := p.expectZero(); err == nil {
			side = QueenSideCastle
		} else {
			p.restore(queenMark)
		}
	} else {
		p.restore(queenMark)
	}

	return CMove{Castle: side}, nil
}

func (p *parser) file() (board.File, error) {
	t, err := p.expect(File)
	if err != nil {
		return 0, err
	}
	return t.FileVal, nil
}

func (p *parser) rank() (board.Rank, error) {
	t, err := p.expect(Number)
	if err != nil {
		return 0, err
	}
	if t.NumberVal < 1 || t.NumberVal > 8 {
		return 0, &ParseError{Index: p.pos, Kind: ErrUnexpectedToken, Msg: "rank out of range"}
	}
	return board.Rank(t.NumberVal - 1), nil
}
