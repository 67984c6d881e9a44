package pgn_test

import (
	"testing"

	"github.com/chessnotation/pgntree/pkg/board"
	"github.com/chessnotation/pgntree/pkg/board/fen"
	"github.com/chessnotation/pgntree/pkg/movetree"
	"github.com/chessnotation/pgntree/pkg/pgn"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWhiteMoveNumber(t *testing.T) {
	g, err := pgn.Parse("1. e4")
	require.NoError(t, err)
	require.Len(t, g.Expressions, 1)
	mv := g.Expressions[0].Move
	assert.True(t, mv.HasMoveNumber)
	assert.Equal(t, 1, mv.MoveNumber)
	assert.True(t, mv.White)
	assert.Equal(t, "e4", mv.Notation)
}

func TestParseBlackMoveNumberWithDots(t *testing.T) {
	g, err := pgn.Parse("1... e5")
	require.NoError(t, err)
	require.Len(t, g.Expressions, 1)
	mv := g.Expressions[0].Move
	assert.True(t, mv.HasMoveNumber)
	assert.Equal(t, 1, mv.MoveNumber)
	assert.False(t, mv.White)
	assert.Equal(t, "e5", mv.Notation)
}

func TestParseBlackMoveNumberWithoutDots(t *testing.T) {
	g, err := pgn.Parse("1. e4 e5")
	require.NoError(t, err)
	require.Len(t, g.Expressions, 2)
	assert.False(t, g.Expressions[1].Move.HasMoveNumber)
	assert.Equal(t, "e5", g.Expressions[1].Move.Notation)
}

func TestParseMultiDigitMoveNumber(t *testing.T) {
	g, err := pgn.Parse("23. Qxf7+")
	require.NoError(t, err)
	mv := g.Expressions[0].Move
	assert.Equal(t, 23, mv.MoveNumber)
	assert.True(t, mv.Check)
	assert.Equal(t, "Qxf7+", mv.Notation)
}

func TestParseAmbiguousMoveNumberIsSyntaxError(t *testing.T) {
	_, err := pgn.Parse("1.. e4")
	require.Error(t, err)
	pe, ok := err.(*pgn.ParseError)
	require.True(t, ok)
	assert.Equal(t, pgn.ErrAmbiguousMoveNumber, pe.Kind)
}

func TestParseUnexpectedEOF(t *testing.T) {
	_, err := pgn.Parse("1. e4 (1... c5")
	require.Error(t, err)
}

func TestParseCastlingBothSpellings(t *testing.T) {
	for _, in := range []string{"1. O-O", "1. 0-0"} {
		g, err := pgn.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, pgn.KingSideCastle, g.Expressions[0].Move.Castle, in)
	}
	for _, in := range []string{"1. O-O-O", "1. 0-0-0"} {
		g, err := pgn.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, pgn.QueenSideCastle, g.Expressions[0].Move.Castle, in)
	}
}

func TestParseResultTokens(t *testing.T) {
	cases := []struct {
		in  string
		res board.Result
	}{
		{"1. e4 1-0", board.WhiteWins},
		{"1. e4 0-1", board.BlackWins},
		{"1. e4 1/2-1/2", board.Draw},
		{"1. e4 *", board.NoResult},
	}
	for _, c := range cases {
		g, err := pgn.Parse(c.in)
		require.NoError(t, err, c.in)
		require.True(t, g.HasResult, c.in)
		assert.Equal(t, c.res, g.Result, c.in)
	}
}

func TestParseVariation(t *testing.T) {
	g, err := pgn.Parse("1. e4 e5 (1... c5 2. Nf3) 2. Nf3")
	require.NoError(t, err)
	require.Len(t, g.Expressions, 4)
	assert.Equal(t, pgn.ExprVariation, g.Expressions[2].Kind)
	require.Len(t, g.Expressions[2].Variation, 2)
	assert.Equal(t, "c5", g.Expressions[2].Variation[0].Move.Notation)
}

func TestParseSimpleGame(t *testing.T) {
	g, err := pgn.Parse("1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 1-0")
	require.NoError(t, err)
	require.Len(t, g.Expressions, 6)
	assert.True(t, g.HasResult)
	assert.Equal(t, board.WhiteWins, g.Result)
}

func TestParseCommentAttachesToMove(t *testing.T) {
	g, err := pgn.Parse("1. e4 {best by test} e5")
	require.NoError(t, err)
	assert.Equal(t, "best by test", g.Expressions[0].Move.Comment)
	assert.Equal(t, "e4", g.Expressions[0].Move.Notation)
}

func TestParseGameLowersIntoMoveTree(t *testing.T) {
	start, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	tree := movetree.New()
	res, hasRes, err := pgn.ParseGame(tree, start, "1. e4 e5 2. Nf3 Nc6 *")
	require.NoError(t, err)
	assert.True(t, hasRes)
	assert.Equal(t, board.NoResult, res)

	roots := tree.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, "e4", tree.Node(roots[0]).Notation)

	opts, err := tree.Next(lang.Some(roots[0]))
	require.NoError(t, err)
	assert.True(t, opts.Single)
	assert.Equal(t, "e5", tree.Node(opts.Node).Notation)
}

func TestParseGameWithVariationBranchesFromBeforeTheMove(t *testing.T) {
	start, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	tree := movetree.New()
	_, _, err = pgn.ParseGame(tree, start, "1. e4 e5 (1... c5) 2. Nf3")
	require.NoError(t, err)

	roots := tree.Roots()
	require.Len(t, roots, 1)

	opts, err := tree.Next(lang.Some(roots[0]))
	require.NoError(t, err)
	require.False(t, opts.Single)
	require.Len(t, opts.Branches, 2)
}
