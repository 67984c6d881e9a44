package pgn_test

import (
	"testing"

	"github.com/chessnotation/pgntree/pkg/board"
	"github.com/chessnotation/pgntree/pkg/pgn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeSimpleMove(t *testing.T) {
	tokens := pgn.Tokenize("1. e4 e5")
	require.Len(t, tokens, 5)

	assert.Equal(t, pgn.Number, tokens[0].Kind)
	assert.Equal(t, 1, tokens[0].NumberVal)
	assert.Equal(t, pgn.Dot, tokens[1].Kind)
	assert.Equal(t, pgn.File, tokens[2].Kind)
	assert.Equal(t, board.FileE, tokens[2].FileVal)
}

func TestTokenizePieceMoveWithCaptureAndCheck(t *testing.T) {
	tokens := pgn.Tokenize("Nxe5+")

	require.Len(t, tokens, 5)
	assert.Equal(t, pgn.PieceKind, tokens[0].Kind)
	assert.Equal(t, board.Knight, tokens[0].PieceVal)
	assert.Equal(t, pgn.Captures, tokens[1].Kind)
	assert.Equal(t, pgn.File, tokens[2].Kind)
	assert.Equal(t, pgn.Number, tokens[3].Kind)
	assert.Equal(t, pgn.Check, tokens[4].Kind)
}

func TestTokenizePromotion(t *testing.T) {
	tokens := pgn.Tokenize("e8=Q")

	require.Len(t, tokens, 4)
	assert.Equal(t, pgn.Equals, tokens[2].Kind)
	assert.Equal(t, pgn.PieceKind, tokens[3].Kind)
	assert.Equal(t, board.Queen, tokens[3].PieceVal)
}

func TestTokenizeCastling(t *testing.T) {
	tests := []string{"O-O", "0-0", "O-O-O", "0-0-0"}
	for _, tt := range tests {
		tokens := pgn.Tokenize(tt)
		for _, tok := range tokens {
			if tok.Kind == pgn.Number {
				assert.Equal(t, 0, tok.NumberVal)
			}
		}
	}
}

func TestTokenizeResult(t *testing.T) {
	tests := []struct {
		in  string
		out string
	}{
		{"1-0", "1-0"},
		{"0-1", "0-1"},
		{"1/2-1/2", "1/2-1/2"},
		{"*", "*"},
	}
	for _, tt := range tests {
		tokens := pgn.Tokenize(tt.in)
		require.Len(t, tokens, 1)
		assert.Equal(t, pgn.Result, tokens[0].Kind)
		assert.Equal(t, tt.out, tokens[0].Text)
	}
}

func TestTokenizeNAGPunctuation(t *testing.T) {
	tests := []struct {
		in  string
		nag pgn.NAG
	}{
		{"!", pgn.NAGGood},
		{"!!", pgn.NAGExcellent},
		{"!?", pgn.NAGInteresting},
		{"?!", pgn.NAGDubious},
		{"?", pgn.NAGPoor},
		{"??", pgn.NAGBlunder},
	}
	for _, tt := range tests {
		tokens := pgn.Tokenize(tt.in)
		require.Len(t, tokens, 1)
		assert.Equal(t, pgn.NAGKind, tokens[0].Kind)
		assert.Equal(t, tt.nag, tokens[0].NAGVal)
	}
}

func TestTokenizeComment(t *testing.T) {
	tokens := pgn.Tokenize("{a comment} e4")

	require.Len(t, tokens, 3)
	assert.Equal(t, pgn.Comment, tokens[0].Kind)
	assert.Equal(t, "a comment", tokens[0].Text)
}

func TestTokenizeVariationMarkers(t *testing.T) {
	tokens := pgn.Tokenize("(e4)")

	require.Len(t, tokens, 4)
	assert.Equal(t, pgn.StartVariation, tokens[0].Kind)
	assert.Equal(t, pgn.File, tokens[1].Kind)
	assert.Equal(t, pgn.EndVariation, tokens[3].Kind)
}
