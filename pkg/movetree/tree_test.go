package movetree_test

import (
	"testing"

	"github.com/chessnotation/pgntree/pkg/board"
	"github.com/chessnotation/pgntree/pkg/board/fen"
	"github.com/chessnotation/pgntree/pkg/movetree"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustApply(t *testing.T, b board.Board, m board.Move) board.Board {
	t.Helper()
	next, err := board.Apply(b, m)
	require.NoError(t, err)
	return next
}

func TestRootsAndNext(t *testing.T) {
	tree := movetree.New()
	start, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	after := mustApply(t, start, board.Move{From: board.E2, To: board.E4})
	id := tree.AddNewMove(lang.Optional[movetree.NodeId]{}, "e4", movetree.MoveMeta{}, after)

	roots := tree.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, id, roots[0])

	opts, err := tree.Next(lang.Optional[movetree.NodeId]{})
	require.NoError(t, err)
	assert.True(t, opts.Single)
	assert.Equal(t, id, opts.Node)
}

func TestAddNewMoveIsIdempotent(t *testing.T) {
	tree := movetree.New()
	start, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	after := mustApply(t, start, board.Move{From: board.E2, To: board.E4})

	id1 := tree.AddNewMove(lang.Optional[movetree.NodeId]{}, "e4", movetree.MoveMeta{}, after)
	id2 := tree.AddNewMove(lang.Optional[movetree.NodeId]{}, "e4", movetree.MoveMeta{}, after)

	assert.Equal(t, id1, id2)
	assert.Len(t, tree.Roots(), 1)
}

func TestNextMultipleBranches(t *testing.T) {
	tree := movetree.New()
	start, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	e4 := mustApply(t, start, board.Move{From: board.E2, To: board.E4})
	d4 := mustApply(t, start, board.Move{From: board.D2, To: board.D4})

	tree.AddNewMove(lang.Optional[movetree.NodeId]{}, "e4", movetree.MoveMeta{}, e4)
	tree.AddNewMove(lang.Optional[movetree.NodeId]{}, "d4", movetree.MoveMeta{}, d4)

	opts, err := tree.Next(lang.Optional[movetree.NodeId]{})
	require.NoError(t, err)
	assert.False(t, opts.Single)
	require.Len(t, opts.Branches, 2)
}

func TestPrevOnRootReturnsError(t *testing.T) {
	tree := movetree.New()
	start, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	after := mustApply(t, start, board.Move{From: board.E2, To: board.E4})

	id := tree.AddNewMove(lang.Optional[movetree.NodeId]{}, "e4", movetree.MoveMeta{}, after)

	_, _, err = tree.Prev(id)
	assert.ErrorIs(t, err, movetree.ErrNoPrevMove)
}

func TestPrevAfterSecondMove(t *testing.T) {
	tree := movetree.New()
	start, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	after1 := mustApply(t, start, board.Move{From: board.E2, To: board.E4})
	id1 := tree.AddNewMove(lang.Optional[movetree.NodeId]{}, "e4", movetree.MoveMeta{}, after1)

	after2 := mustApply(t, after1, board.Move{From: board.E7, To: board.E5})
	id2 := tree.AddNewMove(lang.Some(id1), "e5", movetree.MoveMeta{}, after2)

	prev, prevFEN, err := tree.Prev(id2)
	require.NoError(t, err)
	assert.Equal(t, id1, prev)
	assert.Equal(t, tree.FENAt(id1), prevFEN)
}

func TestNextWithNoMovesReturnsError(t *testing.T) {
	tree := movetree.New()
	_, err := tree.Next(lang.Optional[movetree.NodeId]{})
	assert.ErrorIs(t, err, movetree.ErrNoNextMove)
}

func TestAddNewMoveCarriesCheckCheckmateAndComment(t *testing.T) {
	tree := movetree.New()
	start, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	after := mustApply(t, start, board.Move{From: board.E2, To: board.E4})

	meta := movetree.MoveMeta{Check: true, Checkmate: false, Comment: "a classical opening"}
	id := tree.AddNewMove(lang.Optional[movetree.NodeId]{}, "e4+", meta, after)

	node := tree.Node(id)
	assert.True(t, node.Check)
	assert.False(t, node.Checkmate)
	assert.Equal(t, "a classical opening", node.Comment)
}
