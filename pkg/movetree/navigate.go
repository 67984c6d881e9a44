package movetree

import (
	"errors"
	"strings"

	"github.com/chessnotation/pgntree/pkg/board"
	"github.com/chessnotation/pgntree/pkg/board/fen"
	"github.com/seekerror/stdlib/pkg/lang"
	"golang.org/x/exp/slices"
)

// ErrNoPrevMove is returned by Prev when asked for the predecessor of a root
// node: there is no move before the start of a line.
var ErrNoPrevMove = errors.New("movetree: no previous move")

// ErrNoNextMove is returned by Next when the given node has no children (or,
// for the starting position, when the tree has no roots at all): the line
// simply ends there.
var ErrNoNextMove = errors.New("movetree: no next move")

// Roots returns every node with no parent: one per distinct first move of
// the game (the main line's first move, plus the first move of every
// variation that branches off before any move has been played).
func (t *MoveTree) Roots() []NodeId {
	var ret []NodeId
	for id, n := range t.nodes {
		if n.parent == noNode {
			ret = append(ret, NodeId(id))
		}
	}
	return ret
}

// FENAt returns the FEN of the position reached after playing id's move.
func (t *MoveTree) FENAt(id NodeId) string {
	return t.Node(id).FEN
}

// Prev returns the node before id (its parent) along with the FEN at that
// node. Returns ErrNoPrevMove if id is a root.
func (t *MoveTree) Prev(id NodeId) (NodeId, string, error) {
	parent, ok := t.Parent(id)
	if !ok {
		return 0, "", ErrNoPrevMove
	}
	return parent, t.FENAt(parent), nil
}

// NextMoveOptions is the result of Next: either a single unambiguous
// continuation (with its resulting FEN ready to display), or the set of
// branches a caller must choose between.
type NextMoveOptions struct {
	Single   bool
	Node     NodeId
	FEN      string             // valid when Single
	Branches []BranchOption     // valid when !Single
}

// BranchOption names one of several possible continuations from a node.
type BranchOption struct {
	Node     NodeId
	Notation string
}

// Next returns the continuation(s) from displayed. If displayed has no
// value, Next returns the roots of the tree (the possible first moves).
// Returns ErrNoNextMove if there is nothing to move to.
func (t *MoveTree) Next(displayed lang.Optional[NodeId]) (NextMoveOptions, error) {
	var candidates []NodeId
	if id, ok := displayed.V(); ok {
		candidates = t.Children(id)
	} else {
		candidates = t.Roots()
	}

	switch len(candidates) {
	case 0:
		return NextMoveOptions{}, ErrNoNextMove
	case 1:
		return NextMoveOptions{Single: true, Node: candidates[0], FEN: t.FENAt(candidates[0])}, nil
	default:
		branches := make([]BranchOption, len(candidates))
		for i, c := range candidates {
			branches[i] = BranchOption{Node: c, Notation: t.Node(c).Notation}
		}
		// Children() yields insertion order (main line first); sort for a
		// stable, notation-ordered display instead of exposing that detail.
		slices.SortFunc(branches, func(a, b BranchOption) int {
			return strings.Compare(a.Notation, b.Notation)
		})
		return NextMoveOptions{Branches: branches}, nil
	}
}

// AddNewMove records a move played from displayed (or, if displayed has no
// value, played as a new first move) reaching the given Board. It is
// idempotent: if displayed already has a child (or the tree already has a
// root) with the same notation, that existing node is returned instead of
// creating a duplicate — replaying the same PGN twice, or re-entering a
// transposition by hand, does not fork the tree.
func (t *MoveTree) AddNewMove(displayed lang.Optional[NodeId], notation string, meta MoveMeta, next board.Board) NodeId {
	mover := next.Turn().Opponent() // Apply already flipped the side to move.

	parent := noNode
	var siblings []NodeId
	if id, ok := displayed.V(); ok {
		parent = id
		siblings = t.Children(id)
	} else {
		siblings = t.Roots()
	}

	for _, c := range siblings {
		if t.Node(c).Notation == notation {
			return c
		}
	}

	return t.newNode(TreeNode{
		Kind:      Move,
		FEN:       fen.Encode(next),
		Notation:  notation,
		Color:     mover,
		Check:     meta.Check,
		Checkmate: meta.Checkmate,
		Comment:   meta.Comment,
	}, parent)
}
