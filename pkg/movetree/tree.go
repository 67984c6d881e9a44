// Package movetree implements an arena-backed rooted forest of PGN moves:
// each node is a played ply, children of a node are the alternatives played
// at that point (the main continuation plus any variations), and a node
// with no parent is the start of a game or an alternative first move.
package movetree

import (
	"github.com/chessnotation/pgntree/pkg/board"
)

// NodeId is a stable, opaque handle into a MoveTree's arena. It stays valid
// for the lifetime of the tree: nodes are never moved or reused once
// created, so a NodeId a caller holds onto never dangles or gets silently
// repurposed.
type NodeId int

const noNode NodeId = -1

// Kind identifies what a TreeNode represents. Move carries a played ply and
// is the only kind that participates in navigation (roots, prev, next);
// Result and the variation markers are defined for completeness, but no node
// of those kinds is ever created here — see DESIGN.md for why a variation is
// represented by the tree's branching structure instead of by stored
// StartVariation/EndVariation markers.
type Kind int

const (
	Move Kind = iota
	StartVariation
	EndVariation
	ResultKind
)

// TreeNode is the payload stored at each NodeId.
type TreeNode struct {
	Kind Kind

	FEN      string      // position after the move, valid when Kind == Move
	Notation string      // SAN as written in the source PGN, valid when Kind == Move
	Color    board.Color // color that played the move, valid when Kind == Move

	Check     bool   // the move's SAN carried a "+" suffix, valid when Kind == Move
	Checkmate bool   // the move's SAN carried a "#" suffix, valid when Kind == Move
	Comment   string // the comment immediately following the move, if any, valid when Kind == Move

	Result board.Result // valid when Kind == ResultKind
}

// MoveMeta is the SAN annotation data that travels alongside a move's
// notation into the tree: whether it gave check or checkmate, and the
// comment (if any) that trailed it in the source PGN.
type MoveMeta struct {
	Check     bool
	Checkmate bool
	Comment   string
}

type arenaNode struct {
	data TreeNode

	parent      NodeId
	firstChild  NodeId
	lastChild   NodeId
	prevSibling NodeId
	nextSibling NodeId
}

// MoveTree is the arena itself: a flat slice of nodes linked by NodeId, with
// no node ever reachable from more than one path (it's a forest, not a DAG).
type MoveTree struct {
	nodes []arenaNode
}

// New returns an empty MoveTree.
func New() *MoveTree {
	return &MoveTree{}
}

func (t *MoveTree) newNode(data TreeNode, parent NodeId) NodeId {
	id := NodeId(len(t.nodes))
	t.nodes = append(t.nodes, arenaNode{
		data:        data,
		parent:      parent,
		firstChild:  noNode,
		lastChild:   noNode,
		prevSibling: noNode,
		nextSibling: noNode,
	})

	if parent != noNode {
		p := &t.nodes[parent]
		if p.lastChild == noNode {
			p.firstChild = id
		} else {
			t.nodes[p.lastChild].nextSibling = id
		}
		t.nodes[id].prevSibling = p.lastChild
		p.lastChild = id
	}
	return id
}

// Node returns the payload at id. Panics if id is out of range, the same
// contract a slice index gives: a NodeId this MoveTree did not mint is a
// programming error, not a recoverable one.
func (t *MoveTree) Node(id NodeId) TreeNode {
	return t.nodes[id].data
}

// Parent returns id's parent, if any.
func (t *MoveTree) Parent(id NodeId) (NodeId, bool) {
	p := t.nodes[id].parent
	return p, p != noNode
}

// Children returns id's children in the order they were added: the first
// child is the main continuation, any later ones are variations.
func (t *MoveTree) Children(id NodeId) []NodeId {
	var ret []NodeId
	for c := t.nodes[id].firstChild; c != noNode; c = t.nodes[c].nextSibling {
		ret = append(ret, c)
	}
	return ret
}
