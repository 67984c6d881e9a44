// Package studio wires the board, pgn and movetree packages into a single
// stateful facade: load a game, navigate its tree, and add moves of your
// own, without the caller touching the tree or the board-updater directly.
package studio

import (
	"context"
	"fmt"
	"sync"

	"github.com/chessnotation/pgntree/pkg/board"
	"github.com/chessnotation/pgntree/pkg/board/fen"
	"github.com/chessnotation/pgntree/pkg/movetree"
	"github.com/chessnotation/pgntree/pkg/pgn"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// Options are studio creation options.
type Options struct {
	// StartingPosition is the FEN to build the tree from. Defaults to the
	// standard initial position if empty.
	StartingPosition string
}

// Studio holds one movetree plus a cursor (the "displayed" node) over it.
type Studio struct {
	name, author string
	opts         Options

	tree  *movetree.MoveTree
	start board.Board

	mu        sync.Mutex
	displayed lang.Optional[movetree.NodeId]
}

// Option is a studio creation option.
type Option func(*Studio)

// WithOptions sets the studio's creation options.
func WithOptions(opts Options) Option {
	return func(s *Studio) {
		s.opts = opts
	}
}

// New returns an empty Studio rooted at the configured starting position.
func New(ctx context.Context, name, author string, opts ...Option) (*Studio, error) {
	s := &Studio{name: name, author: author, tree: movetree.New()}
	for _, fn := range opts {
		fn(s)
	}

	pos := s.opts.StartingPosition
	if pos == "" {
		pos = fen.Initial
	}
	start, err := fen.Decode(pos)
	if err != nil {
		return nil, fmt.Errorf("invalid starting position %q: %w", pos, err)
	}
	s.start = start

	logw.Infof(ctx, "Initialized studio: %v, start=%v", s.Name(), pos)
	return s, nil
}

// Name returns the studio name and version.
func (s *Studio) Name() string {
	return fmt.Sprintf("%v %v", s.name, version)
}

// Author returns the author.
func (s *Studio) Author() string {
	return s.author
}

// Load parses movetext and records it into the tree, from the configured
// starting position. Returns the game's result, if the movetext carried one.
func (s *Studio) Load(ctx context.Context, movetext string) (board.Result, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, hasRes, err := pgn.ParseGame(s.tree, s.start, movetext)
	if err != nil {
		return board.NoResult, false, fmt.Errorf("load: %w", err)
	}
	logw.Infof(ctx, "Loaded movetext (%d bytes): result=%v, hasResult=%v", len(movetext), res, hasRes)
	return res, hasRes, nil
}

// Displayed returns the currently displayed node, if the cursor has moved
// past the starting position.
func (s *Studio) Displayed() lang.Optional[movetree.NodeId] {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.displayed
}

// Board returns the position at the displayed node, or the starting
// position if nothing has been displayed yet.
func (s *Studio) Board() (board.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.boardLocked()
}

func (s *Studio) boardLocked() (board.Board, error) {
	id, ok := s.displayed.V()
	if !ok {
		return s.start, nil
	}
	return fen.Decode(s.tree.FENAt(id))
}

// RootNotations returns the notation of every root move, in tree order.
func (s *Studio) RootNotations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	roots := s.tree.Roots()
	ret := make([]string, len(roots))
	for i, id := range roots {
		ret[i] = s.tree.Node(id).Notation
	}
	return ret
}

// Next reports the continuation(s) available from the displayed node.
func (s *Studio) Next(ctx context.Context) (movetree.NextMoveOptions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logw.Debugf(ctx, "Next from %v", s.displayed)
	return s.tree.Next(s.displayed)
}

// Advance moves the cursor to id, one of the nodes Next most recently
// reported.
func (s *Studio) Advance(ctx context.Context, id movetree.NodeId) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logw.Infof(ctx, "Advance to %v", id)
	s.displayed = lang.Some(id)
}

// Back moves the cursor to the predecessor of the displayed node, or to the
// starting position if the cursor was already at a root.
func (s *Studio) Back(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.displayed.V()
	if !ok {
		return movetree.ErrNoPrevMove
	}

	prev, _, err := s.tree.Prev(id)
	if err != nil {
		if err == movetree.ErrNoPrevMove {
			logw.Infof(ctx, "Back to start")
			s.displayed = lang.Optional[movetree.NodeId]{}
			return nil
		}
		return err
	}

	logw.Infof(ctx, "Back to %v", prev)
	s.displayed = lang.Some(prev)
	return nil
}

// AddMove resolves san against the displayed position, applies it, and
// records the result as a (possibly pre-existing) child of the displayed
// node, moving the cursor there.
func (s *Studio) AddMove(ctx context.Context, san string) (movetree.NodeId, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.boardLocked()
	if err != nil {
		return 0, err
	}

	g, err := pgn.Parse(san)
	if err != nil {
		return 0, fmt.Errorf("invalid move %q: %w", san, err)
	}
	if len(g.Expressions) != 1 || g.Expressions[0].Kind != pgn.ExprMove {
		return 0, fmt.Errorf("not a single move: %q", san)
	}
	cm := g.Expressions[0].Move

	mv, err := pgn.Resolve(b, cm)
	if err != nil {
		return 0, fmt.Errorf("add %v: %w", san, err)
	}
	next, err := board.Apply(b, mv)
	if err != nil {
		return 0, fmt.Errorf("add %v: %w", san, err)
	}

	meta := movetree.MoveMeta{Check: cm.Check, Checkmate: cm.Checkmate, Comment: cm.Comment}
	id := s.tree.AddNewMove(s.displayed, cm.Notation, meta, next)
	s.displayed = lang.Some(id)

	logw.Infof(ctx, "Added %v: %v", cm.Notation, id)
	return id, nil
}
